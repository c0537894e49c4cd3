package account

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/fcm/internal/models"
)

// --- mocks ---

type mockAuth struct {
	current     *models.Identity
	signInFn    func(email, password string) (models.Identity, error)
	signUpCalls int
	names       []string
	deleted     []string
	deleteErr   error
	signedOut   bool
}

func (m *mockAuth) SignIn(_ context.Context, email, password string) (models.Identity, error) {
	if m.signInFn != nil {
		return m.signInFn(email, password)
	}
	m.current = &models.Identity{ID: "u1", Email: email}
	return *m.current, nil
}

func (m *mockAuth) SignUp(_ context.Context, email, _ string) (models.Identity, error) {
	m.signUpCalls++
	m.current = &models.Identity{ID: "new-user", Email: email}
	return *m.current, nil
}

func (m *mockAuth) SignOut(context.Context) error {
	m.signedOut = true
	m.current = nil
	return nil
}

func (m *mockAuth) UpdateDisplayName(_ context.Context, _ models.Identity, name string) error {
	m.names = append(m.names, name)
	return nil
}

func (m *mockAuth) DeleteAccount(_ context.Context, id models.Identity) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id.ID)
	m.current = nil
	return nil
}

func (m *mockAuth) CurrentIdentity() *models.Identity { return m.current }

type mockStore struct {
	mu             sync.Mutex
	cards          map[string]models.Card
	profiles       map[string]models.Profile
	failDelete     map[string]bool
	deleteAttempts map[string]int
	profileDeletes int
	listErr        error
}

func newMockStore(cards ...models.Card) *mockStore {
	s := &mockStore{
		cards:          map[string]models.Card{},
		profiles:       map[string]models.Profile{},
		failDelete:     map[string]bool{},
		deleteAttempts: map[string]int{},
	}
	for _, c := range cards {
		s.cards[c.ID] = c
	}
	return s
}

func (s *mockStore) ListCards(_ context.Context, owner string) ([]models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Card
	for _, c := range s.cards {
		if c.OwnerID == owner {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *mockStore) DeleteCard(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteAttempts[id]++
	if s.failDelete[id] {
		return models.NewStoreError("delete flashcard", errors.New("unavailable"))
	}
	delete(s.cards, id)
	return nil
}

func (s *mockStore) SetProfile(_ context.Context, p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
	return nil
}

func (s *mockStore) GetProfile(_ context.Context, id string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (s *mockStore) DeleteProfile(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profileDeletes++
	delete(s.profiles, id)
	return nil
}

func validSignUp() SignUpInput {
	return SignUpInput{
		Email:           "ada@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		FirstName:       "Ada",
		LastName:        "Lovelace",
	}
}

// --- tests ---

func TestSignIn_EmptyFields(t *testing.T) {
	auth := &mockAuth{signInFn: func(string, string) (models.Identity, error) {
		t.Fatal("provider must not be called")
		return models.Identity{}, nil
	}}
	c := NewController(auth, newMockStore(), nil)

	for _, in := range [][2]string{{"", "pw"}, {"a@b.co", ""}, {"", ""}} {
		err := c.SignIn(context.Background(), in[0], in[1])
		assert.True(t, models.IsAuth(err, models.AuthCodeMissingFields))
		assert.Equal(t, "Please fill in all fields", err.Error())
	}
}

func TestSignIn_ProviderRejection(t *testing.T) {
	rejected := models.NewAuthError(models.AuthCodeBadCredentials, "Invalid email or password")
	auth := &mockAuth{signInFn: func(string, string) (models.Identity, error) {
		return models.Identity{}, rejected
	}}
	c := NewController(auth, newMockStore(), nil)

	err := c.SignIn(context.Background(), "a@b.co", "nope")
	assert.Same(t, rejected, err)
}

func TestValidateSignUp_RuleOrder(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*SignUpInput)
		want   string
	}{
		{"missing first name", func(in *SignUpInput) { in.FirstName = "" }, "All fields are required"},
		{"missing confirm beats mismatch", func(in *SignUpInput) { in.ConfirmPassword = "" }, "All fields are required"},
		{"mismatch", func(in *SignUpInput) { in.ConfirmPassword = "secret2" }, "Passwords do not match"},
		{"mismatch beats length", func(in *SignUpInput) { in.Password, in.ConfirmPassword = "abc", "abd" }, "Passwords do not match"},
		{"short matching password", func(in *SignUpInput) { in.Password, in.ConfirmPassword = "abc12", "abc12" }, "Password must be at least 6 characters"},
		{"short multibyte password", func(in *SignUpInput) { in.Password, in.ConfirmPassword = "héllo", "héllo" }, "Password must be at least 6 characters"},
		{"six multibyte characters", func(in *SignUpInput) { in.Password, in.ConfirmPassword = "héllo!", "héllo!" }, ""},
		{"short beats bad email", func(in *SignUpInput) { in.Password, in.ConfirmPassword, in.Email = "a", "a", "bad" }, "Password must be at least 6 characters"},
		{"no tld", func(in *SignUpInput) { in.Email = "ada@example" }, "Please enter a valid email address"},
		{"spaces", func(in *SignUpInput) { in.Email = "ada lovelace@example.com" }, "Please enter a valid email address"},
		{"valid", func(*SignUpInput) {}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSignUp()
			tt.modify(&in)
			err := ValidateSignUp(in)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, models.IsValidation(err))
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestSignUp_FailsBeforeProviderCall(t *testing.T) {
	auth := &mockAuth{}
	c := NewController(auth, newMockStore(), nil)

	in := validSignUp()
	in.ConfirmPassword = "different"
	err := c.SignUp(context.Background(), in)
	assert.EqualError(t, err, "Passwords do not match")
	assert.Equal(t, 0, auth.signUpCalls)
}

func TestSignUp_SetsDisplayNameAndProfile(t *testing.T) {
	auth := &mockAuth{}
	store := newMockStore()
	c := NewController(auth, store, nil)

	require.NoError(t, c.SignUp(context.Background(), validSignUp()))
	assert.Equal(t, 1, auth.signUpCalls)
	assert.Equal(t, []string{"Ada Lovelace"}, auth.names)

	p, ok := store.profiles["new-user"]
	require.True(t, ok)
	assert.Equal(t, "Ada", p.FirstName)
	assert.Equal(t, "Lovelace", p.LastName)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := c.CurrentProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-user", got.ID)
}

func TestSignOut(t *testing.T) {
	auth := &mockAuth{current: &models.Identity{ID: "u1"}}
	c := NewController(auth, newMockStore(), nil)

	require.NoError(t, c.SignOut(context.Background()))
	assert.True(t, auth.signedOut)
}

func TestDeleteAccount_CascadesInOrder(t *testing.T) {
	auth := &mockAuth{current: &models.Identity{ID: "u1"}}
	store := newMockStore(
		models.Card{ID: "a", OwnerID: "u1"},
		models.Card{ID: "b", OwnerID: "u1"},
		models.Card{ID: "other", OwnerID: "u2"},
	)
	store.profiles["u1"] = models.Profile{ID: "u1"}
	c := NewController(auth, store, nil)

	require.NoError(t, c.DeleteAccount(context.Background()))

	assert.Len(t, store.cards, 1)
	assert.Contains(t, store.cards, "other")
	assert.NotContains(t, store.profiles, "u1")
	assert.Equal(t, []string{"u1"}, auth.deleted)
}

func TestDeleteAccount_PartialFailureStopsBeforeProfileAndIdentity(t *testing.T) {
	auth := &mockAuth{current: &models.Identity{ID: "u1"}}
	store := newMockStore(
		models.Card{ID: "a", OwnerID: "u1"},
		models.Card{ID: "b", OwnerID: "u1"},
		models.Card{ID: "c", OwnerID: "u1"},
	)
	store.profiles["u1"] = models.Profile{ID: "u1"}
	store.failDelete["b"] = true
	c := NewController(auth, store, nil)

	err := c.DeleteAccount(context.Background())
	require.Error(t, err)
	var se *models.StoreError
	assert.ErrorAs(t, err, &se)

	assert.Equal(t, 0, store.profileDeletes, "profile deletion not attempted")
	assert.Empty(t, auth.deleted, "identity deletion not attempted")
	assert.NotContains(t, store.cards, "a", "successful deletions are not rolled back")
	assert.NotContains(t, store.cards, "c")
	assert.Contains(t, store.cards, "b")

	// retry once the store recovers
	store.failDelete["b"] = false
	require.NoError(t, c.DeleteAccount(context.Background()))
	assert.Empty(t, store.cards)
	assert.Equal(t, 1, store.deleteAttempts["a"], "already deleted cards are not listed again")
	assert.Equal(t, []string{"u1"}, auth.deleted)
}

func TestDeleteAccount_ListFailure(t *testing.T) {
	auth := &mockAuth{current: &models.Identity{ID: "u1"}}
	store := newMockStore()
	store.listErr = models.NewStoreError("list flashcards", errors.New("offline"))
	c := NewController(auth, store, nil)

	assert.Error(t, c.DeleteAccount(context.Background()))
	assert.Equal(t, 0, store.profileDeletes)
	assert.Empty(t, auth.deleted)
}

func TestDeleteAccount_IdentityFailureIsRetryable(t *testing.T) {
	auth := &mockAuth{current: &models.Identity{ID: "u1"}, deleteErr: errors.New("requires recent login")}
	store := newMockStore(models.Card{ID: "a", OwnerID: "u1"})
	c := NewController(auth, store, nil)

	require.Error(t, c.DeleteAccount(context.Background()))
	assert.Empty(t, store.cards)
	assert.Equal(t, 1, store.profileDeletes)

	auth.deleteErr = nil
	require.NoError(t, c.DeleteAccount(context.Background()))
	assert.Equal(t, 2, store.profileDeletes)
	assert.Equal(t, []string{"u1"}, auth.deleted)
}

func TestDeleteAccount_RequiresSession(t *testing.T) {
	c := NewController(&mockAuth{}, newMockStore(), nil)
	err := c.DeleteAccount(context.Background())
	assert.True(t, models.IsAuth(err, models.AuthCodeNotSignedIn))
}
