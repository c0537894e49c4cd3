package views

import (
	"context"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/fcm/internal/account"
	"github.com/tgienger/fcm/internal/models"
)

// Screen identifies a routable screen
type Screen int

const (
	ScreenSignIn Screen = iota
	ScreenSignUp
	ScreenHome
	ScreenCardForm
	ScreenProfile
)

func (s Screen) String() string {
	switch s {
	case ScreenSignIn:
		return "SignIn"
	case ScreenSignUp:
		return "SignUp"
	case ScreenHome:
		return "Home"
	case ScreenCardForm:
		return "AddEditFlashcard"
	case ScreenProfile:
		return "Profile"
	default:
		return "Unknown"
	}
}

// Params carries navigation arguments between screens
type Params struct {
	Card *models.Card // card being edited; nil creates a new one
}

// NavigateMsg asks the router to show a screen
type NavigateMsg struct {
	Screen Screen
	Params Params
}

// BackMsg asks the router to return to the previous screen
type BackMsg struct{}

// CardsChangedMsg tells the visible screen to re-read the card collection
type CardsChangedMsg struct{}

// IdentityChangedMsg carries new details for the signed-in account
type IdentityChangedMsg struct {
	Identity models.Identity
}

// Navigate returns a command that shows screen with params
func Navigate(screen Screen, params Params) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Screen: screen, Params: params}
	}
}

// GoBack is a command that returns to the previous screen
func GoBack() tea.Msg {
	return BackMsg{}
}

// Authenticator runs the sign-in and sign-up requests
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, in account.SignUpInput) error
}

// AccountManager runs the profile screen requests
type AccountManager interface {
	SignOut(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	CurrentProfile(ctx context.Context) (*models.Profile, error)
}

// CardSource is the live card collection of the signed-in account.
// Cards returns one whole snapshot.
type CardSource interface {
	OwnerID() string
	Cards() []models.Card
}

// CardActions completes and deletes cards
type CardActions interface {
	Complete(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// CardForm validates drafts and saves them
type CardForm interface {
	PrepareNew() models.Draft
	PrepareEdit(c models.Card) models.Draft
	Validate(d models.Draft) error
	Save(ctx context.Context, d models.Draft, existing *models.Card) (string, error)
}

var tokens atomic.Uint64

// newToken tags a screen instance so replies to an earlier instance are dropped
func newToken() uint64 {
	return tokens.Add(1)
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
