// Package auth implements the auth provider: email/password accounts with
// bcrypt hashes, a persisted session, and identity change notifications.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tgienger/fcm/internal/db"
	"github.com/tgienger/fcm/internal/metrics"
	"github.com/tgienger/fcm/internal/models"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// sessionKey is the settings key that remembers the signed-in account
const sessionKey = "session_uid"

// Provider is the local auth provider
type Provider struct {
	db      *db.DB
	metrics metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
	cost    int

	signInBurst    int
	signInInterval time.Duration

	mu       sync.Mutex
	current  *models.Identity
	nextSub  int
	subs     map[int]func(*models.Identity)
	limiters map[string]*rate.Limiter

	// notifyMu orders deliveries so subscribers always end on the latest identity
	notifyMu sync.Mutex
}

// Option configures a Provider
type Option func(*Provider)

// WithMetrics reports requests to rec
func WithMetrics(rec metrics.Recorder) Option {
	return func(p *Provider) { p.metrics = rec }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithBcryptCost sets the bcrypt work factor for new passwords
func WithBcryptCost(cost int) Option {
	return func(p *Provider) { p.cost = cost }
}

// WithSignInLimit allows burst failed sign-ins per email, refilled one per interval
func WithSignInLimit(burst int, interval time.Duration) Option {
	return func(p *Provider) {
		p.signInBurst = burst
		p.signInInterval = interval
	}
}

// Open creates a provider and restores the session persisted by a previous run
func Open(ctx context.Context, database *db.DB, opts ...Option) (*Provider, error) {
	p := &Provider{
		db:             database,
		metrics:        metrics.Nop{},
		logger:         slog.Default(),
		now:            time.Now,
		newID:          uuid.NewString,
		cost:           bcrypt.DefaultCost,
		signInBurst:    5,
		signInInterval: time.Minute,
		subs:           make(map[int]func(*models.Identity)),
		limiters:       make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(p)
	}

	uid, err := database.GetSetting(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if uid != "" {
		acct, err := database.GetAccount(ctx, uid)
		switch {
		case err == nil:
			id := acct.Identity()
			p.current = &id
		case errors.Is(err, models.ErrNotFound):
			p.logger.Info("discarding session for missing account", slog.String("user_id", uid))
			if err := database.SetSetting(ctx, sessionKey, ""); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("restore session: %w", err)
		}
	}

	return p, nil
}

// Subscribe registers fn for identity changes. fn is called once right away
// with the current identity (nil when signed out) and after every change.
func (p *Provider) Subscribe(fn func(*models.Identity)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	p.notifyMu.Lock()
	fn(p.CurrentIdentity())
	p.notifyMu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *Provider) notify() {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()

	p.mu.Lock()
	fns := make([]func(*models.Identity), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(p.CurrentIdentity())
	}
}

// CurrentIdentity returns a copy of the signed-in identity, or nil
func (p *Provider) CurrentIdentity() *models.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	id := *p.current
	return &id
}

func (p *Provider) setCurrent(ctx context.Context, id *models.Identity) error {
	uid := ""
	if id != nil {
		uid = id.ID
	}
	if err := p.db.SetSetting(ctx, sessionKey, uid); err != nil {
		return models.NewAuthError(models.AuthCodeInternal, err.Error())
	}

	p.mu.Lock()
	p.current = id
	p.mu.Unlock()

	p.notify()
	return nil
}

func (p *Provider) limiter(email string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := strings.ToLower(email)
	lim, ok := p.limiters[key]
	if !ok {
		// A fully refilled limiter is the same as a new one.
		now := p.now()
		for k, l := range p.limiters {
			if l.TokensAt(now) >= float64(p.signInBurst) {
				delete(p.limiters, k)
			}
		}
		lim = rate.NewLimiter(rate.Every(p.signInInterval), p.signInBurst)
		p.limiters[key] = lim
	}
	return lim
}

// resetLimiter clears the failure budget of email after a successful sign-in
func (p *Provider) resetLimiter(email string) {
	p.mu.Lock()
	delete(p.limiters, strings.ToLower(email))
	p.mu.Unlock()
}

// trackedLimiters returns the number of emails with a failure budget in use
func (p *Provider) trackedLimiters() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.limiters)
}

// SignIn verifies credentials and makes the account current
func (p *Provider) SignIn(ctx context.Context, email, password string) (models.Identity, error) {
	id, err := p.signIn(ctx, email, password)
	p.metrics.RecordAuth("sign_in", err)
	return id, err
}

func (p *Provider) signIn(ctx context.Context, email, password string) (models.Identity, error) {
	lim := p.limiter(email)
	if lim.TokensAt(p.now()) < 1 {
		return models.Identity{}, models.NewAuthError(models.AuthCodeTooManyRequests,
			"Too many failed sign-in attempts. Try again later.")
	}

	acct, err := p.db.GetAccountByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		lim.AllowN(p.now(), 1)
		return models.Identity{}, badCredentials()
	}
	if err != nil {
		return models.Identity{}, models.NewAuthError(models.AuthCodeInternal, err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		lim.AllowN(p.now(), 1)
		p.logger.Info("sign-in rejected", slog.String("user_id", acct.ID))
		return models.Identity{}, badCredentials()
	}

	p.resetLimiter(email)

	id := acct.Identity()
	if err := p.setCurrent(ctx, &id); err != nil {
		return models.Identity{}, err
	}
	p.logger.Info("signed in", slog.String("user_id", id.ID))
	return id, nil
}

func badCredentials() error {
	return models.NewAuthError(models.AuthCodeBadCredentials, "Invalid email or password")
}

// SignUp creates an account and signs it in
func (p *Provider) SignUp(ctx context.Context, email, password string) (models.Identity, error) {
	id, err := p.signUp(ctx, email, password)
	p.metrics.RecordAuth("sign_up", err)
	return id, err
}

func (p *Provider) signUp(ctx context.Context, email, password string) (models.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return models.Identity{}, models.NewAuthError(models.AuthCodeInvalidInput, err.Error())
	}

	acct := db.Account{
		ID:           p.newID(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    p.now(),
	}
	if err := p.db.CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			return models.Identity{}, models.NewAuthError(models.AuthCodeEmailInUse, "Email is already in use")
		}
		return models.Identity{}, models.NewAuthError(models.AuthCodeInternal, err.Error())
	}

	id := acct.Identity()
	if err := p.setCurrent(ctx, &id); err != nil {
		return models.Identity{}, err
	}
	p.logger.Info("account created", slog.String("user_id", id.ID))
	return id, nil
}

// SignOut ends the current session
func (p *Provider) SignOut(ctx context.Context) error {
	err := p.setCurrent(ctx, nil)
	p.metrics.RecordAuth("sign_out", err)
	return err
}

// UpdateDisplayName renames the account behind id.
// Subscribers are notified when id is the current identity.
func (p *Provider) UpdateDisplayName(ctx context.Context, id models.Identity, name string) error {
	err := p.updateDisplayName(ctx, id, name)
	p.metrics.RecordAuth("update_profile", err)
	return err
}

func (p *Provider) updateDisplayName(ctx context.Context, id models.Identity, name string) error {
	if err := p.db.UpdateDisplayName(ctx, id.ID, name); err != nil {
		return models.NewAuthError(models.AuthCodeInternal, err.Error())
	}

	p.mu.Lock()
	isCurrent := p.current != nil && p.current.ID == id.ID
	if isCurrent {
		updated := *p.current
		updated.DisplayName = name
		p.current = &updated
	}
	p.mu.Unlock()

	if isCurrent {
		p.notify()
	}
	return nil
}

// DeleteAccount removes the account behind id, signing it out if current
func (p *Provider) DeleteAccount(ctx context.Context, id models.Identity) error {
	err := p.deleteAccount(ctx, id)
	p.metrics.RecordAuth("delete_account", err)
	return err
}

func (p *Provider) deleteAccount(ctx context.Context, id models.Identity) error {
	if err := p.db.DeleteAccount(ctx, id.ID); err != nil && !errors.Is(err, models.ErrNotFound) {
		return models.NewAuthError(models.AuthCodeInternal, err.Error())
	}
	p.logger.Info("account deleted", slog.String("user_id", id.ID))

	if cur := p.CurrentIdentity(); cur != nil && cur.ID == id.ID {
		return p.setCurrent(ctx, nil)
	}
	return nil
}
