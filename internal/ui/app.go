package ui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/fcm/internal/models"
	"github.com/tgienger/fcm/internal/session"
	"github.com/tgienger/fcm/internal/ui/keys"
	"github.com/tgienger/fcm/internal/ui/styles"
	"github.com/tgienger/fcm/internal/ui/views"
)

// Session is the authentication state the router is gated on
type Session interface {
	Current() (*models.Identity, session.Status)
	Subscribe(fn func(*models.Identity, session.Status)) (unsubscribe func())
}

// CardFeed is the live card collection plus its change signal
type CardFeed interface {
	views.CardSource
	Updates() <-chan struct{}
}

// Deps are the request handlers the screens call into
type Deps struct {
	Auth    views.Authenticator
	Account views.AccountManager
	Form    views.CardForm
	Actions views.CardActions
}

type sessionChangedMsg struct{}

type cardsChangedMsg struct{}

// App routes between screens and feeds them session and card changes
type App struct {
	session Session
	cards   CardFeed
	deps    Deps
	logger  *slog.Logger
	styles  *styles.Styles
	keys    keys.KeyMap

	sessionCh   chan struct{}
	unsubscribe func()

	router   Router
	status   session.Status
	identity *models.Identity

	width  int
	height int
}

// NewApp creates the application. Call Close when the program exits.
func NewApp(sess Session, feed CardFeed, deps Deps, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		session:   sess,
		cards:     feed,
		deps:      deps,
		logger:    logger,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		sessionCh: make(chan struct{}, 1),
	}
	// Callbacks arrive on provider goroutines; only poke the channel.
	a.unsubscribe = sess.Subscribe(func(*models.Identity, session.Status) {
		select {
		case a.sessionCh <- struct{}{}:
		default:
		}
	})
	a.syncSession()
	return a
}

// Close stops listening for session changes
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.waitForSession, a.waitForCards}
	if _, m, ok := a.router.Current(); ok {
		cmds = append(cmds, m.Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) waitForSession() tea.Msg {
	<-a.sessionCh
	return sessionChangedMsg{}
}

func (a *App) waitForCards() tea.Msg {
	<-a.cards.Updates()
	return cardsChangedMsg{}
}

// syncSession reads the session and resets navigation when the account
// changes. A new display name for the same account only refreshes screens.
func (a *App) syncSession() tea.Cmd {
	id, status := a.session.Current()
	prevStatus, prevID := a.status, identityID(a.identity)
	a.status, a.identity = status, id

	if status == prevStatus && identityID(id) == prevID {
		if id != nil {
			return a.forward(views.IdentityChangedMsg{Identity: *id})
		}
		return nil
	}

	a.logger.Info("session changed",
		slog.String("status", status.String()),
		slog.String("user_id", identityID(id)),
	)

	root, ok := Root(status)
	if !ok {
		a.router.Clear()
		return nil
	}
	route := Route{Screen: root}
	m := a.build(route)
	a.router.Reset(route, m)
	return a.show(m)
}

func identityID(id *models.Identity) string {
	if id == nil {
		return ""
	}
	return id.ID
}

// build creates the model for route
func (a *App) build(route Route) tea.Model {
	var identity models.Identity
	if a.identity != nil {
		identity = *a.identity
	}

	switch route.Screen {
	case views.ScreenSignUp:
		return views.NewSignUpView(a.deps.Auth)
	case views.ScreenHome:
		return views.NewHomeView(identity, a.cards, a.deps.Actions)
	case views.ScreenCardForm:
		return views.NewCardFormView(a.deps.Form, route.Params.Card)
	case views.ScreenProfile:
		return views.NewProfileView(identity, a.deps.Account)
	default:
		return views.NewSignInView(a.deps.Auth)
	}
}

// show initializes a newly visible screen with the window size
func (a *App) show(m tea.Model) tea.Cmd {
	width, height := a.width, a.height
	return tea.Batch(
		m.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: width, Height: height}
		},
	)
}

// forward delivers msg to the visible screen
func (a *App) forward(msg tea.Msg) tea.Cmd {
	_, m, ok := a.router.Current()
	if !ok {
		return nil
	}
	m, cmd := m.Update(msg)
	a.router.SetCurrent(m)
	return cmd
}

func (a *App) navigate(msg views.NavigateMsg) tea.Cmd {
	if !Allowed(a.status, msg.Screen) {
		a.logger.Debug("navigation ignored",
			slog.String("screen", msg.Screen.String()),
			slog.String("status", a.status.String()),
		)
		return nil
	}

	if i := a.router.Index(msg.Screen); i >= 0 && msg.Params.Card == nil {
		a.router.PopTo(i)
		return a.revealed()
	}

	route := Route{Screen: msg.Screen, Params: msg.Params}
	m := a.build(route)
	a.router.Push(route, m)
	return a.show(m)
}

// revealed refreshes a screen that was underneath the one just closed
func (a *App) revealed() tea.Cmd {
	return tea.Batch(
		a.forward(tea.WindowSizeMsg{Width: a.width, Height: a.height}),
		a.forward(views.CardsChangedMsg{}),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}

	case sessionChangedMsg:
		return a, tea.Batch(a.syncSession(), a.waitForSession)

	case cardsChangedMsg:
		return a, tea.Batch(a.forward(views.CardsChangedMsg{}), a.waitForCards)

	case views.NavigateMsg:
		return a, a.navigate(msg)

	case views.BackMsg:
		if a.router.Pop() {
			return a, a.revealed()
		}
		return a, nil
	}

	return a, a.forward(msg)
}

func (a *App) View() string {
	if _, m, ok := a.router.Current(); ok {
		return m.View()
	}

	content := a.styles.TitleMuted.Render("Loading...")
	return lipgloss.Place(styles.ContentWidth(a.width), a.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}
