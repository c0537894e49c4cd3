package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/fcm/internal/ui/keys"
	"github.com/tgienger/fcm/internal/ui/styles"
)

const (
	signInFocusEmail = iota
	signInFocusPassword
	signInFocusSubmit
	signInFocusSignUp
	signInFields
)

type signInResultMsg struct {
	token uint64
	err   error
}

// SignInView is the email and password sign-in screen
type SignInView struct {
	auth   Authenticator
	styles *styles.Styles
	keys   keys.KeyMap
	token  uint64
	width  int
	height int

	email    textinput.Model
	password textinput.Model
	focusIdx int

	loading bool
	err     string
}

// NewSignInView creates the sign-in screen
func NewSignInView(auth Authenticator) *SignInView {
	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &SignInView{
		auth:     auth,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		token:    newToken(),
		email:    email,
		password: password,
	}
}

func (v *SignInView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *SignInView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case signInResultMsg:
		if msg.token != v.token {
			return v, nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = msg.err.Error()
		}
		return v, nil

	case tea.KeyMsg:
		if key.Matches(msg, v.keys.ForceQuit) {
			return v, tea.Quit
		}
		if v.loading {
			return v, nil
		}
		return v.updateForm(msg)
	}

	return v, nil
}

func (v *SignInView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Save):
		return v, v.submit()

	case key.Matches(msg, v.keys.Tab), key.Matches(msg, v.keys.Down) && v.focusIdx >= signInFocusSubmit:
		v.focusIdx = (v.focusIdx + 1) % signInFields
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.ShiftTab), key.Matches(msg, v.keys.Up) && v.focusIdx >= signInFocusSubmit:
		v.focusIdx = (v.focusIdx + signInFields - 1) % signInFields
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focusIdx {
		case signInFocusEmail:
			v.focusIdx++
			v.updateFocus()
			return v, nil
		case signInFocusPassword, signInFocusSubmit:
			return v, v.submit()
		case signInFocusSignUp:
			return v, Navigate(ScreenSignUp, Params{})
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case signInFocusEmail:
		v.email, cmd = v.email.Update(msg)
	case signInFocusPassword:
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *SignInView) updateFocus() {
	v.email.Blur()
	v.password.Blur()
	switch v.focusIdx {
	case signInFocusEmail:
		v.email.Focus()
	case signInFocusPassword:
		v.password.Focus()
	}
}

func (v *SignInView) submit() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	v.loading = true
	v.err = ""

	auth, token := v.auth, v.token
	return func() tea.Msg {
		return signInResultMsg{token: token, err: auth.SignIn(context.Background(), email, password)}
	}
}

// View renders the view
func (v *SignInView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	emailStyle, passwordStyle := s.Input, s.Input
	submitStyle, signUpStyle := s.Button, s.TitleMuted
	switch v.focusIdx {
	case signInFocusEmail:
		emailStyle = s.InputFocused
	case signInFocusPassword:
		passwordStyle = s.InputFocused
	case signInFocusSubmit:
		submitStyle = s.ButtonFocused
	case signInFocusSignUp:
		signUpStyle = s.HelpKey
	}

	label := " Sign In "
	if v.loading {
		label = " Signing in... "
	}

	errLine := ""
	if v.err != "" {
		errLine = s.Error.Render(v.err)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Flashcard Master"),
		s.TitleMuted.Render("Sign In to Continue"),
		"",
		errLine,
		"Email:",
		emailStyle.Width(inputWidth).Render(v.email.View()),
		"Password:",
		passwordStyle.Width(inputWidth).Render(v.password.View()),
		"",
		submitStyle.Render(label),
		"",
		"Don't have an account? "+signUpStyle.Render("Sign Up"),
		"",
		s.TitleMuted.Render("Tab: next • Enter: select • Ctrl+C: quit"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
