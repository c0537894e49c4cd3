package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/fcm/internal/account"
	"github.com/tgienger/fcm/internal/ui/keys"
	"github.com/tgienger/fcm/internal/ui/styles"
)

// input order on the sign-up form
const (
	signUpFirstName = iota
	signUpLastName
	signUpEmail
	signUpPassword
	signUpConfirm
	signUpInputs
)

const (
	signUpFocusSubmit = signUpInputs + iota
	signUpFocusSignIn
	signUpFields
)

type signUpResultMsg struct {
	token uint64
	err   error
}

// SignUpView is the registration screen
type SignUpView struct {
	auth   Authenticator
	styles *styles.Styles
	keys   keys.KeyMap
	token  uint64
	width  int
	height int

	inputs   []textinput.Model
	focusIdx int

	loading bool
	err     string
}

// NewSignUpView creates the registration screen
func NewSignUpView(auth Authenticator) *SignUpView {
	placeholders := []string{"First Name", "Last Name", "Email", "Password", "Confirm Password"}
	inputs := make([]textinput.Model, signUpInputs)
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 128
		if i == signUpPassword || i == signUpConfirm {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		inputs[i] = in
	}
	inputs[signUpFirstName].Focus()

	return &SignUpView{
		auth:   auth,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		token:  newToken(),
		inputs: inputs,
	}
}

func (v *SignUpView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *SignUpView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case signUpResultMsg:
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

func (v *SignUpView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		return v, GoBack

	case key.Matches(msg, v.keys.Save):
		return v, v.submit()

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % signUpFields
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.ShiftTab):
		v.focusIdx = (v.focusIdx + signUpFields - 1) % signUpFields
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch {
		case v.focusIdx < signUpConfirm:
			v.focusIdx++
			v.updateFocus()
			return v, nil
		case v.focusIdx == signUpFocusSignIn:
			return v, Navigate(ScreenSignIn, Params{})
		default:
			return v, v.submit()
		}
	}

	if v.focusIdx >= signUpInputs {
		return v, nil
	}
	var cmd tea.Cmd
	v.inputs[v.focusIdx], cmd = v.inputs[v.focusIdx].Update(msg)
	return v, cmd
}

func (v *SignUpView) updateFocus() {
	for i := range v.inputs {
		if i == v.focusIdx {
			v.inputs[i].Focus()
		} else {
			v.inputs[i].Blur()
		}
	}
}

func (v *SignUpView) submit() tea.Cmd {
	in := account.SignUpInput{
		FirstName:       strings.TrimSpace(v.inputs[signUpFirstName].Value()),
		LastName:        strings.TrimSpace(v.inputs[signUpLastName].Value()),
		Email:           strings.TrimSpace(v.inputs[signUpEmail].Value()),
		Password:        v.inputs[signUpPassword].Value(),
		ConfirmPassword: v.inputs[signUpConfirm].Value(),
	}
	v.loading = true
	v.err = ""

	auth, token := v.auth, v.token
	return func() tea.Msg {
		return signUpResultMsg{token: token, err: auth.SignUp(context.Background(), in)}
	}
}

// View renders the view
func (v *SignUpView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	labels := []string{"First Name:", "Last Name:", "Email:", "Password:", "Confirm Password:"}
	rows := []string{
		s.Title.Render("Create Account"),
		s.TitleMuted.Render("Join Flashcard Master Today"),
		"",
	}
	if v.err != "" {
		rows = append(rows, s.Error.Render(v.err))
	}
	for i, in := range v.inputs {
		style := s.Input
		if i == v.focusIdx {
			style = s.InputFocused
		}
		rows = append(rows, labels[i], style.Width(inputWidth).Render(in.View()))
	}

	submitStyle, signInStyle := s.Button, s.TitleMuted
	switch v.focusIdx {
	case signUpFocusSubmit:
		submitStyle = s.ButtonFocused
	case signUpFocusSignIn:
		signInStyle = s.HelpKey
	}
	label := " Sign Up "
	if v.loading {
		label = " Creating account... "
	}

	rows = append(rows,
		"",
		submitStyle.Render(label),
		"",
		"Already have an account? "+signInStyle.Render("Sign In"),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: submit • Esc: back"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
	return styles.CenterView(centered, v.width, v.height)
}
