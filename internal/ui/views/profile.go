package views

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/fcm/internal/models"
	"github.com/tgienger/fcm/internal/ui/keys"
	"github.com/tgienger/fcm/internal/ui/styles"
)

const deleteFailedAlert = "Failed to delete account. Please try again."

const (
	profileFocusSignOut = iota
	profileFocusDelete
	profileFields
)

type profileLoadedMsg struct {
	token   uint64
	profile *models.Profile
}

type signOutResultMsg struct {
	token uint64
	err   error
}

type deleteAccountResultMsg struct {
	token uint64
	err   error
}

// ProfileView shows the account and offers sign-out and account deletion
type ProfileView struct {
	account AccountManager
	styles  *styles.Styles
	keys    keys.KeyMap
	token   uint64
	width   int
	height  int

	identity models.Identity
	profile  *models.Profile
	focusIdx int

	confirmingDelete bool
	busy             bool
	status           string
	alert            string // blocks input until dismissed
	alertDetail      string
}

// NewProfileView creates the profile screen for identity
func NewProfileView(identity models.Identity, account AccountManager) *ProfileView {
	return &ProfileView{
		account:  account,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		token:    newToken(),
		identity: identity,
	}
}

func (v *ProfileView) Init() tea.Cmd {
	account, token := v.account, v.token
	return func() tea.Msg {
		// A missing profile record only hides the extra rows
		p, _ := account.CurrentProfile(context.Background())
		return profileLoadedMsg{token: token, profile: p}
	}
}

func (v *ProfileView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case IdentityChangedMsg:
		v.identity = msg.Identity
		return v, nil

	case profileLoadedMsg:
		if msg.token == v.token {
			v.profile = msg.profile
		}
		return v, nil

	case signOutResultMsg:
		if msg.token != v.token {
			return v, nil
		}
		v.busy = false
		if msg.err != nil {
			v.status = "Could not sign out: " + msg.err.Error()
		}
		return v, nil

	case deleteAccountResultMsg:
		if msg.token != v.token {
			return v, nil
		}
		v.busy = false
		if msg.err != nil {
			v.alert = deleteFailedAlert
			v.alertDetail = msg.err.Error()
		}
		return v, nil

	case tea.KeyMsg:
		if key.Matches(msg, v.keys.ForceQuit) {
			return v, tea.Quit
		}
		// any key closes the alert
		if v.alert != "" {
			v.alert, v.alertDetail = "", ""
			return v, nil
		}
		if v.busy {
			return v, nil
		}
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *ProfileView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, GoBack

	case key.Matches(msg, v.keys.Tab), key.Matches(msg, v.keys.Down):
		v.focusIdx = (v.focusIdx + 1) % profileFields
		return v, nil

	case key.Matches(msg, v.keys.ShiftTab), key.Matches(msg, v.keys.Up):
		v.focusIdx = (v.focusIdx + profileFields - 1) % profileFields
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx == profileFocusDelete {
			v.confirmingDelete = true
			return v, nil
		}
		return v, v.signOut()
	}
	return v, nil
}

func (v *ProfileView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Confirm):
		v.confirmingDelete = false
		return v, v.deleteAccount()
	case key.Matches(msg, v.keys.Cancel):
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *ProfileView) signOut() tea.Cmd {
	v.busy = true
	v.status = ""
	account, token := v.account, v.token
	return func() tea.Msg {
		return signOutResultMsg{token: token, err: account.SignOut(context.Background())}
	}
}

func (v *ProfileView) deleteAccount() tea.Cmd {
	v.busy = true
	v.status = ""
	account, token := v.account, v.token
	return func() tea.Msg {
		return deleteAccountResultMsg{token: token, err: account.DeleteAccount(context.Background())}
	}
}

// View renders the view
func (v *ProfileView) View() string {
	switch {
	case v.alert != "":
		return v.renderAlert()
	case v.confirmingDelete:
		return v.renderDeleteConfirm()
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	name := v.identity.DisplayName
	if name == "" {
		name = "Not set"
	}
	rows := []string{
		s.Title.Render("Profile Information"),
		"",
		s.Label.Render("Name:    ") + name,
		s.Label.Render("Email:   ") + v.identity.Email,
		s.Label.Render("User ID: ") + v.identity.ID,
	}
	if v.profile != nil && !v.profile.CreatedAt.IsZero() {
		rows = append(rows, s.Label.Render("Joined:  ")+v.profile.CreatedAt.Local().Format("2006-01-02"))
	}
	info := s.Panel.Width(clamp(contentWidth-4, 30, 60)).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	signOutStyle, deleteStyle := s.Button, s.Button
	switch v.focusIdx {
	case profileFocusSignOut:
		signOutStyle = s.ButtonFocused
	case profileFocusDelete:
		deleteStyle = s.ButtonFocused.Foreground(styles.Current.Error).BorderForeground(styles.Current.Error)
	}
	signOutLabel := " Sign Out "
	deleteLabel := " Delete Account "
	if v.busy {
		signOutLabel, deleteLabel = " Please wait... ", " Please wait... "
	}

	status := ""
	if v.status != "" {
		status = s.Error.Render(v.status)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		info,
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			signOutStyle.Render(signOutLabel),
			"  ",
			deleteStyle.Render(deleteLabel),
		),
		status,
		s.TitleMuted.Render("Tab: switch • Enter: select • Esc: back"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProfileView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Account"),
		"",
		lipgloss.NewStyle().Width(clamp(contentWidth-8, 20, 56)).Align(lipgloss.Center).Render(
			"Are you sure you want to delete your account? This action cannot be undone and all your data will be permanently lost.",
		),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonDanger.Render(" Y - Delete "),
			"  ",
			s.Button.Render(" N - Cancel "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProfileView) renderAlert() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Error.Render("Error"),
		"",
		v.alert,
		s.TitleMuted.Render(v.alertDetail),
		"",
		s.TitleMuted.Render("Press any key to close"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Panel.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}
