package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/fcm/internal/cards"
	"github.com/tgienger/fcm/internal/models"
	"github.com/tgienger/fcm/internal/ui/keys"
	"github.com/tgienger/fcm/internal/ui/styles"
)

// header lines above the card viewport, help below it
const (
	homeHeaderHeight = 5
	homeFooterHeight = 4
)

type cardActionMsg struct {
	token  uint64
	action string
	err    error
}

// HomeView lists the signed-in account's cards. Only incomplete cards are
// selectable; the completed section is read-only.
type HomeView struct {
	source  CardSource
	actions CardActions
	styles  *styles.Styles
	keys    keys.KeyMap
	token   uint64
	width   int
	height  int

	identity   models.Identity
	incomplete []models.Card
	completed  []models.Card
	cursor     int
	body       viewport.Model

	confirmingDelete bool
	deleteTarget     models.Card

	status string // last failed action
}

// NewHomeView creates the home screen for identity
func NewHomeView(identity models.Identity, source CardSource, actions CardActions) *HomeView {
	v := &HomeView{
		source:   source,
		actions:  actions,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		token:    newToken(),
		identity: identity,
		body:     viewport.New(styles.MaxWidth, 10),
	}
	v.loadCards()
	return v
}

func (v *HomeView) Init() tea.Cmd {
	return nil
}

// loadCards re-reads the collection. A collection still bound to the
// previous account is treated as empty.
func (v *HomeView) loadCards() {
	if v.source.OwnerID() != v.identity.ID {
		v.incomplete, v.completed = nil, nil
	} else {
		v.incomplete, v.completed = cards.Partition(v.source.Cards())
	}
	if v.cursor >= len(v.incomplete) {
		v.cursor = max(0, len(v.incomplete)-1)
	}
	v.refresh()
}

func (v *HomeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.body.Width = styles.ContentWidth(msg.Width)
		v.body.Height = max(msg.Height-homeHeaderHeight-homeFooterHeight, 3)
		v.refresh()
		return v, nil

	case CardsChangedMsg:
		v.loadCards()
		return v, nil

	case IdentityChangedMsg:
		v.identity = msg.Identity
		return v, nil

	case cardActionMsg:
		if msg.token != v.token {
			return v, nil
		}
		if msg.err != nil {
			v.status = fmt.Sprintf("Could not %s card: %s", msg.action, msg.err.Error())
		} else {
			v.status = ""
		}
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		return v.updateNormal(msg)
	}

	var cmd tea.Cmd
	v.body, cmd = v.body.Update(msg)
	return v, cmd
}

func (v *HomeView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.refresh()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.incomplete)-1 {
			v.cursor++
			v.refresh()
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		return v, Navigate(ScreenCardForm, Params{})

	case key.Matches(msg, v.keys.Profile):
		return v, Navigate(ScreenProfile, Params{})

	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
		if c, ok := v.selected(); ok {
			return v, Navigate(ScreenCardForm, Params{Card: &c})
		}
		return v, nil

	case key.Matches(msg, v.keys.Complete):
		if c, ok := v.selected(); ok {
			return v, v.run("complete", func(ctx context.Context) error {
				return v.actions.Complete(ctx, c.ID)
			})
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if c, ok := v.selected(); ok {
			v.confirmingDelete = true
			v.deleteTarget = c
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.body, cmd = v.body.Update(msg)
	return v, cmd
}

func (v *HomeView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Confirm):
		v.confirmingDelete = false
		id := v.deleteTarget.ID
		return v, v.run("delete", func(ctx context.Context) error {
			return v.actions.Delete(ctx, id)
		})
	case key.Matches(msg, v.keys.Cancel):
		v.confirmingDelete = false
	}
	return v, nil
}

// run issues a card action off the event loop
func (v *HomeView) run(action string, fn func(ctx context.Context) error) tea.Cmd {
	token := v.token
	return func() tea.Msg {
		return cardActionMsg{token: token, action: action, err: fn(context.Background())}
	}
}

func (v *HomeView) selected() (models.Card, bool) {
	if v.cursor < 0 || v.cursor >= len(v.incomplete) {
		return models.Card{}, false
	}
	return v.incomplete[v.cursor], true
}

// refresh re-renders the card sections into the viewport and scrolls the
// selection into view
func (v *HomeView) refresh() {
	s := v.styles
	var b strings.Builder
	selectedLine, selectedHeight := 0, 0

	b.WriteString(s.SectionTitle.Render(fmt.Sprintf("Incomplete (%d)", len(v.incomplete))))
	b.WriteString("\n")
	if len(v.incomplete) == 0 {
		b.WriteString(s.TitleMuted.Render("No incomplete flashcards") + "\n")
	}
	for i, c := range v.incomplete {
		item := v.renderCard(c, i == v.cursor, false)
		if i == v.cursor {
			selectedLine = strings.Count(b.String(), "\n")
			selectedHeight = lipgloss.Height(item)
		}
		b.WriteString(item + "\n")
	}

	b.WriteString("\n")
	b.WriteString(s.SectionTitle.Render(fmt.Sprintf("Completed (%d)", len(v.completed))))
	b.WriteString("\n")
	if len(v.completed) == 0 {
		b.WriteString(s.TitleMuted.Render("No completed flashcards") + "\n")
	}
	for _, c := range v.completed {
		b.WriteString(v.renderCard(c, false, true) + "\n")
	}

	v.body.SetContent(b.String())

	if selectedLine < v.body.YOffset {
		v.body.SetYOffset(selectedLine)
	} else if end := selectedLine + selectedHeight; end > v.body.YOffset+v.body.Height {
		v.body.SetYOffset(end - v.body.Height)
	}
}

func (v *HomeView) renderCard(c models.Card, selected, completed bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	title := s.CardTitle.Render(c.Title)
	if c.DueDate != nil {
		title += "  " + s.DueDate.Render("Due: "+cards.FormatDueDate(c.DueDate))
	}
	lines := []string{title, s.CardTasks.Render(c.Tasks)}
	if completed && c.CompletedAt != nil {
		lines = append(lines, s.TitleMuted.Render("Completed "+c.CompletedAt.Local().Format(cards.DueDateLayout)))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(styles.CardColor(c.Color)).
		PaddingLeft(1).
		Width(width)
	switch {
	case selected:
		box = box.Background(styles.Current.Selection)
	case completed:
		box = box.Foreground(styles.Current.ForegroundDim)
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func greeting(id models.Identity) string {
	name := id.DisplayName
	if name == "" {
		name = "User"
	}
	return "Hello " + name + "!"
}

// View renders the view
func (v *HomeView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	s := v.styles
	header := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Flashcard Master"),
		"",
		s.Greeting.Render(greeting(v.identity)),
		s.TitleMuted.Render("Manage your flashcards and stay organized"),
		"",
	)

	status := ""
	if v.status != "" {
		status = s.Error.Render(v.status)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		v.body.View(),
		s.StatusBar.Render(status),
		v.renderHelp(),
	)
	return styles.CenterView(content, v.width, v.height)
}

func (v *HomeView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(fmt.Sprintf("%s new • %s profile • %s quit",
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("p"),
			v.styles.HelpKey.Render("q"),
		))
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s new • %s edit • %s complete • %s del • %s profile • %s quit",
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("c"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("p"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *HomeView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Flashcard?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q will be permanently deleted.", v.deleteTarget.Title)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonDanger.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
