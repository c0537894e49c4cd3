package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/fcm/internal/cards"
	"github.com/tgienger/fcm/internal/models"
	"github.com/tgienger/fcm/internal/ui/keys"
	"github.com/tgienger/fcm/internal/ui/styles"
)

const (
	formFocusTitle = iota
	formFocusTasks
	formFocusColor
	formFocusDue
	formFocusSave
	formFields
)

type cardSavedMsg struct {
	token uint64
	err   error
}

// CardFormView adds a new card or edits an existing one
type CardFormView struct {
	form     CardForm
	existing *models.Card
	styles   *styles.Styles
	keys     keys.KeyMap
	token    uint64
	width    int
	height   int

	title    textinput.Model
	tasks    textarea.Model
	due      textinput.Model
	colorIdx int
	focusIdx int

	saving bool
	err    string
}

// NewCardFormView creates the form. A nil existing card creates a new one.
func NewCardFormView(form CardForm, existing *models.Card) *CardFormView {
	var draft models.Draft
	if existing != nil {
		cp := *existing
		existing = &cp
		draft = form.PrepareEdit(cp)
	} else {
		draft = form.PrepareNew()
	}

	title := textinput.New()
	title.Placeholder = "Enter flashcard title"
	title.CharLimit = 200
	title.SetValue(draft.Title)
	title.Focus()

	tasks := textarea.New()
	tasks.Placeholder = "Enter tasks or description"
	tasks.CharLimit = 5000
	tasks.SetWidth(50)
	tasks.SetHeight(5)
	tasks.ShowLineNumbers = false
	tasks.SetValue(draft.Tasks)

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = len(cards.DueDateLayout)
	due.SetValue(cards.FormatDueDate(draft.DueDate))

	colorIdx := 0
	for i, c := range models.Colors {
		if c == draft.Color {
			colorIdx = i
		}
	}

	return &CardFormView{
		form:     form,
		existing: existing,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		token:    newToken(),
		title:    title,
		tasks:    tasks,
		due:      due,
		colorIdx: colorIdx,
	}
}

func (v *CardFormView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *CardFormView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.tasks.SetWidth(clamp(contentWidth-10, 20, 50))
		return v, nil

	case cardSavedMsg:
		if msg.token != v.token {
			return v, nil
		}
		v.saving = false
		if msg.err != nil {
			v.err = msg.err.Error()
			return v, nil
		}
		return v, GoBack

	case tea.KeyMsg:
		if key.Matches(msg, v.keys.ForceQuit) {
			return v, tea.Quit
		}
		if v.saving {
			return v, nil
		}
		return v.updateEditing(msg)
	}

	return v, nil
}

func (v *CardFormView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		return v, GoBack

	case key.Matches(msg, v.keys.Save):
		return v, v.save()

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % formFields
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.ShiftTab):
		v.focusIdx = (v.focusIdx + formFields - 1) % formFields
		v.updateFocus()
		return v, nil

	case v.focusIdx == formFocusColor && key.Matches(msg, v.keys.Left):
		v.colorIdx = (v.colorIdx + len(models.Colors) - 1) % len(models.Colors)
		return v, nil

	case v.focusIdx == formFocusColor && key.Matches(msg, v.keys.Right):
		v.colorIdx = (v.colorIdx + 1) % len(models.Colors)
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focusIdx {
		case formFocusTitle, formFocusColor, formFocusDue:
			v.focusIdx++
			v.updateFocus()
			return v, nil
		case formFocusSave:
			return v, v.save()
		}
		// enter inserts a newline in tasks
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case formFocusTitle:
		v.title, cmd = v.title.Update(msg)
	case formFocusTasks:
		v.tasks, cmd = v.tasks.Update(msg)
	case formFocusDue:
		v.due, cmd = v.due.Update(msg)
	}
	return v, cmd
}

func (v *CardFormView) updateFocus() {
	v.title.Blur()
	v.tasks.Blur()
	v.due.Blur()

	switch v.focusIdx {
	case formFocusTitle:
		v.title.Focus()
	case formFocusTasks:
		v.tasks.Focus()
	case formFocusDue:
		v.due.Focus()
	}
}

// draft collects the current field values
func (v *CardFormView) draft() (models.Draft, error) {
	due, err := cards.ParseDueDate(v.due.Value())
	if err != nil {
		return models.Draft{}, err
	}
	return models.Draft{
		Title:   v.title.Value(),
		Tasks:   v.tasks.Value(),
		Color:   models.Colors[v.colorIdx],
		DueDate: due,
	}, nil
}

func (v *CardFormView) save() tea.Cmd {
	d, err := v.draft()
	if err == nil {
		err = v.form.Validate(d)
	}
	if err != nil {
		v.err = err.Error()
		return nil
	}

	v.saving = true
	v.err = ""
	form, existing, token := v.form, v.existing, v.token
	return func() tea.Msg {
		_, err := form.Save(context.Background(), d, existing)
		return cardSavedMsg{token: token, err: err}
	}
}

// View renders the view
func (v *CardFormView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	formTitle := "Add Flashcard"
	saveLabel := " Create Flashcard "
	if v.existing != nil {
		formTitle = "Edit Flashcard"
		saveLabel = " Update Flashcard "
	}
	if v.saving {
		saveLabel = " Saving... "
	}

	titleStyle, tasksStyle, colorStyle, dueStyle := s.Input, s.Input, s.Input, s.Input
	saveStyle := s.Button
	switch v.focusIdx {
	case formFocusTitle:
		titleStyle = s.InputFocused
	case formFocusTasks:
		tasksStyle = s.InputFocused
	case formFocusColor:
		colorStyle = s.InputFocused
	case formFocusDue:
		dueStyle = s.InputFocused
	case formFocusSave:
		saveStyle = s.ButtonFocused
	}

	rows := []string{s.Title.Render(formTitle), ""}
	if v.err != "" {
		rows = append(rows, s.Error.Render(v.err), "")
	}
	rows = append(rows,
		"Title:",
		titleStyle.Width(inputWidth).Render(v.title.View()),
		"Tasks:",
		tasksStyle.Width(inputWidth).Render(v.tasks.View()),
		"Color:",
		colorStyle.Width(inputWidth).Render(v.renderColors()),
		"Due Date:",
		dueStyle.Width(inputWidth).Render(v.due.View()),
		s.TitleMuted.Render("Optional: Set a due date for your flashcard"),
		"",
		saveStyle.Render(saveLabel),
		"",
		s.TitleMuted.Render("Tab: next • ←/→: color • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *CardFormView) renderColors() string {
	opts := make([]string, len(models.Colors))
	for i, c := range models.Colors {
		mark := "○"
		if i == v.colorIdx {
			mark = "●"
		}
		swatch := lipgloss.NewStyle().Foreground(styles.CardColor(c)).Render(mark)
		opts[i] = swatch + " " + colorLabel(c)
	}
	return strings.Join(opts, "  ")
}

func colorLabel(c models.Color) string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
