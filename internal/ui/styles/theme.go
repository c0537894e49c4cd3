package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/fcm/internal/models"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	// Base colors
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// UI element colors
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color

	// Card accents, keyed by card color
	Cards    map[models.Color]lipgloss.Color
	CardNone lipgloss.Color
}

// Flashcard is the default color theme
var Flashcard = Theme{
	Name: "Flashcard",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#2196F3"),
	Secondary: lipgloss.Color("#bb9af7"),

	Success: lipgloss.Color("#4CAF50"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f44336"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#2196F3"),
	Selection:   lipgloss.Color("#33467c"),

	Cards: map[models.Color]lipgloss.Color{
		models.ColorBlue:   lipgloss.Color("#2196F3"),
		models.ColorGreen:  lipgloss.Color("#4CAF50"),
		models.ColorRed:    lipgloss.Color("#f44336"),
		models.ColorYellow: lipgloss.Color("#FFEB3B"),
		models.ColorPurple: lipgloss.Color("#9C27B0"),
	},
	CardNone: lipgloss.Color("#ffffff"),
}

// Current holds the active theme
var Current = Flashcard

// CardColor returns the accent for c, or CardNone for colors outside the palette
func CardColor(c models.Color) lipgloss.Color {
	if col, ok := Current.Cards[c]; ok {
		return col
	}
	return Current.CardNone
}

// MaxWidth is the maximum content width for the app (classic terminal width)
const MaxWidth = 80

// ContentWidth returns the actual content width to use (min of terminal width and MaxWidth)
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView wraps content and centers it horizontally if terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	// Header
	Title      lipgloss.Style
	TitleMuted lipgloss.Style
	Greeting   lipgloss.Style

	// Sections
	Panel        lipgloss.Style
	SectionTitle lipgloss.Style

	// Cards
	CardTitle lipgloss.Style
	CardTasks lipgloss.Style
	DueDate   lipgloss.Style

	// Buttons
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonDanger  lipgloss.Style

	// Forms
	Label        lipgloss.Style
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Error        lipgloss.Style

	// Help text
	Help    lipgloss.Style
	HelpKey lipgloss.Style

	// Status bar
	StatusBar lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Greeting: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),

		SectionTitle: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true),

		CardTitle: lipgloss.NewStyle().
			Bold(true),

		CardTasks: lipgloss.NewStyle().
			Foreground(t.Foreground),

		DueDate: lipgloss.NewStyle().
			Foreground(t.Warning),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonDanger: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Error).
			Padding(0, 2).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Error: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),
	}
}
