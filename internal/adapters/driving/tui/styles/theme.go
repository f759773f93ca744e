// Package styles provides the colour palette and lipgloss styles for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette the styles are built from.
type Theme struct {
	Accent  lipgloss.Color
	Link    lipgloss.Color
	Text    lipgloss.Color
	Dim     lipgloss.Color
	Panel   lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Border  lipgloss.Color
}

// DefaultTheme returns the default palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#E0A458"),
		Link:    lipgloss.Color("#7FB7BE"),
		Text:    lipgloss.Color("#E6E1CF"),
		Dim:     lipgloss.Color("#727169"),
		Panel:   lipgloss.Color("#1F1F28"),
		Warning: lipgloss.Color("#DCA561"),
		Error:   lipgloss.Color("#E46876"),
		Border:  lipgloss.Color("#54546D"),
	}
}

// Styles contains the pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Score      lipgloss.Style
	Key        lipgloss.Style
	Error      lipgloss.Style
	Warning    lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
	Border     lipgloss.Style
}

// NewStyles builds styles from a theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme:    theme,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Link),
		Normal:   lipgloss.NewStyle().Foreground(theme.Text),
		Muted:    lipgloss.NewStyle().Foreground(theme.Dim),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Panel).
			Background(theme.Accent),
		Score:   lipgloss.NewStyle().Foreground(theme.Link),
		Key:     lipgloss.NewStyle().Italic(true).Foreground(theme.Dim),
		Error:   lipgloss.NewStyle().Foreground(theme.Error),
		Warning: lipgloss.NewStyle().Foreground(theme.Warning),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Dim).
			Background(theme.Panel).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Foreground(theme.Dim),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
