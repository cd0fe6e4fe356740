package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the palette; Styles derives the lipgloss styles from it.
type Theme struct {
	Text      string
	Muted     string
	Accent    string
	Success   string
	Warning   string
	Danger    string
	Selection string
}

// DefaultTheme is a dark palette that reads on both black and bright
// terminal backgrounds.
func DefaultTheme() Theme {
	return Theme{
		Text:      "#f8f8f2",
		Muted:     "#6272a4",
		Accent:    "#8be9fd",
		Success:   "#50fa7b",
		Warning:   "#f1fa8c",
		Danger:    "#ff5555",
		Selection: "#44475a",
	}
}

// Styles is the prebuilt style set handed to the render functions.
type Styles struct {
	Title      lipgloss.Style
	TabActive  lipgloss.Style
	TabIdle    lipgloss.Style
	Text       lipgloss.Style
	Muted      lipgloss.Style
	Accent     lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Danger     lipgloss.Style
	Selected   lipgloss.Style
	Strike     lipgloss.Style
	FooterRule lipgloss.Style
}

func (t Theme) Styles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		TabActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Bold(true).
			Underline(true),
		TabIdle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Selection)).
			Foreground(lipgloss.Color(t.Text)),
		Strike: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Strikethrough(true),
		FooterRule: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
	}
}
