// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1E1E1E", Dark: "#E0E0E0"} // Buffer text
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // Paths, labels
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#757575"} // Gutters, hints

	// Borders and panels
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#333333"}
	AccentPrimaryColor = lipgloss.AdaptiveColor{Light: "#128C86", Dark: "#20B2AA"} // Focus, active tab
	AccentSecondColor  = lipgloss.AdaptiveColor{Light: "#9A49B3", Dark: "#C678DD"} // Directories
	SelectionBgColor   = lipgloss.AdaptiveColor{Light: "#D0D7E2", Dark: "#3E4451"}
	StatusBarBgColor   = lipgloss.AdaptiveColor{Light: "#007ACC", Dark: "#007ACC"}

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#C48A00", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#FF8787"}

	// ShellLite syntax colors (Dracula)
	SyntaxKeywordColor  = lipgloss.AdaptiveColor{Light: "#C2187A", Dark: "#FF79C6"}
	SyntaxStringColor   = lipgloss.AdaptiveColor{Light: "#8A7F00", Dark: "#F1FA8C"}
	SyntaxCommentColor  = lipgloss.AdaptiveColor{Light: "#6272A4", Dark: "#6272A4"}
	SyntaxNumberColor   = lipgloss.AdaptiveColor{Light: "#7046C4", Dark: "#BD93F9"}
	SyntaxOperatorColor = lipgloss.AdaptiveColor{Light: "#C86A00", Dark: "#FFB86C"}

	// Tabs
	TabStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(AccentPrimaryColor).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	// File tree
	TreeDirStyle      = lipgloss.NewStyle().Foreground(AccentSecondColor).Bold(true)
	TreeFileStyle     = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	TreeSelectedStyle = lipgloss.NewStyle().Background(SelectionBgColor)

	// Editor
	GutterStyle       = lipgloss.NewStyle().Foreground(TextMutedColor)
	CursorStyle       = lipgloss.NewStyle().Reverse(true)
	PopupStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(BorderDefaultColor)
	PopupItemStyle    = lipgloss.NewStyle().Foreground(TextPrimaryColor).Padding(0, 1)
	PopupCurrentStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor).Background(SelectionBgColor).Padding(0, 1)

	// Console
	ConsoleStderrStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)
	ConsoleInfoStyle   = lipgloss.NewStyle().Foreground(TextMutedColor).Italic(true)

	// Diff
	DiffInsertStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	DiffDeleteStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(StatusBarBgColor).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true)
)

// ApplyTheme applies custom theme colors from configuration.
// Empty strings are ignored, keeping the default values.
//   - accent: AccentPrimaryColor (focus, active tab)
//   - muted: TextMutedColor + BorderDefaultColor (gutter, hints, borders)
//   - errorColor: StatusErrorColor (stderr, failed saves)
func ApplyTheme(accent, muted, errorColor string) {
	if accent != "" {
		AccentPrimaryColor = lipgloss.AdaptiveColor{Light: accent, Dark: accent}
		ActiveTabStyle = ActiveTabStyle.Foreground(AccentPrimaryColor)
	}
	if muted != "" {
		TextMutedColor = lipgloss.AdaptiveColor{Light: muted, Dark: muted}
		BorderDefaultColor = lipgloss.AdaptiveColor{Light: muted, Dark: muted}
		GutterStyle = GutterStyle.Foreground(TextMutedColor)
		ConsoleInfoStyle = ConsoleInfoStyle.Foreground(TextMutedColor)
	}
	if errorColor != "" {
		StatusErrorColor = lipgloss.AdaptiveColor{Light: errorColor, Dark: errorColor}
		ConsoleStderrStyle = ConsoleStderrStyle.Foreground(StatusErrorColor)
		ErrorStyle = ErrorStyle.Foreground(StatusErrorColor)
	}
}
