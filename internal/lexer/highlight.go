package lexer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/shelldesk/internal/ui/styles"
)

// Style returns the lipgloss style for a token kind. Default and Skip
// tokens render as plain text.
func Style(k Kind) lipgloss.Style {
	base := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	switch k {
	case Keyword:
		return base.Foreground(styles.SyntaxKeywordColor).Bold(true)
	case String:
		return base.Foreground(styles.SyntaxStringColor)
	case Comment:
		return base.Foreground(styles.SyntaxCommentColor).Italic(true)
	case Number:
		return base.Foreground(styles.SyntaxNumberColor)
	case Operator:
		return base.Foreground(styles.SyntaxOperatorColor)
	default:
		return base
	}
}

// Highlight returns text with ANSI styling applied per token using the
// default tokenizer. Stripping the escape codes yields text unchanged.
func Highlight(text string) string {
	return Render(Standard().Tokenize(text))
}

// Render joins styled tokens back into a string. Whitespace and Default
// tokens are written as-is so the output keeps the source layout.
func Render(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		switch tok.Kind {
		case Default, Skip:
			b.WriteString(tok.Text)
		default:
			b.WriteString(renderMultiline(Style(tok.Kind), tok.Text))
		}
	}
	return b.String()
}

// renderMultiline styles each line separately so no escape sequence spans
// a newline.
func renderMultiline(style lipgloss.Style, text string) string {
	if !strings.Contains(text, "\n") {
		return style.Render(text)
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = style.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}
