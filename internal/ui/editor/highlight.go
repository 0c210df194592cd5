package editor

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/shelldesk/internal/cachemanager"
	"github.com/zjrosen/shelldesk/internal/lexer"
	"github.com/zjrosen/shelldesk/internal/ui/styles"
)

// highlightTTL keeps a rendered line while it stays on screen.
const highlightTTL = 5 * time.Minute

// Highlighter renders lines through the tokenizer, caching by line text.
// One Highlighter is shared by every open editor.
type Highlighter struct {
	tok   *lexer.Tokenizer
	cache *cachemanager.ReadThroughCache[string, string, string]
}

// NewHighlighter caches rendered lines in cache. A nil cache disables
// caching.
func NewHighlighter(tok *lexer.Tokenizer, cache cachemanager.CacheManager[string, string]) *Highlighter {
	h := &Highlighter{tok: tok}
	render := func(_ context.Context, line string) (string, error) {
		return lexer.Render(tok.Tokenize(line)), nil
	}
	if cache == nil {
		h.cache = cachemanager.NewReadThroughCache[string, string, string](nil, render, true)
	} else {
		h.cache = cachemanager.NewReadThroughCache(cache, render, false)
	}
	return h
}

// DefaultHighlighter uses the built-in rules and an in-memory cache.
func DefaultHighlighter() *Highlighter {
	return NewHighlighter(lexer.Standard(), cachemanager.NewInMemoryCacheManager[string, string](
		"highlight", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval))
}

// Line returns line with syntax styling.
func (h *Highlighter) Line(ctx context.Context, line string) string {
	if line == "" {
		return ""
	}
	out, _ := h.cache.Get(ctx, line, line, highlightTTL)
	return out
}

// Flush drops every cached line, e.g. after a theme change.
func (h *Highlighter) Flush(ctx context.Context) {
	if c := h.cache.Cache(); c != nil {
		_ = c.Flush(ctx)
	}
}

// LineWithCursor renders line with the grapheme at col drawn as the cursor.
// A cursor past the end is drawn on a trailing space. The cursor line is
// not cached.
func (h *Highlighter) LineWithCursor(line string, col, tabWidth int) string {
	var b strings.Builder
	cursorDone := false
	for _, tok := range h.tok.Tokenize(line) {
		style := lexer.Style(tok.Kind)
		if cursorDone || col < tok.Offset || col >= tok.End() {
			b.WriteString(renderToken(style, tok))
			continue
		}
		rel := col - tok.Offset
		end := nextBoundary(tok.Text, rel)
		if before := tok.Text[:rel]; before != "" {
			b.WriteString(renderText(style, tok.Kind, before))
		}
		cell := tok.Text[rel:end]
		if cell == "\t" {
			cell = strings.Repeat(" ", tabWidth)
		}
		b.WriteString(styles.CursorStyle.Render(cell))
		if after := tok.Text[end:]; after != "" {
			b.WriteString(renderText(style, tok.Kind, after))
		}
		cursorDone = true
	}
	if !cursorDone {
		b.WriteString(styles.CursorStyle.Render(" "))
	}
	return b.String()
}

func renderToken(style lipgloss.Style, tok lexer.Token) string {
	return renderText(style, tok.Kind, tok.Text)
}

func renderText(style lipgloss.Style, kind lexer.Kind, text string) string {
	if kind == lexer.Default || kind == lexer.Skip {
		return text
	}
	return style.Render(text)
}
