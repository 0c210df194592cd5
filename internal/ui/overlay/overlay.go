// Package overlay draws a foreground block over an already rendered view,
// keeping the styling of both.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position selects how the foreground is placed.
type Position int

const (
	// Center places the block in the middle of the view.
	Center Position = iota
	// Anchor places the block's top-left corner at X, Y. When the block
	// does not fit below, it is drawn ending on the row above Y instead.
	Anchor
)

// Config describes the background and where the block goes.
type Config struct {
	Width    int
	Height   int
	Position Position
	X, Y     int
}

// Place renders fg on top of bg.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, "")
	}

	x, y := origin(cfg, lipgloss.Width(fg), len(fgLines))
	for i, line := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = splice(bgLines[row], line, x)
	}
	return strings.Join(bgLines, "\n")
}

// splice writes fg into bg starting at cell x.
func splice(bg, fg string, x int) string {
	left := ansi.Truncate(bg, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	end := x + ansi.StringWidth(fg)
	var right string
	if end < ansi.StringWidth(bg) {
		right = ansi.TruncateLeft(bg, end, "")
	}
	return left + fg + right
}

func origin(cfg Config, w, h int) (x, y int) {
	switch cfg.Position {
	case Anchor:
		x, y = cfg.X, cfg.Y
		if y+h > cfg.Height && cfg.Y-1-h >= 0 {
			y = cfg.Y - 1 - h
		}
		if x+w > cfg.Width {
			x = cfg.Width - w
		}
	default:
		x = (cfg.Width - w) / 2
		y = (cfg.Height - h) / 2
	}
	return max(x, 0), max(y, 0)
}
