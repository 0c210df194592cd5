package editor

import "strings"

// Position is a cursor location. Col is a byte offset into the line.
type Position struct {
	Line int
	Col  int
}

// Buffer holds the document as lines without their newlines.
type Buffer struct {
	lines []string
}

// NewBuffer splits text into lines. "\r\n" line endings become "\n".
func NewBuffer(text string) *Buffer {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return &Buffer{lines: strings.Split(text, "\n")}
}

// Text joins the lines back into a document.
func (b *Buffer) Text() string {
	return strings.Join(b.lines, "\n")
}

// LineCount is never less than one.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns line i, or "" when out of range.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// Clamp keeps p inside the document and on a grapheme boundary.
func (b *Buffer) Clamp(p Position) Position {
	p.Line = max(0, min(p.Line, len(b.lines)-1))
	p.Col = clampCol(b.lines[p.Line], max(0, p.Col))
	return p
}

// Offset converts p into a byte offset into Text().
func (b *Buffer) Offset(p Position) int {
	p = b.Clamp(p)
	off := 0
	for i := range p.Line {
		off += len(b.lines[i]) + 1
	}
	return off + p.Col
}

// PositionAt converts a byte offset into Text() to a position.
func (b *Buffer) PositionAt(offset int) Position {
	for i, l := range b.lines {
		if offset <= len(l) {
			return b.Clamp(Position{Line: i, Col: max(0, offset)})
		}
		offset -= len(l) + 1
	}
	last := len(b.lines) - 1
	return Position{Line: last, Col: len(b.lines[last])}
}

// Insert puts s at p and returns the position just after it.
func (b *Buffer) Insert(p Position, s string) Position {
	p = b.Clamp(p)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	line := b.lines[p.Line]
	head, tail := line[:p.Col], line[p.Col:]

	parts := strings.Split(s, "\n")
	if len(parts) == 1 {
		b.lines[p.Line] = head + s + tail
		return Position{Line: p.Line, Col: p.Col + len(s)}
	}

	inserted := make([]string, len(parts))
	copy(inserted, parts)
	inserted[0] = head + parts[0]
	last := len(parts) - 1
	inserted[last] = parts[last] + tail

	lines := make([]string, 0, len(b.lines)+last)
	lines = append(lines, b.lines[:p.Line]...)
	lines = append(lines, inserted...)
	lines = append(lines, b.lines[p.Line+1:]...)
	b.lines = lines
	return Position{Line: p.Line + last, Col: len(parts[last])}
}

// Delete removes the text between from and to (in either order) and
// returns it.
func (b *Buffer) Delete(from, to Position) string {
	from, to = b.Clamp(from), b.Clamp(to)
	if to.Line < from.Line || (to.Line == from.Line && to.Col < from.Col) {
		from, to = to, from
	}
	start, end := b.Offset(from), b.Offset(to)
	if start == end {
		return ""
	}
	text := b.Text()
	removed := text[start:end]
	b.lines = strings.Split(text[:start]+text[end:], "\n")
	return removed
}

// DeleteLine removes line i with its newline and returns it, newline
// included. The last remaining line is emptied instead.
func (b *Buffer) DeleteLine(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	removed := b.lines[i] + "\n"
	if len(b.lines) == 1 {
		b.lines[0] = ""
		return removed
	}
	b.lines = append(b.lines[:i:i], b.lines[i+1:]...)
	return removed
}

// Indent returns the leading whitespace of line i.
func (b *Buffer) Indent(i int) string {
	line := b.Line(i)
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
