package editor

import (
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Columns inside a line are byte offsets that always sit on a grapheme
// cluster boundary. Display positions are terminal cells.

// nextBoundary returns the byte offset after the grapheme starting at col.
func nextBoundary(line string, col int) int {
	if col >= len(line) {
		return len(line)
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(line[col:], -1)
	return col + len(cluster)
}

// prevBoundary returns the start of the grapheme ending at col.
func prevBoundary(line string, col int) int {
	if col <= 0 {
		return 0
	}
	prev, pos, state := 0, 0, -1
	rest := line
	for len(rest) > 0 && pos < col {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		prev = pos
		pos += len(cluster)
	}
	return prev
}

// clampCol snaps col to the nearest grapheme boundary at or before it.
func clampCol(line string, col int) int {
	if col >= len(line) {
		return len(line)
	}
	if col <= 0 {
		return 0
	}
	pos, state := 0, -1
	rest := line
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if pos+len(cluster) > col {
			return pos
		}
		pos += len(cluster)
	}
	return pos
}

// clusterWidth is the display width of one grapheme. A tab is drawn as
// tabWidth spaces.
func clusterWidth(cluster string, tabWidth int) int {
	if cluster == "\t" {
		return tabWidth
	}
	w := runewidth.StringWidth(cluster)
	if w == 0 && cluster != "" {
		return 1
	}
	return w
}

// displayCol is the cell position of byte offset col.
func displayCol(line string, col, tabWidth int) int {
	x, state := 0, -1
	rest := line[:min(col, len(line))]
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		x += clusterWidth(cluster, tabWidth)
	}
	return x
}

// colAtDisplay maps a cell position back to the byte offset of the
// grapheme covering it.
func colAtDisplay(line string, target, tabWidth int) int {
	x, pos, state := 0, 0, -1
	rest := line
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		w := clusterWidth(cluster, tabWidth)
		if x+w > target {
			return pos
		}
		x += w
		pos += len(cluster)
	}
	return pos
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// identStart returns where the identifier ending at col begins. Dotted
// names such as math.sqrt count as one identifier.
func identStart(line string, col int) int {
	start := col
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(line[:start])
		if !isIdentRune(r) {
			break
		}
		start -= size
	}
	return start
}

// identEnd returns where the identifier starting at col ends.
func identEnd(line string, col int) int {
	end := col
	for end < len(line) {
		r, size := utf8.DecodeRuneInString(line[end:])
		if !isIdentRune(r) {
			break
		}
		end += size
	}
	return end
}

// wordLeft moves to the start of the previous word.
func wordLeft(line string, col int) int {
	for col > 0 {
		r, size := utf8.DecodeLastRuneInString(line[:col])
		if isIdentRune(r) {
			break
		}
		col -= size
	}
	return identStart(line, col)
}

// wordRight moves past the end of the next word.
func wordRight(line string, col int) int {
	for col < len(line) {
		r, size := utf8.DecodeRuneInString(line[col:])
		if isIdentRune(r) {
			break
		}
		col += size
	}
	return identEnd(line, col)
}
