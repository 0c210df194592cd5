package files

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp classifies a diff line.
type DiffOp int

const (
	DiffEqual DiffOp = iota
	DiffInsert
	DiffDelete
)

// DiffLine is one line of a line-oriented diff.
type DiffLine struct {
	Op   DiffOp
	Text string
}

// Diff compares old and new line by line. Lines are returned without
// their trailing newline.
func Diff(oldText, newText string) []DiffLine {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []DiffLine
	for _, d := range diffs {
		op := DiffEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = DiffInsert
		case diffmatchpatch.DiffDelete:
			op = DiffDelete
		}
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			out = append(out, DiffLine{Op: op, Text: line})
		}
	}
	return out
}

// Changed reports whether a diff contains any insertions or deletions.
func Changed(lines []DiffLine) bool {
	for _, l := range lines {
		if l.Op != DiffEqual {
			return true
		}
	}
	return false
}
