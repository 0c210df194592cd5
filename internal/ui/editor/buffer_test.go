package editor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBuffer_InsertMultiline(t *testing.T) {
	b := NewBuffer("ab\ncd")
	end := b.Insert(Position{Line: 0, Col: 1}, "X\nY\nZ")
	require.Equal(t, "aX\nY\nZb\ncd", b.Text())
	require.Equal(t, Position{Line: 2, Col: 1}, end)
}

func TestBuffer_DeleteAcrossLines(t *testing.T) {
	b := NewBuffer("one\ntwo\nthree")
	removed := b.Delete(Position{Line: 2, Col: 2}, Position{Line: 0, Col: 1})
	require.Equal(t, "ne\ntwo\nth", removed)
	require.Equal(t, "oree", b.Text())
}

func TestBuffer_DeleteLine(t *testing.T) {
	b := NewBuffer("a\nb")
	require.Equal(t, "a\n", b.DeleteLine(0))
	require.Equal(t, "b", b.Text())
	require.Equal(t, "b\n", b.DeleteLine(0))
	require.Equal(t, "", b.Text())
	require.Equal(t, 1, b.LineCount())
}

func TestBuffer_NormalizesCRLF(t *testing.T) {
	b := NewBuffer("a\r\nb")
	require.Equal(t, "a\nb", b.Text())
}

func TestBuffer_ClampSnapsToGrapheme(t *testing.T) {
	b := NewBuffer("e\u0301x")
	require.Equal(t, Position{Col: 0}, b.Clamp(Position{Col: 2}))
	require.Equal(t, Position{Col: 3}, b.Clamp(Position{Col: 3}))
	require.Equal(t, Position{Col: 4}, b.Clamp(Position{Line: 5, Col: 99}))
}

func TestBuffer_OffsetRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-z\n]{0,40}`).Draw(t, "text")
		b := NewBuffer(text)
		off := rapid.IntRange(0, len(text)).Draw(t, "offset")
		p := b.PositionAt(off)
		if got := b.Offset(p); got != off {
			t.Fatalf("Offset(PositionAt(%d)) = %d", off, got)
		}
	})
}

func TestBuffer_InsertThenDeleteRestores(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-z \n]{0,30}`).Draw(t, "text")
		ins := rapid.StringMatching(`[A-Z\n]{1,10}`).Draw(t, "insert")
		b := NewBuffer(text)
		at := b.PositionAt(rapid.IntRange(0, len(text)).Draw(t, "at"))

		end := b.Insert(at, ins)
		if removed := b.Delete(at, end); removed != ins {
			t.Fatalf("removed %q, inserted %q", removed, ins)
		}
		if b.Text() != text {
			t.Fatalf("text = %q, want %q", b.Text(), text)
		}
	})
}

func TestGrapheme_Boundaries(t *testing.T) {
	line := "ae\u0301b"
	require.Equal(t, 1, nextBoundary(line, 0))
	require.Equal(t, 4, nextBoundary(line, 1))
	require.Equal(t, 1, prevBoundary(line, 4))
	require.Equal(t, 0, prevBoundary(line, 1))
}

func TestGrapheme_DisplayColumns(t *testing.T) {
	require.Equal(t, 4, displayCol("\tx", 1, 4))
	require.Equal(t, 2, displayCol("日本", 3, 4))
	require.Equal(t, 3, colAtDisplay("日本", 2, 4))
	require.Equal(t, 0, colAtDisplay("日本", 1, 4))
	require.Equal(t, 6, colAtDisplay("日本", 10, 4))
}

func TestIdentifierBounds(t *testing.T) {
	line := "x = math.sq"
	require.Equal(t, 4, identStart(line, len(line)))
	require.Equal(t, len(line), identEnd(line, 4))
	require.Equal(t, 4, wordLeft(line, len(line)))
	require.Equal(t, 1, wordRight(line, 0))
}
