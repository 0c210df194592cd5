package styles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"fits", "main.shl", 10, "main.shl"},
		{"exact", "main.shl", 8, "main.shl"},
		{"ellipsis", "extremely_long.shl", 10, "extreme..."},
		{"tiny width", "abcdef", 2, "ab"},
		{"zero width", "abc", 0, ""},
		{"wide runes", "日本語のファイル", 7, "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, TruncateString(tt.input, tt.width))
		})
	}
}
