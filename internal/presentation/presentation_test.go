package presentation

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/shelldesk/internal/history"
	"github.com/zjrosen/shelldesk/internal/lexer"
)

func TestFromTokens_DropsWhitespaceByDefault(t *testing.T) {
	tokens := lexer.Standard().Tokenize("say 1")

	dtos := FromTokens(tokens, false)
	require.Equal(t, []TokenDTO{
		{Kind: "Keyword", Offset: 0, Length: 3, Text: "say"},
		{Kind: "Number", Offset: 4, Length: 1, Text: "1"},
	}, dtos)

	require.Len(t, FromTokens(tokens, true), 3)
}

func TestFromRun_OutputOnlyWhenAsked(t *testing.T) {
	run := history.Run{
		ID:        "abc",
		Script:    "/w/a.shl",
		StartedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		ExitCode:  2,
		Output:    "hi\n",
	}

	require.Empty(t, FromRun(run, false).Output)
	dto := FromRun(run, true)
	require.Equal(t, "hi\n", dto.Output)
	require.Equal(t, int64(1500), dto.DurationMS)
	require.Len(t, FromRuns([]history.Run{run, run}), 2)
}

func TestFormatter_EncodesIndentedJSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)
	require.NoError(t, f.FormatTokens([]TokenDTO{{Kind: "Keyword", Length: 3, Text: "say"}}))

	require.Contains(t, buf.String(), "\n  {")
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "say", decoded[0]["text"])
}

func TestFormatter_OmitsEmptyError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf).FormatRun(RunDTO{ID: "x"}))
	require.NotContains(t, buf.String(), "error")
	require.NotContains(t, buf.String(), "output")
}
