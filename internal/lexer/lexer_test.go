package lexer

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// requirePartition checks that tokens cover text exactly, in order.
func requirePartition(t require.TestingT, text string, base int, tokens []Token) {
	pos := base
	var joined strings.Builder
	for _, tok := range tokens {
		require.Equal(t, pos, tok.Offset, "gap or overlap before %v", tok)
		require.Positive(t, tok.Length, "empty token %v", tok)
		require.Equal(t, len(tok.Text), tok.Length, "length is not the byte count of %v", tok)
		joined.WriteString(tok.Text)
		pos = tok.End()
	}
	require.Equal(t, base+len(text), pos)
	require.Equal(t, text, joined.String())
}

func kindsOf(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func withoutSkip(tokens []Token) []Token {
	var out []Token
	for _, tok := range tokens {
		if tok.Kind != Skip {
			out = append(out, tok)
		}
	}
	return out
}

func TestTokenize_Empty(t *testing.T) {
	require.Empty(t, Standard().Tokenize(""))
}

func TestTokenize_CommentPreemptsEverything(t *testing.T) {
	tokens := Standard().Tokenize("# say x = 1")
	require.Equal(t, []Token{{Kind: Comment, Text: "# say x = 1", Offset: 0, Length: 11}}, tokens)
}

func TestTokenize_CommentStopsAtNewline(t *testing.T) {
	tokens := Standard().Tokenize("x # note\nsay 1")
	require.Equal(t, []Kind{Default, Skip, Comment, Skip, Keyword, Skip, Number}, kindsOf(tokens))
	require.Equal(t, "# note", tokens[2].Text)
}

func TestTokenize_KeywordBoundary(t *testing.T) {
	for _, tok := range Standard().Tokenize("saying") {
		require.NotEqual(t, Keyword, tok.Kind, "saying must not yield a keyword: %v", tok)
	}

	tokens := Standard().Tokenize("say x")
	require.Equal(t, []Token{
		{Kind: Keyword, Text: "say", Offset: 0, Length: 3},
		{Kind: Skip, Text: " ", Offset: 3, Length: 1},
		{Kind: Default, Text: "x", Offset: 4, Length: 1},
	}, tokens)
}

func TestTokenize_KeywordInsideIdentifier(t *testing.T) {
	for _, input := range []string{"my_if", "index", "fnord", "to2"} {
		for _, tok := range Standard().Tokenize(input) {
			require.NotEqual(t, Keyword, tok.Kind, "%q produced %v", input, tok)
		}
	}
}

func TestTokenize_OperatorGreedy(t *testing.T) {
	tokens := Standard().Tokenize("a == b")
	var ops []Token
	for _, tok := range tokens {
		if tok.Kind == Operator {
			ops = append(ops, tok)
		}
	}
	require.Equal(t, []Token{{Kind: Operator, Text: "==", Offset: 2, Length: 2}}, ops)

	tokens = Standard().Tokenize("x!=y")
	require.Equal(t, []Kind{Default, Operator, Default}, kindsOf(tokens))
	require.Equal(t, "!=", tokens[1].Text)
}

func TestTokenize_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "double quoted string",
			input: `"hi # there"`,
			want:  []Token{{Kind: String, Text: `"hi # there"`, Offset: 0, Length: 12}},
		},
		{
			name:  "single quoted string",
			input: `'a'`,
			want:  []Token{{Kind: String, Text: `'a'`, Offset: 0, Length: 3}},
		},
		{
			name:  "escaped quote",
			input: `"a\"b"`,
			want:  []Token{{Kind: String, Text: `"a\"b"`, Offset: 0, Length: 6}},
		},
		{
			name:  "decimal number",
			input: "3.25",
			want:  []Token{{Kind: Number, Text: "3.25", Offset: 0, Length: 4}},
		},
		{
			name:  "trailing dot is not part of the number",
			input: "3.",
			want: []Token{
				{Kind: Number, Text: "3", Offset: 0, Length: 1},
				{Kind: Default, Text: ".", Offset: 1, Length: 1},
			},
		},
		{
			name:  "whitespace run",
			input: " \t\r\n ",
			want:  []Token{{Kind: Skip, Text: " \t\r\n ", Offset: 0, Length: 5}},
		},
		{
			name:  "when is a keyword",
			input: "when",
			want:  []Token{{Kind: Keyword, Text: "when", Offset: 0, Length: 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Standard().Tokenize(tt.input))
		})
	}
}

func TestTokenize_UnterminatedStringFallsBack(t *testing.T) {
	tokens := Standard().Tokenize(`say "oops`)
	requirePartition(t, `say "oops`, 0, tokens)
	for _, tok := range tokens {
		require.NotEqual(t, String, tok.Kind)
	}
	require.Equal(t, Default, tokens[2].Kind)
	require.Equal(t, `"`, tokens[2].Text)
}

func TestTokenize_StringDoesNotCrossLines(t *testing.T) {
	tokens := Standard().Tokenize("\"a\nb\"")
	for _, tok := range tokens {
		require.NotEqual(t, String, tok.Kind)
	}
}

func TestTokenize_ByteLengths(t *testing.T) {
	input := `say "héllo" # ünïcode`
	tokens := Standard().Tokenize(input)
	requirePartition(t, input, 0, tokens)

	require.Equal(t, String, tokens[2].Kind)
	require.Equal(t, 4, tokens[2].Offset)
	require.Equal(t, 8, tokens[2].Length)

	last := tokens[len(tokens)-1]
	require.Equal(t, Comment, last.Kind)
	require.Equal(t, 13, last.Offset)
	require.Equal(t, len("# ünïcode"), last.Length)
}

func TestTokenize_MultiByteFallbackIsOneToken(t *testing.T) {
	tokens := Standard().Tokenize("é")
	require.Equal(t, []Token{{Kind: Default, Text: "é", Offset: 0, Length: 2}}, tokens)
}

func TestTokenize_KeywordInsideUnicodeWord(t *testing.T) {
	for _, input := range []string{"ésay", "sayé", "日say"} {
		tokens := Standard().Tokenize(input)
		requirePartition(t, input, 0, tokens)
		for _, tok := range tokens {
			require.NotEqual(t, Keyword, tok.Kind, "input %q token %s", input, tok)
		}
	}

	tokens := withoutSkip(Standard().Tokenize("é say"))
	require.Equal(t, Keyword, tokens[1].Kind)
}

func TestTokenize_InvalidUTF8(t *testing.T) {
	input := "x\xff\xfey"
	tokens := Standard().Tokenize(input)
	requirePartition(t, input, 0, tokens)
	require.Len(t, tokens, 4)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New([]Rule{{Kind: Number, Pattern: `\d+`}, {Kind: String, Pattern: `"(`}})
	require.ErrorContains(t, err, "rule 1 (String)")

	require.Panics(t, func() { MustNew([]Rule{{Kind: Default, Pattern: `[`}}) })
}

func TestNew_RuleOrderIsPriority(t *testing.T) {
	tok := MustNew([]Rule{
		{Kind: Operator, Pattern: `[=]+`},
		{Kind: Number, Pattern: `\d`},
		{Kind: Number, Pattern: `\d+`},
	})
	tokens := tok.Tokenize("123")
	require.Len(t, tokens, 3, "first listed rule wins even when a later one is longer")
}

func TestNew_GapsBecomeDefault(t *testing.T) {
	tok := MustNew([]Rule{{Kind: Number, Pattern: `\d+`}})
	tokens := tok.Tokenize("ab12cd")
	require.Equal(t, []Token{
		{Kind: Default, Text: "ab", Offset: 0, Length: 2},
		{Kind: Number, Text: "12", Offset: 2, Length: 2},
		{Kind: Default, Text: "cd", Offset: 4, Length: 2},
	}, tokens)
}

func TestNew_CustomKeywords(t *testing.T) {
	tok := MustNew(DefaultRules([]string{"emit"}))
	require.Equal(t, Keyword, tok.Tokenize("emit")[0].Kind)
	require.NotEqual(t, Keyword, tok.Tokenize("say")[0].Kind)

	noKw := MustNew(DefaultRules(nil))
	require.Equal(t, Default, noKw.Tokenize("say")[0].Kind)
}

func TestKeywords_ReturnsCopy(t *testing.T) {
	kw := Keywords()
	kw[0] = "mutated"
	require.Equal(t, "say", Keywords()[0])
	require.Contains(t, Keywords(), "when")
	require.Contains(t, Keywords(), "yes")
}

func TestSafeBoundaries(t *testing.T) {
	doc := "say 1\nx = 2\nfn f"
	tests := []struct {
		offset     int
		start, end int
	}{
		{0, 0, 6},
		{3, 0, 6},
		{5, 0, 6}, // on the newline itself
		{6, 6, 12},
		{8, 6, 12},
		{12, 12, 16},
		{16, 12, 16},
		{-4, 0, 6},
		{99, 12, 16},
	}
	for _, tt := range tests {
		require.Equal(t, tt.start, SafeStart(doc, tt.offset), "SafeStart(%d)", tt.offset)
		require.Equal(t, tt.end, SafeEnd(doc, tt.offset), "SafeEnd(%d)", tt.offset)
	}
}

func TestTokenizeRange_WidensToLines(t *testing.T) {
	doc := "say 1\nx = \"two\"\n# three"
	tokens := Standard().TokenizeRange(doc, 9, 10)

	requirePartition(t, doc[6:16], 6, tokens)
	require.Equal(t, []Kind{Default, Skip, Operator, Skip, String, Skip}, kindsOf(tokens))
	require.Equal(t, 10, tokens[4].Offset)
}

func TestTokenizeRange_MidStringEditRescansWholeString(t *testing.T) {
	doc := `say "hello world"`
	tokens := Standard().TokenizeRange(doc, 10, 11)
	require.Equal(t, String, tokens[2].Kind)
	require.Equal(t, 4, tokens[2].Offset)
}

func TestTokenizeRange_Empty(t *testing.T) {
	require.Empty(t, Standard().TokenizeRange("", 0, 0))
	require.Empty(t, Standard().TokenizeRange("a\n", 2, 2))
}

func TestStyleRange_CallsStylerPerToken(t *testing.T) {
	type call struct {
		offset, length int
		kind           Kind
	}
	var calls []call
	doc := "fn greet\nsay 1"
	n := Standard().StyleRange(doc, 10, 12, StylerFunc(func(offset, length int, kind Kind) {
		calls = append(calls, call{offset, length, kind})
	}))

	require.Equal(t, 3, n)
	require.Equal(t, []call{{9, 3, Keyword}, {12, 1, Skip}, {13, 1, Number}}, calls)
}

func TestHighlight_PreservesText(t *testing.T) {
	input := "say \"hi\"\t# comment\nx = 1.5"
	require.Equal(t, input, ansi.Strip(Highlight(input)))
	require.Empty(t, Highlight(""))
}

func TestProperty_CoveragePartition(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := string(rapid.SliceOf(rapid.Byte()).Draw(t, "bytes"))
		requirePartition(t, input, 0, Standard().Tokenize(input))
	})
}

var fragments = []string{
	"say", "saying", "fn", "to", "when", " ", "\t", "\n", "\r\n", "x", "_y2",
	"=", "==", "!=", "+", "\"str\"", "'s'", "\"open", "# c", "12", "3.5",
	"é", "日本", ".", "(", ")",
}

func TestProperty_RangeMatchesFullScan(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		parts := rapid.SliceOf(rapid.SampledFrom(fragments)).Draw(t, "parts")
		doc := strings.Join(parts, "")
		start := rapid.IntRange(0, len(doc)).Draw(t, "start")
		end := rapid.IntRange(start, len(doc)).Draw(t, "end")

		from, to := SafeStart(doc, start), SafeEnd(doc, end)
		ranged := Standard().TokenizeRange(doc, start, end)
		if from < to {
			requirePartition(t, doc[from:to], from, ranged)
		}

		var want []Token
		for _, tok := range withoutSkip(Standard().Tokenize(doc)) {
			if tok.Offset >= from && tok.End() <= to {
				want = append(want, tok)
			}
		}
		require.Equal(t, want, withoutSkip(ranged))
	})
}
