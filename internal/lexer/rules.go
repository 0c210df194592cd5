package lexer

import (
	"regexp"
	"strings"
)

// Rule pairs a token kind with the pattern that produces it. Rules are
// tried in slice order and the first alternative that matches at a
// position wins, even if a later rule would match a longer run.
type Rule struct {
	Kind    Kind
	Pattern string
}

var keywords = []string{
	"say", "print", "show", "ask",
	"if", "else", "elif", "unless",
	"while", "until", "for", "forever", "repeat", "times",
	"stop", "skip", "return", "give", "fn", "is",
	"break", "continue", "in",
	"make", "new", "thing", "extends", "has", "can", "to",
	"try", "catch", "always", "throw", "error",
	"import", "use", "as", "share", "exit", "const",
	"true", "false", "yes", "no",
	"when",
}

// Keywords returns the closed set of ShellLite keywords. The slice is a
// copy; callers may modify it.
func Keywords() []string {
	out := make([]string, len(keywords))
	copy(out, keywords)
	return out
}

// DefaultRules returns the ShellLite rule table for the given keyword set,
// in priority order: comment, string, number, keyword, operator,
// whitespace, then a single-character fallback.
func DefaultRules(kw []string) []Rule {
	rules := []Rule{
		{Kind: Comment, Pattern: `#[^\n]*`},
		{Kind: String, Pattern: `"(?:\\.|[^"\\\n])*"|'(?:\\.|[^'\\\n])*'`},
		{Kind: Number, Pattern: `\d+(?:\.\d+)?`},
	}
	if len(kw) > 0 {
		rules = append(rules, Rule{Kind: Keyword, Pattern: KeywordPattern(kw)})
	}
	return append(rules,
		Rule{Kind: Operator, Pattern: `[+\-*/%=<>!&|^~]+`},
		Rule{Kind: Skip, Pattern: `[ \t\r\n]+`},
		Rule{Kind: Default, Pattern: `(?s:.)`},
	)
}

// KeywordPattern builds a word-boundary anchored alternation over kw.
func KeywordPattern(kw []string) string {
	quoted := make([]string, len(kw))
	for i, k := range kw {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return `\b(?:` + strings.Join(quoted, "|") + `)\b`
}
