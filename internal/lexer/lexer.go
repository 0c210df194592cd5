package lexer

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Tokenizer compiles an ordered rule table into a single alternation.
// It holds no per-call state and is safe for concurrent use.
type Tokenizer struct {
	re    *regexp.Regexp
	kinds []Kind // kind of rule i
	names []int  // submatch index of rule i's group
}

// New compiles rules in order. A pattern that fails to compile is reported
// with its position in the table.
func New(rules []Rule) (*Tokenizer, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("lexer: no rules")
	}

	parts := make([]string, len(rules))
	for i, r := range rules {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return nil, fmt.Errorf("lexer: rule %d (%s): %w", i, r.Kind, err)
		}
		parts[i] = fmt.Sprintf("(?P<r%d>%s)", i, r.Pattern)
	}

	re, err := regexp.Compile(strings.Join(parts, "|"))
	if err != nil {
		return nil, fmt.Errorf("lexer: compiling rule table: %w", err)
	}

	t := &Tokenizer{re: re, kinds: make([]Kind, len(rules)), names: make([]int, len(rules))}
	for i, r := range rules {
		t.kinds[i] = r.Kind
		t.names[i] = re.SubexpIndex(fmt.Sprintf("r%d", i))
	}
	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(rules []Rule) *Tokenizer {
	t, err := New(rules)
	if err != nil {
		panic(err)
	}
	return t
}

var (
	standardOnce sync.Once
	standardTok  *Tokenizer
)

// Standard returns the shared tokenizer for the built-in ShellLite rules.
func Standard() *Tokenizer {
	standardOnce.Do(func() {
		standardTok = MustNew(DefaultRules(Keywords()))
	})
	return standardTok
}

// Tokenize splits text into tokens covering [0, len(text)) with no gaps or
// overlaps. Bytes no rule claims (only possible with a custom table that
// lacks a fallback) come back as Default tokens.
func (t *Tokenizer) Tokenize(text string) []Token {
	return t.tokenize(text, 0)
}

func (t *Tokenizer) tokenize(text string, base int) []Token {
	if text == "" {
		return nil
	}

	matches := t.re.FindAllStringSubmatchIndex(text, -1)
	tokens := make([]Token, 0, len(matches))
	pos := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start == end {
			continue
		}
		if start > pos {
			tokens = append(tokens, Token{Kind: Default, Text: text[pos:start], Offset: base + pos, Length: start - pos})
		}
		kind := t.kindOf(m)
		if kind == Keyword && inWord(text, start, end) {
			kind = Default
		}
		tokens = append(tokens, Token{Kind: kind, Text: text[start:end], Offset: base + start, Length: end - start})
		pos = end
	}
	if pos < len(text) {
		tokens = append(tokens, Token{Kind: Default, Text: text[pos:], Offset: base + pos, Length: len(text) - pos})
	}
	return tokens
}

// inWord reports whether text[start:end] touches a letter or digit on either
// side. RE2's \b only knows ASCII word characters, so "ésay" would otherwise
// yield the keyword "say".
func inWord(text string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); isWordRune(r) {
			return true
		}
	}
	if end < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); isWordRune(r) {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (t *Tokenizer) kindOf(m []int) Kind {
	for i, g := range t.names {
		if m[2*g] >= 0 {
			return t.kinds[i]
		}
	}
	return Default
}

// TokenizeRange tokenizes the part of doc that covers [start, end), widened
// to whole lines. ShellLite has no multi-line tokens, so a line start is
// always a safe place to resume scanning. Offsets are relative to doc.
func (t *Tokenizer) TokenizeRange(doc string, start, end int) []Token {
	from := SafeStart(doc, start)
	to := SafeEnd(doc, end)
	if from >= to {
		return nil
	}
	return t.tokenize(doc[from:to], from)
}

// SafeStart returns the start of the line containing offset.
func SafeStart(doc string, offset int) int {
	offset = clamp(offset, 0, len(doc))
	return strings.LastIndexByte(doc[:offset], '\n') + 1
}

// SafeEnd returns the offset just past the newline ending the line that
// contains offset, or len(doc) on the last line.
func SafeEnd(doc string, offset int) int {
	offset = clamp(offset, 0, len(doc))
	i := strings.IndexByte(doc[offset:], '\n')
	if i < 0 {
		return len(doc)
	}
	return offset + i + 1
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Styler receives one call per token, in document order.
type Styler interface {
	ApplyStyle(offset, length int, kind Kind)
}

// StylerFunc adapts a function to Styler.
type StylerFunc func(offset, length int, kind Kind)

// ApplyStyle calls f.
func (f StylerFunc) ApplyStyle(offset, length int, kind Kind) {
	f(offset, length, kind)
}

// StyleRange tokenizes the safe region around [start, end) and reports each
// token to s. It returns the number of tokens styled.
func (t *Tokenizer) StyleRange(doc string, start, end int, s Styler) int {
	tokens := t.TokenizeRange(doc, start, end)
	for _, tok := range tokens {
		s.ApplyStyle(tok.Offset, tok.Length, tok.Kind)
	}
	return len(tokens)
}
