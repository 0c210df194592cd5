// Package lexer implements the ShellLite tokenizer used for syntax
// highlighting. Tokens partition the scanned text: every byte belongs to
// exactly one token, whitespace included.
package lexer

import "fmt"

// Kind classifies a token.
type Kind int

const (
	Default Kind = iota
	Keyword
	String
	Comment
	Number
	Operator
	Skip // whitespace
)

// String returns the display name of the kind.
func (k Kind) String() string {
	switch k {
	case Default:
		return "Default"
	case Keyword:
		return "Keyword"
	case String:
		return "String"
	case Comment:
		return "Comment"
	case Number:
		return "Number"
	case Operator:
		return "Operator"
	case Skip:
		return "Skip"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is one classified span. Offset and Length are in bytes, which is
// what hosts index styled ranges by.
type Token struct {
	Kind   Kind
	Text   string
	Offset int
	Length int
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Offset + t.Length
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d+%d", t.Kind, t.Text, t.Offset, t.Length)
}
