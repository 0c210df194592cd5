// Package completion holds the autocompletion vocabulary and the index the
// editor queries while typing.
package completion

import "github.com/zjrosen/shelldesk/internal/lexer"

// Seed is the static part of a vocabulary, loaded once when an editor is
// created.
type Seed struct {
	Keywords []string
	Stdlib   []string
}

var stdlib = []string{
	"math.pi", "math.e", "math.sqrt", "math.sin", "math.cos", "math.floor", "math.ceil", "math.random",
	"time.date", "time.year", "time.month", "time.day", "time.sleep",
	"color.red", "color.green", "color.blue", "color.yellow", "color.bold",
	"path.basename", "path.dirname", "path.ext", "path.exists", "path.join",
	"env.get", "env.has", "env.set",
	"re.match", "re.findall", "re.replace", "re.split",
	"json_stringify", "json_parse",
}

// DefaultSeed returns the ShellLite keywords and standard library names.
func DefaultSeed() Seed {
	s := Seed{Keywords: lexer.Keywords(), Stdlib: make([]string, len(stdlib))}
	copy(s.Stdlib, stdlib)
	return s
}

// With returns a copy of s extended with extra keywords and stdlib names,
// as configured under completion.keywords and completion.stdlib.
func (s Seed) With(keywords, stdlibNames []string) Seed {
	out := Seed{
		Keywords: append(append([]string(nil), s.Keywords...), keywords...),
		Stdlib:   append(append([]string(nil), s.Stdlib...), stdlibNames...),
	}
	return out
}
