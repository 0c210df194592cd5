package completion

import (
	"sort"
	"sync"
)

// Source records where a vocabulary entry came from.
type Source int

const (
	SourceKeyword Source = iota
	SourceStdlib
	SourceHarvested
)

func (s Source) String() string {
	switch s {
	case SourceKeyword:
		return "keyword"
	case SourceStdlib:
		return "stdlib"
	case SourceHarvested:
		return "harvested"
	default:
		return "unknown"
	}
}

// Vocabulary is a grow-only set of identifiers. Entries are never removed
// for the life of the editor that owns it, even when the identifier
// disappears from the document.
type Vocabulary struct {
	mu      sync.RWMutex
	entries map[string]Source
	order   []string
}

// NewVocabulary creates a vocabulary seeded with s. Duplicate seed entries
// are collapsed; a name listed as both keyword and stdlib keeps the first.
func NewVocabulary(s Seed) *Vocabulary {
	v := &Vocabulary{entries: make(map[string]Source, len(s.Keywords)+len(s.Stdlib))}
	for _, k := range s.Keywords {
		v.Add(k, SourceKeyword)
	}
	for _, n := range s.Stdlib {
		v.Add(n, SourceStdlib)
	}
	return v
}

// Add inserts id unless it is already present or empty. It reports whether
// the vocabulary grew.
func (v *Vocabulary) Add(id string, src Source) bool {
	if id == "" {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.entries[id]; ok {
		return false
	}
	v.entries[id] = src
	v.order = append(v.order, id)
	return true
}

// Contains reports whether id is known.
func (v *Vocabulary) Contains(id string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.entries[id]
	return ok
}

// Source returns where id came from.
func (v *Vocabulary) Source(id string) (Source, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	src, ok := v.entries[id]
	return src, ok
}

// Len returns the number of entries.
func (v *Vocabulary) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.order)
}

// Entries returns all entries in insertion order.
func (v *Vocabulary) Entries() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]string(nil), v.order...)
}

// Sorted returns all entries in lexical order.
func (v *Vocabulary) Sorted() []string {
	out := v.Entries()
	sort.Strings(out)
	return out
}
