package completion

import (
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
)

// DefaultThreshold is the number of typed characters before the popup opens.
const DefaultThreshold = 1

// Index answers completion queries. Added names are staged and only become
// visible to Complete after Prepare, so a harvest pass that adds many names
// pays for one rebuild.
type Index struct {
	mu        sync.RWMutex
	threshold int
	staged    []string
	known     map[string]struct{}
	prepared  []string
	lower     []string
	prepares  int
}

// NewIndex creates an empty index that needs at least threshold characters
// of prefix. Values below 1 use DefaultThreshold.
func NewIndex(threshold int) *Index {
	if threshold < 1 {
		threshold = DefaultThreshold
	}
	return &Index{threshold: threshold, known: make(map[string]struct{})}
}

// Add stages name for the next Prepare. Duplicates are ignored.
func (ix *Index) Add(name string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, ok := ix.known[name]; ok || name == "" {
		return
	}
	ix.known[name] = struct{}{}
	ix.staged = append(ix.staged, name)
}

// Prepare merges staged names into the searchable snapshot.
func (ix *Index) Prepare() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.prepares++
	if len(ix.staged) == 0 {
		return
	}
	all := make([]string, 0, len(ix.prepared)+len(ix.staged))
	all = append(append(all, ix.prepared...), ix.staged...)
	sort.Strings(all)
	ix.prepared = all
	ix.staged = nil
	ix.lower = make([]string, len(all))
	for i, s := range all {
		ix.lower[i] = strings.ToLower(s)
	}
}

// Prepares returns how many times Prepare has run.
func (ix *Index) Prepares() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.prepares
}

// Len returns the number of searchable names.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.prepared)
}

// Complete returns up to limit candidates for prefix. Case-insensitive
// prefix matches come first in lexical order, followed by fuzzy matches
// ranked by score. A candidate identical to prefix is omitted. A limit of
// zero or less means no limit.
func (ix *Index) Complete(prefix string, limit int) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len([]rune(prefix)) < ix.threshold || len(ix.prepared) == 0 {
		return nil
	}

	lp := strings.ToLower(prefix)
	seen := make(map[int]struct{})
	var out []string
	full := func() bool { return limit > 0 && len(out) >= limit }

	for i, l := range ix.lower {
		if full() {
			return out
		}
		if strings.HasPrefix(l, lp) && ix.prepared[i] != prefix {
			seen[i] = struct{}{}
			out = append(out, ix.prepared[i])
		}
	}

	for _, m := range fuzzy.Find(prefix, ix.prepared) {
		if full() {
			break
		}
		if _, ok := seen[m.Index]; ok || m.Str == prefix {
			continue
		}
		out = append(out, m.Str)
	}
	return out
}
