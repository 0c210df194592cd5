package files

import "sync"

// Tracker hands out load sequence numbers and decides which completions
// are still wanted.
type Tracker struct {
	mu     sync.Mutex
	next   uint64
	latest map[string]uint64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{latest: make(map[string]uint64)}
}

// Begin records a new load of path and returns its request.
func (t *Tracker) Begin(path string) Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.latest[path] = t.next
	return Request{Seq: t.next, Path: path}
}

// Decision says what to do with a finished load.
type Decision int

const (
	// Discard: a newer load of the same path was started.
	Discard Decision = iota
	// Open the file but leave focus where it is.
	OpenInBackground
	// Open the file and focus it; it is the newest request overall.
	OpenAndFocus
)

// Accept decides what to do with the completion of (seq, path). A decided
// path is forgotten so a later Begin starts fresh.
func (t *Tracker) Accept(seq uint64, path string) Decision {
	t.mu.Lock()
	defer t.mu.Unlock()
	if latest, ok := t.latest[path]; !ok || latest != seq {
		return Discard
	}
	delete(t.latest, path)
	if seq == t.next {
		return OpenAndFocus
	}
	return OpenInBackground
}

// Pending reports whether any load is outstanding.
func (t *Tracker) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.latest) > 0
}
