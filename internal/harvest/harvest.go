// Package harvest discovers identifiers declared in a ShellLite document so
// the editor can offer them for completion. The scan is purely syntactic and
// runs over raw text, so names that appear inside strings or comments are
// picked up too.
package harvest

import (
	"context"
	"regexp"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/shelldesk/internal/completion"
	"github.com/zjrosen/shelldesk/internal/log"
	"github.com/zjrosen/shelldesk/internal/tracing"
)

var (
	// Both "to" and "fn" introduce a callable.
	declRe   = regexp.MustCompile(`\b(?:to|fn)\s+([a-zA-Z_][a-zA-Z0-9_]*)`)
	assignRe = regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_]*)\s*=`)
)

// Harvest returns identifiers declared or assigned in text that known does
// not already report, deduplicated and in first-seen order. Declarations
// are listed before assignments. A nil known treats everything as new.
func Harvest(text string, known func(string) bool) []string {
	seen := make(map[string]struct{})
	var out []string
	collect := func(re *regexp.Regexp) {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			id := m[1]
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if known != nil && known(id) {
				continue
			}
			out = append(out, id)
		}
	}
	collect(declRe)
	collect(assignRe)
	return out
}

// Harvester merges harvested names into a vocabulary and a completion index.
type Harvester struct {
	vocab  *completion.Vocabulary
	index  *completion.Index
	tracer trace.Tracer
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithTracer overrides the tracer used for scan spans.
func WithTracer(t trace.Tracer) Option {
	return func(h *Harvester) { h.tracer = t }
}

// New creates a harvester feeding vocab and index. Every entry already in
// vocab is staged into index and the index is prepared once.
func New(vocab *completion.Vocabulary, index *completion.Index, opts ...Option) *Harvester {
	h := &Harvester{
		vocab:  vocab,
		index:  index,
		tracer: otel.Tracer(tracing.InstrumentationName),
	}
	for _, opt := range opts {
		opt(h)
	}
	for _, id := range vocab.Entries() {
		index.Add(id)
	}
	index.Prepare()
	return h
}

// Scan harvests text and registers new identifiers. The index is prepared
// once per call, after all additions, and only when something was added.
// It returns the identifiers that were new.
func (h *Harvester) Scan(ctx context.Context, text string) []string {
	_, span := h.tracer.Start(ctx, tracing.SpanHarvestScan,
		trace.WithAttributes(attribute.Int(tracing.AttrDocBytes, len(text))))
	defer span.End()

	var added []string
	for _, id := range Harvest(text, h.vocab.Contains) {
		if h.vocab.Add(id, completion.SourceHarvested) {
			h.index.Add(id)
			added = append(added, id)
		}
	}
	if len(added) > 0 {
		h.index.Prepare()
		log.Debug(log.CatHarvest, "harvest pass", "added", len(added), "vocabulary", h.vocab.Len())
	}

	span.SetAttributes(attribute.Int(tracing.AttrHarvestAdded, len(added)))
	return added
}

// Vocabulary returns the vocabulary this harvester grows.
func (h *Harvester) Vocabulary() *completion.Vocabulary {
	return h.vocab
}

// Index returns the completion index this harvester feeds.
func (h *Harvester) Index() *completion.Index {
	return h.index
}
