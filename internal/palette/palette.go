/*
Package palette is the query entry point of the command palette.

A Palette ties together the current command registry, the interaction log
and the personalization index derived from it. All state is carried by the
Palette value; nothing is looked up globally.

Query turns typed text into a bounded, ranked list of commands.
RecordSelection reports a chosen command back, which appends to the log
and rebuilds the index before the next Query can observe it.
*/
package palette

import (
	"sync"

	"github.com/khanglvm/cmd-palette/internal/fuzzy"
	"github.com/khanglvm/cmd-palette/internal/history"
	"github.com/khanglvm/cmd-palette/internal/learning"
	"github.com/khanglvm/cmd-palette/internal/ranking"
	"github.com/khanglvm/cmd-palette/internal/registry"
	"github.com/khanglvm/cmd-palette/internal/storage"
	"github.com/rs/zerolog/log"
)

// DefaultLimit is the number of results the palette displays at once.
const DefaultLimit = 9

// Filters narrows the candidate set of a query.
type Filters struct {
	// Kinds restricts results to these kinds when non-empty.
	Kinds []registry.Kind

	// IncludeHidden keeps user-hidden commands in the results.
	IncludeHidden bool
}

// Result is one ranked palette entry.
type Result struct {
	Command     registry.Command `json:"command"`
	Highlighted string           `json:"highlighted"`
	Positions   []int            `json:"positions,omitempty"`
	Score       float64          `json:"score"`
	Breakdown   ranking.Scored   `json:"-"`
}

// Option configures a Palette.
type Option func(*Palette)

// WithLimit sets the maximum number of results.
func WithLimit(n int) Option {
	return func(p *Palette) {
		if n > 0 {
			p.limit = n
		}
	}
}

// WithHidden sets the user's hidden-command list.
func WithHidden(ids []string) Option {
	return func(p *Palette) {
		p.hidden = make(map[string]bool, len(ids))
		for _, id := range ids {
			p.hidden[id] = true
		}
	}
}

// WithStartup sets the commands pinned to the top of the empty-query view.
func WithStartup(ids []string) Option {
	return func(p *Palette) {
		p.startup = append([]string(nil), ids...)
	}
}

// WithAnalytics records every non-empty query to store.
func WithAnalytics(store storage.Store) Option {
	return func(p *Palette) { p.analytics = store }
}

// WithMarkers sets the highlight markers wrapped around matched runes.
func WithMarkers(open, close string) Option {
	return func(p *Palette) {
		p.open = open
		p.close = close
	}
}

// Palette is the query orchestrator.
type Palette struct {
	mu        sync.RWMutex
	registry  *registry.Registry
	log       *history.Log
	index     *learning.Index
	hidden    map[string]bool
	startup   []string
	limit     int
	analytics storage.Store
	open      string
	close     string
	searches  sync.WaitGroup
}

// New creates a palette over reg and log and builds the initial index.
func New(reg *registry.Registry, l *history.Log, opts ...Option) *Palette {
	if l == nil {
		l = history.New(nil)
	}
	p := &Palette{
		registry: reg,
		log:      l,
		hidden:   map[string]bool{},
		limit:    DefaultLimit,
		open:     fuzzy.DefaultOpen,
		close:    fuzzy.DefaultClose,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.index = learning.Rebuild(l.Events())
	return p
}

// Query returns the ranked, bounded results for raw text.
// It never fails: any internal error degrades to an empty result.
func (p *Palette) Query(text string, f Filters) (results []Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("query", text).Msg("Query failed, returning no results")
			results = []Result{}
		}
	}()

	parsed := ParseQuery(text)

	p.mu.RLock()
	reg, idx, limit := p.registry, p.index, p.limit
	candidates := p.candidates(reg, parsed, f)
	p.mu.RUnlock()

	if parsed.Text == "" {
		return p.startupView(candidates, idx, limit)
	}

	matched := make([]registry.Command, 0, len(candidates))
	marks := make(map[string]fuzzy.Result, len(candidates))
	for _, cmd := range candidates {
		m := fuzzy.MatchWith(cmd.Name, parsed.Text, p.open, p.close)
		if !m.Matched {
			continue
		}
		matched = append(matched, cmd)
		marks[cmd.ID] = m
	}

	ranked := ranking.Rank(matched, parsed.Text, idx)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	results = make([]Result, len(ranked))
	for i, s := range ranked {
		m := marks[s.Command.ID]
		results[i] = Result{
			Command:     s.Command,
			Highlighted: m.Highlighted,
			Positions:   m.Positions,
			Score:       s.Total(),
			Breakdown:   s,
		}
	}

	p.recordSearch(parsed.Text, len(results))
	return results
}

// candidates applies the kind and visibility filters. Caller holds p.mu.
func (p *Palette) candidates(reg *registry.Registry, parsed Parsed, f Filters) []registry.Command {
	var kinds map[registry.Kind]bool
	if len(f.Kinds) > 0 {
		kinds = make(map[registry.Kind]bool, len(f.Kinds))
		for _, k := range f.Kinds {
			kinds[k] = true
		}
	}

	all := reg.All()
	out := make([]registry.Command, 0, len(all))
	for _, cmd := range all {
		if parsed.HasKind && cmd.Kind != parsed.Kind {
			continue
		}
		if kinds != nil && !kinds[cmd.Kind] {
			continue
		}
		if !f.IncludeHidden && (cmd.Hidden || p.hidden[cmd.ID]) {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

// startupView orders candidates for the empty query: pinned startup
// commands first, then the rest most-used first. Without any history the
// rest keep registration order.
func (p *Palette) startupView(candidates []registry.Command, idx *learning.Index, limit int) []Result {
	byID := make(map[string]registry.Command, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, cmd := range candidates {
		byID[cmd.ID] = cmd
		ids = append(ids, cmd.ID)
	}

	ordered := make([]string, 0, len(ids))
	pinned := make(map[string]bool, len(p.startup))
	for _, id := range p.startup {
		if _, ok := byID[id]; ok && !pinned[id] {
			pinned[id] = true
			ordered = append(ordered, id)
		}
	}

	rest := make([]string, 0, len(ids))
	for _, id := range ids {
		if !pinned[id] {
			rest = append(rest, id)
		}
	}
	ordered = append(ordered, idx.Frequent(rest)...)

	if len(ordered) > limit {
		ordered = ordered[:limit]
	}

	results := make([]Result, len(ordered))
	for i, id := range ordered {
		cmd := byID[id]
		s := ranking.Breakdown(cmd, "", idx)
		results[i] = Result{
			Command:     cmd,
			Highlighted: cmd.Name,
			Score:       s.Total(),
			Breakdown:   s,
		}
	}
	return results
}

func (p *Palette) recordSearch(text string, n int) {
	if p.analytics == nil {
		return
	}
	rec := storage.NewSearchRecord(text, n)
	p.searches.Add(1)
	go func() {
		defer p.searches.Done()
		if err := p.analytics.RecordSearch(rec); err != nil {
			log.Debug().Err(err).Msg("Failed to record search")
		}
	}()
}

// RecordSelection appends a selection to the log and rebuilds the index.
// The query is normalized exactly as Query normalizes it, so the latch
// is keyed by the text that was ranked.
func (p *Palette) RecordSelection(query, commandID string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("command", commandID).Msg("Failed to record selection")
		}
	}()

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.registry.Get(commandID); !ok {
		log.Debug().Str("command", commandID).Msg("Recording selection of unknown command")
	}
	p.log.Append(NormalizeQuery(query), commandID)
	p.index = learning.Rebuild(p.log.Events())
}

// ClearHistory empties the interaction log and resets personalization.
func (p *Palette) ClearHistory() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.Clear()
	p.index = learning.Rebuild(p.log.Events())
}

// SetRegistry swaps in a reloaded command set.
func (p *Palette) SetRegistry(reg *registry.Registry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registry = reg
}

// Registry returns the current command set.
func (p *Palette) Registry() *registry.Registry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.registry
}

// Index returns the current personalization index. Callers must not
// modify it.
func (p *Palette) Index() *learning.Index {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.index
}

// History returns the interaction log.
func (p *Palette) History() *history.Log {
	return p.log
}

// Wait blocks until pending analytics writes have finished.
func (p *Palette) Wait() {
	p.searches.Wait()
}
