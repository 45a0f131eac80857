/*
Package learning derives personalization signals from the interaction log.

An Index is a pure function of the log: it is rebuilt from scratch after
every log change and never updated in place. It carries three lookups:

  - Occurrences: lifetime selection count per command
  - Recency: per-command standing by position of its newest selection
  - Latch: for each exact past query, the command chosen most often
*/
package learning

import (
	"sort"

	"github.com/khanglvm/cmd-palette/internal/history"
)

// Index holds the personalization lookups.
type Index struct {
	// Occurrences counts every selection of a command regardless of query.
	Occurrences map[string]int

	// Recency ranks commands by their newest selection. With k distinct
	// commands in the log, the most recent one has rank k and the
	// least recent has rank 1.
	Recency map[string]int

	// Latch maps an exact query string to its most frequently chosen command.
	Latch map[string]string
}

// Empty returns an index with no history.
func Empty() *Index {
	return &Index{
		Occurrences: map[string]int{},
		Recency:     map[string]int{},
		Latch:       map[string]string{},
	}
}

// Rebuild derives an index from a most-recent-first log.
func Rebuild(events []history.Event) *Index {
	idx := Empty()

	var distinct []string
	seen := make(map[string]bool)

	// Per query: command counts plus first-seen order for tie-breaking.
	type latchState struct {
		counts map[string]int
		order  []string
	}
	latches := make(map[string]*latchState)

	for _, e := range events {
		idx.Occurrences[e.CommandID]++

		if !seen[e.CommandID] {
			seen[e.CommandID] = true
			distinct = append(distinct, e.CommandID)
		}

		st, ok := latches[e.Query]
		if !ok {
			st = &latchState{counts: make(map[string]int)}
			latches[e.Query] = st
		}
		if st.counts[e.CommandID] == 0 {
			st.order = append(st.order, e.CommandID)
		}
		st.counts[e.CommandID]++
	}

	k := len(distinct)
	for i, id := range distinct {
		idx.Recency[id] = k - i
	}

	for query, st := range latches {
		best := ""
		bestCount := 0
		// order is most-recent-first, so a strict > keeps the newer id on ties.
		for _, id := range st.order {
			if st.counts[id] > bestCount {
				best = id
				bestCount = st.counts[id]
			}
		}
		idx.Latch[query] = best
	}

	return idx
}

// RecencyBonus returns Recency[id] / max(1, len(Recency)), in [0, 1].
func (idx *Index) RecencyBonus(id string) float64 {
	if idx == nil {
		return 0
	}
	size := len(idx.Recency)
	if size < 1 {
		size = 1
	}
	return float64(idx.Recency[id]) / float64(size)
}

// Count returns the lifetime selection count of id.
func (idx *Index) Count(id string) int {
	if idx == nil {
		return 0
	}
	return idx.Occurrences[id]
}

// Latched returns the command latched to query, if any.
func (idx *Index) Latched(query string) (string, bool) {
	if idx == nil {
		return "", false
	}
	id, ok := idx.Latch[query]
	return id, ok
}

// Frequent orders ids most-used first: by occurrence count, then recency,
// then the input order. The input slice is not modified.
func (idx *Index) Frequent(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	if idx == nil {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := idx.Occurrences[out[i]], idx.Occurrences[out[j]]
		if ci != cj {
			return ci > cj
		}
		return idx.Recency[out[i]] > idx.Recency[out[j]]
	})
	return out
}

// Usage is one row of usage statistics.
type Usage struct {
	CommandID string `json:"commandId"`
	Count     int    `json:"count"`
	Recency   int    `json:"recency"`
}

// Top returns up to n commands by occurrence, ties broken by recency.
func (idx *Index) Top(n int) []Usage {
	if idx == nil {
		return nil
	}

	ids := make([]string, 0, len(idx.Occurrences))
	for id := range idx.Occurrences {
		ids = append(ids, id)
	}
	// Map iteration order is random; recency is unique per id, so sorting
	// by recency first makes the stable sort below deterministic.
	sort.Slice(ids, func(i, j int) bool { return idx.Recency[ids[i]] > idx.Recency[ids[j]] })
	ids = idx.Frequent(ids)

	if n > 0 && len(ids) > n {
		ids = ids[:n]
	}

	out := make([]Usage, len(ids))
	for i, id := range ids {
		out[i] = Usage{CommandID: id, Count: idx.Occurrences[id], Recency: idx.Recency[id]}
	}
	return out
}
