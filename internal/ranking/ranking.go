/*
Package ranking scores palette commands against a query.

The score is additive. Textual relevance comes from comparing the
whitespace-separated chunks of the query with those of the command name;
personalization comes from a learning.Index built from past selections.

	chunk weight   1/(j+1) for name chunk j containing the query chunk
	               +1 if the name chunk starts with it, +2 if equal
	exact name     +5   whole name equals whole query (case-insensitive)
	latch          +10  query previously resolved most often to this command
	recency        +Recency[id] / max(1, len(Recency))
	occurrence     +2.5 if the command was ever chosen

No component is negative, so a command with no match and no history
scores exactly 0.
*/
package ranking

import (
	"sort"
	"strings"

	"github.com/khanglvm/cmd-palette/internal/learning"
	"github.com/khanglvm/cmd-palette/internal/registry"
)

const (
	PrefixBonus     = 1.0
	ExactChunkBonus = 2.0
	ExactNameBonus  = 5.0
	LatchBonus      = 10.0
	OccurrenceBonus = 2.5
)

// Scored is a command with its score broken down by component.
type Scored struct {
	Command    registry.Command `json:"command"`
	Chunks     float64          `json:"chunks"`
	ExactName  float64          `json:"exactName"`
	Latch      float64          `json:"latch"`
	Recency    float64          `json:"recency"`
	Occurrence float64          `json:"occurrence"`
}

// Total is the sum of every component.
func (s Scored) Total() float64 {
	return s.Chunks + s.ExactName + s.Latch + s.Recency + s.Occurrence
}

// Score returns the total score of cmd for query. idx may be nil.
func Score(cmd registry.Command, query string, idx *learning.Index) float64 {
	return Breakdown(cmd, query, idx).Total()
}

// Breakdown computes each score component of cmd for query.
func Breakdown(cmd registry.Command, query string, idx *learning.Index) Scored {
	s := Scored{
		Command: cmd,
		Chunks:  chunkScore(cmd.Name, query),
	}

	if strings.ToLower(cmd.Name) == strings.ToLower(query) {
		s.ExactName = ExactNameBonus
	}

	if idx == nil {
		return s
	}
	if id, ok := idx.Latched(query); ok && id == cmd.ID {
		s.Latch = LatchBonus
	}
	s.Recency = idx.RecencyBonus(cmd.ID)
	if idx.Count(cmd.ID) > 0 {
		s.Occurrence = OccurrenceBonus
	}
	return s
}

// chunkScore sums, over every query chunk and every name chunk j that
// contains it, 1/(j+1) plus prefix and exact-word bonuses.
func chunkScore(name, query string) float64 {
	queryChunks := strings.Fields(strings.ToLower(query))
	nameChunks := strings.Fields(strings.ToLower(name))

	total := 0.0
	for _, q := range queryChunks {
		for j, n := range nameChunks {
			if !strings.Contains(n, q) {
				continue
			}
			w := 1.0 / float64(j+1)
			if strings.HasPrefix(n, q) {
				w += PrefixBonus
			}
			if n == q {
				w += ExactChunkBonus
			}
			total += w
		}
	}
	return total
}

// Rank scores cmds and returns them best first. Equal scores keep their
// input order.
func Rank(cmds []registry.Command, query string, idx *learning.Index) []Scored {
	scored := make([]Scored, len(cmds))
	totals := make([]float64, len(cmds))
	for i, cmd := range cmds {
		scored[i] = Breakdown(cmd, query, idx)
		totals[i] = scored[i].Total()
	}

	order := make([]int, len(cmds))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return totals[order[a]] > totals[order[b]]
	})

	out := make([]Scored, len(cmds))
	for i, o := range order {
		out[i] = scored[o]
	}
	return out
}

// Sort orders cmds in place, best first, keeping input order on ties.
func Sort(cmds []registry.Command, query string, idx *learning.Index) {
	ranked := Rank(cmds, query, idx)
	for i, s := range ranked {
		cmds[i] = s.Command
	}
}

// Compare returns Score(b) - Score(a): negative when a ranks first.
func Compare(a, b registry.Command, query string, idx *learning.Index) float64 {
	return Score(b, query, idx) - Score(a, query, idx)
}
