package search

import (
	"sort"

	"github.com/khanglvm/cmd-palette/internal/fuzzy"
	"github.com/khanglvm/cmd-palette/internal/learning"
	"github.com/khanglvm/cmd-palette/internal/ranking"
	"github.com/khanglvm/cmd-palette/internal/registry"
)

// FusionConfig defines weights for hybrid score fusion.
type FusionConfig struct {
	FuzzyWeight   float64
	KeywordWeight float64
}

// DefaultFusionConfig favors name matches (60% fuzzy, 40% keyword).
var DefaultFusionConfig = FusionConfig{
	FuzzyWeight:   0.6,
	KeywordWeight: 0.4,
}

// SearchHybrid combines BM25 hits from the catalog with the fuzzy name
// ranking of reg's commands, personalized by idx when non-nil.
func (c *Catalog) SearchHybrid(text string, kind registry.Kind, limit int, reg *registry.Registry, idx *learning.Index, config FusionConfig) ([]Hit, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	keywordHits, err := c.Search(text, kind, limit*2)
	if err != nil {
		return nil, err
	}

	cmds := reg.All()
	if kind != "" {
		cmds = reg.ByKind(kind)
	}
	nameHits := fuzzyHits(ranking.Rank(cmds, text, idx), text)

	fused := fuseScores(normalizeScores(keywordHits), normalizeScores(nameHits), config)

	sort.SliceStable(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return fused[i].ID < fused[j].ID
	})

	if len(fused) > limit {
		fused = fused[:limit]
	}
	return fused, nil
}

// fuzzyHits converts ranked commands into hits, dropping names that do
// not contain text as a subsequence.
func fuzzyHits(scored []ranking.Scored, text string) []Hit {
	hits := make([]Hit, 0, len(scored))
	for _, s := range scored {
		if !fuzzy.Matches(s.Command.Name, text) {
			continue
		}
		hits = append(hits, Hit{
			ID:          s.Command.ID,
			Name:        s.Command.Name,
			Kind:        s.Command.Kind,
			Description: s.Command.Description,
			Score:       s.Total(),
		})
	}
	return hits
}

// fuseScores combines keyword and fuzzy results using weighted fusion.
// A command found by only one side keeps that side's weighted score.
func fuseScores(keywordResults, fuzzyResults []Hit, config FusionConfig) []Hit {
	byID := make(map[string]Hit, len(keywordResults)+len(fuzzyResults))
	order := make([]string, 0, len(keywordResults)+len(fuzzyResults))

	for _, h := range fuzzyResults {
		if _, seen := byID[h.ID]; !seen {
			order = append(order, h.ID)
		}
		fused := h
		fused.Score = config.FuzzyWeight * h.Score
		byID[h.ID] = fused
	}

	for _, h := range keywordResults {
		if existing, seen := byID[h.ID]; seen {
			existing.Score += config.KeywordWeight * h.Score
			byID[h.ID] = existing
			continue
		}
		order = append(order, h.ID)
		fused := h
		fused.Score = config.KeywordWeight * h.Score
		byID[h.ID] = fused
	}

	out := make([]Hit, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

// normalizeScores normalizes scores to [0, 1] range.
func normalizeScores(results []Hit) []Hit {
	if len(results) == 0 {
		return results
	}

	minScore := results[0].Score
	maxScore := results[0].Score
	for _, r := range results {
		if r.Score < minScore {
			minScore = r.Score
		}
		if r.Score > maxScore {
			maxScore = r.Score
		}
	}

	normalized := make([]Hit, len(results))
	for i, r := range results {
		normalized[i] = r
		if maxScore == minScore {
			normalized[i].Score = 1.0
			continue
		}
		normalized[i].Score = (r.Score - minScore) / (maxScore - minScore)
	}

	return normalized
}
