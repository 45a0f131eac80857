/*
Package search implements description-aware catalog search across the
command registry.

It provides BM25 keyword search over name, description and target text,
with hybrid fusion against the palette's fuzzy name ranking. The palette
itself never depends on this package.
*/
package search

import "github.com/khanglvm/cmd-palette/internal/registry"

// Hit represents a single search result with relevance score.
type Hit struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Kind        registry.Kind `json:"kind"`
	Description string        `json:"description,omitempty"`
	Score       float64       `json:"score"`
}

// commandDocument is a command as stored in the search index.
type commandDocument struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Target      string `json:"target"`
}

func newDocument(cmd registry.Command) commandDocument {
	return commandDocument{
		Name:        cmd.Name,
		Description: cmd.Description,
		Kind:        string(cmd.Kind),
		Target:      cmd.Target,
	}
}
