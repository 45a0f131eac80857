package palette

import (
	"strings"

	"github.com/khanglvm/cmd-palette/internal/registry"
)

// Parsed is a query with its optional kind filter extracted.
type Parsed struct {
	// Text is the query used for matching, ranking and latching.
	Text string

	// Kind is set when the query contained a known #kind token.
	Kind registry.Kind

	// HasKind reports whether Kind is set.
	HasKind bool
}

// ParseQuery extracts a "#kind" token from raw text. Only the first token
// starting with '#' is considered; if it names a known kind it is removed
// from the text. Either way the remaining words are re-joined with single
// spaces, so "b  t" and "b t #tool" latch under the same key.
func ParseQuery(raw string) Parsed {
	fields := strings.Fields(raw)
	for i, f := range fields {
		if !strings.HasPrefix(f, "#") {
			continue
		}
		kind, ok := registry.ParseKind(f[1:])
		if !ok {
			break
		}
		rest := make([]string, 0, len(fields)-1)
		rest = append(rest, fields[:i]...)
		rest = append(rest, fields[i+1:]...)
		return Parsed{Text: strings.Join(rest, " "), Kind: kind, HasKind: true}
	}
	return Parsed{Text: strings.Join(fields, " ")}
}

// NormalizeQuery returns the text under which a selection is recorded,
// identical to the text Query ranks with.
func NormalizeQuery(raw string) string {
	return ParseQuery(raw).Text
}
