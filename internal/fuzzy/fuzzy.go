// Package fuzzy implements the palette's subsequence matcher.
package fuzzy

import (
	"strings"
	"unicode"
)

// Default highlight markers wrapped around each matched rune.
const (
	DefaultOpen  = "<"
	DefaultClose = ">"
)

// Result is the outcome of matching a query against a name.
type Result struct {
	// Matched reports whether every query rune was consumed.
	Matched bool

	// Positions holds rune indexes into the name of the matched runes.
	Positions []int

	// Highlighted is the name with matched runes wrapped in markers.
	// Only meaningful when Matched is true.
	Highlighted string
}

// Match tests whether query is a subsequence of name using the default
// highlight markers.
func Match(name, query string) Result {
	return MatchWith(name, query, DefaultOpen, DefaultClose)
}

// MatchWith tests whether the whitespace-stripped, lower-cased query is a
// subsequence of name, case-insensitively.
//
// The scan is a single greedy left-to-right pass: each name rune that
// equals the next pending query rune is consumed. There is no
// backtracking, so the first occurrence of a query rune is always the one
// taken.
func MatchWith(name, query, open, close string) Result {
	q := normalizeQuery(query)

	var positions []int
	pos := 0
	for i, r := range []rune(name) {
		if pos < len(q) && unicode.ToLower(r) == q[pos] {
			positions = append(positions, i)
			pos++
		}
	}

	if pos != len(q) {
		return Result{Matched: false, Positions: positions}
	}

	return Result{
		Matched:     true,
		Positions:   positions,
		Highlighted: Highlight(name, positions, open, close),
	}
}

// Matches reports whether query fuzzy-matches name.
func Matches(name, query string) bool {
	return MatchWith(name, query, "", "").Matched
}

// Highlight wraps the runes of name at positions with open and close.
// positions must be ascending rune indexes.
func Highlight(name string, positions []int, open, close string) string {
	if len(positions) == 0 {
		return name
	}

	var b strings.Builder
	b.Grow(len(name) + len(positions)*(len(open)+len(close)))

	next := 0
	for i, r := range []rune(name) {
		if next < len(positions) && positions[next] == i {
			b.WriteString(open)
			b.WriteRune(r)
			b.WriteString(close)
			next++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// normalizeQuery drops all whitespace and lower-cases the query.
func normalizeQuery(query string) []rune {
	q := make([]rune, 0, len(query))
	for _, r := range query {
		if unicode.IsSpace(r) {
			continue
		}
		q = append(q, unicode.ToLower(r))
	}
	return q
}
