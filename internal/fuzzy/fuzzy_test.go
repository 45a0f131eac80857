package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		query   string
		matched bool
		hl      string
	}{
		{"subsequence", "Crop Tool", "crp", true, "<C><r>o<p> Tool"},
		{"case insensitive", "Crop Tool", "CRP", true, "<C><r>o<p> Tool"},
		{"whitespace stripped", "Crop Tool", "c r p", true, "<C><r>o<p> Tool"},
		{"across words", "Color Replacement", "crp", true, "<C>olo<r> Re<p>lacement"},
		{"spaces in query span words", "Crop Tool", "crop tool", true, "<C><r><o><p> <T><o><o><l>"},
		{"out of order", "Crop Tool", "prc", false, ""},
		{"longer than name", "Cut", "cutter", false, ""},
		{"empty query", "Crop Tool", "", true, "Crop Tool"},
		{"unicode", "Ébauche", "éb", true, "<É><b>auche"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.target, tt.query)
			assert.Equal(t, tt.matched, got.Matched)
			if tt.matched {
				assert.Equal(t, tt.hl, got.Highlighted)
			}
		})
	}
}

// The scan never backtracks: it always consumes the first available rune.
func TestMatch_GreedyFirstOccurrence(t *testing.T) {
	got := Match("banana", "an")
	assert.True(t, got.Matched)
	assert.Equal(t, []int{1, 2}, got.Positions)
	assert.Equal(t, "b<a><n>ana", got.Highlighted)
}

func TestMatch_PartialPositionsOnFailure(t *testing.T) {
	got := Match("Crop", "crx")
	assert.False(t, got.Matched)
	assert.Equal(t, []int{0, 1}, got.Positions)
}

func TestMatchWith_CustomMarkers(t *testing.T) {
	got := MatchWith("Crop Tool", "ct", "[", "]")
	assert.Equal(t, "[C]rop [T]ool", got.Highlighted)
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("Brush Tool", "bt"))
	assert.False(t, Matches("Brush Tool", "tb"))
}

func TestHighlight_NoPositions(t *testing.T) {
	assert.Equal(t, "abc", Highlight("abc", nil, "<", ">"))
}
