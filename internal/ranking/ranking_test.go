package ranking

import (
	"testing"

	"github.com/khanglvm/cmd-palette/internal/history"
	"github.com/khanglvm/cmd-palette/internal/learning"
	"github.com/khanglvm/cmd-palette/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cmd(id, name string) registry.Command {
	return registry.Command{ID: id, Name: name, Kind: registry.KindTool, Enabled: true}
}

func TestScore_ChunkWeights(t *testing.T) {
	// "crop" is chunk 0 of "Crop Tool": 1 + prefix 1 + exact 2.
	assert.InDelta(t, 4.0, Score(cmd("a", "Crop Tool"), "crop", nil), 1e-9)

	// "tool" is chunk 1: 1/2 + 1 + 2.
	assert.InDelta(t, 3.5, Score(cmd("a", "Crop Tool"), "tool", nil), 1e-9)

	// "ro" is a mid-word substring of chunk 0 only.
	assert.InDelta(t, 1.0, Score(cmd("a", "Crop Tool"), "ro", nil), 1e-9)

	// Two query chunks add up.
	assert.InDelta(t, 4.0+3.5+5.0, Score(cmd("a", "Crop Tool"), "crop tool", nil), 1e-9)
}

func TestScore_NoMatchIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Score(cmd("a", "Crop Tool"), "xyz", nil))
	assert.Equal(t, 0.0, Score(cmd("a", "Crop Tool"), "crp", learning.Empty()))
}

func TestScore_NeverNegativeWithoutHistory(t *testing.T) {
	names := []string{"", "Crop Tool", "A B C D E F", "   spaced   "}
	queries := []string{"", " ", "a", "crop", "z z z", "CROP TOOL"}
	for _, n := range names {
		for _, q := range queries {
			assert.GreaterOrEqual(t, Score(cmd("x", n), q, learning.Empty()), 0.0, "%q / %q", n, q)
		}
	}
}

func TestScore_ExactNameOutranksPrefix(t *testing.T) {
	exact := cmd("exact", "Blur")
	prefix := cmd("prefix", "Blurry")

	// Chunk weights: exact gets 1+1+2, prefix gets 1+1; plus +5 whole-name.
	assert.Greater(t, Score(exact, "blur", nil), Score(prefix, "blur", nil))
	assert.InDelta(t, 9.0, Score(exact, "blur", nil), 1e-9)
}

func TestScore_Personalization(t *testing.T) {
	idx := learning.Rebuild([]history.Event{
		{Query: "cr", CommandID: "crop"},
		{Query: "other", CommandID: "brush"},
	})

	s := Breakdown(cmd("crop", "Crop Tool"), "cr", idx)
	assert.Equal(t, LatchBonus, s.Latch)
	assert.Equal(t, OccurrenceBonus, s.Occurrence)
	assert.InDelta(t, 1.0, s.Recency, 1e-9)

	b := Breakdown(cmd("brush", "Brush Tool"), "cr", idx)
	assert.Equal(t, 0.0, b.Latch)
	assert.InDelta(t, 0.5, b.Recency, 1e-9)
	assert.Equal(t, OccurrenceBonus, b.Occurrence)

	n := Breakdown(cmd("never", "Never Used"), "cr", idx)
	assert.Equal(t, 0.0, n.Recency+n.Occurrence+n.Latch)
}

// A latched command beats an otherwise identical competitor.
func TestRank_LatchBreaksTie(t *testing.T) {
	a := cmd("a", "Export As")
	b := cmd("b", "Export All")

	// a is the more recent selection, so without the latch it would win.
	idx := learning.Rebuild([]history.Event{
		{Query: "other", CommandID: "a"},
		{Query: "exp", CommandID: "b"},
		{Query: "other", CommandID: "b"},
	})
	assert.Greater(t, idx.RecencyBonus("a"), idx.RecencyBonus("b"))

	ranked := Rank([]registry.Command{a, b}, "exp", idx)
	require.Len(t, ranked, 2)
	assert.Equal(t, "b", ranked[0].Command.ID)
	assert.Greater(t, ranked[0].Total(), ranked[1].Total())
}

func TestRank_StableOnTies(t *testing.T) {
	cmds := []registry.Command{
		cmd("1", "Alpha"),
		cmd("2", "Beta"),
		cmd("3", "Gamma"),
		cmd("4", "Alpha Beta"),
	}

	ranked := Rank(cmds, "zzz", nil)
	ids := make([]string, len(ranked))
	for i, s := range ranked {
		ids[i] = s.Command.ID
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)
}

func TestSort_DescendingByScore(t *testing.T) {
	cmds := []registry.Command{
		cmd("color", "Color Replacement"),
		cmd("crop", "Crop Tool"),
	}

	Sort(cmds, "crop", nil)
	assert.Equal(t, "crop", cmds[0].ID)
	assert.Equal(t, "color", cmds[1].ID)
}

func TestCompare(t *testing.T) {
	a := cmd("a", "Crop")
	b := cmd("b", "Cropper")
	assert.Less(t, Compare(a, b, "crop", nil), 0.0)
	assert.Greater(t, Compare(b, a, "crop", nil), 0.0)
}
