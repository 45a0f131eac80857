package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanglvm/cmd-palette/internal/history"
	"github.com/khanglvm/cmd-palette/internal/learning"
	"github.com/khanglvm/cmd-palette/internal/registry"
)

func sampleRegistry() *registry.Registry {
	return registry.New([]registry.Command{
		{ID: "tool_crop", Name: "Crop Tool", Kind: registry.KindTool, Enabled: true, Description: "Trim the canvas to a selection"},
		{ID: "tool_brush", Name: "Brush", Kind: registry.KindTool, Enabled: true, Description: "Paint with a soft round tip"},
		{ID: "menu:Image/Canvas Size", Name: "Image > Canvas Size", Kind: registry.KindMenu, Enabled: true, Description: "Resize the canvas without scaling"},
		{ID: "action:export", Name: "Export PNG", Kind: registry.KindAction, Enabled: true, Description: "Save a flattened copy"},
	})
}

func newIndexedCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog()
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.IndexRegistry(sampleRegistry()))
	return c
}

func TestIndexRegistryCount(t *testing.T) {
	c := newIndexedCatalog(t)

	count, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)
}

func TestIndexRegistryReplacesContents(t *testing.T) {
	c := newIndexedCatalog(t)

	require.NoError(t, c.IndexRegistry(registry.New([]registry.Command{
		{ID: "only", Name: "Only", Kind: registry.KindAction},
	})))

	count, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearchDescription(t *testing.T) {
	c := newIndexedCatalog(t)

	hits, err := c.Search("canvas", "", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	assert.Contains(t, ids, "tool_crop")
	assert.Contains(t, ids, "menu:Image/Canvas Size")
	assert.NotContains(t, ids, "tool_brush")
}

func TestSearchKindFilter(t *testing.T) {
	c := newIndexedCatalog(t)

	hits, err := c.Search("canvas", registry.KindTool, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "tool_crop", hits[0].ID)
	assert.Equal(t, registry.KindTool, hits[0].Kind)
	assert.Equal(t, "Crop Tool", hits[0].Name)
}

func TestSearchEmptyTextMatchesAll(t *testing.T) {
	c := newIndexedCatalog(t)

	hits, err := c.Search("", "", 0)
	require.NoError(t, err)
	assert.Len(t, hits, 4)
}

func TestSearchNoResults(t *testing.T) {
	c := newIndexedCatalog(t)

	hits, err := c.Search("xylophonequartz", "", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchHybridFindsNameAndDescription(t *testing.T) {
	c := newIndexedCatalog(t)
	reg := sampleRegistry()

	hits, err := c.SearchHybrid("crop", "", 10, reg, nil, DefaultFusionConfig)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "tool_crop", hits[0].ID)

	hits, err = c.SearchHybrid("scaling", "", 10, reg, nil, DefaultFusionConfig)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "menu:Image/Canvas Size", hits[0].ID)
}

func TestSearchHybridPersonalized(t *testing.T) {
	c := newIndexedCatalog(t)
	reg := sampleRegistry()

	idx := learning.Rebuild([]history.Event{
		{Query: "r", CommandID: "tool_brush"},
		{Query: "r", CommandID: "tool_brush"},
	})

	hits, err := c.SearchHybrid("r", registry.KindTool, 10, reg, idx, FusionConfig{FuzzyWeight: 1})
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "tool_brush", hits[0].ID)
}

func TestNormalizeScores(t *testing.T) {
	assert.Empty(t, normalizeScores(nil))

	single := normalizeScores([]Hit{{ID: "a", Score: 0.5}})
	assert.Equal(t, 1.0, single[0].Score)

	multi := normalizeScores([]Hit{
		{ID: "a", Score: 2},
		{ID: "b", Score: 4},
		{ID: "c", Score: 6},
	})
	assert.InDelta(t, 0.0, multi[0].Score, 0.001)
	assert.InDelta(t, 0.5, multi[1].Score, 0.001)
	assert.InDelta(t, 1.0, multi[2].Score, 0.001)
}

func TestFuseScores(t *testing.T) {
	config := FusionConfig{FuzzyWeight: 0.6, KeywordWeight: 0.4}

	assert.Empty(t, fuseScores(nil, nil, config))

	fused := fuseScores(
		[]Hit{{ID: "both", Score: 1}, {ID: "keyword", Score: 0.5}},
		[]Hit{{ID: "both", Score: 1}, {ID: "fuzzy", Score: 1}},
		config,
	)
	require.Len(t, fused, 3)

	scores := map[string]float64{}
	for _, h := range fused {
		scores[h.ID] = h.Score
	}
	assert.InDelta(t, 1.0, scores["both"], 0.001)
	assert.InDelta(t, 0.6, scores["fuzzy"], 0.001)
	assert.InDelta(t, 0.2, scores["keyword"], 0.001)
}
