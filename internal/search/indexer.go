package search

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/rs/zerolog/log"

	"github.com/khanglvm/cmd-palette/internal/registry"
)

const defaultLimit = 10

var storedFields = []string{"name", "description", "kind"}

// Catalog manages the search index for all commands.
type Catalog struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
}

// NewCatalog creates a catalog backed by an in-memory Bleve index.
func NewCatalog() (*Catalog, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	return &Catalog{bleveIndex: index}, nil
}

// buildIndexMapping creates the Bleve index mapping.
func buildIndexMapping() mapping.IndexMapping {
	commandMapping := bleve.NewDocumentMapping()

	commandMapping.AddFieldMappingsAt("name", bleve.NewTextFieldMapping())
	commandMapping.AddFieldMappingsAt("description", bleve.NewTextFieldMapping())

	// Kind is matched exactly, never analyzed.
	kindFieldMapping := bleve.NewTextFieldMapping()
	kindFieldMapping.Analyzer = keyword.Name
	kindFieldMapping.IncludeInAll = false
	commandMapping.AddFieldMappingsAt("kind", kindFieldMapping)

	targetFieldMapping := bleve.NewTextFieldMapping()
	targetFieldMapping.Store = false
	commandMapping.AddFieldMappingsAt("target", targetFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", commandMapping)

	return indexMapping
}

// IndexRegistry replaces the catalog contents with every command in reg.
func (c *Catalog) IndexRegistry(reg *registry.Registry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.clearLocked(); err != nil {
		return err
	}

	batch := c.bleveIndex.NewBatch()
	for _, cmd := range reg.All() {
		if err := batch.Index(cmd.ID, newDocument(cmd)); err != nil {
			log.Warn().Err(err).Str("id", cmd.ID).Msg("Failed to index command")
		}
	}

	if err := c.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to batch index commands: %w", err)
	}

	log.Debug().Int("commands", reg.Len()).Msg("Indexed registry")
	return nil
}

func (c *Catalog) clearLocked() error {
	count, err := c.bleveIndex.DocCount()
	if err != nil || count == 0 {
		return err
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(count), 0, false)
	results, err := c.bleveIndex.Search(req)
	if err != nil {
		return fmt.Errorf("failed to list indexed commands: %w", err)
	}

	batch := c.bleveIndex.NewBatch()
	for _, hit := range results.Hits {
		batch.Delete(hit.ID)
	}
	if err := c.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to batch delete: %w", err)
	}
	return nil
}

// Search performs BM25 keyword search, optionally restricted to one kind.
// Empty text matches every command.
func (c *Catalog) Search(text string, kind registry.Kind, limit int) ([]Hit, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if limit <= 0 {
		limit = defaultLimit
	}

	var q query.Query
	if text == "" {
		q = bleve.NewMatchAllQuery()
	} else {
		q = c.buildMatchQuery(text)
	}
	if kind != "" {
		kindQuery := bleve.NewTermQuery(string(kind))
		kindQuery.SetField("kind")
		q = bleve.NewConjunctionQuery(q, kindQuery)
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = storedFields

	results, err := c.bleveIndex.Search(req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertBleveResults(results), nil
}

// convertBleveResults converts Bleve search results to hits.
func convertBleveResults(results *bleve.SearchResult) []Hit {
	hits := make([]Hit, 0, len(results.Hits))

	for _, hit := range results.Hits {
		name, _ := hit.Fields["name"].(string)
		description, _ := hit.Fields["description"].(string)
		kind, _ := hit.Fields["kind"].(string)

		hits = append(hits, Hit{
			ID:          hit.ID,
			Name:        name,
			Kind:        registry.Kind(kind),
			Description: description,
			Score:       hit.Score,
		})
	}

	return hits
}

// Count returns the total number of indexed commands.
func (c *Catalog) Count() (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	docCount, err := c.bleveIndex.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}

	return docCount, nil
}

// Close closes the index and releases resources.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bleveIndex != nil {
		return c.bleveIndex.Close()
	}

	return nil
}

// buildMatchQuery creates a match query tolerant of one typo per term.
func (c *Catalog) buildMatchQuery(searchText string) query.Query {
	mq := bleve.NewMatchQuery(searchText)
	mq.SetFuzziness(1)
	return mq
}
