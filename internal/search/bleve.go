package search

import (
	"fmt"
	"sort"
	"strings"

	"tradeagents/internal/logger"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// BleveEngine ranks listings with boosted text queries, blending bleve's
// relevance score with each entry's popularity.
type BleveEngine struct {
	index bleve.Index
}

// NewBleveEngine indexes entries at indexPath, reusing an existing index
// when one is already on disk. An empty path builds an in-memory index.
func NewBleveEngine(indexPath string, entries []Entry) (*BleveEngine, error) {
	var (
		index bleve.Index
		err   error
	)
	if strings.TrimSpace(indexPath) == "" {
		index, err = bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		if err := indexEntries(index, entries); err != nil {
			return nil, err
		}
		return &BleveEngine{index: index}, nil
	}

	index, err = bleve.Open(indexPath)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		logger.Debugf("indexing %d ticker entries at %s", len(entries), indexPath)
		if err := indexEntries(index, entries); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	} else {
		logger.Debugf("opened existing ticker index at %s", indexPath)
	}
	return &BleveEngine{index: index}, nil
}

func indexEntries(index bleve.Index, entries []Entry) error {
	batch := index.NewBatch()
	for _, entry := range entries {
		id := fmt.Sprintf("%s-%s", entry.Symbol, entry.Kind)
		if err := batch.Index(id, entry); err != nil {
			return fmt.Errorf("batch index %s: %w", id, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return fmt.Errorf("execute index batch: %w", err)
	}
	return nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	entryMapping := bleve.NewDocumentMapping()

	popularityFieldMapping := bleve.NewNumericFieldMapping()
	popularityFieldMapping.Store = true
	popularityFieldMapping.Index = true
	entryMapping.AddFieldMappingsAt("popularity_score", popularityFieldMapping)

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Store = true
	textFieldMapping.Index = true
	entryMapping.AddFieldMappingsAt("symbol", textFieldMapping)
	entryMapping.AddFieldMappingsAt("name", textFieldMapping)
	entryMapping.AddFieldMappingsAt("kind", textFieldMapping)

	indexMapping.AddDocumentMapping("_default", entryMapping)
	return indexMapping
}

// Search combines exact, prefix, name and wildcard queries so "bt" finds
// BTC before BAT, and "apple" finds AAPL by name.
func (e *BleveEngine) Search(query string, limit int) []Entry {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	exactQuery := bleve.NewTermQuery(strings.ToLower(query))
	exactQuery.SetField("symbol")
	exactQuery.SetBoost(10.0)

	prefixQuery := bleve.NewPrefixQuery(strings.ToLower(query))
	prefixQuery.SetField("symbol")
	prefixQuery.SetBoost(5.0)

	nameMatchQuery := bleve.NewMatchQuery(query)
	nameMatchQuery.SetField("name")
	nameMatchQuery.SetBoost(3.0)

	wildcardSymbol := bleve.NewWildcardQuery("*" + strings.ToLower(query) + "*")
	wildcardSymbol.SetField("symbol")
	wildcardSymbol.SetBoost(2.0)

	wildcardName := bleve.NewWildcardQuery("*" + strings.ToLower(query) + "*")
	wildcardName.SetField("name")
	wildcardName.SetBoost(1.5)

	searchQuery := bleve.NewDisjunctionQuery(
		exactQuery,
		prefixQuery,
		nameMatchQuery,
		wildcardSymbol,
		wildcardName,
	)

	searchRequest := bleve.NewSearchRequest(searchQuery)
	searchRequest.Fields = []string{"symbol", "name", "kind", "popularity_score"}
	searchRequest.Size = 100

	searchResults, err := e.index.Search(searchRequest)
	if err != nil {
		logger.Warnf("ticker search %q failed: %v", query, err)
		return nil
	}

	type scoredEntry struct {
		entry Entry
		final float64
	}
	scored := make([]scoredEntry, 0, len(searchResults.Hits))
	for _, hit := range searchResults.Hits {
		entry := entryFromFields(hit.Fields)
		// Relevance stays primary, popularity breaks near-ties.
		scored = append(scored, scoredEntry{
			entry: entry,
			final: hit.Score*0.7 + entry.Popularity*0.3,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].final != scored[j].final {
			return scored[i].final > scored[j].final
		}
		return scored[i].entry.Symbol < scored[j].entry.Symbol
	})

	results := make([]Entry, 0, len(scored))
	for _, s := range scored {
		results = append(results, s.entry)
	}
	return capResults(results, limit)
}

func (e *BleveEngine) GetBySymbol(symbol string) *Entry {
	termQuery := bleve.NewTermQuery(strings.ToLower(strings.TrimSpace(symbol)))
	termQuery.SetField("symbol")

	searchRequest := bleve.NewSearchRequest(termQuery)
	searchRequest.Fields = []string{"symbol", "name", "kind", "popularity_score"}
	searchRequest.Size = 1

	searchResults, err := e.index.Search(searchRequest)
	if err != nil || len(searchResults.Hits) == 0 {
		return nil
	}
	entry := entryFromFields(searchResults.Hits[0].Fields)
	return &entry
}

func (e *BleveEngine) Close() error {
	return e.index.Close()
}

func entryFromFields(fields map[string]interface{}) Entry {
	return Entry{
		Symbol:     fieldString(fields, "symbol"),
		Name:       fieldString(fields, "name"),
		Kind:       fieldString(fields, "kind"),
		Popularity: fieldFloat(fields, "popularity_score"),
	}
}

func fieldString(fields map[string]interface{}, key string) string {
	if val, ok := fields[key].(string); ok {
		return val
	}
	return ""
}

func fieldFloat(fields map[string]interface{}, key string) float64 {
	if val, ok := fields[key].(float64); ok {
		return val
	}
	return 0.0
}
