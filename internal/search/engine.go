// Package search serves ticker lookups for the dashboard: type a few
// characters, get ranked symbol suggestions.
package search

import (
	"sort"
	"strings"
)

const (
	KindCrypto = "crypto"
	KindEquity = "equity"
)

// Entry is one searchable listing.
type Entry struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Kind       string  `json:"kind"`
	Popularity float64 `json:"popularity_score"`
}

type Engine interface {
	Search(query string, limit int) []Entry
	GetBySymbol(symbol string) *Entry
	Close() error
}

// InMemoryEngine is the fallback when no bleve index is available:
// symbol prefix match first, then name substring match.
type InMemoryEngine struct {
	entries []Entry
}

func NewInMemoryEngine(entries []Entry) *InMemoryEngine {
	return &InMemoryEngine{entries: entries}
}

func (e *InMemoryEngine) Search(query string, limit int) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var results []Entry
	for _, entry := range e.entries {
		if strings.HasPrefix(strings.ToLower(entry.Symbol), q) ||
			strings.Contains(strings.ToLower(entry.Name), q) {
			results = append(results, entry)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Popularity != results[j].Popularity {
			return results[i].Popularity > results[j].Popularity
		}
		return results[i].Symbol < results[j].Symbol
	})
	return capResults(results, limit)
}

func (e *InMemoryEngine) GetBySymbol(symbol string) *Entry {
	for _, entry := range e.entries {
		if strings.EqualFold(entry.Symbol, symbol) {
			found := entry
			return &found
		}
	}
	return nil
}

func (e *InMemoryEngine) Close() error { return nil }

func capResults(results []Entry, limit int) []Entry {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
