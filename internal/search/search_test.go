package search

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemEngine(t *testing.T) *BleveEngine {
	t.Helper()
	engine, err := NewBleveEngine("", BuiltinCatalog())
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

func symbols(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Symbol)
	}
	return out
}

func TestBleveEngine_ExactSymbolWins(t *testing.T) {
	engine := newMemEngine(t)

	results := engine.Search("NVDA", 10)
	require.NotEmpty(t, results)
	assert.Equal(t, "NVDA", results[0].Symbol)
	assert.Equal(t, KindEquity, results[0].Kind)
}

func TestBleveEngine_PrefixFindsSymbol(t *testing.T) {
	engine := newMemEngine(t)

	results := engine.Search("bt", 10)
	assert.Contains(t, symbols(results), "BTC")
}

func TestBleveEngine_NameSearch(t *testing.T) {
	engine := newMemEngine(t)

	results := engine.Search("bitcoin", 10)
	syms := symbols(results)
	require.Contains(t, syms, "BTC")
	require.Contains(t, syms, "BCH")
	assert.Less(t, indexOf(syms, "BTC"), indexOf(syms, "BCH"))
}

func TestBleveEngine_LimitApplied(t *testing.T) {
	engine := newMemEngine(t)

	results := engine.Search("a", 3)
	assert.LessOrEqual(t, len(results), 3)
}

func TestBleveEngine_EmptyQuery(t *testing.T) {
	engine := newMemEngine(t)

	assert.Nil(t, engine.Search("   ", 10))
}

func TestBleveEngine_GetBySymbol(t *testing.T) {
	engine := newMemEngine(t)

	entry := engine.GetBySymbol("eth")
	require.NotNil(t, entry)
	assert.Equal(t, "Ethereum", entry.Name)

	assert.Nil(t, engine.GetBySymbol("ZZZZZ"))
}

func TestBleveEngine_ReopensExistingIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickers.bleve")

	engine, err := NewBleveEngine(path, BuiltinCatalog())
	require.NoError(t, err)
	require.NoError(t, engine.Close())

	// entries are ignored when the index already exists on disk
	reopened, err := NewBleveEngine(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	entry := reopened.GetBySymbol("BTC")
	require.NotNil(t, entry)
	assert.Equal(t, "Bitcoin", entry.Name)
}

func TestInMemoryEngine_PrefixAndNameMatch(t *testing.T) {
	engine := NewInMemoryEngine(BuiltinCatalog())

	byPrefix := engine.Search("do", 10)
	assert.Contains(t, symbols(byPrefix), "DOGE")
	assert.Contains(t, symbols(byPrefix), "DOT")

	byName := engine.Search("apple", 10)
	require.NotEmpty(t, byName)
	assert.Equal(t, "AAPL", byName[0].Symbol)
}

func TestInMemoryEngine_PopularityOrders(t *testing.T) {
	engine := NewInMemoryEngine([]Entry{
		{Symbol: "AAA", Name: "Alpha", Kind: KindEquity, Popularity: 0.2},
		{Symbol: "AAB", Name: "Beta", Kind: KindEquity, Popularity: 0.9},
	})

	results := engine.Search("aa", 10)
	require.Len(t, results, 2)
	assert.Equal(t, "AAB", results[0].Symbol)
}

func TestInMemoryEngine_Limit(t *testing.T) {
	engine := NewInMemoryEngine(BuiltinCatalog())

	assert.Len(t, engine.Search("a", 2), 2)
	assert.Nil(t, engine.Search("", 5))
}

func TestLoadCatalog_BuiltinWhenEmptyPath(t *testing.T) {
	entries, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Len(t, entries, 51)
}

func TestLoadCatalog_FromFile(t *testing.T) {
	custom := []Entry{
		{Symbol: "TEST", Name: "Test Listing", Kind: KindEquity, Popularity: 0.5},
	}
	raw, err := json.Marshal(custom)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	entries, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "TEST", entries[0].Symbol)
}

func TestLoadCatalog_Errors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("[]"), 0o644))
	_, err = LoadCatalog(empty)
	assert.Error(t, err)
}

func indexOf(list []string, target string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return -1
}
