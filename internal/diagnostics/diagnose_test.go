package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnose_Categories(t *testing.T) {
	cases := []struct {
		name     string
		message  string
		kind     Kind
		category string
	}{
		{"openai key", "Invalid API key provided for OpenAI", KindNone, CategoryOpenAIAPIKey},
		{"org verification", "Your organization must complete verification before use", KindNone, CategoryOrgVerification},
		{"alpaca key", "Alpaca rejected the API key", KindNone, CategoryAlpacaAPIKey},
		{"trading key", "trading API key unauthorized", KindNone, CategoryAlpacaAPIKey},
		{"rate limit spaced", "Rate limit exceeded, retry later", KindNone, CategoryRateLimit},
		{"rate limit wire", "error code rate_limit_exceeded", KindNone, CategoryRateLimit},
		{"network", "Network is unreachable", KindNone, CategoryNetwork},
		{"connection refused", "connection refused by host", KindNone, CategoryNetwork},
		{"timeout in message", "Connection timeout after 30 seconds", KindNone, CategoryTimeout},
		{"network with timeout kind", "connection reset by peer", KindTimeout, CategoryTimeout},
		{"insufficient data", "Insufficient data for EMA window", KindNone, CategoryInsufficientData},
		{"no data", "No data returned for symbol", KindNone, CategoryInsufficientData},
		{"kind only timeout", "operation gave up", KindTimeout, CategoryTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, ok := Diagnose(tc.message, tc.kind)
			require.True(t, ok)
			assert.Equal(t, tc.category, d.Category)
		})
	}
}

func TestDiagnose_FirstMatchWins(t *testing.T) {
	// Carries both an OpenAI key signature and a rate limit one; the
	// earlier rule decides.
	d, ok := Diagnose("OpenAI API key hit a rate limit", KindNone)
	require.True(t, ok)
	assert.Equal(t, CategoryOpenAIAPIKey, d.Category)

	// "api key" with both alpaca and openai present resolves to the
	// OpenAI rule, which sits first.
	d, ok = Diagnose("api key invalid (openai proxy for alpaca)", KindNone)
	require.True(t, ok)
	assert.Equal(t, CategoryOpenAIAPIKey, d.Category)
}

func TestDiagnose_NoMatch(t *testing.T) {
	_, ok := Diagnose("segmentation fault", KindNone)
	assert.False(t, ok)

	_, ok = Diagnose("", KindNone)
	assert.False(t, ok)
}

func TestDiagnose_CaseInsensitive(t *testing.T) {
	d, ok := Diagnose("RATE LIMIT EXCEEDED", KindNone)
	require.True(t, ok)
	assert.Equal(t, CategoryRateLimit, d.Category)
}

func TestQuickDiagnose(t *testing.T) {
	hint, ok := QuickDiagnose("insufficient data for analysis")
	require.True(t, ok)
	assert.Contains(t, hint, "📊 Insufficient Data Error")
	assert.Contains(t, hint, "1. Try a different ticker symbol")

	_, ok = QuickDiagnose("nothing recognizable")
	assert.False(t, ok)
}

func TestCatalog(t *testing.T) {
	entries := Catalog()
	require.Len(t, entries, 7)
	assert.Equal(t, CategoryOpenAIAPIKey, entries[0].Category)
	assert.Equal(t, CategoryTimeout, entries[6].Category)
	for _, e := range entries {
		assert.NotEmpty(t, e.Title)
		assert.NotEmpty(t, e.Description)
		assert.GreaterOrEqual(t, len(e.Solutions), 4)
		assert.NotEmpty(t, e.Links)
	}

	d, ok := Lookup(CategoryRateLimit)
	require.True(t, ok)
	assert.Equal(t, "⏱️ API Rate Limit Error", d.Title)

	_, ok = Lookup("unknown")
	assert.False(t, ok)
}
