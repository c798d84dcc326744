package diagnostics

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_RenderMatched(t *testing.T) {
	r := Report{
		Tool:    "get_stock_data",
		Kind:    KindTimeout,
		Message: "Connection timeout after 30 seconds",
		Context: map[string]string{"ticker": "NVDA", "attempt": "2"},
	}
	out := r.Render()

	banner := strings.Repeat("=", 60)
	require.True(t, strings.HasPrefix(out, banner+"\n🚨 TRADING AGENTS ERROR REPORT\n"+banner))
	assert.True(t, strings.HasSuffix(out, banner))

	assert.Contains(t, out, "🔧 Failed Tool: get_stock_data")
	assert.Contains(t, out, "⚠️ Error Type: TimeoutError")
	assert.Contains(t, out, "📝 Error Message: Connection timeout after 30 seconds")

	title := "⏰ Operation Timeout Error"
	assert.Contains(t, out, title+"\n"+strings.Repeat("-", utf8.RuneCountInString(title)))
	assert.Contains(t, out, "💡 RECOMMENDED SOLUTIONS:\n   1. Check your internet connection speed")
	assert.Contains(t, out, "🔗 HELPFUL LINKS:\n   Network Speed Test: https://fast.com/")

	// Context keys come out sorted.
	assert.Contains(t, out, "📊 ERROR CONTEXT:\n   attempt: 2\n   ticker: NVDA")

	assert.Contains(t, out, "🆘 If problems persist:")
}

func TestReport_RenderGenericFallback(t *testing.T) {
	out := Report{Message: "something inexplicable happened"}.Render()

	assert.Contains(t, out, "💡 GENERAL TROUBLESHOOTING:")
	assert.Contains(t, out, "   4. Try running the analysis again in a few minutes")
	assert.NotContains(t, out, "🔧 Failed Tool:")
	assert.NotContains(t, out, "⚠️ Error Type:")
	assert.NotContains(t, out, "📊 ERROR CONTEXT:")
	assert.NotContains(t, out, "💡 RECOMMENDED SOLUTIONS:")
}

func TestReport_RenderDeterministic(t *testing.T) {
	r := Report{
		Message: "rate limit reached",
		Context: map[string]string{"b": "2", "a": "1", "c": "3"},
	}
	first := r.Render()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, r.Render())
	}
	assert.Contains(t, first, "   a: 1\n   b: 2\n   c: 3")
}

func TestFromAPIError(t *testing.T) {
	body := []byte(`{"error": {"message": "Rate limit reached for gpt-5-nano", "type": "rate_limit_error"}}`)
	r := FromAPIError("openai_chat", body)
	assert.Equal(t, "openai_chat", r.Tool)
	assert.Equal(t, "Rate limit reached for gpt-5-nano", r.Message)
	assert.Equal(t, Kind("rate_limit_error"), r.Kind)

	d, ok := Diagnose(r.Message, r.Kind)
	require.True(t, ok)
	assert.Equal(t, CategoryRateLimit, d.Category)
}

func TestFromAPIError_NonJSON(t *testing.T) {
	r := FromAPIError("alpaca_quotes", []byte("  502 Bad Gateway  "))
	assert.Equal(t, "502 Bad Gateway", r.Message)
	assert.Equal(t, KindNone, r.Kind)
}

func TestFromAPIError_JSONWithoutErrorObject(t *testing.T) {
	r := FromAPIError("tool", []byte(`{"status": "down"}`))
	assert.Equal(t, `{"status": "down"}`, r.Message)
	assert.Equal(t, KindNone, r.Kind)
}

func TestCheckConfiguration(t *testing.T) {
	t.Run("all missing", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		t.Setenv("ALPACA_API_KEY", "")
		t.Setenv("ALPACA_SECRET_KEY", "")
		issues := CheckConfiguration()
		require.Len(t, issues, 2)
		assert.Equal(t, "missing_config", issues[0].Type)
		assert.Equal(t, "high", issues[0].Severity)
		assert.Contains(t, issues[0].Message, "OPENAI_API_KEY")
		assert.Contains(t, issues[1].Message, "Alpaca")
	})

	t.Run("alpaca secret alone is not enough", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("ALPACA_API_KEY", "")
		t.Setenv("ALPACA_SECRET_KEY", "secret")
		issues := CheckConfiguration()
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0].Message, "Alpaca")
	})

	t.Run("fully configured", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("ALPACA_API_KEY", "key")
		t.Setenv("ALPACA_SECRET_KEY", "secret")
		assert.Empty(t, CheckConfiguration())
	})
}
