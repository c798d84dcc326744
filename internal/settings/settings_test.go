package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_Values(t *testing.T) {
	d := Defaults()
	assert.Equal(t, "NVDA, AMD, TSLA", d.TickerInput)
	assert.True(t, d.AnalystMarket)
	assert.True(t, d.AnalystSocial)
	assert.True(t, d.AnalystNews)
	assert.True(t, d.AnalystFundamentals)
	assert.True(t, d.AnalystMacro)
	assert.Equal(t, "Shallow", d.ResearchDepth)
	assert.False(t, d.AllowShorts)
	assert.False(t, d.LoopEnabled)
	assert.Equal(t, 60, d.LoopInterval)
	assert.False(t, d.MarketHourEnabled)
	assert.Equal(t, "", d.MarketHoursInput)
	assert.False(t, d.TradeAfterAnalyze)
	assert.Equal(t, 4500, d.TradeDollarAmount)
	assert.Equal(t, "gpt-5-nano", d.QuickLLM)
	assert.Equal(t, "gpt-5-nano", d.DeepLLM)
}

func TestDefaults_IndependentCopies(t *testing.T) {
	first := Defaults()
	first.TickerInput = "SPY"
	first.LoopInterval = 5
	first.AnalystMarket = false

	second := Defaults()
	assert.Equal(t, "NVDA, AMD, TSLA", second.TickerInput)
	assert.Equal(t, 60, second.LoopInterval)
	assert.True(t, second.AnalystMarket)
}

func TestSettings_Tickers(t *testing.T) {
	assert.Equal(t, []string{"NVDA", "AMD", "TSLA"}, Defaults().Tickers())

	s := Settings{TickerInput: " btc/usd ,, NVDA ,  "}
	assert.Equal(t, []string{"btc/usd", "NVDA"}, s.Tickers())

	assert.Empty(t, Settings{}.Tickers())
}

func TestMerge(t *testing.T) {
	merged, err := Merge(Defaults(), map[string]any{
		"ticker_input":  "SPY, QQQ",
		"loop_enabled":  true,
		"loop_interval": 15,
	})
	require.NoError(t, err)
	assert.Equal(t, "SPY, QQQ", merged.TickerInput)
	assert.True(t, merged.LoopEnabled)
	assert.Equal(t, 15, merged.LoopInterval)
	// Untouched keys keep their defaults.
	assert.Equal(t, "gpt-5-nano", merged.QuickLLM)
	assert.Equal(t, 4500, merged.TradeDollarAmount)
}

func TestMerge_UnknownKeyRejected(t *testing.T) {
	_, err := Merge(Defaults(), map[string]any{"ticker_inputs": "SPY"})
	assert.Error(t, err)
}

func TestMerge_Empty(t *testing.T) {
	merged, err := Merge(Defaults(), nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), merged)
}

func TestValidatePayload(t *testing.T) {
	err := ValidatePayload(map[string]any{
		"ticker_input":  "SPY",
		"loop_enabled":  true,
		"loop_interval": 30,
	})
	assert.NoError(t, err)

	err = ValidatePayload(map[string]any{"loop_interval": "soon"})
	assert.Error(t, err)

	err = ValidatePayload(map[string]any{"no_such_setting": 1})
	assert.Error(t, err)

	err = ValidatePayload(map[string]any{"loop_interval": 0})
	assert.Error(t, err)
}
