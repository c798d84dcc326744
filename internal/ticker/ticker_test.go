package ticker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardize_CryptoSpellings(t *testing.T) {
	for _, raw := range []string{"BTC/USD", "BTC-USD", "BTCUSD", " btc/usd "} {
		t.Run(raw, func(t *testing.T) {
			d, err := Standardize(raw)
			require.NoError(t, err)
			assert.True(t, d.IsCrypto)
			assert.Equal(t, "BTC", d.Base)
			assert.Equal(t, "BTC/USD", d.Alpaca)
			assert.Equal(t, "BTCUSD", d.OpenAI)
			assert.Equal(t, "BTC/USD", d.Display)
			assert.Equal(t, "BTC", d.Clean)
			assert.Equal(t, "BTC-USD", d.Yahoo)
			assert.Equal(t, "BTC", d.Coindesk)
		})
	}
}

func TestStandardize_CryptoBaseExtraction(t *testing.T) {
	cases := []struct {
		raw  string
		base string
	}{
		{"ETH/USDT", "ETH"},
		{"SOL-USDC", "SOL"},
		{"ETHUSDT", "ETH"},
		{"SOLUSDC", "SOL"},
		{"ADAUSD", "ADA"},
		{"DOGE", "DOGE"},
		{"1INCH", "1INCH"},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			d, err := Standardize(tc.raw)
			require.NoError(t, err)
			assert.True(t, d.IsCrypto)
			assert.Equal(t, tc.base, d.Base)
		})
	}
}

func TestStandardize_Equity(t *testing.T) {
	cases := []struct {
		raw   string
		clean string
	}{
		{"nvda", "NVDA"},
		{"AAPL", "AAPL"},
		{"brk.b", "BRKB"},
		{" tsla ", "TSLA"},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			d, err := Standardize(tc.raw)
			require.NoError(t, err)
			assert.False(t, d.IsCrypto)
			assert.Equal(t, tc.clean, d.Base)
			assert.Equal(t, tc.clean, d.Alpaca)
			assert.Equal(t, tc.clean, d.OpenAI)
			assert.Equal(t, tc.clean, d.Display)
			assert.Equal(t, tc.clean, d.Clean)
			assert.Equal(t, tc.clean, d.Yahoo)
			assert.Equal(t, tc.clean, d.Coindesk)
		})
	}
}

func TestStandardize_HeuristicMisfires(t *testing.T) {
	// Substring detection is deliberate: anything containing USD is
	// treated as crypto, even an equity-looking symbol.
	d, err := Standardize("MAUSD")
	require.NoError(t, err)
	assert.True(t, d.IsCrypto)
	assert.Equal(t, "MA", d.Base)
	assert.Equal(t, "MA/USD", d.Alpaca)
}

func TestStandardize_Empty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		_, err := Standardize(raw)
		assert.ErrorIs(t, err, ErrEmptyTicker)
	}
}

func TestConvert(t *testing.T) {
	cases := []struct {
		raw  string
		api  API
		want string
	}{
		{"ETH-USD", APIYahoo, "ETH-USD"},
		{"ETH-USD", APIOpenAI, "ETHUSD"},
		{"ETH-USD", APIAlpaca, "ETH/USD"},
		{"ETH-USD", APICoindesk, "ETH"},
		{"btcusd", APIDisplay, "BTC/USD"},
		{"nvda", APIYahoo, "NVDA"},
		{"brk.b", APIOpenAI, "BRKB"},
	}
	for _, tc := range cases {
		got, err := Convert(tc.raw, tc.api)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s via %s", tc.raw, tc.api)
	}

	_, err := Convert("  ", APIYahoo)
	assert.ErrorIs(t, err, ErrEmptyTicker)
}

func TestForAPI_UnknownFallsBackToOriginal(t *testing.T) {
	d, err := Standardize("BTC/USD")
	require.NoError(t, err)
	assert.Equal(t, "BTC/USD", d.ForAPI("bloomberg"))
}

func TestBaseAndIsCrypto(t *testing.T) {
	base, err := Base("linkusdt")
	require.NoError(t, err)
	assert.Equal(t, "LINK", base)

	crypto, err := IsCrypto("AMD")
	require.NoError(t, err)
	assert.False(t, crypto)

	crypto, err = IsCrypto("SOL")
	require.NoError(t, err)
	assert.True(t, crypto)

	_, err = Base("")
	assert.ErrorIs(t, err, ErrEmptyTicker)
}

func TestNormalizeForLogs(t *testing.T) {
	assert.Equal(t, "BTC/USD", NormalizeForLogs(" btc/usd "))
	assert.Equal(t, "BTC/USD", NormalizeForLogs("BTCUSD"))
	assert.Equal(t, "NVDA", NormalizeForLogs("nvda"))
	assert.Equal(t, "", NormalizeForLogs(""))
	assert.Equal(t, "  ", NormalizeForLogs("  "))
}

func TestNormalizeList(t *testing.T) {
	got := NormalizeList([]string{" nvda ", "BTC/USD", "nvda", "", "eth-usd"})
	assert.Equal(t, []string{"NVDA", "BTC/USD", "ETH/USD"}, got)

	assert.Nil(t, NormalizeList(nil))

	// 不同拼写折叠成同一个资产
	got = NormalizeList([]string{"BTCUSD", "BTC-USD", "BTC/USD"})
	assert.Equal(t, []string{"BTC/USD"}, got)
}
