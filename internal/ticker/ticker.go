// Package ticker standardizes user-entered ticker symbols into the
// per-API formats the rest of the system consumes.
package ticker

import (
	"errors"
	"strings"

	"tradeagents/internal/logger"
)

var ErrEmptyTicker = errors.New("ticker symbol cannot be empty")

// knownCryptoBases are bare base symbols treated as crypto even when
// they carry no separator or quote suffix.
var knownCryptoBases = map[string]struct{}{
	"BTC": {}, "ETH": {}, "ADA": {}, "SOL": {}, "DOGE": {},
	"MATIC": {}, "AVAX": {}, "DOT": {}, "LINK": {}, "UNI": {},
	"LTC": {}, "BCH": {}, "XRP": {}, "ATOM": {}, "ALGO": {},
	"AAVE": {}, "COMP": {}, "MKR": {}, "SNX": {}, "YFI": {},
	"SUSHI": {}, "CRV": {}, "1INCH": {}, "ENJ": {}, "BAT": {},
	"ZRX": {},
}

// cryptoIndicators mark a symbol as crypto when any of them appears
// anywhere in it. Substring matching is intentional and can misfire
// on exotic equity tickers; callers rely on the stable behavior.
var cryptoIndicators = []string{"/", "-", "USD", "USDT", "USDC", "BTC", "ETH"}

// Descriptor holds every per-API spelling of one standardized ticker.
type Descriptor struct {
	Original string `json:"original"`
	Base     string `json:"base_symbol"`
	IsCrypto bool   `json:"is_crypto"`
	Alpaca   string `json:"alpaca"`
	OpenAI   string `json:"openai"`
	Display  string `json:"display"`
	Clean    string `json:"clean"`
	Yahoo    string `json:"yahoo"`
	Coindesk string `json:"coindesk"`
}

// Standardize trims, uppercases and classifies a raw ticker, returning
// the full set of per-API formats. The input may use any of the common
// spellings ("BTC/USD", "BTC-USD", "BTCUSD", "brk.b").
func Standardize(raw string) (Descriptor, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return Descriptor{}, ErrEmptyTicker
	}

	if isCryptoSymbol(s) {
		base := cryptoBase(s)
		return Descriptor{
			Original: s,
			Base:     base,
			IsCrypto: true,
			Alpaca:   base + "/USD",
			OpenAI:   base + "USD",
			Display:  base + "/USD",
			Clean:    base,
			Yahoo:    base + "-USD",
			Coindesk: base,
		}, nil
	}

	clean := cleanEquity(s)
	return Descriptor{
		Original: s,
		Base:     clean,
		IsCrypto: false,
		Alpaca:   clean,
		OpenAI:   clean,
		Display:  clean,
		Clean:    clean,
		Yahoo:    clean,
		Coindesk: clean,
	}, nil
}

func isCryptoSymbol(s string) bool {
	if _, ok := knownCryptoBases[s]; ok {
		return true
	}
	for _, indicator := range cryptoIndicators {
		if strings.Contains(s, indicator) {
			return true
		}
	}
	return false
}

// cryptoBase extracts the base asset. Separator wins over quote
// suffix, and USDT/USDC are stripped before the shorter USD.
func cryptoBase(s string) string {
	if i := strings.Index(s, "/"); i >= 0 {
		return s[:i]
	}
	if i := strings.Index(s, "-"); i >= 0 {
		return s[:i]
	}
	switch {
	case strings.HasSuffix(s, "USDT"):
		return strings.TrimSuffix(s, "USDT")
	case strings.HasSuffix(s, "USDC"):
		return strings.TrimSuffix(s, "USDC")
	case strings.HasSuffix(s, "USD"):
		return strings.TrimSuffix(s, "USD")
	}
	return s
}

func cleanEquity(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Base returns the base asset symbol ("BTC" for any BTC pair, the
// cleaned symbol for equities).
func Base(raw string) (string, error) {
	d, err := Standardize(raw)
	if err != nil {
		return "", err
	}
	return d.Base, nil
}

// IsCrypto reports whether the ticker is classified as crypto.
func IsCrypto(raw string) (bool, error) {
	d, err := Standardize(raw)
	if err != nil {
		return false, err
	}
	return d.IsCrypto, nil
}

// NormalizeForLogs returns the display spelling for log lines and
// never fails: unparseable input falls back to a trimmed-uppercased
// copy, or to the input itself when nothing remains after trimming.
func NormalizeForLogs(raw string) string {
	d, err := Standardize(raw)
	if err == nil {
		return d.Display
	}
	logger.Debugf("ticker: normalize %q for logging: %v", raw, err)
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	if trimmed == "" {
		return raw
	}
	return trimmed
}

// NormalizeList standardizes a watchlist into display spellings,
// dropping blanks and collapsing duplicate spellings of one asset
// while preserving order.
func NormalizeList(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		d, err := Standardize(s)
		if err != nil {
			continue
		}
		if _, ok := seen[d.Display]; ok {
			continue
		}
		seen[d.Display] = struct{}{}
		out = append(out, d.Display)
	}
	return out
}
