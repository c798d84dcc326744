package search

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// BuiltinCatalog returns the default listing set: the supported crypto
// bases plus widely traded US equities. Popularity drives ranking when
// text relevance ties.
func BuiltinCatalog() []Entry {
	return append(cryptoListings(), equityListings()...)
}

// LoadCatalog reads listings from a JSON file ([{"symbol": ...}, ...]).
// An empty path falls back to the builtin catalog.
func LoadCatalog(path string) ([]Entry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return BuiltinCatalog(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog %s contains no entries", path)
	}
	return entries, nil
}

func cryptoListings() []Entry {
	return []Entry{
		{Symbol: "BTC", Name: "Bitcoin", Kind: KindCrypto, Popularity: 1.0},
		{Symbol: "ETH", Name: "Ethereum", Kind: KindCrypto, Popularity: 0.98},
		{Symbol: "SOL", Name: "Solana", Kind: KindCrypto, Popularity: 0.92},
		{Symbol: "XRP", Name: "XRP", Kind: KindCrypto, Popularity: 0.90},
		{Symbol: "DOGE", Name: "Dogecoin", Kind: KindCrypto, Popularity: 0.88},
		{Symbol: "ADA", Name: "Cardano", Kind: KindCrypto, Popularity: 0.85},
		{Symbol: "AVAX", Name: "Avalanche", Kind: KindCrypto, Popularity: 0.80},
		{Symbol: "LINK", Name: "Chainlink", Kind: KindCrypto, Popularity: 0.80},
		{Symbol: "DOT", Name: "Polkadot", Kind: KindCrypto, Popularity: 0.78},
		{Symbol: "LTC", Name: "Litecoin", Kind: KindCrypto, Popularity: 0.76},
		{Symbol: "UNI", Name: "Uniswap", Kind: KindCrypto, Popularity: 0.74},
		{Symbol: "BCH", Name: "Bitcoin Cash", Kind: KindCrypto, Popularity: 0.72},
		{Symbol: "ATOM", Name: "Cosmos", Kind: KindCrypto, Popularity: 0.68},
		{Symbol: "AAVE", Name: "Aave", Kind: KindCrypto, Popularity: 0.66},
		{Symbol: "MATIC", Name: "Polygon", Kind: KindCrypto, Popularity: 0.65},
		{Symbol: "ALGO", Name: "Algorand", Kind: KindCrypto, Popularity: 0.60},
		{Symbol: "MKR", Name: "Maker", Kind: KindCrypto, Popularity: 0.58},
		{Symbol: "SNX", Name: "Synthetix", Kind: KindCrypto, Popularity: 0.50},
		{Symbol: "CRV", Name: "Curve DAO", Kind: KindCrypto, Popularity: 0.50},
		{Symbol: "YFI", Name: "yearn.finance", Kind: KindCrypto, Popularity: 0.48},
		{Symbol: "COMP", Name: "Compound", Kind: KindCrypto, Popularity: 0.46},
		{Symbol: "SUSHI", Name: "SushiSwap", Kind: KindCrypto, Popularity: 0.44},
		{Symbol: "1INCH", Name: "1inch", Kind: KindCrypto, Popularity: 0.42},
		{Symbol: "BAT", Name: "Basic Attention Token", Kind: KindCrypto, Popularity: 0.40},
		{Symbol: "ENJ", Name: "Enjin Coin", Kind: KindCrypto, Popularity: 0.38},
		{Symbol: "ZRX", Name: "0x", Kind: KindCrypto, Popularity: 0.36},
	}
}

func equityListings() []Entry {
	return []Entry{
		{Symbol: "AAPL", Name: "Apple", Kind: KindEquity, Popularity: 1.0},
		{Symbol: "MSFT", Name: "Microsoft", Kind: KindEquity, Popularity: 0.98},
		{Symbol: "NVDA", Name: "NVIDIA", Kind: KindEquity, Popularity: 0.97},
		{Symbol: "GOOGL", Name: "Alphabet", Kind: KindEquity, Popularity: 0.95},
		{Symbol: "AMZN", Name: "Amazon", Kind: KindEquity, Popularity: 0.94},
		{Symbol: "META", Name: "Meta Platforms", Kind: KindEquity, Popularity: 0.92},
		{Symbol: "TSLA", Name: "Tesla", Kind: KindEquity, Popularity: 0.91},
		{Symbol: "JPM", Name: "JPMorgan Chase", Kind: KindEquity, Popularity: 0.84},
		{Symbol: "V", Name: "Visa", Kind: KindEquity, Popularity: 0.82},
		{Symbol: "UNH", Name: "UnitedHealth", Kind: KindEquity, Popularity: 0.80},
		{Symbol: "JNJ", Name: "Johnson & Johnson", Kind: KindEquity, Popularity: 0.78},
		{Symbol: "WMT", Name: "Walmart", Kind: KindEquity, Popularity: 0.77},
		{Symbol: "MA", Name: "Mastercard", Kind: KindEquity, Popularity: 0.76},
		{Symbol: "PG", Name: "Procter & Gamble", Kind: KindEquity, Popularity: 0.74},
		{Symbol: "XOM", Name: "Exxon Mobil", Kind: KindEquity, Popularity: 0.72},
		{Symbol: "HD", Name: "Home Depot", Kind: KindEquity, Popularity: 0.71},
		{Symbol: "DIS", Name: "Walt Disney", Kind: KindEquity, Popularity: 0.70},
		{Symbol: "BAC", Name: "Bank of America", Kind: KindEquity, Popularity: 0.68},
		{Symbol: "NFLX", Name: "Netflix", Kind: KindEquity, Popularity: 0.67},
		{Symbol: "AMD", Name: "Advanced Micro Devices", Kind: KindEquity, Popularity: 0.66},
		{Symbol: "KO", Name: "Coca-Cola", Kind: KindEquity, Popularity: 0.64},
		{Symbol: "PEP", Name: "PepsiCo", Kind: KindEquity, Popularity: 0.62},
		{Symbol: "INTC", Name: "Intel", Kind: KindEquity, Popularity: 0.60},
		{Symbol: "CSCO", Name: "Cisco", Kind: KindEquity, Popularity: 0.58},
		{Symbol: "CRM", Name: "Salesforce", Kind: KindEquity, Popularity: 0.56},
	}
}
