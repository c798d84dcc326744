package config

import "strings"

// Config is the top-level deployment configuration. Dashboard user
// state (watchlist, toggles) lives in the settings registry, not
// here.
type Config struct {
	App       AppConfig       `toml:"app"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Market    MarketConfig    `toml:"market"`
	Search    SearchConfig    `toml:"search"`
}

type AppConfig struct {
	Env           string `toml:"env"`
	LogLevel      string `toml:"log_level"`
	LogPath       string `toml:"log_path"`
	ReportLogPath string `toml:"report_log_path"`
	DataDir       string `toml:"data_dir"`
}

// DashboardConfig covers the HTTP surface and its stores.
type DashboardConfig struct {
	HTTPAddr       string `toml:"http_addr"`
	AuthToken      string `toml:"auth_token"`
	SettingsPath   string `toml:"settings_path"`
	SettingsDBPath string `toml:"settings_db_path"`
	ReportDBPath   string `toml:"report_db_path"`
}

// MarketConfig covers quote and candle retrieval.
type MarketConfig struct {
	BinanceREST     string `toml:"binance_rest"`
	QuoteTTLSeconds int    `toml:"quote_ttl_seconds"`
	KlineInterval   string `toml:"kline_interval"`
	KlineLimit      int    `toml:"kline_limit"`
}

// SearchConfig covers the ticker search index.
type SearchConfig struct {
	IndexPath   string `toml:"index_path"`
	CatalogPath string `toml:"catalog_path"`
	MaxResults  int    `toml:"max_results"`
}

// keySet tracks which config paths the user set explicitly, so
// defaults never clobber a deliberate zero value.
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

// fieldDefault is one default-value rule.
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
