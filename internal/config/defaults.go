package config

import "strings"

const (
	defaultAppEnv           = "dev"
	defaultAppLogLevel      = "info"
	defaultAppLogPath       = "data/logs/tradeagents.log"
	defaultAppReportLogPath = "data/logs/reports.log"
	defaultAppDataDir       = "data"
	defaultDashHTTPAddr     = ":8600"
	defaultDashSettings     = "configs/settings.yaml"
	defaultDashSettingsDB   = "db/settings.db"
	defaultDashReportDB     = "db/reports.db"
	defaultMarketREST       = "https://api.binance.com"
	defaultMarketQuoteTTL   = 30
	defaultMarketInterval   = "1h"
	defaultMarketKlineLimit = 180
	defaultSearchMaxResults = 20
)

func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Dashboard.applyDefaults(keys)
	c.Market.applyDefaults(keys)
	c.Search.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.log_path", &a.LogPath, defaultAppLogPath),
		stringFieldDefault("app.report_log_path", &a.ReportLogPath, defaultAppReportLogPath),
		stringFieldDefault("app.data_dir", &a.DataDir, defaultAppDataDir),
	)
}

func (d *DashboardConfig) applyDefaults(keys keySet) {
	if d == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("dashboard.http_addr", &d.HTTPAddr, defaultDashHTTPAddr),
		stringFieldDefault("dashboard.settings_path", &d.SettingsPath, defaultDashSettings),
		stringFieldDefault("dashboard.settings_db_path", &d.SettingsDBPath, defaultDashSettingsDB),
		stringFieldDefault("dashboard.report_db_path", &d.ReportDBPath, defaultDashReportDB),
	)
}

func (m *MarketConfig) applyDefaults(keys keySet) {
	if m == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("market.binance_rest", &m.BinanceREST, defaultMarketREST),
		stringFieldDefault("market.kline_interval", &m.KlineInterval, defaultMarketInterval),
		fieldDefault{
			key:   "market.quote_ttl_seconds",
			need:  func() bool { return m.QuoteTTLSeconds <= 0 },
			apply: func() { m.QuoteTTLSeconds = defaultMarketQuoteTTL },
		},
		fieldDefault{
			key:   "market.kline_limit",
			need:  func() bool { return m.KlineLimit <= 0 },
			apply: func() { m.KlineLimit = defaultMarketKlineLimit },
		},
	)
}

func (s *SearchConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "search.max_results",
			need:  func() bool { return s.MaxResults <= 0 },
			apply: func() { s.MaxResults = defaultSearchMaxResults },
		},
	)
}

// Helper functions

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
