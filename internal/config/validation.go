package config

import (
	"fmt"
	"net/url"
	"strings"
)

func validate(c *Config) error {
	if err := c.App.validate(); err != nil {
		return err
	}
	if err := c.Dashboard.validate(); err != nil {
		return err
	}
	if err := c.Market.validate(); err != nil {
		return err
	}
	if err := c.Search.validate(); err != nil {
		return err
	}
	return nil
}

func (a *AppConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(a.LogLevel)) {
	case "debug", "info", "warn", "warning", "error":
		return nil
	}
	return fmt.Errorf("app.log_level must be one of debug/info/warn/error")
}

func (d *DashboardConfig) validate() error {
	if strings.TrimSpace(d.HTTPAddr) == "" {
		return fmt.Errorf("dashboard.http_addr cannot be empty")
	}
	if strings.TrimSpace(d.SettingsDBPath) == "" {
		return fmt.Errorf("dashboard.settings_db_path cannot be empty")
	}
	if strings.TrimSpace(d.ReportDBPath) == "" {
		return fmt.Errorf("dashboard.report_db_path cannot be empty")
	}
	return nil
}

func (m *MarketConfig) validate() error {
	rest := strings.TrimSpace(m.BinanceREST)
	if rest == "" {
		return fmt.Errorf("market.binance_rest cannot be empty")
	}
	u, err := url.Parse(rest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("market.binance_rest must be a full URL: %s", rest)
	}
	if m.QuoteTTLSeconds <= 0 {
		return fmt.Errorf("market.quote_ttl_seconds must be > 0")
	}
	if m.KlineLimit < 10 || m.KlineLimit > 1000 {
		return fmt.Errorf("market.kline_limit must be in [10,1000]")
	}
	if strings.TrimSpace(m.KlineInterval) == "" {
		return fmt.Errorf("market.kline_interval cannot be empty")
	}
	return nil
}

func (s *SearchConfig) validate() error {
	if s.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be > 0")
	}
	return nil
}
