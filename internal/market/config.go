package market

import (
	"strings"
	"time"
)

type Config struct {
	RESTBaseURL string
	HTTPTimeout time.Duration
	QuoteTTL    time.Duration
	KlineLimit  int
}

func (c *Config) withDefaults() Config {
	out := *c
	out.RESTBaseURL = strings.TrimSpace(out.RESTBaseURL)
	if out.RESTBaseURL == "" {
		out.RESTBaseURL = "https://api.binance.com"
	}
	if out.HTTPTimeout <= 0 {
		out.HTTPTimeout = 15 * time.Second
	}
	if out.QuoteTTL <= 0 {
		out.QuoteTTL = 30 * time.Second
	}
	if out.KlineLimit <= 0 {
		out.KlineLimit = 180
	}
	return out
}
