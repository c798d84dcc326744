// Package settings holds the dashboard settings record, its defaults,
// and the overrides registry that keeps a running process in sync with
// an operator-edited file.
package settings

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Settings is the flat dashboard settings record. Field names mirror
// the keys the web UI persists, so the JSON tags are a contract.
type Settings struct {
	TickerInput         string `json:"ticker_input" yaml:"ticker_input" mapstructure:"ticker_input"`
	AnalystMarket       bool   `json:"analyst_market" yaml:"analyst_market" mapstructure:"analyst_market"`
	AnalystSocial       bool   `json:"analyst_social" yaml:"analyst_social" mapstructure:"analyst_social"`
	AnalystNews         bool   `json:"analyst_news" yaml:"analyst_news" mapstructure:"analyst_news"`
	AnalystFundamentals bool   `json:"analyst_fundamentals" yaml:"analyst_fundamentals" mapstructure:"analyst_fundamentals"`
	AnalystMacro        bool   `json:"analyst_macro" yaml:"analyst_macro" mapstructure:"analyst_macro"`
	ResearchDepth       string `json:"research_depth" yaml:"research_depth" mapstructure:"research_depth"`
	AllowShorts         bool   `json:"allow_shorts" yaml:"allow_shorts" mapstructure:"allow_shorts"`
	LoopEnabled         bool   `json:"loop_enabled" yaml:"loop_enabled" mapstructure:"loop_enabled"`
	LoopInterval        int    `json:"loop_interval" yaml:"loop_interval" mapstructure:"loop_interval"`
	MarketHourEnabled   bool   `json:"market_hour_enabled" yaml:"market_hour_enabled" mapstructure:"market_hour_enabled"`
	MarketHoursInput    string `json:"market_hours_input" yaml:"market_hours_input" mapstructure:"market_hours_input"`
	TradeAfterAnalyze   bool   `json:"trade_after_analyze" yaml:"trade_after_analyze" mapstructure:"trade_after_analyze"`
	TradeDollarAmount   int    `json:"trade_dollar_amount" yaml:"trade_dollar_amount" mapstructure:"trade_dollar_amount"`
	QuickLLM            string `json:"quick_llm" yaml:"quick_llm" mapstructure:"quick_llm"`
	DeepLLM             string `json:"deep_llm" yaml:"deep_llm" mapstructure:"deep_llm"`
}

// Defaults returns the seed record for a fresh dashboard. Value
// semantics: every call hands out an independent copy.
func Defaults() Settings {
	return Settings{
		TickerInput:         "NVDA, AMD, TSLA",
		AnalystMarket:       true,
		AnalystSocial:       true,
		AnalystNews:         true,
		AnalystFundamentals: true,
		AnalystMacro:        true,
		ResearchDepth:       "Shallow",
		AllowShorts:         false,
		LoopEnabled:         false,
		LoopInterval:        60,
		MarketHourEnabled:   false,
		MarketHoursInput:    "",
		TradeAfterAnalyze:   false,
		TradeDollarAmount:   4500,
		QuickLLM:            "gpt-5-nano",
		DeepLLM:             "gpt-5-nano",
	}
}

// Tickers splits the ticker input line into trimmed symbols, dropping
// empties.
func (s Settings) Tickers() []string {
	parts := strings.Split(s.TickerInput, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Merge applies a partial JSON object over base and returns the
// result. Unknown keys are rejected so typos in a PUT body or an
// overrides file surface instead of silently vanishing.
func Merge(base Settings, overrides map[string]any) (Settings, error) {
	if len(overrides) == 0 {
		return base, nil
	}
	raw, err := json.Marshal(overrides)
	if err != nil {
		return Settings{}, fmt.Errorf("marshal settings overrides: %w", err)
	}
	merged := base
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&merged); err != nil {
		return Settings{}, fmt.Errorf("apply settings overrides: %w", err)
	}
	return merged, nil
}
