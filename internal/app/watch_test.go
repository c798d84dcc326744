package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradeagents/internal/market"
	"tradeagents/internal/settings"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWatchRegistry(t *testing.T, mutate func(*settings.Settings)) *settings.Registry {
	t.Helper()
	registry, err := settings.NewRegistry("")
	require.NoError(t, err)
	if mutate != nil {
		s := registry.Current()
		mutate(&s)
		registry.Apply(s)
	}
	return registry
}

func TestWatchService_RefreshOnce(t *testing.T) {
	registry := newWatchRegistry(t, func(s *settings.Settings) {
		s.TickerInput = "BTC/USD, btc/usd, NVDA"
	})
	svc := NewWatchService(WatchServiceParams{Registry: registry})

	var calls []string
	svc.quoteFn = func(_ context.Context, raw string) (market.Quote, error) {
		calls = append(calls, raw)
		if raw == "NVDA" {
			return market.Quote{}, errors.New("feed down")
		}
		return market.Quote{Symbol: "BTCUSDT", Price: decimal.NewFromInt(65000), Source: market.SourceBinance, At: time.Now()}, nil
	}

	svc.refreshOnce(context.Background())

	// duplicate spelling collapses, blanks drop
	assert.Equal(t, []string{"BTC/USD", "NVDA"}, calls)
}

func TestWatchService_RefreshWithoutMarket(t *testing.T) {
	registry := newWatchRegistry(t, nil)
	svc := NewWatchService(WatchServiceParams{Registry: registry})
	require.Nil(t, svc.quoteFn)
	svc.refreshOnce(context.Background())
}

func TestWatchService_Interval(t *testing.T) {
	registry := newWatchRegistry(t, func(s *settings.Settings) {
		s.LoopEnabled = false
	})
	svc := NewWatchService(WatchServiceParams{Registry: registry})
	assert.Equal(t, time.Duration(0), svc.interval())

	s := registry.Current()
	s.LoopEnabled = true
	s.LoopInterval = 15
	registry.Apply(s)
	assert.Equal(t, 15*time.Minute, svc.interval())

	s.LoopInterval = 0
	registry.Apply(s)
	assert.Equal(t, 60*time.Minute, svc.interval())
}

func TestWatchService_ActiveAt(t *testing.T) {
	registry := newWatchRegistry(t, func(s *settings.Settings) {
		s.MarketHourEnabled = true
		s.MarketHoursInput = "09:30-16:00"
	})
	svc := NewWatchService(WatchServiceParams{Registry: registry})

	at := func(hour, minute int) time.Time {
		return time.Date(2024, 5, 6, hour, minute, 0, 0, time.UTC)
	}
	assert.True(t, svc.activeAt(at(10, 0)))
	assert.False(t, svc.activeAt(at(18, 0)))
	assert.False(t, svc.activeAt(at(9, 29)))

	s := registry.Current()
	s.MarketHourEnabled = false
	registry.Apply(s)
	assert.True(t, svc.activeAt(at(18, 0)))
}

func TestWatchService_BadWindowsFailOpen(t *testing.T) {
	registry := newWatchRegistry(t, func(s *settings.Settings) {
		s.MarketHourEnabled = true
		s.MarketHoursInput = "whenever"
	})
	svc := NewWatchService(WatchServiceParams{Registry: registry})
	assert.True(t, svc.activeAt(time.Now()))
	// cached parse failure keeps failing open without reparsing
	assert.True(t, svc.activeAt(time.Now()))
}

func TestWatchService_RunRequiresRegistry(t *testing.T) {
	svc := NewWatchService(WatchServiceParams{})
	assert.Error(t, svc.Run(context.Background()))
}

func TestRenderWatchSummary(t *testing.T) {
	quotes := []market.Quote{
		{Symbol: "BTCUSDT", Price: decimal.NewFromFloat(65000.5), Source: market.SourceBinance, At: time.Unix(1700000000, 0)},
	}
	out := renderWatchSummary(quotes, []string{"NVDA"})
	assert.Contains(t, out, "BTCUSDT")
	assert.Contains(t, out, "65000.5")
	assert.Contains(t, out, "失败: NVDA")
}
