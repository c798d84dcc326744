package market

import (
	"context"
	"time"
)

type Candle struct {
	OpenTime  int64   `json:"open_time"`
	CloseTime int64   `json:"close_time"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
	Trades    int64   `json:"trades"`
}

// CandleCache keeps recent candle series keyed by symbol and interval.
type CandleCache interface {
	Get(ctx context.Context, symbol, interval string) ([]Candle, error)
	Set(ctx context.Context, symbol, interval string, candles []Candle) error
}

const defaultKlineGrace = 10 * time.Second

// dropUnclosedCandle drops the last element if it is still in-progress.
// Binance style: the last kline may be the current, not-yet-closed candle.
//
// Candle times are expected to be in milliseconds since epoch.
func dropUnclosedCandle(candles []Candle, interval time.Duration) []Candle {
	return dropUnclosedCandleAt(candles, interval, time.Now().UTC(), defaultKlineGrace)
}

func dropUnclosedCandleAt(candles []Candle, interval time.Duration, now time.Time, grace time.Duration) []Candle {
	if len(candles) == 0 {
		return candles
	}
	if interval <= 0 {
		return candles
	}
	if grace < 0 {
		grace = 0
	}
	last := candles[len(candles)-1]
	if last.OpenTime <= 0 {
		return candles
	}
	closeTimeMs := last.OpenTime + interval.Milliseconds()
	cutoffMs := closeTimeMs + grace.Milliseconds()
	if now.UnixMilli() < cutoffMs {
		return candles[:len(candles)-1]
	}
	return candles
}
