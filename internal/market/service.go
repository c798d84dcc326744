package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tradeagents/internal/logger"
	"tradeagents/internal/pkg/circuit"
	"tradeagents/internal/scheduler"
	"tradeagents/internal/ticker"

	"github.com/adshao/go-binance/v2"
	gocache "github.com/patrickmn/go-cache"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

const (
	SourceBinance = "binance"
	SourceYahoo   = "yahoo"

	maxKlineLimit = 1000

	breakerThreshold = 5
	breakerCooldown  = 30 * time.Second
)

// ErrEquityCandles is returned when candles are requested for a
// non-crypto ticker; only the binance feed serves candle history.
var ErrEquityCandles = errors.New("candles are only available for crypto tickers")

// ErrSourceCooling is returned while a feed's circuit is open after
// repeated upstream failures.
var ErrSourceCooling = errors.New("upstream feed cooling down after repeated failures")

// Quote is a point-in-time price for one market symbol.
type Quote struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Source string          `json:"source"`
	At     time.Time       `json:"at"`
}

// Service resolves tickers to live prices and candle history. Crypto
// symbols go to binance spot, equities to the yahoo quote feed. 每个
// 数据源各挂一个熔断器，连续失败进入冷却期，期间只吐缓存。
type Service struct {
	cfg      Config
	spot     *binance.Client
	quotes   *gocache.Cache
	candles  CandleCache
	breakers map[string]*circuit.Breaker

	cryptoPriceFn func(ctx context.Context, symbol string) (decimal.Decimal, error)
	equityPriceFn func(symbol string) (decimal.Decimal, error)
	klinesFn      func(ctx context.Context, symbol, interval string, limit int) ([]Candle, error)
}

func NewService(cfg Config, candles CandleCache) *Service {
	final := cfg.withDefaults()
	client := binance.NewClient("", "")
	client.BaseURL = final.RESTBaseURL
	client.HTTPClient = &http.Client{Timeout: final.HTTPTimeout}
	s := &Service{
		cfg:     final,
		spot:    client,
		quotes:  gocache.New(final.QuoteTTL, 2*final.QuoteTTL),
		candles: candles,
		breakers: map[string]*circuit.Breaker{
			SourceBinance: circuit.NewBreaker(SourceBinance, breakerThreshold, breakerCooldown),
			SourceYahoo:   circuit.NewBreaker(SourceYahoo, breakerThreshold, breakerCooldown),
		},
	}
	s.cryptoPriceFn = s.binancePrice
	s.equityPriceFn = yahooPrice
	s.klinesFn = s.binanceKlines
	return s
}

// Quote resolves raw to a price quote, serving cached values within the
// configured TTL. Repeated spellings of one pair share a cache slot.
func (s *Service) Quote(ctx context.Context, raw string) (Quote, error) {
	desc, err := ticker.Standardize(raw)
	if err != nil {
		return Quote{}, err
	}
	symbol, source := resolveSymbol(desc)
	cacheKey := source + ":" + symbol
	if cached, ok := s.quotes.Get(cacheKey); ok {
		if q, ok := cached.(Quote); ok {
			return q, nil
		}
	}

	cb := s.breakers[source]
	if cb != nil && !cb.Allow() {
		return Quote{}, fmt.Errorf("fetch quote for %s: %w", symbol, ErrSourceCooling)
	}
	var price decimal.Decimal
	if desc.IsCrypto {
		price, err = s.cryptoPriceFn(ctx, symbol)
	} else {
		price, err = s.equityPriceFn(symbol)
	}
	if err != nil {
		if cb != nil {
			cb.Failure()
		}
		return Quote{}, fmt.Errorf("fetch quote for %s: %w", symbol, err)
	}
	if cb != nil {
		cb.Success()
	}
	q := Quote{
		Symbol: symbol,
		Price:  price,
		Source: source,
		At:     time.Now().UTC(),
	}
	s.quotes.Set(cacheKey, q, gocache.DefaultExpiration)
	return q, nil
}

// Candles returns closed candles for a crypto ticker, newest last. A
// cached series is reused until its next candle has closed.
func (s *Service) Candles(ctx context.Context, raw, interval string, limit int) ([]Candle, error) {
	desc, err := ticker.Standardize(raw)
	if err != nil {
		return nil, err
	}
	if !desc.IsCrypto {
		return nil, ErrEquityCandles
	}
	if limit <= 0 {
		limit = s.cfg.KlineLimit
	}
	if limit > maxKlineLimit {
		limit = maxKlineLimit
	}
	interval = strings.ToLower(strings.TrimSpace(interval))
	if interval == "" {
		return nil, fmt.Errorf("interval is required")
	}
	dur, ok := scheduler.ParseIntervalDuration(interval)
	if !ok {
		return nil, fmt.Errorf("unsupported interval %q", interval)
	}
	symbol, _ := resolveSymbol(desc)

	if s.candles != nil {
		if cached, err := s.candles.Get(ctx, symbol, interval); err == nil && seriesFresh(cached, dur, limit) {
			return cached[len(cached)-limit:], nil
		}
	}

	cb := s.breakers[SourceBinance]
	if cb != nil && !cb.Allow() {
		return nil, fmt.Errorf("fetch candles for %s: %w", symbol, ErrSourceCooling)
	}
	// Fetch one extra bar so the series still covers limit closed
	// candles after the in-progress one is dropped.
	fetch := limit + 1
	if fetch > maxKlineLimit {
		fetch = maxKlineLimit
	}
	out, err := s.klinesFn(ctx, symbol, interval, fetch)
	if err != nil {
		if cb != nil {
			cb.Failure()
		}
		return nil, err
	}
	if cb != nil {
		cb.Success()
	}
	out = dropUnclosedCandle(out, dur)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	if s.candles != nil && len(out) > 0 {
		if err := s.candles.Set(ctx, symbol, interval, out); err != nil {
			logger.Warnf("cache candles %s %s: %v", symbol, interval, err)
		}
	}
	return out, nil
}

// PairSymbol reports the feed-facing symbol a raw ticker resolves to,
// e.g. "btc/usd" becomes "BTCUSDT" and "nvda" becomes "NVDA".
func (s *Service) PairSymbol(raw string) (string, error) {
	desc, err := ticker.Standardize(raw)
	if err != nil {
		return "", err
	}
	symbol, _ := resolveSymbol(desc)
	return symbol, nil
}

// resolveSymbol maps a descriptor to the symbol the feed expects:
// 现货交易对用 BASE+USDT，美股直接用清洗后的代码。
func resolveSymbol(desc ticker.Descriptor) (string, string) {
	if desc.IsCrypto {
		return desc.Base + "USDT", SourceBinance
	}
	return desc.Clean, SourceYahoo
}

func seriesFresh(cached []Candle, interval time.Duration, limit int) bool {
	if len(cached) < limit {
		return false
	}
	last := cached[len(cached)-1]
	if last.CloseTime <= 0 {
		return false
	}
	nextClose := last.CloseTime + interval.Milliseconds()
	return time.Now().UTC().UnixMilli() < nextClose
}

func (s *Service) binancePrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	prices, err := s.spot.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if len(prices) == 0 || prices[0] == nil {
		return decimal.Zero, fmt.Errorf("no price returned for %s", symbol)
	}
	return decimal.NewFromString(strings.TrimSpace(prices[0].Price))
}

func yahooPrice(symbol string) (decimal.Decimal, error) {
	q, err := quote.Get(symbol)
	if err != nil {
		return decimal.Zero, err
	}
	if q == nil {
		return decimal.Zero, fmt.Errorf("no quote returned for %s", symbol)
	}
	return decimal.NewFromFloat(q.RegularMarketPrice), nil
}

func (s *Service) binanceKlines(ctx context.Context, symbol, interval string, limit int) ([]Candle, error) {
	kls, err := s.spot.NewKlinesService().Symbol(symbol).Interval(interval).Limit(limit).Do(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Candle, 0, len(kls))
	for _, kl := range kls {
		if kl == nil {
			continue
		}
		out = append(out, Candle{
			OpenTime:  kl.OpenTime,
			CloseTime: kl.CloseTime,
			Open:      parseFloat(kl.Open),
			High:      parseFloat(kl.High),
			Low:       parseFloat(kl.Low),
			Close:     parseFloat(kl.Close),
			Volume:    parseFloat(kl.Volume),
			Trades:    kl.TradeNum,
		})
	}
	return out, nil
}

func parseFloat(v string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
	return f
}
