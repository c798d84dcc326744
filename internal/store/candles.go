package store

import (
	"context"
	"errors"
	"sync"

	"tradeagents/internal/market"
)

// MemoryCandleStore keeps recent candles per ticker and interval so the
// chart endpoints do not refetch history on every render.
type MemoryCandleStore struct {
	shards []candleShard
}

type candleShard struct {
	mu   sync.RWMutex
	data map[string][]market.Candle
}

const defaultShardCount = 32

func NewMemoryCandleStore() *MemoryCandleStore {
	return newMemoryCandleStore(defaultShardCount)
}

func newMemoryCandleStore(shards int) *MemoryCandleStore {
	if shards <= 0 {
		shards = 1
	}
	out := &MemoryCandleStore{
		shards: make([]candleShard, shards),
	}
	for i := range out.shards {
		out.shards[i] = candleShard{data: make(map[string][]market.Candle)}
	}
	return out
}

func (s *MemoryCandleStore) shardFor(key string) *candleShard {
	idx := hashKey(key) % uint32(len(s.shards))
	return &s.shards[idx]
}

func candleKey(symbol, interval string) string { return symbol + "@" + interval }

// Set replaces the stored series wholesale.
func (s *MemoryCandleStore) Set(ctx context.Context, symbol, interval string, cs []market.Candle) error {
	if symbol == "" || interval == "" {
		return errors.New("symbol/interval 不能为空")
	}
	k := candleKey(symbol, interval)
	sh := s.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	dst := make([]market.Candle, len(cs))
	copy(dst, cs)
	sh.data[k] = dst
	return nil
}

func (s *MemoryCandleStore) Get(ctx context.Context, symbol, interval string) ([]market.Candle, error) {
	k := candleKey(symbol, interval)
	sh := s.shardFor(k)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	cur := sh.data[k]
	out := make([]market.Candle, len(cur))
	copy(out, cur)
	return out, nil
}

func hashKey(s string) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	var h uint32 = offset32
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h
}
