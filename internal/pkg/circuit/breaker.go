// Package circuit 提供一个极简熔断器，用来保护上游行情接口。
package circuit

import (
	"sync"
	"time"

	"tradeagents/internal/logger"
)

// State 表示熔断器所处的阶段。
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Breaker 按连续失败次数在 closed/open/half-open 之间切换。open
// 状态在冷却期内直接拒绝调用，冷却结束放行一次试探。
type Breaker struct {
	mu          sync.Mutex
	name        string
	threshold   int
	cooldown    time.Duration
	state       State
	failures    int
	lastFailure time.Time
}

// NewBreaker 构建熔断器；threshold/cooldown 不合法时采用 5 次 / 30 秒。
func NewBreaker(name string, threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Breaker{name: name, threshold: threshold, cooldown: cooldown}
}

// Allow 报告当前是否放行调用。open 过了冷却期时切到 half-open 放行试探。
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case StateOpen:
		if time.Since(b.lastFailure) > b.cooldown {
			b.transition(StateHalfOpen)
			return true
		}
		return false
	default:
		return true
	}
}

// Success 清零失败计数；half-open 下的成功试探恢复 closed。
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateHalfOpen {
		b.transition(StateClosed)
	}
	b.failures = 0
}

// Failure 记一次失败；连续到阈值或试探失败时拉闸。
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	b.lastFailure = time.Now()
	switch b.state {
	case StateClosed:
		if b.failures >= b.threshold {
			b.transition(StateOpen)
		}
	case StateHalfOpen:
		b.transition(StateOpen)
	}
}

func (b *Breaker) transition(to State) {
	from := b.state
	b.state = to
	if to == StateClosed {
		logger.Infof("circuit %s: %s -> %s", b.name, from, to)
		return
	}
	logger.Warnf("circuit %s: %s -> %s (failures=%d/%d)", b.name, from, to, b.failures, b.threshold)
}
