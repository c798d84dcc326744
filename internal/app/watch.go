package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tradeagents/internal/diagnostics"
	"tradeagents/internal/logger"
	"tradeagents/internal/market"
	"tradeagents/internal/scheduler"
	"tradeagents/internal/settings"
	"tradeagents/internal/ticker"
)

// WatchService 周期性刷新监控列表的报价并打印摘要。节奏和交易时段
// 全部从设置注册表实时读取，改设置不用重启。
type WatchService struct {
	registry *settings.Registry
	quoteFn  func(context.Context, string) (market.Quote, error)

	mu         sync.Mutex
	windowsSrc string
	windowsSet bool
	windows    []scheduler.Window
	windowsErr error
}

type WatchServiceParams struct {
	Registry *settings.Registry
	Market   *market.Service
}

func NewWatchService(p WatchServiceParams) *WatchService {
	s := &WatchService{registry: p.Registry}
	if p.Market != nil {
		s.quoteFn = p.Market.Quote
	}
	return s
}

// Run 阻塞运行刷新循环，直到 ctx 取消。
func (s *WatchService) Run(ctx context.Context) error {
	if s == nil || s.registry == nil {
		return fmt.Errorf("watch service not initialized")
	}
	loop := scheduler.NewLoop(ctx, "watchlist", s.interval)
	loop.ActiveFn = s.activeAt
	loop.Start(func() { s.refreshOnce(ctx) })
	return nil
}

// interval 把设置换算成循环周期；loop 关闭时返回 0 让循环挂起。
func (s *WatchService) interval() time.Duration {
	set := s.registry.Current()
	if !set.LoopEnabled {
		return 0
	}
	minutes := set.LoopInterval
	if minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}

func (s *WatchService) activeAt(now time.Time) bool {
	set := s.registry.Current()
	if !set.MarketHourEnabled {
		return true
	}
	windows, err := s.marketWindows(set.MarketHoursInput)
	if err != nil {
		// 配置写错时放行，只告警不停摆。
		return true
	}
	return scheduler.AnyContains(windows, now)
}

// marketWindows 按输入串缓存解析结果，避免每次唤醒都重析重告警。
func (s *WatchService) marketWindows(input string) ([]scheduler.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.windowsSet && input == s.windowsSrc {
		return s.windows, s.windowsErr
	}
	windows, err := scheduler.ParseWindows(input)
	if err != nil {
		logger.Warnf("watch: market hours %q invalid, running without windows: %v", input, err)
	}
	s.windowsSrc = input
	s.windowsSet = true
	s.windows = windows
	s.windowsErr = err
	return windows, err
}

func (s *WatchService) refreshOnce(ctx context.Context) {
	if s.quoteFn == nil {
		logger.Debugf("watch: market service unavailable, skip refresh")
		return
	}
	set := s.registry.Current()
	watch := ticker.NormalizeList(set.Tickers())
	if len(watch) == 0 {
		logger.Debugf("watch: empty watchlist, nothing to refresh")
		return
	}
	quotes := make([]market.Quote, 0, len(watch))
	var failures []string
	for _, sym := range watch {
		callCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		q, err := s.quoteFn(callCtx, sym)
		cancel()
		if err != nil {
			logger.Warnf("watch: quote %s failed: %v", sym, err)
			if hint, ok := diagnostics.QuickDiagnose(err.Error()); ok {
				logger.Debugf("watch: %s hint: %s", sym, strings.SplitN(hint, "\n", 2)[0])
			}
			failures = append(failures, sym)
			continue
		}
		quotes = append(quotes, q)
	}
	logger.InfoBlock(renderWatchSummary(quotes, failures))
}

func renderWatchSummary(quotes []market.Quote, failures []string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("监控列表行情（成功 %d / 失败 %d）\n", len(quotes), len(failures)))
	if len(quotes) > 0 {
		b.WriteString(fmt.Sprintf("%-12s %-16s %-8s %s\n", "SYMBOL", "PRICE", "SOURCE", "AT"))
		for _, q := range quotes {
			b.WriteString(fmt.Sprintf("%-12s %-16s %-8s %s\n", q.Symbol, q.Price.String(), q.Source, q.At.UTC().Format("15:04:05")))
		}
	}
	if len(failures) > 0 {
		b.WriteString("失败: " + strings.Join(failures, ", ") + "\n")
	}
	return b.String()
}
