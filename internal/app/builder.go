package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tacfg "tradeagents/internal/config"
	"tradeagents/internal/logger"
	"tradeagents/internal/market"
	"tradeagents/internal/settings"
	"tradeagents/internal/ticker"
	dashhttp "tradeagents/internal/transport/http/dash"
)

type AppBuilder struct {
	cfg *tacfg.Config

	registryFn func(string) (*settings.Registry, error)
	storesFn   func(tacfg.DashboardConfig) (*storeStack, error)
	marketFn   func(tacfg.MarketConfig, market.CandleCache) *market.Service
	searchFn   func(tacfg.SearchConfig) (*searchStack, error)
	dashHTTPFn func(dashhttp.ServerConfig) (*dashhttp.Server, error)
}

type AppBuilderOption func(*AppBuilder)

func NewAppBuilder(cfg *tacfg.Config, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		cfg:        cfg,
		registryFn: loadSettingsRegistry,
		storesFn:   buildStores,
		marketFn:   buildMarketService,
		searchFn:   buildSearchEngine,
		dashHTTPFn: dashhttp.NewServer,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// loadSettingsRegistry 打开设置 overrides 文件；文件不存在时先落一份
// 默认模板，让运维有个能直接改的起点。
func loadSettingsRegistry(path string) (*settings.Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return settings.NewRegistry("")
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := settings.WriteTemplate(path); err != nil {
			return nil, err
		}
		logger.Infof("✓ 已写入设置模板: %s", path)
	}
	return settings.NewRegistry(path)
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if b.cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	cfg := b.cfg
	logger.SetLevel(cfg.App.LogLevel)

	registry, err := b.registryFn(cfg.Dashboard.SettingsPath)
	if err != nil {
		return nil, fmt.Errorf("加载设置失败: %w", err)
	}
	set := registry.Current()
	watch := ticker.NormalizeList(set.Tickers())
	logger.Infof("✓ 已加载监控列表 %d 个代码: %v", len(watch), watch)
	registry.OnChange(func(snap settings.Snapshot) {
		logger.Infof("设置热更新 version=%d tickers=%d loop_enabled=%v",
			snap.Version, len(snap.Settings.Tickers()), snap.Settings.LoopEnabled)
	})

	stores, err := b.storesFn(cfg.Dashboard)
	if err != nil {
		return nil, err
	}

	marketSvc := b.marketFn(cfg.Market, stores.Candles)

	searchStack, err := b.searchFn(cfg.Search)
	if err != nil {
		stores.Close()
		return nil, err
	}
	logger.Infof("✓ 搜索索引已就绪（%d 条）", searchStack.Entries)

	dashServer, err := b.dashHTTPFn(dashhttp.ServerConfig{
		Addr:          cfg.Dashboard.HTTPAddr,
		AuthToken:     cfg.Dashboard.AuthToken,
		ChartInterval: cfg.Market.KlineInterval,
		SearchLimit:   cfg.Search.MaxResults,
		Registry:      registry,
		Presets:       stores.Presets,
		Reports:       stores.Reports,
		Market:        marketSvc,
		Search:        searchStack.Engine,
	})
	if err != nil {
		stores.Close()
		return nil, err
	}
	logger.Infof("✓ dash HTTP 服务: %s", dashServer.Addr())

	watchSvc := NewWatchService(WatchServiceParams{Registry: registry, Market: marketSvc})

	return &App{
		cfg:      cfg,
		registry: registry,
		stores:   stores,
		market:   marketSvc,
		search:   searchStack.Engine,
		dashHTTP: dashServer,
		watch:    watchSvc,
		Summary: &StartupSummary{
			Watchlist: WatchlistSummary{
				Symbols:      watch,
				LoopEnabled:  set.LoopEnabled,
				LoopInterval: set.LoopInterval,
				MarketHours:  marketHoursLabel(set),
			},
			Market: MarketSummary{
				QuoteTTLSeconds: cfg.Market.QuoteTTLSeconds,
				KlineInterval:   cfg.Market.KlineInterval,
				KlineLimit:      cfg.Market.KlineLimit,
			},
			Search: SearchSummary{
				Entries:   searchStack.Entries,
				IndexPath: cfg.Search.IndexPath,
			},
			HTTP: HTTPSummary{
				Addr:         dashServer.Addr(),
				AuthRequired: strings.TrimSpace(cfg.Dashboard.AuthToken) != "",
			},
		},
	}, nil
}

func marketHoursLabel(set settings.Settings) string {
	if !set.MarketHourEnabled {
		return ""
	}
	return strings.TrimSpace(set.MarketHoursInput)
}
