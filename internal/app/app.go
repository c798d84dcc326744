package app

import (
	"context"
	"fmt"

	tacfg "tradeagents/internal/config"
	"tradeagents/internal/logger"
	"tradeagents/internal/market"
	"tradeagents/internal/search"
	"tradeagents/internal/settings"
	dashhttp "tradeagents/internal/transport/http/dash"

	"golang.org/x/sync/errgroup"
)

// App 负责应用级编排：加载配置→初始化依赖→启动 HTTP 服务与监控循环。
type App struct {
	cfg      *tacfg.Config
	registry *settings.Registry
	stores   *storeStack
	market   *market.Service
	search   search.Engine
	dashHTTP *dashhttp.Server
	watch    *WatchService
	Summary  *StartupSummary
}

// NewApp 根据配置构建应用对象（不启动）。
func NewApp(cfg *tacfg.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg)
}

// Run 启动 HTTP 服务与监控循环，直到 ctx 取消或出错。
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}

	if a.Summary != nil {
		a.Summary.Print()
	}

	if a.dashHTTP == nil {
		return fmt.Errorf("dash http server not initialized")
	}
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := a.dashHTTP.Start(ctx); err != nil {
			return fmt.Errorf("dash http server error: %w", err)
		}
		return nil
	})

	if a.watch != nil {
		group.Go(func() error {
			return a.watch.Run(ctx)
		})
	}

	err := group.Wait()
	a.Close()
	return err
}

// Close 释放存储与索引资源。
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.search != nil {
		_ = a.search.Close()
	}
	if a.stores != nil {
		a.stores.Close()
	}
}

// WatchService exposes the underlying watch loop instance (for testing/replay harnesses).
func (a *App) WatchService() *WatchService {
	if a == nil {
		return nil
	}
	return a.watch
}

// Registry exposes the live settings registry.
func (a *App) Registry() *settings.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}
