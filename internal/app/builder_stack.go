package app

import (
	"fmt"
	"strings"
	"time"

	tacfg "tradeagents/internal/config"
	"tradeagents/internal/logger"
	"tradeagents/internal/market"
	"tradeagents/internal/search"
	"tradeagents/internal/store"
	"tradeagents/internal/store/reportlog"
	"tradeagents/internal/store/sqlite"
)

// storeStack 汇总仪表盘用到的三类存储。
type storeStack struct {
	Presets *sqlite.SqliteStore
	Reports *reportlog.ReportLogStore
	Candles *store.MemoryCandleStore
}

func (s *storeStack) Close() {
	if s == nil {
		return
	}
	if s.Reports != nil {
		_ = s.Reports.Close()
	}
	if s.Presets != nil {
		_ = s.Presets.Close()
	}
}

func buildStores(cfg tacfg.DashboardConfig) (*storeStack, error) {
	st := &storeStack{Candles: store.NewMemoryCandleStore()}
	if path := strings.TrimSpace(cfg.SettingsDBPath); path != "" {
		presets, err := sqlite.NewSqliteStore(path)
		if err != nil {
			return nil, fmt.Errorf("打开设置存储失败: %w", err)
		}
		st.Presets = presets
		logger.Infof("✓ 设置存储已就绪: %s", path)
	} else {
		logger.Warnf("settings_db_path 未配置，设置存档不可用")
	}
	if path := strings.TrimSpace(cfg.ReportDBPath); path != "" {
		reports, err := reportlog.NewReportLogStore(path)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("打开报告日志失败: %w", err)
		}
		if st.Presets != nil && path == strings.TrimSpace(cfg.SettingsDBPath) {
			// 同一个库文件时复用 gorm 的连接，避免两个连接抢写锁。
			sqlDB, err := st.Presets.SQLDB()
			if err != nil {
				_ = reports.Close()
				st.Close()
				return nil, fmt.Errorf("获取 SQL DB 失败: %w", err)
			}
			if err := reports.UseExternalDB(sqlDB); err != nil {
				_ = reports.Close()
				st.Close()
				return nil, fmt.Errorf("绑定报告日志存储失败: %w", err)
			}
		}
		st.Reports = reports
		logger.Infof("✓ 报告日志已就绪: %s", path)
	} else {
		logger.Warnf("report_db_path 未配置，错误报告不会入库")
	}
	return st, nil
}

func buildMarketService(cfg tacfg.MarketConfig, candles market.CandleCache) *market.Service {
	mc := market.Config{
		RESTBaseURL: cfg.BinanceREST,
		QuoteTTL:    time.Duration(cfg.QuoteTTLSeconds) * time.Second,
		KlineLimit:  cfg.KlineLimit,
	}
	return market.NewService(mc, candles)
}

// searchStack 带上条目数，启动摘要要用。
type searchStack struct {
	Engine  search.Engine
	Entries int
}

func buildSearchEngine(cfg tacfg.SearchConfig) (*searchStack, error) {
	entries, err := search.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("加载搜索目录失败: %w", err)
	}
	engine, err := search.NewBleveEngine(cfg.IndexPath, entries)
	if err != nil {
		logger.Warnf("bleve 索引不可用，回退到内存搜索: %v", err)
		return &searchStack{Engine: search.NewInMemoryEngine(entries), Entries: len(entries)}, nil
	}
	return &searchStack{Engine: engine, Entries: len(entries)}, nil
}
