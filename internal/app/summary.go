package app

import (
	"fmt"
	"strings"
)

type StartupSummary struct {
	Watchlist WatchlistSummary
	Market    MarketSummary
	Search    SearchSummary
	HTTP      HTTPSummary
}

type WatchlistSummary struct {
	Symbols      []string
	LoopEnabled  bool
	LoopInterval int
	MarketHours  string
}

type MarketSummary struct {
	QuoteTTLSeconds int
	KlineInterval   string
	KlineLimit      int
}

type SearchSummary struct {
	Entries   int
	IndexPath string
}

type HTTPSummary struct {
	Addr         string
	AuthRequired bool
}

func (s *StartupSummary) Print() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("%*s\n", 40+len("启动配置摘要 (STARTUP SUMMARY)")/2, "启动配置摘要 (STARTUP SUMMARY)")
	fmt.Println(strings.Repeat("=", 80))

	fmt.Println("[监控列表 (WATCHLIST)]")
	fmt.Printf("  监控代码: %s\n", formatList(s.Watchlist.Symbols))
	if s.Watchlist.LoopEnabled {
		fmt.Printf("  自动刷新: 开（每 %d 分钟）\n", s.Watchlist.LoopInterval)
	} else {
		fmt.Println("  自动刷新: 关")
	}
	if s.Watchlist.MarketHours != "" {
		fmt.Printf("  交易时段: %s\n", s.Watchlist.MarketHours)
	} else {
		fmt.Println("  交易时段: (不限)")
	}
	fmt.Println()

	fmt.Println("[行情 (MARKET DATA)]")
	fmt.Printf("  报价缓存: %d 秒\n", s.Market.QuoteTTLSeconds)
	fmt.Printf("  K线周期: %s\n", s.Market.KlineInterval)
	fmt.Printf("  K线数量: %d\n", s.Market.KlineLimit)
	fmt.Println()

	fmt.Println("[搜索 (SEARCH)]")
	fmt.Printf("  索引条目: %d\n", s.Search.Entries)
	if s.Search.IndexPath != "" {
		fmt.Printf("  索引路径: %s\n", s.Search.IndexPath)
	} else {
		fmt.Println("  索引路径: (内存)")
	}
	fmt.Println()

	fmt.Println("[HTTP 服务 (HTTP)]")
	fmt.Printf("  监听地址: %s\n", s.HTTP.Addr)
	if s.HTTP.AuthRequired {
		fmt.Println("  访问令牌: 已启用")
	} else {
		fmt.Println("  访问令牌: 未启用")
	}
	fmt.Println(strings.Repeat("=", 80))
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
