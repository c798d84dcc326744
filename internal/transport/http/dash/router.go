package dashhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tradeagents/internal/diagnostics"
	"tradeagents/internal/logger"
	"tradeagents/internal/market"
	"tradeagents/internal/scheduler"
	"tradeagents/internal/search"
	"tradeagents/internal/settings"
	"tradeagents/internal/store/model"
	"tradeagents/internal/store/reportlog"
	"tradeagents/internal/store/sqlite"
	"tradeagents/internal/ticker"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

const maxRawReportBytes = 64 << 10

// Router 暴露仪表盘相关的查询/变更接口（设置、行情、诊断）。
type Router struct {
	Registry *settings.Registry
	Presets  *sqlite.SqliteStore
	Reports  *reportlog.ReportLogStore
	Market   *market.Service
	Search   search.Engine

	// ChartInterval 是图表接口缺省的 K 线周期，空值按 1h 处理。
	ChartInterval string
	// SearchLimit 是搜索接口缺省的返回条数，<=0 按 10 处理。
	SearchLimit int
}

// NewRouter 构造 dash HTTP router。
func NewRouter(registry *settings.Registry, presets *sqlite.SqliteStore, reports *reportlog.ReportLogStore, mkt *market.Service, engine search.Engine) *Router {
	return &Router{Registry: registry, Presets: presets, Reports: reports, Market: mkt, Search: engine}
}

// Register 将 /api/dash 路由挂载到给定分组下。
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("/settings", r.handleSettings)
	group.PUT("/settings", r.handleUpdateSettings)
	group.GET("/settings/defaults", r.handleSettingsDefaults)
	group.GET("/settings/saved", r.handleListPresets)
	group.POST("/settings/saved/:name", r.handleSavePreset)
	group.GET("/settings/saved/:name", r.handleGetPreset)
	group.DELETE("/settings/saved/:name", r.handleDeletePreset)
	group.GET("/tickers/normalize", r.handleNormalizeTicker)
	group.GET("/tickers/convert", r.handleConvertTicker)
	group.GET("/tickers/search", r.handleSearchTickers)
	group.GET("/quotes", r.handleQuotes)
	group.GET("/charts/:ticker", r.handleChart)
	group.POST("/diagnostics/report", r.handleSubmitReport)
	group.POST("/diagnostics/report/raw", r.handleSubmitRawReport)
	group.GET("/diagnostics/reports", r.handleListReports)
	group.GET("/diagnostics/catalog", r.handleCatalog)
	group.GET("/diagnostics/config-check", r.handleConfigCheck)
}

// presetView 是保存的设置档案对外的展示形态。
type presetView struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Settings    map[string]any `json:"settings,omitempty"`
	CreatedAt   int64          `json:"created_at,omitempty"`
	UpdatedAt   int64          `json:"updated_at,omitempty"`
}

func newPresetView(m model.SavedSettingsModel) presetView {
	view := presetView{
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAtUnix,
		UpdatedAt:   m.UpdatedAtUnix,
	}
	if len(m.Payload) > 0 {
		var doc map[string]any
		if err := json.Unmarshal(m.Payload, &doc); err != nil {
			logger.Warnf("[api] preset payload decode failed name=%s err=%v", m.Name, err)
		} else {
			view.Settings = doc
		}
	}
	return view
}

func (r *Router) handleSettings(c *gin.Context) {
	if r.Registry == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "设置注册表未初始化"})
		return
	}
	snap := r.Registry.Snapshot()
	c.Header("X-Settings-Version", strconv.FormatInt(snap.Version, 10))
	c.JSON(http.StatusOK, snap.Settings)
}

func (r *Router) handleUpdateSettings(c *gin.Context) {
	if r.Registry == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "设置注册表未初始化"})
		return
	}
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Errorf("[api] settings update bind failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(payload) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "settings payload 不能为空"})
		return
	}
	if err := settings.ValidatePayload(payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	merged, err := settings.Merge(r.Registry.Current(), payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r.Registry.Apply(merged)
	logger.Infof("[api] settings updated ip=%s keys=%d", c.ClientIP(), len(payload))
	c.JSON(http.StatusOK, merged)
}

func (r *Router) handleSettingsDefaults(c *gin.Context) {
	c.JSON(http.StatusOK, settings.Defaults())
}

func (r *Router) handleListPresets(c *gin.Context) {
	if r.Presets == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "设置存储未初始化"})
		return
	}
	callCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	records, err := r.Presets.ListPresets(callCtx)
	cancel()
	if err != nil {
		logger.Errorf("[api] list presets failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	views := make([]presetView, 0, len(records))
	for _, rec := range records {
		views = append(views, newPresetView(rec))
	}
	c.JSON(http.StatusOK, gin.H{"presets": views, "count": len(views)})
}

// handleSavePreset 把当前设置存成档案；body 可带 description 以及要覆盖的
// settings 字段（先校验再并入当前值）。
func (r *Router) handleSavePreset(c *gin.Context) {
	if r.Presets == nil || r.Registry == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "设置存储未初始化"})
		return
	}
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preset name 必填"})
		return
	}
	var body struct {
		Description string         `json:"description"`
		Settings    map[string]any `json:"settings"`
	}
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			logger.Errorf("[api] save preset bind failed ip=%s name=%s err=%v", c.ClientIP(), name, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	doc := r.Registry.Current()
	if len(body.Settings) > 0 {
		if err := settings.ValidatePayload(body.Settings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		merged, err := settings.Merge(doc, body.Settings)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		doc = merged
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	preset := &model.SavedSettingsModel{
		Name:        name,
		Description: strings.TrimSpace(body.Description),
		Payload:     datatypes.JSON(payload),
	}
	callCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	err = r.Presets.SavePreset(callCtx, preset)
	cancel()
	if err != nil {
		logger.Errorf("[api] save preset failed ip=%s name=%s err=%v", c.ClientIP(), name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Infof("[api] settings preset saved ip=%s name=%s", c.ClientIP(), name)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "name": name})
}

func (r *Router) handleGetPreset(c *gin.Context) {
	if r.Presets == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "设置存储未初始化"})
		return
	}
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preset name 必填"})
		return
	}
	callCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	rec, err := r.Presets.FindPreset(callCtx, name)
	cancel()
	if err != nil {
		logger.Errorf("[api] load preset failed ip=%s name=%s err=%v", c.ClientIP(), name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "preset not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preset": newPresetView(*rec)})
}

func (r *Router) handleDeletePreset(c *gin.Context) {
	if r.Presets == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "设置存储未初始化"})
		return
	}
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preset name 必填"})
		return
	}
	callCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	err := r.Presets.DeletePreset(callCtx, name)
	cancel()
	if err != nil {
		logger.Errorf("[api] delete preset failed ip=%s name=%s err=%v", c.ClientIP(), name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Infof("[api] settings preset deleted ip=%s name=%s", c.ClientIP(), name)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (r *Router) handleNormalizeTicker(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("t"))
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "t 参数必填"})
		return
	}
	desc, err := ticker.Standardize(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp := gin.H{"ticker": desc}
	if r.Search != nil {
		key := desc.Clean
		if desc.IsCrypto {
			key = desc.Base
		}
		if entry := r.Search.GetBySymbol(key); entry != nil {
			resp["name"] = entry.Name
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (r *Router) handleConvertTicker(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("t"))
	api := strings.ToLower(strings.TrimSpace(c.Query("api")))
	if raw == "" || api == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "t 与 api 参数必填"})
		return
	}
	symbol, err := ticker.Convert(raw, ticker.API(api))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticker": raw, "api": api, "symbol": symbol})
}

func (r *Router) handleSearchTickers(c *gin.Context) {
	if r.Search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "搜索索引未初始化"})
		return
	}
	query := strings.TrimSpace(c.Query("q"))
	defLimit := r.SearchLimit
	if defLimit <= 0 {
		defLimit = 10
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defLimit)))
	if limit <= 0 {
		limit = defLimit
	}
	if limit > 50 {
		limit = 50
	}
	results := r.Search.Search(query, limit)
	if results == nil {
		results = []search.Entry{}
	}
	logger.Debugf("[api] ticker search ip=%s q=%s hits=%d", c.ClientIP(), query, len(results))
	c.JSON(http.StatusOK, gin.H{"query": query, "results": results, "count": len(results)})
}

// handleQuotes 支持 t=BTC/USD,NVDA 这样的逗号列表，单个失败不拖垮整批。
func (r *Router) handleQuotes(c *gin.Context) {
	if r.Market == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "行情服务未初始化"})
		return
	}
	input := strings.TrimSpace(c.Query("t"))
	if input == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "t 参数必填"})
		return
	}
	parts := strings.Split(input, ",")
	callCtx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()
	quotes := make([]market.Quote, 0, len(parts))
	failed := map[string]string{}
	for _, raw := range parts {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		q, err := r.Market.Quote(callCtx, raw)
		if err != nil {
			logger.Warnf("[api] quote failed ip=%s ticker=%s err=%v", c.ClientIP(), ticker.NormalizeForLogs(raw), err)
			failed[raw] = err.Error()
			continue
		}
		quotes = append(quotes, q)
	}
	if len(quotes) == 0 && len(failed) > 0 {
		c.JSON(http.StatusBadGateway, gin.H{"error": "quotes unavailable", "failed": failed})
		return
	}
	resp := gin.H{"quotes": quotes, "count": len(quotes)}
	if len(failed) > 0 {
		resp["failed"] = failed
	}
	c.JSON(http.StatusOK, resp)
}

// handleChart 渲染 K 线页面，直接把 HTML 写回响应。
func (r *Router) handleChart(c *gin.Context) {
	if r.Market == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "行情服务未初始化"})
		return
	}
	raw := strings.TrimSpace(c.Param("ticker"))
	fallback := r.ChartInterval
	if fallback == "" {
		fallback = "1h"
	}
	interval := strings.ToLower(strings.TrimSpace(c.DefaultQuery("interval", fallback)))
	if _, ok := scheduler.ParseIntervalDuration(interval); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported interval " + interval})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	symbol, err := r.Market.PairSymbol(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	callCtx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	candles, err := r.Market.Candles(callCtx, raw, interval, limit)
	cancel()
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, market.ErrEquityCandles) {
			status = http.StatusBadRequest
		}
		logger.Errorf("[api] chart candles failed ip=%s symbol=%s interval=%s err=%v", c.ClientIP(), symbol, interval, err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	var buf bytes.Buffer
	if err := market.RenderChart(&buf, symbol, interval, candles); err != nil {
		logger.Errorf("[api] chart render failed ip=%s symbol=%s err=%v", c.ClientIP(), symbol, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Debugf("[api] chart rendered ip=%s symbol=%s interval=%s candles=%d", c.ClientIP(), symbol, interval, len(candles))
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// handleSubmitReport 接收一条错误报告：渲染诊断、写日志、入库。
func (r *Router) handleSubmitReport(c *gin.Context) {
	if r.Reports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report log store 未初始化"})
		return
	}
	var rep diagnostics.Report
	if err := c.ShouldBindJSON(&rep); err != nil {
		logger.Errorf("[api] report bind failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(rep.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "error_message 必填"})
		return
	}
	r.storeReport(c, rep)
}

// handleSubmitRawReport 直接接收上游 API 的原始错误响应体，按
// error.message/error.type 提取后走同一条入库路径。
func (r *Router) handleSubmitRawReport(c *gin.Context) {
	if r.Reports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report log store 未初始化"})
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRawReportBytes))
	if err != nil {
		logger.Errorf("[api] raw report read failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body 不能为空"})
		return
	}
	rep := diagnostics.FromAPIError(strings.TrimSpace(c.Query("tool")), body)
	r.storeReport(c, rep)
}

// storeReport 渲染并落盘一条报告，readback 失败时降级成只回 id。
func (r *Router) storeReport(c *gin.Context, rep diagnostics.Report) {
	rendered := rep.Render()
	diagnostics.LogReport(rep)
	callCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	id, err := r.Reports.Append(callCtx, reportlog.NewRecord(rep, rendered))
	if err != nil {
		logger.Errorf("[api] report append failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	stored, err := r.Reports.Get(callCtx, id)
	if err != nil {
		logger.Warnf("[api] report readback failed ip=%s id=%d err=%v", c.ClientIP(), id, err)
		c.JSON(http.StatusOK, gin.H{"id": id})
		return
	}
	logger.Infof("[api] diagnostics report stored ip=%s id=%d category=%s", c.ClientIP(), id, stored.Category)
	c.JSON(http.StatusOK, gin.H{"report": stored})
}

func (r *Router) handleListReports(c *gin.Context) {
	if r.Reports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report log store 未初始化"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	query := reportlog.ReportQuery{
		Tool:     strings.TrimSpace(c.Query("tool")),
		Category: strings.TrimSpace(c.Query("category")),
		Limit:    limit,
		Offset:   offset,
	}
	reqCtx := c.Request.Context()
	callCtx, cancel := context.WithTimeout(reqCtx, 2*time.Second)
	records, err := r.Reports.Recent(callCtx, query)
	cancel()
	if err != nil {
		logger.Errorf("[api] list reports failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	total := -1
	countCtx, cancel := context.WithTimeout(reqCtx, 1*time.Second)
	count, err := r.Reports.Count(countCtx, query)
	cancel()
	if err != nil {
		// Do not fail the whole request if count is slow; return rows and set total_count=-1.
		logger.Warnf("[api] report count failed ip=%s err=%v", c.ClientIP(), err)
	} else {
		total = count
	}
	c.JSON(http.StatusOK, gin.H{
		"reports":     records,
		"total_count": total,
		"limit":       limit,
		"offset":      offset,
	})
}

// handleCatalog 列出诊断目录；带 category 参数时只查单条。
func (r *Router) handleCatalog(c *gin.Context) {
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		d, ok := diagnostics.Lookup(category)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown category"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"entry": d})
		return
	}
	entries := diagnostics.Catalog()
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

func (r *Router) handleConfigCheck(c *gin.Context) {
	issues := diagnostics.CheckConfiguration()
	if issues == nil {
		issues = []diagnostics.Issue{}
	}
	c.JSON(http.StatusOK, gin.H{"issues": issues, "count": len(issues), "ok": len(issues) == 0})
}
