package dashhttp

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"tradeagents/internal/logger"
	"tradeagents/internal/market"
	"tradeagents/internal/search"
	"tradeagents/internal/settings"
	"tradeagents/internal/store/reportlog"
	"tradeagents/internal/store/sqlite"

	"github.com/gin-gonic/gin"
)

// Server 提供仪表盘的 /api/dash HTTP 服务（设置/行情/诊断）。
type Server struct {
	addr   string
	router *gin.Engine
}

// ServerConfig 描述 dash HTTP 服务依赖。
type ServerConfig struct {
	Addr          string
	AuthToken     string
	ChartInterval string
	SearchLimit   int
	Registry      *settings.Registry
	Presets       *sqlite.SqliteStore
	Reports       *reportlog.ReportLogStore
	Market        *market.Service
	Search        search.Engine
}

// NewServer 构建 dash HTTP server。
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("dash http server requires a settings registry")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8600"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	dashRouter := NewRouter(cfg.Registry, cfg.Presets, cfg.Reports, cfg.Market, cfg.Search)
	dashRouter.ChartInterval = strings.TrimSpace(cfg.ChartInterval)
	dashRouter.SearchLimit = cfg.SearchLimit
	group := router.Group("/api/dash")
	if token := strings.TrimSpace(cfg.AuthToken); token != "" {
		group.Use(bearerAuth(token))
	}
	dashRouter.Register(group)

	return &Server{addr: cfg.Addr, router: router}, nil
}

// requestLogger 记录仪表盘接口的访问情况，便于追踪刷新与调用。
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		client := c.ClientIP()
		c.Next()
		dur := time.Since(start)
		status := c.Writer.Status()
		fullPath := path
		if query != "" {
			fullPath = path + "?" + query
		}
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s", method, fullPath, status, client, dur)
	}
}

// bearerAuth 校验 Authorization 头里的固定 token，未配置时不会挂载。
func bearerAuth(token string) gin.HandlerFunc {
	expect := "Bearer " + token
	return func(c *gin.Context) {
		got := strings.TrimSpace(c.GetHeader("Authorization"))
		if got != expect {
			logger.Warnf("[api] unauthorized request ip=%s path=%s", c.ClientIP(), c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// Addr 返回监听地址。
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Start 启动 HTTP 服务，直到 ctx 取消或出现错误。
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
