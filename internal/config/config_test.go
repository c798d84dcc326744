package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_DefaultsApplied(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "config.yaml")
	writeFile(t, main, "app:\n  env: prod\n")

	cfg, err := Load(main)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, ":8600", cfg.Dashboard.HTTPAddr)
	assert.Equal(t, "configs/settings.yaml", cfg.Dashboard.SettingsPath)
	assert.Equal(t, filepath.Join("data", "db", "settings.db"), cfg.Dashboard.SettingsDBPath)
	assert.Equal(t, filepath.Join("data", "db", "reports.db"), cfg.Dashboard.ReportDBPath)
	assert.Equal(t, "https://api.binance.com", cfg.Market.BinanceREST)
	assert.Equal(t, 30, cfg.Market.QuoteTTLSeconds)
	assert.Equal(t, "1h", cfg.Market.KlineInterval)
	assert.Equal(t, 180, cfg.Market.KlineLimit)
	assert.Equal(t, 20, cfg.Search.MaxResults)
}

func TestLoad_DataDirResolution(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "config.yaml")
	writeFile(t, main,
		"app:\n  data_dir: /var/lib/tradeagents\nsearch:\n  index_path: idx/tickers.bleve\ndashboard:\n  report_db_path: /tmp/reports.db\n")

	cfg, err := Load(main)
	require.NoError(t, err)

	// 相对路径挂到 data_dir 下，绝对路径不动
	assert.Equal(t, filepath.Join("/var/lib/tradeagents", "db", "settings.db"), cfg.Dashboard.SettingsDBPath)
	assert.Equal(t, "/tmp/reports.db", cfg.Dashboard.ReportDBPath)
	assert.Equal(t, filepath.Join("/var/lib/tradeagents", "idx", "tickers.bleve"), cfg.Search.IndexPath)
}

func TestLoad_ExplicitEmptyWins(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "config.yaml")
	writeFile(t, main, "dashboard:\n  settings_path: \"\"\n")

	cfg, err := Load(main)
	require.NoError(t, err)

	// Set-to-empty is a choice, not an omission; the default must not
	// overwrite it.
	assert.Equal(t, "", cfg.Dashboard.SettingsPath)
}

func TestLoad_Includes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "market.yaml"),
		"market:\n  quote_ttl_seconds: 5\n  kline_limit: 50\n")
	main := filepath.Join(dir, "config.yaml")
	writeFile(t, main,
		"include:\n  - market.yaml\napp:\n  log_level: debug\nmarket:\n  kline_limit: 99\n")

	cfg, err := Load(main)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 5, cfg.Market.QuoteTTLSeconds)
	// The including file merges last and wins.
	assert.Equal(t, 99, cfg.Market.KlineLimit)
}

func TestLoad_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "include:\n  - b.yaml\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "include:\n  - a.yaml\n")

	_, err := Load(filepath.Join(dir, "a.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestLoad_Validation(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "config.yaml")
	writeFile(t, main, "app:\n  log_level: loud\n")

	_, err := Load(main)
	assert.Error(t, err)

	writeFile(t, main, "market:\n  binance_rest: \"not a url\"\n")
	_, err = Load(main)
	assert.Error(t, err)
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}
