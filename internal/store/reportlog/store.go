package reportlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"tradeagents/internal/diagnostics"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ReportLogStore 管理错误诊断报告日志，方便后续排查/可视化。
type ReportLogStore struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	ownsDB bool
}

// ReportRecord 代表一条报告记录，保存诊断结论与渲染后的全文。
type ReportRecord struct {
	ID        int64             `json:"id"`
	TraceID   string            `json:"trace_id"`
	Timestamp int64             `json:"ts"`
	Tool      string            `json:"tool_name,omitempty"`
	Category  string            `json:"category,omitempty"`
	Kind      string            `json:"error_type,omitempty"`
	Message   string            `json:"error_message"`
	Context   map[string]string `json:"context,omitempty"`
	Rendered  string            `json:"rendered,omitempty"`
	CreatedAt int64             `json:"created_at,omitempty"`
}

// ReportQuery 用于筛选报告日志。
type ReportQuery struct {
	Tool     string
	Category string
	Limit    int
	Offset   int
}

// NewRecord 由诊断报告构造一条待写入的记录。
func NewRecord(rep diagnostics.Report, rendered string) ReportRecord {
	rec := ReportRecord{
		Tool:     rep.Tool,
		Kind:     string(rep.Kind),
		Message:  rep.Message,
		Rendered: rendered,
	}
	if d, ok := diagnostics.Diagnose(rep.Message, rep.Kind); ok {
		rec.Category = d.Category
	}
	if len(rep.Context) > 0 {
		rec.Context = make(map[string]string, len(rep.Context))
		for k, v := range rep.Context {
			rec.Context[k] = v
		}
	}
	return rec
}

// NewReportLogStore 初始化 SQLite 存储。
func NewReportLogStore(path string) (*ReportLogStore, error) {
	if path == "" {
		return nil, fmt.Errorf("report log path 不能为空")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)
	if err := ensureReportLogSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &ReportLogStore{
		db:     db,
		path:   path,
		ownsDB: true,
	}, nil
}

// UseExternalDB 允许复用外部初始化的 SQLite 连接，避免多连接锁冲突。
func (s *ReportLogStore) UseExternalDB(db *sql.DB) error {
	if s == nil {
		return fmt.Errorf("report log store 未初始化")
	}
	if db == nil {
		return fmt.Errorf("external db 不能为空")
	}
	if err := ensureReportLogSchema(db); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ownsDB && s.db != nil && s.db != db {
		_ = s.db.Close()
	}
	s.db = db
	s.ownsDB = false
	return nil
}

// Close 关闭底层 DB。
func (s *ReportLogStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	if !s.ownsDB {
		s.db = nil
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func ensureReportLogSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS error_reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts INTEGER NOT NULL,
			tool_name TEXT,
			category TEXT,
			error_type TEXT,
			error_message TEXT,
			context_json TEXT,
			rendered TEXT,
			trace_id TEXT,
			created_at INTEGER NOT NULL
		);
		`,
		`CREATE INDEX IF NOT EXISTS idx_error_reports_ts_id ON error_reports(ts DESC, id DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_error_reports_category_ts_id ON error_reports(category, ts DESC, id DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_error_reports_trace_id ON error_reports(trace_id);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return ensureReportLogColumns(db)
}

// Append 写入一条报告。缺省时间戳取当前时间，缺省 trace_id 自动生成。
func (s *ReportLogStore) Append(ctx context.Context, rec ReportRecord) (int64, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return 0, fmt.Errorf("report log store 未初始化")
	}
	ts := rec.Timestamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	traceID := strings.TrimSpace(rec.TraceID)
	if traceID == "" {
		traceID = uuid.NewString()
	}
	contextJSON := ""
	if len(rec.Context) > 0 {
		if b, err := json.Marshal(rec.Context); err == nil {
			contextJSON = string(b)
		}
	}
	now := time.Now().UnixMilli()
	res, err := db.ExecContext(ctx, `
		INSERT INTO error_reports
			(ts, tool_name, category, error_type, error_message, context_json, rendered, trace_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts,
		rec.Tool,
		rec.Category,
		rec.Kind,
		rec.Message,
		contextJSON,
		rec.Rendered,
		traceID,
		now,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func buildReportFilter(q ReportQuery) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if tool := strings.TrimSpace(q.Tool); tool != "" {
		conds = append(conds, "tool_name = ?")
		args = append(args, tool)
	}
	if cat := strings.TrimSpace(q.Category); cat != "" {
		conds = append(conds, "category = ?")
		args = append(args, cat)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReportRecord(scanner rowScanner) (ReportRecord, error) {
	var rec ReportRecord
	var tool, category, kind, message, contextJSON, rendered, traceID sql.NullString
	if err := scanner.Scan(
		&rec.ID, &rec.Timestamp, &tool, &category, &kind,
		&message, &contextJSON, &rendered, &traceID, &rec.CreatedAt,
	); err != nil {
		return ReportRecord{}, err
	}
	rec.Tool = tool.String
	rec.Category = category.String
	rec.Kind = kind.String
	rec.Message = message.String
	rec.Rendered = rendered.String
	rec.TraceID = traceID.String
	if raw := strings.TrimSpace(contextJSON.String); raw != "" {
		var ctxMap map[string]string
		if err := json.Unmarshal([]byte(raw), &ctxMap); err == nil {
			rec.Context = ctxMap
		}
	}
	return rec, nil
}

// Recent 按时间倒序返回报告。
func (s *ReportLogStore) Recent(ctx context.Context, q ReportQuery) ([]ReportRecord, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return nil, fmt.Errorf("report log store 未初始化")
	}
	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	filterSQL, args := buildReportFilter(q)
	var sb strings.Builder
	sb.WriteString(`SELECT id, ts, tool_name, category, error_type,
		error_message, context_json, rendered, trace_id, created_at
		FROM error_reports`)
	sb.WriteString(filterSQL)
	sb.WriteString(" ORDER BY ts DESC, id DESC LIMIT ? OFFSET ?")
	args = append(args, limit, offset)
	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []ReportRecord
	for rows.Next() {
		rec, err := scanReportRecord(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// Count 统计满足筛选条件的报告数量。
func (s *ReportLogStore) Count(ctx context.Context, q ReportQuery) (int, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return 0, fmt.Errorf("report log store 未初始化")
	}
	filterSQL, args := buildReportFilter(q)
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM error_reports"+filterSQL, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Get 按 ID 读取单条报告。
func (s *ReportLogStore) Get(ctx context.Context, id int64) (ReportRecord, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return ReportRecord{}, fmt.Errorf("report log store 未初始化")
	}
	row := db.QueryRowContext(ctx, `SELECT id, ts, tool_name, category, error_type,
		error_message, context_json, rendered, trace_id, created_at
		FROM error_reports WHERE id = ?`, id)
	return scanReportRecord(row)
}
