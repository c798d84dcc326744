package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tradeagents/internal/store"
	"tradeagents/internal/store/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type SqliteStore struct {
	db *gorm.DB
}

func NewSqliteStore(path string) (*SqliteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}

	return newSqliteStore(db)
}

func newSqliteStore(db *gorm.DB) (*SqliteStore, error) {
	if err := db.AutoMigrate(&model.SavedSettingsModel{}); err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {

		sqlDB.SetMaxOpenConns(2)
		sqlDB.SetMaxIdleConns(2)
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Begin(ctx context.Context) (store.UnitOfWork, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormUnitOfWork{tx: tx}, nil
}

func (s *SqliteStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SQLDB 暴露底层 *sql.DB，给共用同一库文件的存储复用连接。
func (s *SqliteStore) SQLDB() (*sql.DB, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlite store 未初始化")
	}
	return s.db.DB()
}

// SavePreset upserts a preset inside its own transaction.
func (s *SqliteStore) SavePreset(ctx context.Context, preset *model.SavedSettingsModel) error {
	uow, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	if err := uow.Settings().Save(ctx, preset); err != nil {
		_ = uow.Rollback()
		return err
	}
	return uow.Commit()
}

// FindPreset reads a preset by name, nil when absent.
func (s *SqliteStore) FindPreset(ctx context.Context, name string) (*model.SavedSettingsModel, error) {
	return NewSettingsRepo(s.db).FindByName(ctx, name)
}

// ListPresets returns all presets ordered by last update.
func (s *SqliteStore) ListPresets(ctx context.Context) ([]model.SavedSettingsModel, error) {
	return NewSettingsRepo(s.db).List(ctx)
}

// DeletePreset removes a preset inside its own transaction.
func (s *SqliteStore) DeletePreset(ctx context.Context, name string) error {
	uow, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	if err := uow.Settings().Delete(ctx, name); err != nil {
		_ = uow.Rollback()
		return err
	}
	return uow.Commit()
}

type gormUnitOfWork struct {
	tx *gorm.DB
}

func (u *gormUnitOfWork) Settings() store.SettingsRepository {
	return NewSettingsRepo(u.tx)
}

func (u *gormUnitOfWork) Commit() error {
	return u.tx.Commit().Error
}

func (u *gormUnitOfWork) Rollback() error {
	return u.tx.Rollback().Error
}
