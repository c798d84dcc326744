package store

import (
	"context"

	"tradeagents/internal/store/model"
)

// UnitOfWork defines a transaction scope.
type UnitOfWork interface {
	// Commit commits the transaction.
	Commit() error
	// Rollback rolls back the transaction.
	Rollback() error

	// Settings returns the saved-settings repository within this transaction.
	Settings() SettingsRepository
}

// Store is the entry point for database access.
type Store interface {
	// Begin starts a new UnitOfWork (transaction).
	Begin(ctx context.Context) (UnitOfWork, error)
	// Close closes the store connection.
	Close() error
}

// SettingsRepository handles saved settings presets keyed by name.
type SettingsRepository interface {
	Save(ctx context.Context, preset *model.SavedSettingsModel) error
	FindByName(ctx context.Context, name string) (*model.SavedSettingsModel, error)
	List(ctx context.Context) ([]model.SavedSettingsModel, error)
	Delete(ctx context.Context, name string) error
}
