package sqlite

import (
	"context"
	"errors"
	"strings"
	"time"

	"tradeagents/internal/store/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// settingsRepository implements the SettingsRepository interface.
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepo creates a new settingsRepository.
func NewSettingsRepo(db *gorm.DB) *settingsRepository {
	return &settingsRepository{db: db}
}

// Save saves or updates a preset, matching on name.
func (r *settingsRepository) Save(ctx context.Context, preset *model.SavedSettingsModel) error {
	if preset == nil {
		return errors.New("preset cannot be nil")
	}
	preset.Name = strings.TrimSpace(preset.Name)
	if preset.Name == "" {
		return errors.New("preset name cannot be empty")
	}
	now := time.Now().Unix()
	if preset.CreatedAtUnix == 0 {
		preset.CreatedAtUnix = now
	}
	preset.UpdatedAtUnix = now
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "payload", "updated_at"}),
	}).Create(preset).Error
}

// FindByName finds a preset by name.
func (r *settingsRepository) FindByName(ctx context.Context, name string) (*model.SavedSettingsModel, error) {
	var preset model.SavedSettingsModel
	err := r.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).First(&preset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &preset, nil
}

// List lists all presets, most recently updated first.
func (r *settingsRepository) List(ctx context.Context) ([]model.SavedSettingsModel, error) {
	var presets []model.SavedSettingsModel
	if err := r.db.WithContext(ctx).
		Order("updated_at DESC, id DESC").
		Find(&presets).Error; err != nil {
		return nil, err
	}
	return presets, nil
}

// Delete removes a preset by name. Deleting a missing preset is not an error.
func (r *settingsRepository) Delete(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).
		Where("name = ?", strings.TrimSpace(name)).
		Delete(&model.SavedSettingsModel{}).Error
}
