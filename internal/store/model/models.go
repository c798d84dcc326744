package model

import (
	"gorm.io/datatypes"
)

// SavedSettingsModel maps to the 'saved_settings' table. Payload holds the
// full settings document as JSON so schema changes never need a migration.
type SavedSettingsModel struct {
	ID            int64          `gorm:"column:id;primaryKey"`
	Name          string         `gorm:"column:name;uniqueIndex"`
	Description   string         `gorm:"column:description"`
	Payload       datatypes.JSON `gorm:"column:payload;type:TEXT"`
	CreatedAtUnix int64          `gorm:"column:created_at"`
	UpdatedAtUnix int64          `gorm:"column:updated_at"`
}

func (SavedSettingsModel) TableName() string { return "saved_settings" }
