package models

import (
	"time"

	"gorm.io/datatypes"
)

// YearSettings holds the per-year configuration object: privacy defaults,
// moderation thresholds, notification flags and the rejection-reason catalog.
// The settings payload is replaced wholesale on update, never merged.
type YearSettings struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	YearID    string            `gorm:"size:64;uniqueIndex;not null" json:"year_id"`
	Settings  datatypes.JSONMap `gorm:"type:json;not null" json:"settings"`
	UpdatedBy string            `gorm:"size:255" json:"updated_by,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// TableName pins the settings table name.
func (YearSettings) TableName() string {
	return "year_settings"
}
