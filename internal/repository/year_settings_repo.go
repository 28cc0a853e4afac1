package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/yearbook-go-api/internal/models"
)

// YearSettingsRepository stores one settings row per school year.
type YearSettingsRepository interface {
	GetByYear(ctx context.Context, yearID string) (models.YearSettings, error)
	// Upsert replaces the settings payload wholesale for the year.
	Upsert(ctx context.Context, settings *models.YearSettings) error
}

type yearSettingsRepository struct {
	db *gorm.DB
}

// NewYearSettingsRepository constructs the settings repository.
func NewYearSettingsRepository(db *gorm.DB) YearSettingsRepository {
	return &yearSettingsRepository{db: db}
}

func (r *yearSettingsRepository) GetByYear(ctx context.Context, yearID string) (models.YearSettings, error) {
	var settings models.YearSettings
	err := r.db.WithContext(ctx).Where("year_id = ?", yearID).First(&settings).Error
	return settings, err
}

func (r *yearSettingsRepository) Upsert(ctx context.Context, settings *models.YearSettings) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "year_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"settings", "updated_by", "updated_at"}),
	}).Create(settings).Error
}
