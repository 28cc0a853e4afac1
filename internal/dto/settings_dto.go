package dto

import (
	"time"

	"github.com/noah-isme/yearbook-go-api/internal/models"
)

// YearSettingsUpdateRequest replaces the settings object wholesale.
type YearSettingsUpdateRequest struct {
	Settings map[string]interface{} `json:"settings" validate:"required"`
}

// YearSettingsResponse serializes the per-year configuration.
type YearSettingsResponse struct {
	YearID    string                 `json:"year_id"`
	Settings  map[string]interface{} `json:"settings"`
	UpdatedBy string                 `json:"updated_by,omitempty"`
	UpdatedAt time.Time              `json:"updated_at"`
	IsDefault bool                   `json:"is_default"`
}

// NewYearSettingsResponse converts a model into a DTO.
func NewYearSettingsResponse(settings models.YearSettings) YearSettingsResponse {
	payload := map[string]interface{}{}
	for key, value := range settings.Settings {
		payload[key] = value
	}

	return YearSettingsResponse{
		YearID:    settings.YearID,
		Settings:  payload,
		UpdatedBy: settings.UpdatedBy,
		UpdatedAt: settings.UpdatedAt,
	}
}
