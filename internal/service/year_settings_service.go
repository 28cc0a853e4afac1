package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/yearbook-go-api/internal/dto"
	"github.com/noah-isme/yearbook-go-api/internal/models"
	"github.com/noah-isme/yearbook-go-api/internal/repository"
)

// ErrInvalidSettings indicates the settings payload failed schema validation.
var ErrInvalidSettings = errors.New("invalid year settings payload")

// yearSettingsSchema shapes the per-year configuration object. Unknown keys
// are allowed so the catalog can grow without a schema release.
const yearSettingsSchema = `{
	"type": "object",
	"properties": {
		"privacy": {
			"type": "object",
			"properties": {
				"profilesPublic": {"type": "boolean"},
				"albumsPublic": {"type": "boolean"}
			}
		},
		"moderation": {
			"type": "object",
			"properties": {
				"autoApproveThreshold": {"type": "number", "minimum": 0, "maximum": 100},
				"manualReviewThreshold": {"type": "number", "minimum": 0, "maximum": 100},
				"requireReviewForPhotos": {"type": "boolean"}
			}
		},
		"notifications": {
			"type": "object",
			"properties": {
				"notifyOnApproval": {"type": "boolean"},
				"notifyOnRejection": {"type": "boolean"}
			}
		},
		"rejectionReasons": {
			"type": "array",
			"items": {"type": "string", "minLength": 1}
		}
	}
}`

// defaultYearSettings returns the configuration served for years that have
// never been customised.
func defaultYearSettings() map[string]interface{} {
	return map[string]interface{}{
		"privacy": map[string]interface{}{
			"profilesPublic": false,
			"albumsPublic":   true,
		},
		"moderation": map[string]interface{}{
			"autoApproveThreshold":   40.0,
			"manualReviewThreshold":  70.0,
			"requireReviewForPhotos": true,
		},
		"notifications": map[string]interface{}{
			"notifyOnApproval":  true,
			"notifyOnRejection": true,
		},
		"rejectionReasons": []interface{}{
			"Policy violation",
			"Inappropriate content",
			"Poor image quality",
			"Duplicate submission",
		},
	}
}

// YearSettingsService serves and replaces per-year configuration.
type YearSettingsService interface {
	Get(ctx context.Context, yearID string) (dto.YearSettingsResponse, error)
	Replace(ctx context.Context, yearID, updatedBy string, req dto.YearSettingsUpdateRequest) (dto.YearSettingsResponse, error)
}

type yearSettingsService struct {
	repo   repository.YearSettingsRepository
	schema *jsonschema.Schema
	logger zerolog.Logger
}

// NewYearSettingsService constructs the settings service. The embedded schema
// is compiled once at startup; a bad schema is a programming error.
func NewYearSettingsService(repo repository.YearSettingsRepository, logger zerolog.Logger) (YearSettingsService, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("year_settings.schema.json", strings.NewReader(yearSettingsSchema)); err != nil {
		return nil, fmt.Errorf("failed to register year settings schema: %w", err)
	}
	schema, err := compiler.Compile("year_settings.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile year settings schema: %w", err)
	}

	return &yearSettingsService{
		repo:   repo,
		schema: schema,
		logger: logger.With().Str("component", "year_settings_service").Logger(),
	}, nil
}

func (s *yearSettingsService) Get(ctx context.Context, yearID string) (dto.YearSettingsResponse, error) {
	settings, err := s.repo.GetByYear(ctx, strings.TrimSpace(yearID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.YearSettingsResponse{
				YearID:    strings.TrimSpace(yearID),
				Settings:  defaultYearSettings(),
				IsDefault: true,
			}, nil
		}
		return dto.YearSettingsResponse{}, err
	}

	return dto.NewYearSettingsResponse(settings), nil
}

func (s *yearSettingsService) Replace(ctx context.Context, yearID, updatedBy string, req dto.YearSettingsUpdateRequest) (dto.YearSettingsResponse, error) {
	if req.Settings == nil {
		return dto.YearSettingsResponse{}, ErrInvalidSettings
	}

	if err := s.schema.Validate(map[string]interface{}(req.Settings)); err != nil {
		s.logger.Debug().Err(err).Str("year_id", yearID).Msg("year settings payload rejected")
		return dto.YearSettingsResponse{}, ErrInvalidSettings
	}

	model := models.YearSettings{
		YearID:    strings.TrimSpace(yearID),
		Settings:  datatypes.JSONMap(req.Settings),
		UpdatedBy: strings.TrimSpace(updatedBy),
	}

	if err := s.repo.Upsert(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("year_id", yearID).Msg("failed to replace year settings")
		return dto.YearSettingsResponse{}, err
	}

	return dto.NewYearSettingsResponse(model), nil
}
