package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/yearbook-go-api/internal/dto"
	"github.com/noah-isme/yearbook-go-api/internal/models"
	"github.com/noah-isme/yearbook-go-api/internal/observability"
	"github.com/noah-isme/yearbook-go-api/internal/repository"
)

// ErrAuditEntryNotFound indicates the referenced audit record does not exist.
var ErrAuditEntryNotFound = errors.New("audit entry not found")

// AuditRecorder is the write-side contract other services depend on. Every
// moderation mutation produces exactly one audit entry through it.
type AuditRecorder interface {
	Record(ctx context.Context, entry dto.AuditEntryRequest) (dto.AuditEntryResponse, error)
}

// AuditService exposes the audit trail: append, list, delete one, delete all.
type AuditService interface {
	AuditRecorder
	List(ctx context.Context, req dto.AuditListRequest) (dto.AuditListResponse, error)
	DeleteOne(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) (dto.DeleteAllResponse, error)
}

type auditService struct {
	repo      repository.AuditLogRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuditService constructs the audit service.
func NewAuditService(repo repository.AuditLogRepository, validator *validator.Validate, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:      repo,
		validator: validator,
		logger:    logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Record(ctx context.Context, entry dto.AuditEntryRequest) (dto.AuditEntryResponse, error) {
	if err := s.validator.Struct(entry); err != nil {
		return dto.AuditEntryResponse{}, err
	}

	status := entry.Status
	if status == "" {
		status = models.AuditStatusSuccess
	}

	model := models.AuditLog{
		UserID:       strings.TrimSpace(entry.UserID),
		UserName:     strings.TrimSpace(entry.UserName),
		Action:       strings.ToLower(strings.TrimSpace(entry.Action)),
		TargetType:   strings.ToLower(strings.TrimSpace(entry.TargetType)),
		TargetID:     strings.TrimSpace(entry.TargetID),
		TargetName:   strings.TrimSpace(entry.TargetName),
		Details:      sanitizeDetails(entry.Details),
		SchoolYearID: strings.TrimSpace(entry.SchoolYearID),
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
		Status:       status,
	}
	if entry.Timestamp != nil {
		model.CreatedAt = *entry.Timestamp
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", model.Action).Msg("failed to persist audit entry")
		return dto.AuditEntryResponse{}, err
	}

	observability.AuditEntries().WithLabelValues(status).Inc()

	return dto.NewAuditEntryResponse(model), nil
}

func (s *auditService) List(ctx context.Context, req dto.AuditListRequest) (dto.AuditListResponse, error) {
	filter := repository.AuditLogFilter{
		Page:         req.Page,
		PageSize:     req.PageSize,
		UserID:       strings.TrimSpace(req.UserID),
		Action:       strings.ToLower(strings.TrimSpace(req.Action)),
		TargetType:   strings.ToLower(strings.TrimSpace(req.TargetType)),
		SchoolYearID: strings.TrimSpace(req.SchoolYearID),
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.AuditListResponse{}, err
	}

	responses := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewAuditEntryResponse(entry))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(req.Page, 1),
		PageSize:   req.PageSize,
		TotalItems: total,
	}
	if req.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.AuditListResponse{Items: responses, Pagination: pagination}, nil
}

func (s *auditService) DeleteOne(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAuditEntryNotFound
		}
		s.logger.Error().Err(err).Uint("entry_id", id).Msg("failed to delete audit entry")
		return err
	}
	return nil
}

func (s *auditService) DeleteAll(ctx context.Context) (dto.DeleteAllResponse, error) {
	count, err := s.repo.DeleteAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to clear audit log")
		return dto.DeleteAllResponse{}, err
	}

	// A zero count is a successful no-op, not a failure.
	return dto.DeleteAllResponse{DeletedCount: count}, nil
}

func sanitizeDetails(details map[string]interface{}) datatypes.JSONMap {
	if details == nil {
		return datatypes.JSONMap{}
	}

	sanitized := datatypes.JSONMap{}
	for key, value := range details {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "password") || strings.Contains(lower, "token") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
