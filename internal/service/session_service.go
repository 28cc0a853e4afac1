package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/yearbook-go-api/internal/dto"
	"github.com/noah-isme/yearbook-go-api/internal/models"
	"github.com/noah-isme/yearbook-go-api/internal/repository"
)

// SessionService records admin login and logout events. Concurrent sessions
// for one admin are allowed; login never deactivates earlier sessions.
type SessionService interface {
	TrackLogin(ctx context.Context, req dto.TrackLoginRequest) (dto.TrackLoginResponse, error)
	TrackLogout(ctx context.Context, req dto.TrackLogoutRequest) error
	List(ctx context.Context, filter repository.AdminSessionFilter) (dto.SessionListResponse, error)
}

type sessionService struct {
	repo      repository.AdminSessionRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSessionService constructs the session tracker.
func NewSessionService(repo repository.AdminSessionRepository, validator *validator.Validate, logger zerolog.Logger) SessionService {
	return &sessionService{
		repo:      repo,
		validator: validator,
		logger:    logger.With().Str("component", "session_service").Logger(),
		now:       time.Now,
	}
}

func (s *sessionService) TrackLogin(ctx context.Context, req dto.TrackLoginRequest) (dto.TrackLoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.TrackLoginResponse{}, err
	}

	session := models.AdminSession{
		AdminEmail: strings.ToLower(strings.TrimSpace(req.AdminEmail)),
		SessionID:  uuid.NewString(),
		LoginTime:  s.now().UTC(),
		IsActive:   true,
	}

	if err := s.repo.Create(ctx, &session); err != nil {
		s.logger.Error().Err(err).Str("admin_email", session.AdminEmail).Msg("failed to record admin login")
		return dto.TrackLoginResponse{}, err
	}

	return dto.TrackLoginResponse{SessionID: session.SessionID}, nil
}

func (s *sessionService) TrackLogout(ctx context.Context, req dto.TrackLogoutRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(req.AdminEmail))
	_, err := s.repo.CloseLatestActive(ctx, email, s.now().UTC())
	if err != nil {
		// No active session is a no-op by contract, not an error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug().Str("admin_email", email).Msg("logout without active session")
			return nil
		}
		s.logger.Error().Err(err).Str("admin_email", email).Msg("failed to record admin logout")
		return err
	}

	return nil
}

func (s *sessionService) List(ctx context.Context, filter repository.AdminSessionFilter) (dto.SessionListResponse, error) {
	sessions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.SessionListResponse{}, err
	}

	responses := make([]dto.AdminSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, dto.NewAdminSessionResponse(session))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(filter.Page, 1),
		PageSize:   filter.PageSize,
		TotalItems: total,
	}
	if filter.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(filter.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.SessionListResponse{Items: responses, Pagination: pagination}, nil
}
