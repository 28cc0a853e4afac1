package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/yearbook-go-api/internal/dto"
	"github.com/noah-isme/yearbook-go-api/internal/models"
	"github.com/noah-isme/yearbook-go-api/internal/observability"
	"github.com/noah-isme/yearbook-go-api/internal/repository"
)

// Moderation actions accepted by the bulk endpoint.
const (
	ModerationActionApprove = "approve"
	ModerationActionReject  = "reject"
)

var (
	// ErrModerationItemNotFound indicates no item matches (yearID, itemID).
	ErrModerationItemNotFound = errors.New("moderation item not found")
	// ErrModerationItemResolved indicates the item already left the pending state.
	ErrModerationItemResolved = errors.New("moderation item is not pending")
	// ErrRejectionReasonRequired indicates a reject was attempted without a reason.
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	// ErrInvalidBulkAction indicates an unknown bulk action verb.
	ErrInvalidBulkAction = errors.New("bulk action must be approve or reject")
)

// Reviewer identifies the administrator applying a decision.
type Reviewer struct {
	ID        string
	Name      string
	IPAddress string
	UserAgent string
}

func (r Reviewer) identity() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// ModerationService drives the review workflow over submitted content.
type ModerationService interface {
	List(ctx context.Context, req dto.ModerationListRequest) ([]dto.ModerationItemResponse, error)
	Approve(ctx context.Context, yearID string, itemID uint, reviewer Reviewer) (dto.ModerationItemResponse, error)
	Reject(ctx context.Context, yearID string, itemID uint, reviewer Reviewer, reason string) (dto.ModerationItemResponse, error)
	BulkAction(ctx context.Context, yearID string, req dto.BulkActionRequest, reviewer Reviewer) (dto.BulkActionResponse, error)
}

type moderationService struct {
	repo      repository.ModerationRepository
	audit     AuditRecorder
	notifier  DecisionNotifier
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewModerationService constructs the moderation workflow service. audit and
// notifier may be nil; decisions then skip the corresponding side effect.
func NewModerationService(repo repository.ModerationRepository, audit AuditRecorder, notifier DecisionNotifier, validator *validator.Validate, logger zerolog.Logger) ModerationService {
	return &moderationService{
		repo:      repo,
		audit:     audit,
		notifier:  notifier,
		validator: validator,
		logger:    logger.With().Str("component", "moderation_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/yearbook-go-api/internal/service/moderation"),
		now:       time.Now,
	}
}

func (s *moderationService) List(ctx context.Context, req dto.ModerationListRequest) ([]dto.ModerationItemResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	filter := repository.ModerationFilter{
		YearID:   strings.TrimSpace(req.YearID),
		Type:     strings.TrimSpace(req.Type),
		Status:   strings.TrimSpace(req.Status),
		Priority: strings.TrimSpace(req.Priority),
		Query:    req.Query,
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Str("year_id", filter.YearID).Msg("failed to list moderation queue")
		return nil, err
	}

	return dto.NewModerationItemResponseSlice(items), nil
}

func (s *moderationService) Approve(ctx context.Context, yearID string, itemID uint, reviewer Reviewer) (dto.ModerationItemResponse, error) {
	return s.decide(ctx, yearID, itemID, reviewer, ModerationActionApprove, "")
}

func (s *moderationService) Reject(ctx context.Context, yearID string, itemID uint, reviewer Reviewer, reason string) (dto.ModerationItemResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return dto.ModerationItemResponse{}, ErrRejectionReasonRequired
	}
	return s.decide(ctx, yearID, itemID, reviewer, ModerationActionReject, strings.TrimSpace(reason))
}

func (s *moderationService) decide(ctx context.Context, yearID string, itemID uint, reviewer Reviewer, action, reason string) (dto.ModerationItemResponse, error) {
	ctx, span := s.tracer.Start(ctx, "moderation.decide", trace.WithAttributes(
		attribute.String("moderation.year_id", yearID),
		attribute.Int64("moderation.item_id", int64(itemID)),
		attribute.String("moderation.action", action),
	))
	defer span.End()

	item, err := s.repo.Get(ctx, yearID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "not found")
			observability.ModerationDecisions().WithLabelValues(action, "not_found").Inc()
			return dto.ModerationItemResponse{}, ErrModerationItemNotFound
		}
		span.RecordError(err)
		return dto.ModerationItemResponse{}, err
	}

	if !item.IsPending() {
		span.SetStatus(codes.Error, "not pending")
		observability.ModerationDecisions().WithLabelValues(action, "invalid_state").Inc()
		return dto.ModerationItemResponse{}, ErrModerationItemResolved
	}

	status := models.ModerationStatusApproved
	if action == ModerationActionReject {
		status = models.ModerationStatusRejected
	}

	decision := repository.ReviewDecision{
		Status:          status,
		ReviewedBy:      reviewer.identity(),
		ReviewedAt:      s.now().UTC(),
		RejectionReason: reason,
	}

	updated, err := s.repo.Review(ctx, yearID, itemID, decision)
	if err != nil {
		// A concurrent reviewer may have resolved the item between the read
		// and the guarded update.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "lost review race")
			observability.ModerationDecisions().WithLabelValues(action, "invalid_state").Inc()
			return dto.ModerationItemResponse{}, ErrModerationItemResolved
		}
		span.RecordError(err)
		observability.ModerationDecisions().WithLabelValues(action, "error").Inc()
		return dto.ModerationItemResponse{}, err
	}

	observability.ModerationDecisions().WithLabelValues(action, "applied").Inc()
	s.recordDecision(ctx, updated, reviewer, action, reason)
	s.notifyDecision(ctx, updated, reviewer, action, reason)
	span.SetStatus(codes.Ok, "applied")

	return dto.NewModerationItemResponse(updated), nil
}

// BulkAction applies one decision to each item independently. It is not
// atomic: a failure on one item never rolls back the others. Items that are
// missing land in NotFound; items already resolved are silently skipped.
func (s *moderationService) BulkAction(ctx context.Context, yearID string, req dto.BulkActionRequest, reviewer Reviewer) (dto.BulkActionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.BulkActionResponse{}, err
	}

	action := strings.ToLower(strings.TrimSpace(req.Action))
	if action != ModerationActionApprove && action != ModerationActionReject {
		return dto.BulkActionResponse{}, ErrInvalidBulkAction
	}

	reason := strings.TrimSpace(req.Reason)
	if action == ModerationActionReject && reason == "" {
		return dto.BulkActionResponse{}, ErrRejectionReasonRequired
	}

	ctx, span := s.tracer.Start(ctx, "moderation.bulk", trace.WithAttributes(
		attribute.String("moderation.year_id", yearID),
		attribute.String("moderation.action", action),
		attribute.Int("moderation.batch_size", len(req.ItemIDs)),
	))
	defer span.End()

	result := dto.BulkActionResponse{
		Updated:        []dto.ModerationItemResponse{},
		NotFound:       []uint{},
		TotalProcessed: len(req.ItemIDs),
	}

	for _, itemID := range req.ItemIDs {
		updated, err := s.decide(ctx, yearID, itemID, reviewer, action, reason)
		switch {
		case err == nil:
			result.Updated = append(result.Updated, updated)
		case errors.Is(err, ErrModerationItemNotFound):
			result.NotFound = append(result.NotFound, itemID)
		case errors.Is(err, ErrModerationItemResolved):
			// Already decided elsewhere; skipped by contract, not an error.
		default:
			s.logger.Error().Err(err).Uint("item_id", itemID).Str("action", action).Msg("bulk decision failed for item")
		}
	}

	return result, nil
}

func (s *moderationService) recordDecision(ctx context.Context, item models.ModerationItem, reviewer Reviewer, action, reason string) {
	if s.audit == nil {
		return
	}

	details := map[string]interface{}{
		"item_type": item.Type,
		"priority":  item.Priority,
	}
	if reason != "" {
		details["reason"] = reason
	}

	entry := dto.AuditEntryRequest{
		UserID:       reviewer.ID,
		UserName:     reviewer.Name,
		Action:       "moderation." + action,
		TargetType:   "moderation_item",
		TargetID:     strconv.FormatUint(uint64(item.ID), 10),
		TargetName:   item.Title,
		Details:      details,
		SchoolYearID: item.YearID,
		IPAddress:    reviewer.IPAddress,
		UserAgent:    reviewer.UserAgent,
	}

	if _, err := s.audit.Record(ctx, entry); err != nil {
		// Auditing is a best-effort post-condition; the decision stands.
		s.logger.Warn().Err(err).Uint("item_id", item.ID).Msg("failed to audit moderation decision")
	}
}

func (s *moderationService) notifyDecision(ctx context.Context, item models.ModerationItem, reviewer Reviewer, action, reason string) {
	if s.notifier == nil {
		return
	}

	s.notifier.Publish(ctx, DecisionEvent{
		YearID:      item.YearID,
		ItemID:      item.ID,
		ItemType:    item.Type,
		Action:      action,
		Reason:      reason,
		SubmitterID: item.SubmitterID,
		ReviewedBy:  reviewer.identity(),
		DecidedAt:   s.now().UTC(),
	})
}
