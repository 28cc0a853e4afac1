package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/yearbook-go-api/internal/models"
)

// ModerationFilter narrows moderation queue queries. All supplied fields are
// AND-combined; Query matches case-insensitively against title, description
// and submitter name.
type ModerationFilter struct {
	YearID   string
	Type     string
	Status   string
	Priority string
	Query    string
}

// ReviewDecision captures the fields written when an item leaves the queue.
type ReviewDecision struct {
	Status          string
	ReviewedBy      string
	ReviewedAt      time.Time
	RejectionReason string
}

// ModerationRepository manages moderation queue persistence.
type ModerationRepository interface {
	List(ctx context.Context, filter ModerationFilter) ([]models.ModerationItem, error)
	Get(ctx context.Context, yearID string, id uint) (models.ModerationItem, error)
	Create(ctx context.Context, item *models.ModerationItem) error
	// Review applies a decision guarded on the item still being pending.
	// It returns gorm.ErrRecordNotFound when no pending row matched.
	Review(ctx context.Context, yearID string, id uint, decision ReviewDecision) (models.ModerationItem, error)
}

type moderationRepository struct {
	db *gorm.DB
}

// NewModerationRepository constructs the moderation repository.
func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepository{db: db}
}

func (r *moderationRepository) List(ctx context.Context, filter ModerationFilter) ([]models.ModerationItem, error) {
	query := r.db.WithContext(ctx).Model(&models.ModerationItem{}).Where("year_id = ?", filter.YearID)

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(submitter_name) LIKE ?", pattern, pattern, pattern)
	}

	items := []models.ModerationItem{}
	if err := query.Order("submitted_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

func (r *moderationRepository) Get(ctx context.Context, yearID string, id uint) (models.ModerationItem, error) {
	var item models.ModerationItem
	err := r.db.WithContext(ctx).Where("year_id = ? AND id = ?", yearID, id).First(&item).Error
	return item, err
}

func (r *moderationRepository) Create(ctx context.Context, item *models.ModerationItem) error {
	if item.SubmittedAt.IsZero() {
		item.SubmittedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *moderationRepository) Review(ctx context.Context, yearID string, id uint, decision ReviewDecision) (models.ModerationItem, error) {
	updates := map[string]interface{}{
		"status":      decision.Status,
		"reviewed_by": decision.ReviewedBy,
		"reviewed_at": decision.ReviewedAt,
	}
	if decision.RejectionReason != "" {
		updates["rejection_reason"] = decision.RejectionReason
	}

	result := r.db.WithContext(ctx).Model(&models.ModerationItem{}).
		Where("year_id = ? AND id = ? AND status = ?", yearID, id, models.ModerationStatusPending).
		Updates(updates)
	if result.Error != nil {
		return models.ModerationItem{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.ModerationItem{}, gorm.ErrRecordNotFound
	}

	return r.Get(ctx, yearID, id)
}
