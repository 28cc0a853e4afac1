package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/yearbook-go-api/internal/models"
)

// EngagementRepository records album views and likes. Deduplication relies on
// the composite unique indexes declared on the models; inserts use an
// on-conflict-do-nothing clause so concurrent duplicates are swallowed at the
// database rather than surfaced as errors.
type EngagementRepository interface {
	CreateView(ctx context.Context, view *models.AlbumView) error
	FindView(ctx context.Context, albumID uint, userID string) (models.AlbumView, error)
	CountViews(ctx context.Context, albumID uint) (int64, error)
	CreateLike(ctx context.Context, like *models.AlbumLike) error
	DeleteLike(ctx context.Context, albumID uint, userID string) error
	FindLike(ctx context.Context, albumID uint, userID string) (models.AlbumLike, error)
	CountLikes(ctx context.Context, albumID uint) (int64, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository constructs the engagement repository.
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) CreateView(ctx context.Context, view *models.AlbumView) error {
	if view.ViewedAt.IsZero() {
		view.ViewedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(view).Error
}

func (r *engagementRepository) FindView(ctx context.Context, albumID uint, userID string) (models.AlbumView, error) {
	var view models.AlbumView
	err := r.db.WithContext(ctx).
		Where("album_id = ? AND user_id = ?", albumID, userID).
		First(&view).Error
	return view, err
}

func (r *engagementRepository) CountViews(ctx context.Context, albumID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.AlbumView{}).
		Where("album_id = ?", albumID).
		Count(&total).Error
	return total, err
}

func (r *engagementRepository) CreateLike(ctx context.Context, like *models.AlbumLike) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
}

func (r *engagementRepository) DeleteLike(ctx context.Context, albumID uint, userID string) error {
	result := r.db.WithContext(ctx).
		Where("album_id = ? AND user_id = ?", albumID, userID).
		Delete(&models.AlbumLike{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *engagementRepository) FindLike(ctx context.Context, albumID uint, userID string) (models.AlbumLike, error) {
	var like models.AlbumLike
	err := r.db.WithContext(ctx).
		Where("album_id = ? AND user_id = ?", albumID, userID).
		First(&like).Error
	return like, err
}

func (r *engagementRepository) CountLikes(ctx context.Context, albumID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.AlbumLike{}).
		Where("album_id = ?", albumID).
		Count(&total).Error
	return total, err
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
