package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/yearbook-go-api/internal/models"
)

// AdminSessionFilter narrows session listings.
type AdminSessionFilter struct {
	Page       int
	PageSize   int
	AdminEmail string
	ActiveOnly bool
}

// AdminSessionRepository tracks admin login sessions.
type AdminSessionRepository interface {
	Create(ctx context.Context, session *models.AdminSession) error
	// CloseLatestActive deactivates the most recent active session for the
	// email and returns gorm.ErrRecordNotFound when none exists.
	CloseLatestActive(ctx context.Context, adminEmail string, logoutTime time.Time) (models.AdminSession, error)
	List(ctx context.Context, filter AdminSessionFilter) ([]models.AdminSession, int64, error)
}

type adminSessionRepository struct {
	db *gorm.DB
}

// NewAdminSessionRepository constructs the session repository.
func NewAdminSessionRepository(db *gorm.DB) AdminSessionRepository {
	return &adminSessionRepository{db: db}
}

func (r *adminSessionRepository) Create(ctx context.Context, session *models.AdminSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *adminSessionRepository) CloseLatestActive(ctx context.Context, adminEmail string, logoutTime time.Time) (models.AdminSession, error) {
	var session models.AdminSession
	err := r.db.WithContext(ctx).
		Where("admin_email = ? AND is_active = ?", adminEmail, true).
		Order("login_time DESC").
		First(&session).Error
	if err != nil {
		return models.AdminSession{}, err
	}

	session.IsActive = false
	session.LogoutTime = &logoutTime
	if err := r.db.WithContext(ctx).Save(&session).Error; err != nil {
		return models.AdminSession{}, err
	}

	return session, nil
}

func (r *adminSessionRepository) List(ctx context.Context, filter AdminSessionFilter) ([]models.AdminSession, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AdminSession{})

	if filter.AdminEmail != "" {
		query = query.Where("admin_email = ?", filter.AdminEmail)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var sessions []models.AdminSession
	if err := query.Order("login_time DESC").Find(&sessions).Error; err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}
