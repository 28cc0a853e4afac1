package dto

import (
	"time"

	"github.com/noah-isme/yearbook-go-api/internal/models"
)

// AuditEntryRequest captures a new audit record.
type AuditEntryRequest struct {
	UserID       string                 `json:"user_id" validate:"required"`
	UserName     string                 `json:"user_name"`
	Action       string                 `json:"action" validate:"required"`
	TargetType   string                 `json:"target_type" validate:"required"`
	TargetID     string                 `json:"target_id" validate:"required"`
	TargetName   string                 `json:"target_name"`
	Details      map[string]interface{} `json:"details"`
	SchoolYearID string                 `json:"school_year_id"`
	IPAddress    string                 `json:"ip_address"`
	UserAgent    string                 `json:"user_agent"`
	Status       string                 `json:"status" validate:"omitempty,oneof=success failure"`
	Timestamp    *time.Time             `json:"timestamp"`
}

// AuditListRequest defines filters for the audit trail listing.
type AuditListRequest struct {
	Page         int
	PageSize     int
	UserID       string
	Action       string
	TargetType   string
	SchoolYearID string
}

// AuditEntryResponse serializes one audit record.
type AuditEntryResponse struct {
	ID           uint                   `json:"id"`
	UserID       string                 `json:"user_id"`
	UserName     string                 `json:"user_name"`
	Action       string                 `json:"action"`
	TargetType   string                 `json:"target_type"`
	TargetID     string                 `json:"target_id"`
	TargetName   string                 `json:"target_name"`
	Details      map[string]interface{} `json:"details"`
	SchoolYearID string                 `json:"school_year_id"`
	IPAddress    string                 `json:"ip_address,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	Status       string                 `json:"status"`
	Timestamp    time.Time              `json:"timestamp"`
}

// AuditListResponse wraps a paginated audit trail.
type AuditListResponse struct {
	Items      []AuditEntryResponse `json:"items"`
	Pagination PaginationMeta       `json:"pagination"`
}

// DeleteAllResponse distinguishes "nothing to delete" from failure.
type DeleteAllResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

// NewAuditEntryResponse converts a model into a DTO.
func NewAuditEntryResponse(entry models.AuditLog) AuditEntryResponse {
	details := map[string]interface{}{}
	for key, value := range entry.Details {
		details[key] = value
	}

	return AuditEntryResponse{
		ID:           entry.ID,
		UserID:       entry.UserID,
		UserName:     entry.UserName,
		Action:       entry.Action,
		TargetType:   entry.TargetType,
		TargetID:     entry.TargetID,
		TargetName:   entry.TargetName,
		Details:      details,
		SchoolYearID: entry.SchoolYearID,
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
		Status:       entry.Status,
		Timestamp:    entry.CreatedAt,
	}
}
