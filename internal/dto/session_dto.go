package dto

import (
	"time"

	"github.com/noah-isme/yearbook-go-api/internal/models"
)

// TrackLoginRequest records an admin login event.
type TrackLoginRequest struct {
	AdminEmail string `json:"adminEmail" validate:"required,email"`
}

// TrackLogoutRequest closes the latest active session for the admin.
type TrackLogoutRequest struct {
	AdminEmail string `json:"adminEmail" validate:"required,email"`
}

// TrackLoginResponse returns the freshly generated session identifier.
type TrackLoginResponse struct {
	SessionID string `json:"sessionId"`
}

// AdminSessionResponse serializes one session record.
type AdminSessionResponse struct {
	ID         uint       `json:"id"`
	AdminEmail string     `json:"admin_email"`
	SessionID  string     `json:"session_id"`
	LoginTime  time.Time  `json:"login_time"`
	LogoutTime *time.Time `json:"logout_time,omitempty"`
	IsActive   bool       `json:"is_active"`
}

// SessionListResponse wraps a paginated session listing.
type SessionListResponse struct {
	Items      []AdminSessionResponse `json:"items"`
	Pagination PaginationMeta         `json:"pagination"`
}

// NewAdminSessionResponse converts a model into a DTO.
func NewAdminSessionResponse(session models.AdminSession) AdminSessionResponse {
	return AdminSessionResponse{
		ID:         session.ID,
		AdminEmail: session.AdminEmail,
		SessionID:  session.SessionID,
		LoginTime:  session.LoginTime,
		LogoutTime: session.LogoutTime,
		IsActive:   session.IsActive,
	}
}
