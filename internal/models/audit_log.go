package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit entry outcomes.
const (
	AuditStatusSuccess = "success"
	AuditStatusFailure = "failure"
)

// AuditLog captures one administrative action for traceability. Entries are
// immutable once written and only removed through explicit admin deletes.
type AuditLog struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	UserID       string            `gorm:"size:64;not null;index" json:"user_id"`
	UserName     string            `gorm:"size:255" json:"user_name"`
	Action       string            `gorm:"size:64;not null;index" json:"action"`
	TargetType   string            `gorm:"size:64;not null;index" json:"target_type"`
	TargetID     string            `gorm:"size:64;not null" json:"target_id"`
	TargetName   string            `gorm:"size:255" json:"target_name"`
	Details      datatypes.JSONMap `gorm:"type:json" json:"details"`
	SchoolYearID string            `gorm:"size:64;index" json:"school_year_id"`
	IPAddress    string            `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent    string            `gorm:"type:text" json:"user_agent,omitempty"`
	Status       string            `gorm:"size:16;not null;default:success" json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
}

// TableName pins the audit table name.
func (AuditLog) TableName() string {
	return "audit_logs"
}
