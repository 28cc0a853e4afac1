package models

import (
	"time"

	"gorm.io/datatypes"
)

// Moderation item lifecycle states. Approved and rejected are terminal.
const (
	ModerationStatusPending  = "pending"
	ModerationStatusInReview = "in_review"
	ModerationStatusApproved = "approved"
	ModerationStatusRejected = "rejected"
)

// Content categories that can enter the moderation queue.
const (
	ModerationTypeProfile = "profile"
	ModerationTypeAlbum   = "album"
	ModerationTypePhoto   = "photo"
	ModerationTypeReport  = "report"
	ModerationTypeContent = "content"
)

// Moderation priorities assigned at submission time.
const (
	ModerationPriorityLow    = "low"
	ModerationPriorityMedium = "medium"
	ModerationPriorityHigh   = "high"
	ModerationPriorityUrgent = "urgent"
)

// ModerationItem is a unit of user-submitted content awaiting administrator review.
type ModerationItem struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	YearID          string            `gorm:"size:64;not null;index" json:"year_id"`
	Type            string            `gorm:"size:32;not null;index" json:"type"`
	Title           string            `gorm:"size:255;not null" json:"title"`
	Description     string            `gorm:"type:text" json:"description"`
	SubmitterID     string            `gorm:"size:64;not null" json:"submitter_id"`
	SubmitterName   string            `gorm:"size:255" json:"submitter_name"`
	SubmitterEmail  string            `gorm:"size:255" json:"submitter_email"`
	SubmittedAt     time.Time         `gorm:"not null" json:"submitted_at"`
	Priority        string            `gorm:"size:16;not null;default:medium" json:"priority"`
	Status          string            `gorm:"size:16;not null;default:pending;index" json:"status"`
	Metadata        datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	RejectionReason string            `gorm:"type:text" json:"rejection_reason,omitempty"`
	ReviewedAt      *time.Time        `json:"reviewed_at,omitempty"`
	ReviewedBy      string            `gorm:"size:255" json:"reviewed_by,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// IsPending reports whether the item is still awaiting a decision.
func (m ModerationItem) IsPending() bool {
	return m.Status == ModerationStatusPending
}

// ValidModerationStatus reports whether value is a known lifecycle state.
func ValidModerationStatus(value string) bool {
	switch value {
	case ModerationStatusPending, ModerationStatusInReview, ModerationStatusApproved, ModerationStatusRejected:
		return true
	}
	return false
}

// ValidModerationType reports whether value is a known content category.
func ValidModerationType(value string) bool {
	switch value {
	case ModerationTypeProfile, ModerationTypeAlbum, ModerationTypePhoto, ModerationTypeReport, ModerationTypeContent:
		return true
	}
	return false
}

// ValidModerationPriority reports whether value is a known priority.
func ValidModerationPriority(value string) bool {
	switch value {
	case ModerationPriorityLow, ModerationPriorityMedium, ModerationPriorityHigh, ModerationPriorityUrgent:
		return true
	}
	return false
}
