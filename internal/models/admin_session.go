package models

import "time"

// AdminSession records one admin login. Multiple concurrent active sessions
// per admin are permitted; logout closes the most recent active one.
type AdminSession struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	AdminEmail string     `gorm:"size:255;not null;index" json:"admin_email"`
	SessionID  string     `gorm:"size:64;uniqueIndex;not null" json:"session_id"`
	LoginTime  time.Time  `gorm:"not null" json:"login_time"`
	LogoutTime *time.Time `json:"logout_time,omitempty"`
	IsActive   bool       `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
