package models

import "time"

// AlbumView is one deduplicated view event. The composite unique index is the
// authority for deduplication: at most one row per (album_id, user_id) for
// known users. Anonymous views carry a NULL user id, which the index treats
// as distinct, so they are never deduplicated.
type AlbumView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AlbumID   uint      `gorm:"not null;uniqueIndex:idx_album_viewer" json:"album_id"`
	UserID    *string   `gorm:"size:64;uniqueIndex:idx_album_viewer" json:"user_id,omitempty"`
	UserAgent string    `gorm:"type:text" json:"user_agent,omitempty"`
	IPAddress string    `gorm:"size:45" json:"ip_address,omitempty"`
	ViewedAt  time.Time `gorm:"not null" json:"viewed_at"`
}

// AlbumLike is one like per (user_id, album_id), toggled on and off.
type AlbumLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AlbumID   uint      `gorm:"not null;uniqueIndex:idx_album_liker" json:"album_id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_album_liker" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
