package dto

// TrackViewRequest records a view against an album. User identity comes from
// the JWT when present; anonymous views are accepted.
type TrackViewRequest struct {
	AlbumID uint `json:"albumId" validate:"required,gt=0"`
}

// AlbumStatsResponse aggregates engagement for one album.
type AlbumStatsResponse struct {
	AlbumID      uint  `json:"albumId"`
	TotalViews   int64 `json:"totalViews"`
	TotalLikes   int64 `json:"totalLikes"`
	ViewedByUser bool  `json:"viewedByUser"`
	LikedByUser  bool  `json:"likedByUser"`
}

// TrackViewResponse reports whether the view was counted or deduplicated.
type TrackViewResponse struct {
	AlbumID      uint `json:"albumId"`
	Counted      bool `json:"counted"`
	Deduplicated bool `json:"deduplicated"`
}

// ToggleLikeResponse reports the like state after toggling.
type ToggleLikeResponse struct {
	AlbumID    uint  `json:"albumId"`
	Liked      bool  `json:"liked"`
	TotalLikes int64 `json:"totalLikes"`
}
