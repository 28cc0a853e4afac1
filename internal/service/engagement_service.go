package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/yearbook-go-api/internal/dto"
	"github.com/noah-isme/yearbook-go-api/internal/models"
	"github.com/noah-isme/yearbook-go-api/internal/observability"
	"github.com/noah-isme/yearbook-go-api/internal/repository"
)

// ErrUserRequired indicates an operation that needs a known user identity.
var ErrUserRequired = errors.New("user identity is required")

// EngagementService aggregates album views and likes with per-user
// deduplication. Stats are cached per album; writes invalidate the cache.
type EngagementService interface {
	TrackView(ctx context.Context, albumID uint, userID, userAgent, ipAddress string) (dto.TrackViewResponse, error)
	GetStats(ctx context.Context, albumID uint, userID string) (dto.AlbumStatsResponse, error)
	GetMultipleStats(ctx context.Context, albumIDs []uint, userID string) ([]dto.AlbumStatsResponse, error)
	ToggleLike(ctx context.Context, albumID uint, userID string) (dto.ToggleLikeResponse, error)
}

type engagementService struct {
	repo     repository.EngagementRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// cachedAlbumStats is the album-level slice of the stats payload. Per-user
// fields are never cached.
type cachedAlbumStats struct {
	TotalViews int64 `json:"total_views"`
	TotalLikes int64 `json:"total_likes"`
}

// NewEngagementService constructs the engagement aggregator. cache may be
// nil; stats are then computed from the database on every call.
func NewEngagementService(repo repository.EngagementRepository, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) EngagementService {
	return &engagementService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "engagement_service").Logger(),
	}
}

func (s *engagementService) TrackView(ctx context.Context, albumID uint, userID, userAgent, ipAddress string) (dto.TrackViewResponse, error) {
	view := models.AlbumView{
		AlbumID:   albumID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ViewedAt:  time.Now().UTC(),
	}

	if userID != "" {
		if _, err := s.repo.FindView(ctx, albumID, userID); err == nil {
			observability.AlbumViews().WithLabelValues("deduplicated").Inc()
			return dto.TrackViewResponse{AlbumID: albumID, Deduplicated: true}, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TrackViewResponse{}, err
		}
		view.UserID = &userID
	}

	// The on-conflict clause swallows a concurrent duplicate for the same
	// (album, user) pair; the unique index stays the source of truth.
	if err := s.repo.CreateView(ctx, &view); err != nil {
		s.logger.Error().Err(err).Uint("album_id", albumID).Msg("failed to record album view")
		return dto.TrackViewResponse{}, err
	}

	observability.AlbumViews().WithLabelValues("counted").Inc()
	s.invalidateStats(ctx, albumID)

	return dto.TrackViewResponse{AlbumID: albumID, Counted: true}, nil
}

func (s *engagementService) GetStats(ctx context.Context, albumID uint, userID string) (dto.AlbumStatsResponse, error) {
	stats := dto.AlbumStatsResponse{AlbumID: albumID}

	cached, ok := s.readCachedStats(ctx, albumID)
	if ok {
		stats.TotalViews = cached.TotalViews
		stats.TotalLikes = cached.TotalLikes
	} else {
		totalViews, err := s.repo.CountViews(ctx, albumID)
		if err != nil {
			return dto.AlbumStatsResponse{}, err
		}
		totalLikes, err := s.repo.CountLikes(ctx, albumID)
		if err != nil {
			return dto.AlbumStatsResponse{}, err
		}
		stats.TotalViews = totalViews
		stats.TotalLikes = totalLikes
		s.writeCachedStats(ctx, albumID, cachedAlbumStats{TotalViews: totalViews, TotalLikes: totalLikes})
	}

	if userID != "" {
		if _, err := s.repo.FindView(ctx, albumID, userID); err == nil {
			stats.ViewedByUser = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AlbumStatsResponse{}, err
		}

		if _, err := s.repo.FindLike(ctx, albumID, userID); err == nil {
			stats.LikedByUser = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AlbumStatsResponse{}, err
		}
	}

	return stats, nil
}

// GetMultipleStats returns one stats object per album id, preserving input order.
func (s *engagementService) GetMultipleStats(ctx context.Context, albumIDs []uint, userID string) ([]dto.AlbumStatsResponse, error) {
	responses := make([]dto.AlbumStatsResponse, 0, len(albumIDs))
	for _, albumID := range albumIDs {
		stats, err := s.GetStats(ctx, albumID, userID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, stats)
	}
	return responses, nil
}

func (s *engagementService) ToggleLike(ctx context.Context, albumID uint, userID string) (dto.ToggleLikeResponse, error) {
	if userID == "" {
		return dto.ToggleLikeResponse{}, ErrUserRequired
	}

	liked := false
	_, err := s.repo.FindLike(ctx, albumID, userID)
	switch {
	case err == nil:
		if err := s.repo.DeleteLike(ctx, albumID, userID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ToggleLikeResponse{}, err
		}
		observability.AlbumLikes().WithLabelValues("unliked").Inc()
	case errors.Is(err, gorm.ErrRecordNotFound):
		like := models.AlbumLike{AlbumID: albumID, UserID: userID}
		if err := s.repo.CreateLike(ctx, &like); err != nil {
			s.logger.Error().Err(err).Uint("album_id", albumID).Msg("failed to record album like")
			return dto.ToggleLikeResponse{}, err
		}
		liked = true
		observability.AlbumLikes().WithLabelValues("liked").Inc()
	default:
		return dto.ToggleLikeResponse{}, err
	}

	s.invalidateStats(ctx, albumID)

	totalLikes, err := s.repo.CountLikes(ctx, albumID)
	if err != nil {
		return dto.ToggleLikeResponse{}, err
	}

	return dto.ToggleLikeResponse{AlbumID: albumID, Liked: liked, TotalLikes: totalLikes}, nil
}

func statsCacheKey(albumID uint) string {
	return fmt.Sprintf("engagement:album:%d", albumID)
}

func (s *engagementService) readCachedStats(ctx context.Context, albumID uint) (cachedAlbumStats, bool) {
	if s.cache == nil {
		return cachedAlbumStats{}, false
	}

	payload, err := s.cache.Get(ctx, statsCacheKey(albumID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Uint("album_id", albumID).Msg("failed to read engagement cache")
		}
		observability.EngagementCache().WithLabelValues("miss").Inc()
		return cachedAlbumStats{}, false
	}

	var stats cachedAlbumStats
	if err := json.Unmarshal([]byte(payload), &stats); err != nil {
		observability.EngagementCache().WithLabelValues("miss").Inc()
		return cachedAlbumStats{}, false
	}

	observability.EngagementCache().WithLabelValues("hit").Inc()
	return stats, true
}

func (s *engagementService) writeCachedStats(ctx context.Context, albumID uint, stats cachedAlbumStats) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, statsCacheKey(albumID), payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("album_id", albumID).Msg("failed to store engagement cache")
	}
}

func (s *engagementService) invalidateStats(ctx context.Context, albumID uint) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, statsCacheKey(albumID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("album_id", albumID).Msg("failed to invalidate engagement cache")
	}
}
