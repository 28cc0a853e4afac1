package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yearbook-go-api/internal/models"
)

func stringPointer(s string) *string { return &s }

func TestEngagementRepositoryViewDeduplication(t *testing.T) {
	db := setupRepositoryTestDB(t, &models.AlbumView{})
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	first := models.AlbumView{AlbumID: 1, UserID: stringPointer("user-1"), IPAddress: "10.0.0.1"}
	require.NoError(t, repo.CreateView(ctx, &first))

	// Duplicate from the same user hits the unique index and is swallowed.
	duplicate := models.AlbumView{AlbumID: 1, UserID: stringPointer("user-1"), IPAddress: "10.0.0.2"}
	require.NoError(t, repo.CreateView(ctx, &duplicate))

	other := models.AlbumView{AlbumID: 1, UserID: stringPointer("user-2")}
	require.NoError(t, repo.CreateView(ctx, &other))

	total, err := repo.CountViews(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	found, err := repo.FindView(ctx, 1, "user-1")
	require.NoError(t, err)
	require.Equal(t, "10.0.0.1", found.IPAddress, "first view wins")

	_, err = repo.FindView(ctx, 1, "user-3")
	require.True(t, IsNotFound(err))
}

func TestEngagementRepositoryAnonymousViewsNeverDeduplicated(t *testing.T) {
	db := setupRepositoryTestDB(t, &models.AlbumView{})
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		view := models.AlbumView{AlbumID: 7, IPAddress: "10.0.0.9"}
		require.NoError(t, repo.CreateView(ctx, &view))
	}

	total, err := repo.CountViews(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
}

func TestEngagementRepositoryLikeToggleRoundTrip(t *testing.T) {
	db := setupRepositoryTestDB(t, &models.AlbumLike{})
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	like := models.AlbumLike{AlbumID: 3, UserID: "user-1"}
	require.NoError(t, repo.CreateLike(ctx, &like))

	// Double-tap races collapse into one row.
	again := models.AlbumLike{AlbumID: 3, UserID: "user-1"}
	require.NoError(t, repo.CreateLike(ctx, &again))

	total, err := repo.CountLikes(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	found, err := repo.FindLike(ctx, 3, "user-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", found.UserID)

	require.NoError(t, repo.DeleteLike(ctx, 3, "user-1"))

	total, err = repo.CountLikes(ctx, 3)
	require.NoError(t, err)
	require.Zero(t, total)

	_, err = repo.FindLike(ctx, 3, "user-1")
	require.True(t, IsNotFound(err))
}
