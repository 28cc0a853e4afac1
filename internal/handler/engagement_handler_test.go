package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yearbook-go-api/internal/handler"
	"github.com/noah-isme/yearbook-go-api/internal/models"
	"github.com/noah-isme/yearbook-go-api/internal/repository"
	"github.com/noah-isme/yearbook-go-api/internal/service"
)

func newGalleryApp(t *testing.T, userID string) *fiber.App {
	t.Helper()
	db := newHandlerTestDB(t, &models.AlbumView{}, &models.AlbumLike{})
	repo := repository.NewEngagementRepository(db)
	svc := service.NewEngagementService(repo, nil, time.Minute, zerolog.Nop())
	h := handler.NewEngagementHandler(svc, zerolog.Nop())

	app := fiber.New()
	group := app.Group("/api/gallery", withIdentity(userID, ""))
	h.Register(group)
	return app
}

func TestEngagementHandlerTrackViewAndStats(t *testing.T) {
	app := newGalleryApp(t, "user-1")

	resp := postJSON(t, app, "/api/gallery/views", `{"albumId":5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload := decodeEnvelope(t, resp)
	data := payload["data"].(map[string]interface{})
	require.Equal(t, true, data["counted"])

	// Same signed-in viewer again: deduplicated, not counted.
	resp = postJSON(t, app, "/api/gallery/views", `{"albumId":5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload = decodeEnvelope(t, resp)
	data = payload["data"].(map[string]interface{})
	require.Equal(t, true, data["deduplicated"])

	statsResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/gallery/views?albumId=5", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, statsResp.StatusCode)

	statsPayload := decodeEnvelope(t, statsResp)
	stats := statsPayload["data"].(map[string]interface{})
	require.Equal(t, float64(1), stats["totalViews"])
	require.Equal(t, true, stats["viewedByUser"])
}

func TestEngagementHandlerTrackViewValidatesAlbum(t *testing.T) {
	app := newGalleryApp(t, "user-1")

	resp := postJSON(t, app, "/api/gallery/views", `{}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEngagementHandlerMultiAlbumStats(t *testing.T) {
	app := newGalleryApp(t, "user-1")

	postJSON(t, app, "/api/gallery/views", `{"albumId":1}`)
	postJSON(t, app, "/api/gallery/views", `{"albumId":2}`)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/gallery/views?albumIds=1,2,3", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeEnvelope(t, resp)
	stats := payload["data"].([]interface{})
	require.Len(t, stats, 3)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/gallery/views?albumIds=1,zero", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/gallery/views", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEngagementHandlerToggleLike(t *testing.T) {
	app := newGalleryApp(t, "user-1")

	resp := postJSON(t, app, "/api/gallery/albums/9/like", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload := decodeEnvelope(t, resp)
	data := payload["data"].(map[string]interface{})
	require.Equal(t, true, data["liked"])
	require.Equal(t, float64(1), data["totalLikes"])

	resp = postJSON(t, app, "/api/gallery/albums/9/like", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload = decodeEnvelope(t, resp)
	data = payload["data"].(map[string]interface{})
	require.Equal(t, false, data["liked"])
	require.Equal(t, float64(0), data["totalLikes"])
}

func TestEngagementHandlerAnonymousLikeRejected(t *testing.T) {
	app := newGalleryApp(t, "")

	resp := postJSON(t, app, "/api/gallery/albums/9/like", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
