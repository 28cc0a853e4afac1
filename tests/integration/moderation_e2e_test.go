package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/yearbook-go-api/internal/config"
	"github.com/noah-isme/yearbook-go-api/internal/handler"
	"github.com/noah-isme/yearbook-go-api/internal/middleware"
	"github.com/noah-isme/yearbook-go-api/internal/models"
	"github.com/noah-isme/yearbook-go-api/internal/repository"
	"github.com/noah-isme/yearbook-go-api/internal/router"
	"github.com/noah-isme/yearbook-go-api/internal/service"
)

const testJWTSecret = "integration-test-secret"

func setupYearbookApp(t *testing.T) (*fiber.App, repository.ModerationRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ModerationItem{},
		&models.AuditLog{},
		&models.AdminSession{},
		&models.AlbumView{},
		&models.AlbumLike{},
		&models.YearSettings{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	moderationRepo := repository.NewModerationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	sessionRepo := repository.NewAdminSessionRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	yearSettingsRepo := repository.NewYearSettingsRepository(db)

	auditService := service.NewAuditService(auditRepo, validate, logger)
	moderationService := service.NewModerationService(moderationRepo, auditService, nil, validate, logger)
	riskService := service.NewRiskService(nil, logger)
	sessionService := service.NewSessionService(sessionRepo, validate, logger)
	engagementService := service.NewEngagementService(engagementRepo, nil, time.Minute, logger)
	yearSettingsService, err := service.NewYearSettingsService(yearSettingsRepo, logger)
	require.NoError(t, err)

	cfg := config.Config{AppName: "Yearbook API", AppEnv: "test", JWTSecret: testJWTSecret}

	app := fiber.New()
	middleware.Register(app, middleware.Config{})
	router.Register(app, cfg, router.Dependencies{
		ModerationHandler:   handler.NewModerationHandler(moderationService, riskService, logger),
		AuditLogHandler:     handler.NewAuditLogHandler(auditService, logger),
		AdminSessionHandler: handler.NewAdminSessionHandler(sessionService, logger),
		EngagementHandler:   handler.NewEngagementHandler(engagementService, logger),
		YearSettingsHandler: handler.NewYearSettingsHandler(yearSettingsService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
		OptionalJWT:         middleware.JWTOptional(cfg.JWTSecret),
	})

	return app, moderationRepo
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "admin-1",
		"name":  "Admin One",
		"email": "admin@example.com",
		"role":  role,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func authedRequest(t *testing.T, method, url, body, token string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	payload := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	return payload
}

func TestModerationWorkflowEndToEnd(t *testing.T) {
	app, moderationRepo := setupYearbookApp(t)
	admin := signToken(t, "admin")

	// Login tracking opens an active session.
	resp, err := app.Test(authedRequest(t, http.MethodPost, "/api/admin/track-login", `{"adminEmail":"admin@example.com"}`, admin))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	item := models.ModerationItem{
		YearID:        "2026",
		Type:          models.ModerationTypePhoto,
		Title:         "Graduation Photo",
		SubmitterID:   "student-7",
		SubmitterName: "Alya Prameswari",
		SubmittedAt:   time.Now().UTC(),
		Priority:      models.ModerationPriorityHigh,
		Status:        models.ModerationStatusPending,
	}
	require.NoError(t, moderationRepo.Create(context.Background(), &item))

	// The queue lists the pending item.
	resp, err = app.Test(authedRequest(t, http.MethodGet, "/api/admin/moderation?yearId=2026", "", admin))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	queue := decodeBody(t, resp)
	require.Len(t, queue["data"].([]interface{}), 1)

	// Approve it.
	url := fmt.Sprintf("/api/admin/moderation/%d/approve?yearId=2026", item.ID)
	resp, err = app.Test(authedRequest(t, http.MethodPost, url, "", admin))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The decision produced an audit entry.
	resp, err = app.Test(authedRequest(t, http.MethodGet, "/api/admin/audit-logs?action=moderation.approve", "", admin))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	trail := decodeBody(t, resp)
	entries := trail["data"].([]interface{})
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]interface{})
	require.Equal(t, "admin-1", entry["user_id"])
	require.Equal(t, "moderation_item", entry["target_type"])
	require.Equal(t, "2026", entry["school_year_id"])

	// Logout tracking closes the session.
	resp, err = app.Test(authedRequest(t, http.MethodPost, "/api/admin/track-logout", `{"adminEmail":"admin@example.com"}`, admin))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(authedRequest(t, http.MethodGet, "/api/admin/sessions", "", admin))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sessions := decodeBody(t, resp)
	session := sessions["data"].([]interface{})[0].(map[string]interface{})
	require.Equal(t, false, session["is_active"])
}

func TestAdminSurfaceRequiresAdminRole(t *testing.T) {
	app, _ := setupYearbookApp(t)

	resp, err := app.Test(authedRequest(t, http.MethodGet, "/api/admin/moderation?yearId=2026", "", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	student := signToken(t, "student")
	resp, err = app.Test(authedRequest(t, http.MethodGet, "/api/admin/moderation?yearId=2026", "", student))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGallerySurfaceAcceptsAnonymousViews(t *testing.T) {
	app, _ := setupYearbookApp(t)

	resp, err := app.Test(authedRequest(t, http.MethodPost, "/api/gallery/views", `{"albumId":3}`, ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload := decodeBody(t, resp)
	data := payload["data"].(map[string]interface{})
	require.Equal(t, true, data["counted"])

	// Anonymous likes are refused.
	resp, err = app.Test(authedRequest(t, http.MethodPost, "/api/gallery/albums/3/like", "", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Signed-in users can like through the same surface.
	admin := signToken(t, "admin")
	resp, err = app.Test(authedRequest(t, http.MethodPost, "/api/gallery/albums/3/like", "", admin))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestYearSettingsRoundTripThroughRouter(t *testing.T) {
	app, _ := setupYearbookApp(t)
	admin := signToken(t, "admin")

	resp, err := app.Test(authedRequest(t, http.MethodGet, "/api/admin/years/2026/settings", "", admin))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload := decodeBody(t, resp)
	require.Equal(t, true, payload["data"].(map[string]interface{})["is_default"])

	body := `{"settings":{"notifications":{"notifyOnRejection":false}}}`
	resp, err = app.Test(authedRequest(t, http.MethodPut, "/api/admin/years/2026/settings", body, admin))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(authedRequest(t, http.MethodGet, "/api/admin/years/2026/settings", "", admin))
	require.NoError(t, err)
	payload = decodeBody(t, resp)
	require.Equal(t, false, payload["data"].(map[string]interface{})["is_default"])
}
