package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yearbook-go-api/internal/handler"
	"github.com/noah-isme/yearbook-go-api/internal/models"
	"github.com/noah-isme/yearbook-go-api/internal/repository"
	"github.com/noah-isme/yearbook-go-api/internal/service"
)

func newSessionApp(t *testing.T) *fiber.App {
	t.Helper()
	db := newHandlerTestDB(t, &models.AdminSession{})
	repo := repository.NewAdminSessionRepository(db)
	svc := service.NewSessionService(repo, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
	h := handler.NewAdminSessionHandler(svc, zerolog.Nop())

	app := fiber.New()
	admin := app.Group("/api/admin")
	h.Register(admin, admin.Group("/sessions"))
	return app
}

func postJSON(t *testing.T, app *fiber.App, url, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAdminSessionHandlerTrackLoginLogoutFlow(t *testing.T) {
	app := newSessionApp(t)

	resp := postJSON(t, app, "/api/admin/track-login", `{"adminEmail":"Admin@Example.com"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeEnvelope(t, resp)
	data := payload["data"].(map[string]interface{})
	require.NotEmpty(t, data["sessionId"])

	resp = postJSON(t, app, "/api/admin/track-logout", `{"adminEmail":"admin@example.com"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	listResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/sessions?email=admin@example.com", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	listPayload := decodeEnvelope(t, listResp)
	sessions := listPayload["data"].([]interface{})
	require.Len(t, sessions, 1)
	session := sessions[0].(map[string]interface{})
	require.Equal(t, false, session["is_active"])
}

func TestAdminSessionHandlerTrackLoginRejectsBadEmail(t *testing.T) {
	app := newSessionApp(t)

	resp := postJSON(t, app, "/api/admin/track-login", `{"adminEmail":"not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminSessionHandlerLogoutWithoutSessionSucceeds(t *testing.T) {
	app := newSessionApp(t)

	resp := postJSON(t, app, "/api/admin/track-logout", `{"adminEmail":"ghost@example.com"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminSessionHandlerListActiveFilter(t *testing.T) {
	app := newSessionApp(t)

	postJSON(t, app, "/api/admin/track-login", `{"adminEmail":"a@example.com"}`)
	postJSON(t, app, "/api/admin/track-login", `{"adminEmail":"b@example.com"}`)
	postJSON(t, app, "/api/admin/track-logout", `{"adminEmail":"a@example.com"}`)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/sessions?active=true", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeEnvelope(t, resp)
	sessions := payload["data"].([]interface{})
	require.Len(t, sessions, 1)
	session := sessions[0].(map[string]interface{})
	require.Equal(t, "b@example.com", session["admin_email"])
}
