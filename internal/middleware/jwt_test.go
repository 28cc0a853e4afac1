package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func identityApp(protected fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(protected)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		id, _ := c.Locals("user_id").(string)
		role, _ := c.Locals("user_role").(string)
		return c.JSON(fiber.Map{"id": id, "role": role})
	})
	return app
}

func TestJWTProtectedRejectsMissingToken(t *testing.T) {
	app := identityApp(JWTProtected(testSecret))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsWrongSignature(t *testing.T) {
	app := identityApp(JWTProtected(testSecret))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"})
	signed, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signed)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedExposesIdentity(t *testing.T) {
	app := identityApp(JWTProtected(testSecret))

	signed := signTestToken(t, jwt.MapClaims{
		"sub":  "admin-1",
		"name": "Admin One",
		"role": "Admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signed)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTOptionalLetsAnonymousThrough(t *testing.T) {
	app := identityApp(JWTOptional(testSecret))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTOptionalIgnoresInvalidToken(t *testing.T) {
	app := identityApp(JWTOptional(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
