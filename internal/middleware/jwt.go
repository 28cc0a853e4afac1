package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/yearbook-go-api/internal/utils"
)

// JWTProtected returns a middleware that validates JWT bearer tokens and
// exposes the caller identity via c.Locals: user_id, user_name, user_email
// and user_role.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		storeIdentity(c, claims)

		return c.Next()
	}
}

func storeIdentity(c *fiber.Ctx, claims jwt.MapClaims) {
	if subject := firstStringClaim(claims, "sub", "user_id", "id"); subject != "" {
		c.Locals("user_id", subject)
	}
	if name := firstStringClaim(claims, "name", "user_name"); name != "" {
		c.Locals("user_name", name)
	}
	if email := firstStringClaim(claims, "email"); email != "" {
		c.Locals("user_email", strings.ToLower(email))
	}
	if role := firstStringClaim(claims, "role"); role != "" {
		c.Locals("user_role", strings.ToLower(role))
	}
}

func firstStringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		value, ok := claims[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case float64:
			if v >= 0 {
				return strings.TrimSpace(fmt.Sprintf("%.0f", v))
			}
		}
	}
	return ""
}

// JWTOptional resolves the caller identity when a valid bearer token is
// present but lets anonymous requests through untouched.
func JWTOptional(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return c.Next()
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return c.Next()
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Next()
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Next()
		}

		storeIdentity(c, claims)

		return c.Next()
	}
}
