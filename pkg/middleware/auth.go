package middleware

import (
	"crypto/subtle"
	"strings"

	"fintrack/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AccessTokenCookie is the session cookie set on login.
const AccessTokenCookie = "access_token"

// AuthMiddleware accepts an access token from the Authorization header
// ("Bearer <token>") or the access_token cookie.
func AuthMiddleware(jwtManager *auth.JWTManager, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(fiber.HeaderAuthorization)
		token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
		if token == "" {
			token = c.Cookies(AccessTokenCookie)
		}
		if token == "" {
			logger.Debug("Missing authorization token", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization token required",
			})
		}

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			logger.Warn("Invalid token", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("email", claims.Email)

		return c.Next()
	}
}

// CronSecret guards batch endpoints triggered by an external scheduler.
// An empty secret disables the endpoints entirely.
func CronSecret(secret string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get("X-Cron-Secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			logger.Warn("Rejected cron trigger", zap.String("ip", c.IP()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid cron secret",
			})
		}
		return c.Next()
	}
}
