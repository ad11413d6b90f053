package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func newTestApp(m *auth.JWTManager) *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(m, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("userID").(string))
	})
	app.Post("/cron", CronSecret("s3cret", zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	m := auth.NewJWTManager("secret", time.Hour, time.Hour)
	access, _ := m.GenerateToken("user-42", "bob", "bob@example.com")
	refresh, _ := m.GenerateRefreshToken("user-42")
	app := newTestApp(m)

	testCases := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{name: "missing token", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "refresh token rejected", header: "Bearer " + refresh, want: http.StatusUnauthorized},
		{name: "bearer header", header: "Bearer " + access, want: http.StatusOK},
		{name: "session cookie", cookie: access, want: http.StatusOK},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: tc.cookie})
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() unexpected error = %v", err)
			}
			if resp.StatusCode != tc.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestCronSecret(t *testing.T) {
	app := newTestApp(auth.NewJWTManager("secret", time.Hour, time.Hour))

	for secret, want := range map[string]int{
		"":       http.StatusUnauthorized,
		"wrong":  http.StatusUnauthorized,
		"s3cret": http.StatusOK,
	} {
		req := httptest.NewRequest(http.MethodPost, "/cron", nil)
		req.Header.Set("X-Cron-Secret", secret)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test() unexpected error = %v", err)
		}
		if resp.StatusCode != want {
			t.Errorf("secret %q: status = %d, want %d", secret, resp.StatusCode, want)
		}
	}
}
