package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/internal/api/handlers"
	"fintrack/pkg/auth"
	"fintrack/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, ping Pinger) *fiber.App {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.AllowOrigins = "*"
	cfg.Server.Version = "1.2.3"
	cfg.Server.Env = "test"
	cfg.Upload.Dir = t.TempDir()
	cfg.Upload.MaxSizeMB = 1
	cfg.Cron.Secret = "cron-s3cret"

	h := &Handlers{
		Recurring: handlers.NewRecurringHandler(nil, zap.NewNop()),
	}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, time.Hour)
	return SetupRouter(cfg, h, jwtManager, ping, zap.NewNop())
}

func TestRouter_PublicEndpoints(t *testing.T) {
	testCases := []struct {
		name       string
		ping       Pinger
		path       string
		wantStatus int
	}{
		{name: "healthy", ping: func(context.Context) error { return nil }, path: "/health", wantStatus: fiber.StatusOK},
		{name: "database down", ping: func(context.Context) error { return errors.New("down") }, path: "/health", wantStatus: fiber.StatusServiceUnavailable},
		{name: "no pinger", path: "/health", wantStatus: fiber.StatusOK},
		{name: "version", path: "/version", wantStatus: fiber.StatusOK},
		{name: "unknown route", path: "/nope", wantStatus: fiber.StatusNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, tc.ping)
			resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
			if err != nil {
				t.Fatalf("app.Test() unexpected error = %v", err)
			}
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("GET %s status = %d, want %d", tc.path, resp.StatusCode, tc.wantStatus)
			}
		})
	}
}

func TestRouter_Guards(t *testing.T) {
	app := newTestApp(t, nil)

	testCases := []struct {
		name   string
		method string
		path   string
		header map[string]string
	}{
		{name: "cron without secret", method: "POST", path: "/internal/recurring/run"},
		{name: "cron with wrong secret", method: "POST", path: "/internal/recurring/run", header: map[string]string{"X-Cron-Secret": "guess"}},
		{name: "api without token", method: "GET", path: "/api/v1/wallets"},
		{name: "api with bad token", method: "GET", path: "/api/v1/reports/monthly", header: map[string]string{"Authorization": "Bearer not-a-jwt"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() unexpected error = %v", err)
			}
			if resp.StatusCode != fiber.StatusUnauthorized {
				t.Errorf("%s %s status = %d, want 401", tc.method, tc.path, resp.StatusCode)
			}
		})
	}
}

func TestFindUploadsPath(t *testing.T) {
	dir := t.TempDir()
	if got := findUploadsPath(dir); got != dir {
		t.Errorf("findUploadsPath(%q) = %q", dir, got)
	}
	if got := findUploadsPath("does-not-exist"); got != "does-not-exist" {
		t.Errorf("findUploadsPath() fallback = %q", got)
	}
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler(zap.NewNop())})
	app.Use(recover.New())
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("db password is hunter2")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("pq: relation users does not exist")
	})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	testCases := []struct {
		path       string
		wantStatus int
		wantError  string
	}{
		{path: "/panic", wantStatus: fiber.StatusInternalServerError, wantError: "Internal server error"},
		{path: "/boom", wantStatus: fiber.StatusInternalServerError, wantError: "Internal server error"},
		{path: "/teapot", wantStatus: fiber.StatusTeapot, wantError: "short and stout"},
		{path: "/missing", wantStatus: fiber.StatusNotFound, wantError: "Cannot GET /missing"},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
			if err != nil {
				t.Fatalf("app.Test() unexpected error = %v", err)
			}
			raw, _ := io.ReadAll(resp.Body)
			var body map[string]string
			_ = json.Unmarshal(raw, &body)
			if resp.StatusCode != tc.wantStatus || body["error"] != tc.wantError {
				t.Errorf("GET %s = %d %v, want %d %q", tc.path, resp.StatusCode, body, tc.wantStatus, tc.wantError)
			}
		})
	}
}
