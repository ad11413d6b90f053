package api

import (
	"context"
	"errors"
	"os"
	"time"

	"fintrack/docs"
	"fintrack/internal/api/handlers"
	"fintrack/pkg/auth"
	"fintrack/pkg/config"
	"fintrack/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by SetupRouter.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Wallets      *handlers.WalletHandler
	Categories   *handlers.CategoryHandler
	Transactions *handlers.TransactionHandler
	Recurring    *handlers.RecurringHandler
	Budgets      *handlers.BudgetHandler
	Goals        *handlers.GoalHandler
	Debts        *handlers.DebtHandler
	Assets       *handlers.AssetHandler
	Tags         *handlers.TagHandler
	Tasks        *handlers.TaskHandler
	Reports      *handlers.ReportHandler
}

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

func SetupRouter(
	cfg *config.Config,
	h *Handlers,
	jwtManager *auth.JWTManager,
	ping Pinger,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "fintrack",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    (cfg.Upload.MaxSizeMB + 1) * 1024 * 1024,
		ErrorHandler: errorHandler(appLogger),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Cron-Secret",
		AllowCredentials: cfg.Server.AllowOrigins != "*",
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))

	_ = docs.SwaggerInfo // registers the swagger document through init()
	app.Get("/swagger/*", swagger.HandlerDefault)

	uploadsPath := findUploadsPath(cfg.Upload.Dir)
	appLogger.Info("Serving uploads", zap.String("path", uploadsPath))
	app.Static("/uploads", uploadsPath)

	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if ping != nil {
			if err := ping(ctx); err != nil {
				appLogger.Warn("Health check failed", zap.Error(err))
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "unavailable",
				})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"version": cfg.Server.Version,
			"env":     cfg.Server.Env,
		})
	})

	// Auth routes (public)
	authGroup := app.Group("/user/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)
	authGroup.Post("/logout", h.Auth.Logout)

	// Scheduler trigger
	internal := app.Group("/internal", middleware.CronSecret(cfg.Cron.Secret, appLogger))
	internal.Post("/recurring/run", h.Recurring.RunAll)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))
	protected.Get("/me", h.Auth.Me)

	wallets := protected.Group("/wallets")
	wallets.Get("", h.Wallets.List)
	wallets.Post("", h.Wallets.Create)
	wallets.Get("/:id", h.Wallets.Get)
	wallets.Put("/:id", h.Wallets.Update)
	wallets.Delete("/:id", h.Wallets.Delete)
	wallets.Get("/:id/balance", h.Wallets.Balance)

	categories := protected.Group("/categories")
	categories.Get("", h.Categories.List)
	categories.Post("", h.Categories.Create)
	categories.Put("/:id", h.Categories.Update)
	categories.Delete("/:id", h.Categories.Delete)

	transactions := protected.Group("/transactions")
	transactions.Get("", h.Transactions.List)
	transactions.Post("", h.Transactions.Create)
	transactions.Get("/:id", h.Transactions.Get)
	transactions.Put("/:id", h.Transactions.Update)
	transactions.Delete("/:id", h.Transactions.Delete)
	transactions.Post("/:id/attachments", h.Transactions.UploadAttachment)
	transactions.Get("/:id/attachments", h.Transactions.ListAttachments)

	recurring := protected.Group("/recurring")
	recurring.Get("", h.Recurring.List)
	recurring.Post("", h.Recurring.Create)
	recurring.Post("/generate", h.Recurring.GenerateDue)
	recurring.Get("/:id", h.Recurring.Get)
	recurring.Put("/:id", h.Recurring.Update)
	recurring.Delete("/:id", h.Recurring.Delete)
	recurring.Post("/:id/generate", h.Recurring.Generate)

	budgets := protected.Group("/budgets")
	budgets.Get("", h.Budgets.List)
	budgets.Post("", h.Budgets.Create)
	budgets.Get("/:id", h.Budgets.Get)
	budgets.Put("/:id", h.Budgets.Update)
	budgets.Delete("/:id", h.Budgets.Delete)
	budgets.Get("/:id/progress", h.Budgets.Progress)

	goals := protected.Group("/goals")
	goals.Get("", h.Goals.List)
	goals.Post("", h.Goals.Create)
	goals.Get("/:id", h.Goals.Get)
	goals.Put("/:id", h.Goals.Update)
	goals.Delete("/:id", h.Goals.Delete)
	goals.Post("/:id/contribute", h.Goals.Contribute)

	debts := protected.Group("/debts")
	debts.Get("", h.Debts.List)
	debts.Post("", h.Debts.Create)
	debts.Get("/:id", h.Debts.Get)
	debts.Put("/:id", h.Debts.Update)
	debts.Delete("/:id", h.Debts.Delete)
	debts.Post("/:id/payments", h.Debts.RecordPayment)

	assets := protected.Group("/assets")
	assets.Get("", h.Assets.List)
	assets.Post("", h.Assets.Create)
	assets.Post("/sync", h.Assets.SyncPrices)
	assets.Get("/:id", h.Assets.Get)
	assets.Put("/:id", h.Assets.Update)
	assets.Delete("/:id", h.Assets.Delete)

	tags := protected.Group("/tags")
	tags.Get("", h.Tags.List)
	tags.Post("", h.Tags.Create)
	tags.Put("/:id", h.Tags.Update)
	tags.Delete("/:id", h.Tags.Delete)

	tasks := protected.Group("/tasks")
	tasks.Get("", h.Tasks.List)
	tasks.Post("", h.Tasks.Create)
	tasks.Get("/:id", h.Tasks.Get)
	tasks.Put("/:id", h.Tasks.Update)
	tasks.Delete("/:id", h.Tasks.Delete)
	tasks.Post("/:id/complete", h.Tasks.Complete)

	protected.Get("/reports/monthly", h.Reports.Monthly)

	return app
}

// errorHandler answers errors that escaped the handlers. Fiber errors keep
// their status and message; anything else, recovered panics included, is
// logged and answered with a generic 500.
func errorHandler(appLogger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var e *fiber.Error
		if errors.As(err, &e) && e.Code != fiber.StatusInternalServerError {
			return c.Status(e.Code).JSON(fiber.Map{
				"error": e.Message,
			})
		}
		appLogger.Error("Unhandled error", zap.Error(err), zap.String("path", c.Path()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}

// findUploadsPath returns the first existing candidate for the upload
// directory, falling back to dir itself.
func findUploadsPath(dir string) string {
	paths := []string{
		dir,
		"../" + dir,
		"../../" + dir,
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return dir
}
