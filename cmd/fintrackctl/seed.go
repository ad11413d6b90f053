package main

import (
	"context"
	"flag"
	"fmt"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/pkg/auth"
	"fintrack/pkg/calendar"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seedCmd struct {
	email    string
	password string
	username string
	currency string
	salary   string
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "create a demo user with a wallet and a monthly salary" }
func (*seedCmd) Usage() string {
	return `fintrackctl seed [-email <email>] [-password <password>]

  Registers a user (default categories included), opens a bank wallet and
  schedules a monthly salary starting today.
`
}

func (c *seedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "demo@fintrack.local", "user email")
	f.StringVar(&c.password, "password", "demo-password", "user password")
	f.StringVar(&c.username, "username", "demo", "user name")
	f.StringVar(&c.currency, "currency", "USD", "wallet currency")
	f.StringVar(&c.salary, "salary", "3000", "monthly salary, empty to skip")
}

func (c *seedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var salary decimal.Decimal
	if c.salary != "" {
		var err error
		if salary, err = decimal.NewFromString(c.salary); err != nil {
			fail(fmt.Errorf("invalid salary %q: %w", c.salary, err))
			return subcommands.ExitUsageError
		}
	}

	e, err := openEnv(ctx)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	if err := c.seed(ctx, e, salary); err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *seedCmd) seed(ctx context.Context, e *env, salary decimal.Decimal) error {
	userRepo := repository.NewUserRepository(e.db, e.logger)
	walletRepo := repository.NewWalletRepository(e.db, e.logger)
	categoryRepo := repository.NewCategoryRepository(e.db, e.logger)

	jwtManager := auth.NewJWTManager(e.cfg.JWT.SecretKey, e.cfg.JWT.Expiration, e.cfg.JWT.RefreshExp)
	authService := service.NewAuthService(userRepo, categoryRepo, jwtManager, e.logger)

	resp, err := authService.Register(ctx, &dto.RegisterRequest{
		Username: c.username,
		Email:    c.email,
		Password: c.password,
	})
	if err != nil {
		return fmt.Errorf("register %s: %w", c.email, err)
	}
	userID, err := uuid.Parse(resp.User.ID)
	if err != nil {
		return err
	}
	e.logger.Info("Seeded user", zap.String("user_id", userID.String()), zap.String("email", resp.User.Email))

	wallet, err := service.NewWalletService(walletRepo, e.logger).Create(ctx, userID, &dto.WalletRequest{
		Name:     "Main account",
		Type:     string(models.WalletTypeBank),
		Currency: c.currency,
	})
	if err != nil {
		return fmt.Errorf("create wallet: %w", err)
	}
	e.logger.Info("Seeded wallet", zap.String("wallet_id", wallet.ID.String()))

	if salary.IsZero() {
		return nil
	}
	incomes, err := service.NewCategoryService(categoryRepo, e.logger).List(ctx, userID, string(models.CategoryTypeIncome))
	if err != nil {
		return err
	}
	req := &dto.RecurringRequest{
		WalletID:    wallet.ID,
		Type:        string(models.TransactionTypeIncome),
		Amount:      salary,
		Description: "Salary",
		Frequency:   string(calendar.Monthly),
		StartDate:   dto.NewDate(calendar.Today()),
	}
	for _, cat := range incomes {
		if cat.Name == "Salary" {
			req.CategoryID = &cat.ID
			break
		}
	}
	recurringService := service.NewRecurringService(
		repository.NewRecurringRepository(e.db, e.logger), walletRepo, categoryRepo, &e.cfg.Cron, e.logger)
	rt, err := recurringService.Create(ctx, userID, req)
	if err != nil {
		return fmt.Errorf("create recurring salary: %w", err)
	}
	e.logger.Info("Seeded recurring salary", zap.String("recurring_id", rt.ID.String()))

	fmt.Printf("seeded %s (wallet %s)\n", resp.User.Email, wallet.ID)
	return nil
}
