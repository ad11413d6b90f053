package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"fintrack/internal/repository"
	"fintrack/pkg/config"
	"fintrack/pkg/logger"
	"fintrack/pkg/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// env is what every command needs: configuration, a logger and the pool.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *pgxpool.Pool
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logger.Level); err != nil {
		return nil, err
	}
	db, err := postgres.NewPool(ctx, &cfg.Database, logger.Get())
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger.Get(), db: db}, nil
}

func (e *env) Close() {
	e.db.Close()
	logger.Sync()
}

// userID resolves an email to a user id. An empty email means all users.
func (e *env) userID(ctx context.Context, email string) (*uuid.UUID, error) {
	if email == "" {
		return nil, nil
	}
	u, err := repository.NewUserRepository(e.db, e.logger).GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("no user with email %q", email)
		}
		return nil, err
	}
	return &u.ID, nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
