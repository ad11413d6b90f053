package repository

import (
	"context"
	"time"

	"fintrack/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type GoalStore interface {
	Create(ctx context.Context, g *models.Goal) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Goal, error)
	List(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error)
	Update(ctx context.Context, g *models.Goal) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Contribute(ctx context.Context, userID, id uuid.UUID, amount decimal.Decimal, at time.Time) (*models.Goal, error)
}

type GoalRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewGoalRepository(db *pgxpool.Pool, logger *zap.Logger) *GoalRepository {
	return &GoalRepository{db: db, logger: logger}
}

var goalColumns = []string{"id", "user_id", "name", "target_amount", "current_amount", "deadline", "status", "created_at", "updated_at"}

func scanGoal(row interface{ Scan(...any) error }) (*models.Goal, error) {
	var g models.Goal
	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GoalRepository) Create(ctx context.Context, g *models.Goal) error {
	sql, args, err := squirrel.Insert("goals").
		Columns(goalColumns...).
		Values(g.ID, g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.Status, g.CreatedAt, g.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *GoalRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Goal, error) {
	sql, args, err := squirrel.Select(goalColumns...).
		From("goals").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanGoal(r.db.QueryRow(ctx, sql, args...))
}

func (r *GoalRepository) List(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	sql, args, err := squirrel.Select(goalColumns...).
		From("goals").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("status", "deadline NULLS LAST", "name").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *GoalRepository) Update(ctx context.Context, g *models.Goal) error {
	sql, args, err := squirrel.Update("goals").
		Set("name", g.Name).
		Set("target_amount", g.TargetAmount).
		Set("current_amount", g.CurrentAmount).
		Set("deadline", g.Deadline).
		Set("status", g.Status).
		Set("updated_at", g.UpdatedAt).
		Where(squirrel.Eq{"id": g.ID, "user_id": g.UserID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}

func (r *GoalRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	sql, args, err := squirrel.Delete("goals").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}

// Contribute adds amount in a single statement and flips the status once
// the target is reached.
func (r *GoalRepository) Contribute(ctx context.Context, userID, id uuid.UUID, amount decimal.Decimal, at time.Time) (*models.Goal, error) {
	sql, args, err := squirrel.Update("goals").
		Set("current_amount", squirrel.Expr("current_amount + ?", amount)).
		Set("status", squirrel.Expr("CASE WHEN current_amount + ? >= target_amount THEN 'completed' ELSE 'active' END", amount)).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING "+columnList(goalColumns)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanGoal(r.db.QueryRow(ctx, sql, args...))
}
