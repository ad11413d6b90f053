package repository

import (
	"context"

	"fintrack/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type BudgetStore interface {
	Create(ctx context.Context, b *models.Budget) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Budget, error)
	List(ctx context.Context, userID uuid.UUID) ([]*models.Budget, error)
	Update(ctx context.Context, b *models.Budget) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type BudgetRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewBudgetRepository(db *pgxpool.Pool, logger *zap.Logger) *BudgetRepository {
	return &BudgetRepository{db: db, logger: logger}
}

var budgetColumns = []string{"id", "user_id", "category_id", "name", "amount", "period", "start_date", "created_at", "updated_at"}

func scanBudget(row interface{ Scan(...any) error }) (*models.Budget, error) {
	var b models.Budget
	if err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Name, &b.Amount, &b.Period, &b.StartDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepository) Create(ctx context.Context, b *models.Budget) error {
	sql, args, err := squirrel.Insert("budgets").
		Columns(budgetColumns...).
		Values(b.ID, b.UserID, b.CategoryID, b.Name, b.Amount, b.Period, b.StartDate, b.CreatedAt, b.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *BudgetRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Budget, error) {
	sql, args, err := squirrel.Select(budgetColumns...).
		From("budgets").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanBudget(r.db.QueryRow(ctx, sql, args...))
}

func (r *BudgetRepository) List(ctx context.Context, userID uuid.UUID) ([]*models.Budget, error) {
	sql, args, err := squirrel.Select(budgetColumns...).
		From("budgets").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("name").
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

	var budgets []*models.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *BudgetRepository) Update(ctx context.Context, b *models.Budget) error {
	sql, args, err := squirrel.Update("budgets").
		Set("category_id", b.CategoryID).
		Set("name", b.Name).
		Set("amount", b.Amount).
		Set("period", b.Period).
		Set("start_date", b.StartDate).
		Set("updated_at", b.UpdatedAt).
		Where(squirrel.Eq{"id": b.ID, "user_id": b.UserID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}

func (r *BudgetRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	sql, args, err := squirrel.Delete("budgets").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}
