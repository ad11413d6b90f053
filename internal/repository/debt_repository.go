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

type DebtStore interface {
	Create(ctx context.Context, d *models.Debt) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Debt, error)
	List(ctx context.Context, userID uuid.UUID) ([]*models.Debt, error)
	Update(ctx context.Context, d *models.Debt) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	// ApplyPayment returns pgx.ErrNoRows when the debt does not exist or
	// the payment exceeds the remaining balance.
	ApplyPayment(ctx context.Context, userID, id uuid.UUID, amount decimal.Decimal, at time.Time) (*models.Debt, error)
}

type DebtRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDebtRepository(db *pgxpool.Pool, logger *zap.Logger) *DebtRepository {
	return &DebtRepository{db: db, logger: logger}
}

var debtColumns = []string{
	"id", "user_id", "name", "counterparty", "direction", "principal", "remaining",
	"interest_rate", "due_date", "is_settled", "created_at", "updated_at",
}

func scanDebt(row interface{ Scan(...any) error }) (*models.Debt, error) {
	var d models.Debt
	if err := row.Scan(
		&d.ID, &d.UserID, &d.Name, &d.Counterparty, &d.Direction, &d.Principal, &d.Remaining,
		&d.InterestRate, &d.DueDate, &d.IsSettled, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DebtRepository) Create(ctx context.Context, d *models.Debt) error {
	sql, args, err := squirrel.Insert("debts").
		Columns(debtColumns...).
		Values(
			d.ID, d.UserID, d.Name, d.Counterparty, d.Direction, d.Principal, d.Remaining,
			d.InterestRate, d.DueDate, d.IsSettled, d.CreatedAt, d.UpdatedAt,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *DebtRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Debt, error) {
	sql, args, err := squirrel.Select(debtColumns...).
		From("debts").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanDebt(r.db.QueryRow(ctx, sql, args...))
}

func (r *DebtRepository) List(ctx context.Context, userID uuid.UUID) ([]*models.Debt, error) {
	sql, args, err := squirrel.Select(debtColumns...).
		From("debts").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("is_settled", "due_date NULLS LAST", "name").
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

	var debts []*models.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func (r *DebtRepository) Update(ctx context.Context, d *models.Debt) error {
	sql, args, err := squirrel.Update("debts").
		Set("name", d.Name).
		Set("counterparty", d.Counterparty).
		Set("direction", d.Direction).
		Set("principal", d.Principal).
		Set("remaining", d.Remaining).
		Set("interest_rate", d.InterestRate).
		Set("due_date", d.DueDate).
		Set("is_settled", d.IsSettled).
		Set("updated_at", d.UpdatedAt).
		Where(squirrel.Eq{"id": d.ID, "user_id": d.UserID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}

func (r *DebtRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	sql, args, err := squirrel.Delete("debts").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}

func (r *DebtRepository) ApplyPayment(ctx context.Context, userID, id uuid.UUID, amount decimal.Decimal, at time.Time) (*models.Debt, error) {
	sql, args, err := squirrel.Update("debts").
		Set("remaining", squirrel.Expr("remaining - ?", amount)).
		Set("is_settled", squirrel.Expr("remaining - ? = 0", amount)).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		Where(squirrel.GtOrEq{"remaining": amount}).
		Suffix("RETURNING "+columnList(debtColumns)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanDebt(r.db.QueryRow(ctx, sql, args...))
}
