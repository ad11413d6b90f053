package repository

import (
	"context"
	"time"

	"fintrack/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type RecurringStore interface {
	Create(ctx context.Context, r *models.RecurringTransaction) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.RecurringTransaction, error)
	List(ctx context.Context, userID uuid.UUID) ([]*models.RecurringTransaction, error)
	Update(ctx context.Context, r *models.RecurringTransaction) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	// ListDue returns ids of active auto-generating templates due on or
	// before asOf, leaving out exclude. A nil userID selects across all users.
	ListDue(ctx context.Context, userID *uuid.UUID, asOf time.Time, exclude []uuid.UUID, limit int) ([]uuid.UUID, error)
	WithinTx(ctx context.Context, fn func(RecurringUnit) error) error
}

// RecurringUnit is the set of writes that realize one occurrence. All of them
// run in the same database transaction.
type RecurringUnit interface {
	// Lock returns the template locked for update. It returns pgx.ErrNoRows
	// when the row is missing or already locked by another generator.
	Lock(ctx context.Context, id uuid.UUID) (*models.RecurringTransaction, error)
	InsertTransaction(ctx context.Context, t *models.Transaction) (bool, error)
	SaveSchedule(ctx context.Context, r *models.RecurringTransaction) error
}

type RecurringRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewRecurringRepository(db *pgxpool.Pool, logger *zap.Logger) *RecurringRepository {
	return &RecurringRepository{db: db, logger: logger}
}

var recurringColumns = []string{
	"id", "user_id", "wallet_id", "to_wallet_id", "category_id", "type", "amount", "description",
	"frequency", "start_date", "next_occurrence", "end_date", "last_generated",
	"auto_generate", "is_active", "created_at", "updated_at",
}

func scanRecurring(row interface{ Scan(...any) error }) (*models.RecurringTransaction, error) {
	var r models.RecurringTransaction
	if err := row.Scan(
		&r.ID, &r.UserID, &r.WalletID, &r.ToWalletID, &r.CategoryID, &r.Type, &r.Amount, &r.Description,
		&r.Frequency, &r.StartDate, &r.NextOccurrence, &r.EndDate, &r.LastGenerated,
		&r.AutoGenerate, &r.IsActive, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *RecurringRepository) Create(ctx context.Context, rt *models.RecurringTransaction) error {
	sql, args, err := squirrel.Insert("recurring_transactions").
		Columns(recurringColumns...).
		Values(
			rt.ID, rt.UserID, rt.WalletID, rt.ToWalletID, rt.CategoryID, rt.Type, rt.Amount, rt.Description,
			rt.Frequency, rt.StartDate, rt.NextOccurrence, rt.EndDate, rt.LastGenerated,
			rt.AutoGenerate, rt.IsActive, rt.CreatedAt, rt.UpdatedAt,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *RecurringRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.RecurringTransaction, error) {
	sql, args, err := squirrel.Select(recurringColumns...).
		From("recurring_transactions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanRecurring(r.db.QueryRow(ctx, sql, args...))
}

func (r *RecurringRepository) List(ctx context.Context, userID uuid.UUID) ([]*models.RecurringTransaction, error) {
	sql, args, err := squirrel.Select(recurringColumns...).
		From("recurring_transactions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("is_active DESC", "next_occurrence").
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

	var list []*models.RecurringTransaction
	for rows.Next() {
		rt, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rt)
	}
	return list, rows.Err()
}

func (r *RecurringRepository) Update(ctx context.Context, rt *models.RecurringTransaction) error {
	sql, args, err := squirrel.Update("recurring_transactions").
		Set("wallet_id", rt.WalletID).
		Set("to_wallet_id", rt.ToWalletID).
		Set("category_id", rt.CategoryID).
		Set("type", rt.Type).
		Set("amount", rt.Amount).
		Set("description", rt.Description).
		Set("frequency", rt.Frequency).
		Set("start_date", rt.StartDate).
		Set("next_occurrence", rt.NextOccurrence).
		Set("end_date", rt.EndDate).
		Set("auto_generate", rt.AutoGenerate).
		Set("is_active", rt.IsActive).
		Set("updated_at", rt.UpdatedAt).
		Where(squirrel.Eq{"id": rt.ID, "user_id": rt.UserID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}

func (r *RecurringRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	sql, args, err := squirrel.Delete("recurring_transactions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}

func (r *RecurringRepository) ListDue(ctx context.Context, userID *uuid.UUID, asOf time.Time, exclude []uuid.UUID, limit int) ([]uuid.UUID, error) {
	sql, args, err := dueQuery(userID, asOf, exclude, limit).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func dueQuery(userID *uuid.UUID, asOf time.Time, exclude []uuid.UUID, limit int) squirrel.SelectBuilder {
	query := squirrel.Select("id").
		From("recurring_transactions").
		Where(squirrel.Eq{"is_active": true, "auto_generate": true}).
		Where(squirrel.LtOrEq{"next_occurrence": asOf}).
		OrderBy("next_occurrence", "id").
		PlaceholderFormat(squirrel.Dollar)
	if userID != nil {
		query = query.Where(squirrel.Eq{"user_id": *userID})
	}
	if len(exclude) > 0 {
		query = query.Where(squirrel.NotEq{"id": exclude})
	}
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	return query
}

func (r *RecurringRepository) WithinTx(ctx context.Context, fn func(RecurringUnit) error) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&recurringUnit{db: tx})
	})
}

type recurringUnit struct {
	db DBTX
}

func (u *recurringUnit) Lock(ctx context.Context, id uuid.UUID) (*models.RecurringTransaction, error) {
	sql, args, err := squirrel.Select(recurringColumns...).
		From("recurring_transactions").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE SKIP LOCKED").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanRecurring(u.db.QueryRow(ctx, sql, args...))
}

func (u *recurringUnit) InsertTransaction(ctx context.Context, t *models.Transaction) (bool, error) {
	return insertTransaction(ctx, u.db, t)
}

func (u *recurringUnit) SaveSchedule(ctx context.Context, rt *models.RecurringTransaction) error {
	sql, args, err := squirrel.Update("recurring_transactions").
		Set("next_occurrence", rt.NextOccurrence).
		Set("last_generated", rt.LastGenerated).
		Set("is_active", rt.IsActive).
		Set("updated_at", rt.UpdatedAt).
		Where(squirrel.Eq{"id": rt.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(u.db.Exec(ctx, sql, args...))
}
