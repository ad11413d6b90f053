package repository

import (
	"context"

	"fintrack/internal/models"
	"fintrack/pkg/calendar"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	Update(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, userID uuid.UUID, f models.TransactionFilter) ([]*models.Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Spent(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, r calendar.Range) (decimal.Decimal, error)
	TotalsByCategory(ctx context.Context, userID uuid.UUID, r calendar.Range) ([]models.CategoryTotal, error)
}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

var transactionColumns = []string{
	"id", "user_id", "wallet_id", "to_wallet_id", "category_id", "recurring_id",
	"type", "amount", "description", "note", "date", "created_at", "updated_at",
}

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	var t models.Transaction
	if err := row.Scan(
		&t.ID, &t.UserID, &t.WalletID, &t.ToWalletID, &t.CategoryID, &t.RecurringID,
		&t.Type, &t.Amount, &t.Description, &t.Note, &t.Date, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts the transaction and its tags atomically.
func (r *TransactionRepository) Create(ctx context.Context, t *models.Transaction) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := insertTransaction(ctx, tx, t); err != nil {
			return err
		}
		return replaceTags(ctx, tx, t)
	})
}

// insertTransaction reports false when a recurring occurrence already exists.
func insertTransaction(ctx context.Context, db DBTX, t *models.Transaction) (bool, error) {
	query := squirrel.Insert("transactions").
		Columns(transactionColumns...).
		Values(
			t.ID, t.UserID, t.WalletID, t.ToWalletID, t.CategoryID, t.RecurringID,
			t.Type, t.Amount, t.Description, t.Note, t.Date, t.CreatedAt, t.UpdatedAt,
		).
		PlaceholderFormat(squirrel.Dollar)
	if t.RecurringID != nil {
		query = query.Suffix("ON CONFLICT (recurring_id, date) WHERE recurring_id IS NOT NULL DO NOTHING")
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}
	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// replaceTags links only tags owned by the transaction's user.
func replaceTags(ctx context.Context, db DBTX, t *models.Transaction) error {
	sql, args, err := squirrel.Delete("transaction_tags").
		Where(squirrel.Eq{"transaction_id": t.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := db.Exec(ctx, sql, args...); err != nil {
		return err
	}
	if len(t.TagIDs) == 0 {
		return nil
	}

	sql, args, err = squirrel.Insert("transaction_tags").
		Columns("transaction_id", "tag_id").
		Select(squirrel.Select().
			Column(squirrel.Expr("?::uuid", t.ID)).
			Column("id").
			From("tags").
			Where(squirrel.Eq{"user_id": t.UserID, "id": t.TagIDs})).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, sql, args...)
	return err
}

func (r *TransactionRepository) Update(ctx context.Context, t *models.Transaction) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		sql, args, err := squirrel.Update("transactions").
			Set("wallet_id", t.WalletID).
			Set("to_wallet_id", t.ToWalletID).
			Set("category_id", t.CategoryID).
			Set("type", t.Type).
			Set("amount", t.Amount).
			Set("description", t.Description).
			Set("note", t.Note).
			Set("date", t.Date).
			Set("updated_at", t.UpdatedAt).
			Where(squirrel.Eq{"id": t.ID, "user_id": t.UserID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}
		if err := affectedOne(tx.Exec(ctx, sql, args...)); err != nil {
			return err
		}
		return replaceTags(ctx, tx, t)
	})
}

func (r *TransactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	sql, args, err := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	t, err := scanTransaction(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, []*models.Transaction{t}); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TransactionRepository) List(ctx context.Context, userID uuid.UUID, f models.TransactionFilter) ([]*models.Transaction, error) {
	sql, args, err := transactionListQuery(userID, f).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadTags(ctx, transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func transactionListQuery(userID uuid.UUID, f models.TransactionFilter) squirrel.SelectBuilder {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("date DESC", "created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if f.From != nil {
		query = query.Where(squirrel.GtOrEq{"date": *f.From})
	}
	if f.To != nil {
		query = query.Where(squirrel.LtOrEq{"date": *f.To})
	}
	if f.WalletID != nil {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"wallet_id": *f.WalletID},
			squirrel.Eq{"to_wallet_id": *f.WalletID},
		})
	}
	if f.CategoryID != nil {
		query = query.Where(squirrel.Eq{"category_id": *f.CategoryID})
	}
	if f.Type != "" {
		query = query.Where(squirrel.Eq{"type": f.Type})
	}
	if f.TagID != nil {
		query = query.Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM transaction_tags tt WHERE tt.transaction_id = transactions.id AND tt.tag_id = ?)", *f.TagID))
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"description": pattern},
			squirrel.ILike{"note": pattern},
		})
	}
	if f.Limit > 0 {
		query = query.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		query = query.Offset(uint64(f.Offset))
	}
	return query
}

func (r *TransactionRepository) loadTags(ctx context.Context, transactions []*models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*models.Transaction, len(transactions))
	ids := make([]uuid.UUID, 0, len(transactions))
	for _, t := range transactions {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	sql, args, err := squirrel.Select("transaction_id", "tag_id").
		From("transaction_tags").
		Where(squirrel.Eq{"transaction_id": ids}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var txID, tagID uuid.UUID
		if err := rows.Scan(&txID, &tagID); err != nil {
			return err
		}
		if t, ok := byID[txID]; ok {
			t.TagIDs = append(t.TagIDs, tagID)
		}
	}
	return rows.Err()
}

func (r *TransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	sql, args, err := squirrel.Delete("transactions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}

// Spent sums expenses inside the range, optionally for one category.
func (r *TransactionRepository) Spent(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, rng calendar.Range) (decimal.Decimal, error) {
	query := squirrel.Select("COALESCE(SUM(amount), 0)").
		From("transactions").
		Where(squirrel.Eq{"user_id": userID, "type": models.TransactionTypeExpense}).
		Where(squirrel.GtOrEq{"date": rng.From}).
		Where(squirrel.LtOrEq{"date": rng.To}).
		PlaceholderFormat(squirrel.Dollar)
	if categoryID != nil {
		query = query.Where(squirrel.Eq{"category_id": *categoryID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return decimal.Zero, err
	}
	var spent decimal.Decimal
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&spent); err != nil {
		return decimal.Zero, err
	}
	return spent, nil
}

// TotalsByCategory groups income and expense inside the range by category.
// Transfers are excluded.
func (r *TransactionRepository) TotalsByCategory(ctx context.Context, userID uuid.UUID, rng calendar.Range) ([]models.CategoryTotal, error) {
	sql, args, err := squirrel.Select("t.type", "t.category_id", "COALESCE(c.name, '')", "SUM(t.amount)", "COUNT(*)").
		From("transactions t").
		LeftJoin("categories c ON c.id = t.category_id").
		Where(squirrel.Eq{"t.user_id": userID, "t.type": []models.TransactionType{models.TransactionTypeIncome, models.TransactionTypeExpense}}).
		Where(squirrel.GtOrEq{"t.date": rng.From}).
		Where(squirrel.LtOrEq{"t.date": rng.To}).
		GroupBy("t.type", "t.category_id", "c.name").
		OrderBy("t.type", "SUM(t.amount) DESC").
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

	var totals []models.CategoryTotal
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Type, &ct.CategoryID, &ct.CategoryName, &ct.Amount, &ct.Count); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}
