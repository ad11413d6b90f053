package repository

import (
	"context"

	"fintrack/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type WalletStore interface {
	Create(ctx context.Context, w *models.Wallet) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Wallet, error)
	List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*models.Wallet, error)
	Update(ctx context.Context, w *models.Wallet) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Totals(ctx context.Context, userID, id uuid.UUID) (*models.WalletBalance, error)
}

type WalletRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewWalletRepository(db *pgxpool.Pool, logger *zap.Logger) *WalletRepository {
	return &WalletRepository{db: db, logger: logger}
}

var walletColumns = []string{"id", "user_id", "name", "type", "currency", "initial_balance", "is_archived", "created_at", "updated_at"}

func scanWallet(row interface{ Scan(...any) error }) (*models.Wallet, error) {
	var w models.Wallet
	if err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.Type, &w.Currency, &w.InitialBalance, &w.IsArchived, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) Create(ctx context.Context, w *models.Wallet) error {
	sql, args, err := squirrel.Insert("wallets").
		Columns(walletColumns...).
		Values(w.ID, w.UserID, w.Name, w.Type, w.Currency, w.InitialBalance, w.IsArchived, w.CreatedAt, w.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *WalletRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Wallet, error) {
	sql, args, err := squirrel.Select(walletColumns...).
		From("wallets").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanWallet(r.db.QueryRow(ctx, sql, args...))
}

func (r *WalletRepository) List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*models.Wallet, error) {
	query := squirrel.Select(walletColumns...).
		From("wallets").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at").
		PlaceholderFormat(squirrel.Dollar)
	if !includeArchived {
		query = query.Where(squirrel.Eq{"is_archived": false})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []*models.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

func (r *WalletRepository) Update(ctx context.Context, w *models.Wallet) error {
	sql, args, err := squirrel.Update("wallets").
		Set("name", w.Name).
		Set("type", w.Type).
		Set("currency", w.Currency).
		Set("initial_balance", w.InitialBalance).
		Set("is_archived", w.IsArchived).
		Set("updated_at", w.UpdatedAt).
		Where(squirrel.Eq{"id": w.ID, "user_id": w.UserID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}

func (r *WalletRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	sql, args, err := squirrel.Delete("wallets").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}

// Totals sums the wallet's transactions by direction.
func (r *WalletRepository) Totals(ctx context.Context, userID, id uuid.UUID) (*models.WalletBalance, error) {
	w, err := r.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	sql, args, err := walletTotalsQuery(userID, id).ToSql()
	if err != nil {
		return nil, err
	}

	b := &models.WalletBalance{WalletID: w.ID, Currency: w.Currency, Initial: w.InitialBalance}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&b.Income, &b.Expense, &b.TransfersOut, &b.TransfersIn)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func walletTotalsQuery(userID, walletID uuid.UUID) squirrel.SelectBuilder {
	return squirrel.Select().
		Column(squirrel.Expr("COALESCE(SUM(amount) FILTER (WHERE type = 'income' AND wallet_id = ?), 0)", walletID)).
		Column(squirrel.Expr("COALESCE(SUM(amount) FILTER (WHERE type = 'expense' AND wallet_id = ?), 0)", walletID)).
		Column(squirrel.Expr("COALESCE(SUM(amount) FILTER (WHERE type = 'transfer' AND wallet_id = ?), 0)", walletID)).
		Column(squirrel.Expr("COALESCE(SUM(amount) FILTER (WHERE type = 'transfer' AND to_wallet_id = ?), 0)", walletID)).
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Or{squirrel.Eq{"wallet_id": walletID}, squirrel.Eq{"to_wallet_id": walletID}}).
		PlaceholderFormat(squirrel.Dollar)
}
