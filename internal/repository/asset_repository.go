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

type AssetStore interface {
	Create(ctx context.Context, a *models.Asset) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Asset, error)
	List(ctx context.Context, userID uuid.UUID) ([]*models.Asset, error)
	Update(ctx context.Context, a *models.Asset) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	// ListSyncable returns every asset that may carry a market price. A nil
	// userID selects across all users.
	ListSyncable(ctx context.Context, userID *uuid.UUID) ([]*models.Asset, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, price, changePercent decimal.Decimal, syncedAt time.Time) error
}

type AssetRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAssetRepository(db *pgxpool.Pool, logger *zap.Logger) *AssetRepository {
	return &AssetRepository{db: db, logger: logger}
}

var assetColumns = []string{
	"id", "user_id", "name", "symbol", "type", "quantity", "purchase_price", "current_price",
	"change_percent", "currency", "last_synced_at", "created_at", "updated_at",
}

func scanAsset(row interface{ Scan(...any) error }) (*models.Asset, error) {
	var a models.Asset
	if err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Symbol, &a.Type, &a.Quantity, &a.PurchasePrice, &a.CurrentPrice,
		&a.ChangePercent, &a.Currency, &a.LastSyncedAt, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssetRepository) Create(ctx context.Context, a *models.Asset) error {
	sql, args, err := squirrel.Insert("assets").
		Columns(assetColumns...).
		Values(
			a.ID, a.UserID, a.Name, a.Symbol, a.Type, a.Quantity, a.PurchasePrice, a.CurrentPrice,
			a.ChangePercent, a.Currency, a.LastSyncedAt, a.CreatedAt, a.UpdatedAt,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *AssetRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Asset, error) {
	sql, args, err := squirrel.Select(assetColumns...).
		From("assets").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanAsset(r.db.QueryRow(ctx, sql, args...))
}

func (r *AssetRepository) List(ctx context.Context, userID uuid.UUID) ([]*models.Asset, error) {
	return r.list(ctx, squirrel.Select(assetColumns...).
		From("assets").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("type", "name"))
}

func (r *AssetRepository) ListSyncable(ctx context.Context, userID *uuid.UUID) ([]*models.Asset, error) {
	query := squirrel.Select(assetColumns...).
		From("assets").
		Where(squirrel.NotEq{"type": models.AssetTypeCash}).
		OrderBy("symbol")
	if userID != nil {
		query = query.Where(squirrel.Eq{"user_id": *userID})
	}
	return r.list(ctx, query)
}

func (r *AssetRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Asset, error) {
	sql, args, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (r *AssetRepository) Update(ctx context.Context, a *models.Asset) error {
	sql, args, err := squirrel.Update("assets").
		Set("name", a.Name).
		Set("symbol", a.Symbol).
		Set("type", a.Type).
		Set("quantity", a.Quantity).
		Set("purchase_price", a.PurchasePrice).
		Set("current_price", a.CurrentPrice).
		Set("currency", a.Currency).
		Set("updated_at", a.UpdatedAt).
		Where(squirrel.Eq{"id": a.ID, "user_id": a.UserID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}

func (r *AssetRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	sql, args, err := squirrel.Delete("assets").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}

func (r *AssetRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price, changePercent decimal.Decimal, syncedAt time.Time) error {
	sql, args, err := squirrel.Update("assets").
		Set("current_price", price).
		Set("change_percent", changePercent).
		Set("last_synced_at", syncedAt).
		Set("updated_at", syncedAt).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}
