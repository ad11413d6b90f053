package repository

import (
	"context"

	"fintrack/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type CategoryStore interface {
	Create(ctx context.Context, c *models.Category) error
	CreateBatch(ctx context.Context, categories []*models.Category) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context, userID uuid.UUID, typ models.CategoryType) ([]*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type CategoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCategoryRepository(db *pgxpool.Pool, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{db: db, logger: logger}
}

var categoryColumns = []string{"id", "user_id", "name", "type", "color", "icon", "created_at", "updated_at"}

func scanCategory(row interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	return r.CreateBatch(ctx, []*models.Category{c})
}

func (r *CategoryRepository) CreateBatch(ctx context.Context, categories []*models.Category) error {
	if len(categories) == 0 {
		return nil
	}

	builder := squirrel.Insert("categories").
		Columns(categoryColumns...).
		PlaceholderFormat(squirrel.Dollar)
	for _, c := range categories {
		builder = builder.Values(c.ID, c.UserID, c.Name, c.Type, c.Color, c.Icon, c.CreatedAt, c.UpdatedAt)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *CategoryRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Category, error) {
	sql, args, err := squirrel.Select(categoryColumns...).
		From("categories").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanCategory(r.db.QueryRow(ctx, sql, args...))
}

// List returns the user's categories, optionally of one type.
func (r *CategoryRepository) List(ctx context.Context, userID uuid.UUID, typ models.CategoryType) ([]*models.Category, error) {
	query := squirrel.Select(categoryColumns...).
		From("categories").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("type", "name").
		PlaceholderFormat(squirrel.Dollar)
	if typ != "" {
		query = query.Where(squirrel.Eq{"type": typ})
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

	var categories []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	sql, args, err := squirrel.Update("categories").
		Set("name", c.Name).
		Set("type", c.Type).
		Set("color", c.Color).
		Set("icon", c.Icon).
		Set("updated_at", c.UpdatedAt).
		Where(squirrel.Eq{"id": c.ID, "user_id": c.UserID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}

func (r *CategoryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	sql, args, err := squirrel.Delete("categories").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}
