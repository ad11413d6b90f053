package repository

import (
	"context"

	"fintrack/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type TagStore interface {
	Create(ctx context.Context, t *models.Tag) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Tag, error)
	List(ctx context.Context, userID uuid.UUID) ([]*models.Tag, error)
	Update(ctx context.Context, t *models.Tag) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type TagRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTagRepository(db *pgxpool.Pool, logger *zap.Logger) *TagRepository {
	return &TagRepository{db: db, logger: logger}
}

var tagColumns = []string{"id", "user_id", "name", "color", "created_at", "updated_at"}

func scanTag(row interface{ Scan(...any) error }) (*models.Tag, error) {
	var t models.Tag
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TagRepository) Create(ctx context.Context, t *models.Tag) error {
	sql, args, err := squirrel.Insert("tags").
		Columns(tagColumns...).
		Values(t.ID, t.UserID, t.Name, t.Color, t.CreatedAt, t.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TagRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Tag, error) {
	sql, args, err := squirrel.Select(tagColumns...).
		From("tags").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanTag(r.db.QueryRow(ctx, sql, args...))
}

func (r *TagRepository) List(ctx context.Context, userID uuid.UUID) ([]*models.Tag, error) {
	sql, args, err := squirrel.Select(tagColumns...).
		From("tags").
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

	var tags []*models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *TagRepository) Update(ctx context.Context, t *models.Tag) error {
	sql, args, err := squirrel.Update("tags").
		Set("name", t.Name).
		Set("color", t.Color).
		Set("updated_at", t.UpdatedAt).
		Where(squirrel.Eq{"id": t.ID, "user_id": t.UserID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}

func (r *TagRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	sql, args, err := squirrel.Delete("tags").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}
