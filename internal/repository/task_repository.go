package repository

import (
	"context"
	"time"

	"fintrack/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type TaskStore interface {
	Create(ctx context.Context, t *models.Task) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, userID uuid.UUID, done *bool) ([]*models.Task, error)
	Update(ctx context.Context, t *models.Task) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	MarkDone(ctx context.Context, userID, id uuid.UUID, done bool, at time.Time) (*models.Task, error)
}

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

var taskColumns = []string{"id", "user_id", "title", "description", "due_date", "priority", "is_done", "completed_at", "created_at", "updated_at"}

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	var t models.Task
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate, &t.Priority, &t.IsDone, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *models.Task) error {
	sql, args, err := squirrel.Insert("tasks").
		Columns(taskColumns...).
		Values(t.ID, t.UserID, t.Title, t.Description, t.DueDate, t.Priority, t.IsDone, t.CompletedAt, t.CreatedAt, t.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TaskRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Task, error) {
	sql, args, err := squirrel.Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanTask(r.db.QueryRow(ctx, sql, args...))
}

// List returns open tasks first, ordered by due date.
func (r *TaskRepository) List(ctx context.Context, userID uuid.UUID, done *bool) ([]*models.Task, error) {
	query := squirrel.Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("is_done", "due_date NULLS LAST", "created_at DESC").
		PlaceholderFormat(squirrel.Dollar)
	if done != nil {
		query = query.Where(squirrel.Eq{"is_done": *done})
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

	var tasks []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, t *models.Task) error {
	sql, args, err := squirrel.Update("tasks").
		Set("title", t.Title).
		Set("description", t.Description).
		Set("due_date", t.DueDate).
		Set("priority", t.Priority).
		Set("updated_at", t.UpdatedAt).
		Where(squirrel.Eq{"id": t.ID, "user_id": t.UserID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	sql, args, err := squirrel.Delete("tasks").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(r.db.Exec(ctx, sql, args...))
}

func (r *TaskRepository) MarkDone(ctx context.Context, userID, id uuid.UUID, done bool, at time.Time) (*models.Task, error) {
	var completedAt *time.Time
	if done {
		completedAt = &at
	}
	sql, args, err := squirrel.Update("tasks").
		Set("is_done", done).
		Set("completed_at", completedAt).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING "+columnList(taskColumns)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanTask(r.db.QueryRow(ctx, sql, args...))
}
