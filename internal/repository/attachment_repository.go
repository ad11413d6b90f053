package repository

import (
	"context"

	"fintrack/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type AttachmentStore interface {
	Create(ctx context.Context, a *models.Attachment) error
	ListByTransaction(ctx context.Context, userID, transactionID uuid.UUID) ([]*models.Attachment, error)
}

type AttachmentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAttachmentRepository(db *pgxpool.Pool, logger *zap.Logger) *AttachmentRepository {
	return &AttachmentRepository{db: db, logger: logger}
}

var attachmentColumns = []string{"id", "user_id", "transaction_id", "file_name", "file_size", "file_url", "created_at"}

func (r *AttachmentRepository) Create(ctx context.Context, a *models.Attachment) error {
	sql, args, err := squirrel.Insert("attachments").
		Columns(attachmentColumns...).
		Values(a.ID, a.UserID, a.TransactionID, a.FileName, a.FileSize, a.FileURL, a.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *AttachmentRepository) ListByTransaction(ctx context.Context, userID, transactionID uuid.UUID) ([]*models.Attachment, error) {
	sql, args, err := squirrel.Select(attachmentColumns...).
		From("attachments").
		Where(squirrel.Eq{"user_id": userID, "transaction_id": transactionID}).
		OrderBy("created_at").
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

	var attachments []*models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.ID, &a.UserID, &a.TransactionID, &a.FileName, &a.FileSize, &a.FileURL, &a.CreatedAt); err != nil {
			return nil, err
		}
		attachments = append(attachments, &a)
	}
	return attachments, rows.Err()
}
