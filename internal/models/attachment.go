package models

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is a receipt file uploaded for a transaction.
type Attachment struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	TransactionID uuid.UUID `db:"transaction_id" json:"transaction_id"`
	FileName      string    `db:"file_name" json:"file_name"`
	FileSize      int64     `db:"file_size" json:"file_size"`
	FileURL       string    `db:"file_url" json:"file_url"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
