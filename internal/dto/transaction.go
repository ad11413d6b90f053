package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRequest is the body of both create and update. The amount is
// checked by the service so that a non-positive value maps to its own error.
type TransactionRequest struct {
	WalletID    uuid.UUID       `json:"wallet_id" validate:"required"`
	ToWalletID  *uuid.UUID      `json:"to_wallet_id"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Type        string          `json:"type" validate:"required,oneof=income expense transfer"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=500"`
	Note        string          `json:"note" validate:"max=2000"`
	Date        Date            `json:"date"`
	TagIDs      []uuid.UUID     `json:"tag_ids" validate:"max=20"`
}

type RecurringRequest struct {
	WalletID     uuid.UUID       `json:"wallet_id" validate:"required"`
	ToWalletID   *uuid.UUID      `json:"to_wallet_id"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	Type         string          `json:"type" validate:"required,oneof=income expense transfer"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description" validate:"max=500"`
	Frequency    string          `json:"frequency" validate:"required,oneof=daily weekly monthly quarterly yearly"`
	StartDate    Date            `json:"start_date"`
	EndDate      Date            `json:"end_date"`
	AutoGenerate *bool           `json:"auto_generate"`
	IsActive     *bool           `json:"is_active"`
}

type AttachmentResponse struct {
	ID        string `json:"id"`
	FileName  string `json:"file_name"`
	FileSize  int64  `json:"file_size"`
	FileURL   string `json:"file_url"`
	CreatedAt string `json:"created_at"`
}
