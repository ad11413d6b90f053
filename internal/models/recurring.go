package models

import (
	"time"

	"fintrack/pkg/calendar"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurringTransaction is a template that periodically spawns transactions
// until its optional end date is reached.
type RecurringTransaction struct {
	ID             uuid.UUID          `db:"id" json:"id"`
	UserID         uuid.UUID          `db:"user_id" json:"user_id"`
	WalletID       uuid.UUID          `db:"wallet_id" json:"wallet_id"`
	ToWalletID     *uuid.UUID         `db:"to_wallet_id" json:"to_wallet_id"`
	CategoryID     *uuid.UUID         `db:"category_id" json:"category_id"`
	Type           TransactionType    `db:"type" json:"type"`
	Amount         decimal.Decimal    `db:"amount" json:"amount"`
	Description    string             `db:"description" json:"description"`
	Frequency      calendar.Frequency `db:"frequency" json:"frequency"`
	StartDate      time.Time          `db:"start_date" json:"start_date"`
	NextOccurrence time.Time          `db:"next_occurrence" json:"next_occurrence"`
	EndDate        *time.Time         `db:"end_date" json:"end_date"`
	LastGenerated  *time.Time         `db:"last_generated" json:"last_generated"`
	AutoGenerate   bool               `db:"auto_generate" json:"auto_generate"`
	IsActive       bool               `db:"is_active" json:"is_active"`
	CreatedAt      time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `db:"updated_at" json:"updated_at"`
}

// PastEnd reports whether day lies after the template's end date.
func (r *RecurringTransaction) PastEnd(day time.Time) bool {
	return r.EndDate != nil && calendar.Day(day).After(calendar.Day(*r.EndDate))
}

// Realized reports whether the occurrence on day was already generated.
func (r *RecurringTransaction) Realized(day time.Time) bool {
	return r.LastGenerated != nil && calendar.Day(*r.LastGenerated).Equal(calendar.Day(day))
}

// Instantiate builds the transaction for the occurrence on day.
func (r *RecurringTransaction) Instantiate(day time.Time, now time.Time) *Transaction {
	id := r.ID
	return &Transaction{
		ID:          uuid.New(),
		UserID:      r.UserID,
		WalletID:    r.WalletID,
		ToWalletID:  r.ToWalletID,
		CategoryID:  r.CategoryID,
		RecurringID: &id,
		Type:        r.Type,
		Amount:      r.Amount,
		Description: r.Description,
		Date:        calendar.Day(day),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
