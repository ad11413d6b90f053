package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense || t == TransactionTypeTransfer
}

type Transaction struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	UserID      uuid.UUID       `db:"user_id" json:"user_id"`
	WalletID    uuid.UUID       `db:"wallet_id" json:"wallet_id"`
	ToWalletID  *uuid.UUID      `db:"to_wallet_id" json:"to_wallet_id"`
	CategoryID  *uuid.UUID      `db:"category_id" json:"category_id"`
	RecurringID *uuid.UUID      `db:"recurring_id" json:"recurring_id"`
	Type        TransactionType `db:"type" json:"type"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Description string          `db:"description" json:"description"`
	Note        string          `db:"note" json:"note"`
	Date        time.Time       `db:"date" json:"date"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`

	// TagIDs is loaded from transaction_tags.
	TagIDs []uuid.UUID `db:"-" json:"tag_ids"`
}

// TransactionFilter narrows a transaction listing. Zero values are ignored.
type TransactionFilter struct {
	From       *time.Time
	To         *time.Time
	WalletID   *uuid.UUID
	CategoryID *uuid.UUID
	TagID      *uuid.UUID
	Type       TransactionType
	Search     string
	Limit      int
	Offset     int
}

// CategoryTotal is the sum of one category's transactions of one type.
type CategoryTotal struct {
	Type         TransactionType `json:"type"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Amount       decimal.Decimal `json:"amount"`
	Count        int             `json:"count"`
}
