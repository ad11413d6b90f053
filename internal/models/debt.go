package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DebtDirection string

const (
	DebtDirectionIOwe     DebtDirection = "i_owe"
	DebtDirectionOwedToMe DebtDirection = "owed_to_me"
)

type Debt struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	UserID       uuid.UUID       `db:"user_id" json:"user_id"`
	Name         string          `db:"name" json:"name"`
	Counterparty string          `db:"counterparty" json:"counterparty"`
	Direction    DebtDirection   `db:"direction" json:"direction"`
	Principal    decimal.Decimal `db:"principal" json:"principal"`
	Remaining    decimal.Decimal `db:"remaining" json:"remaining"`
	InterestRate decimal.Decimal `db:"interest_rate" json:"interest_rate"`
	DueDate      *time.Time      `db:"due_date" json:"due_date"`
	IsSettled    bool            `db:"is_settled" json:"is_settled"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}
