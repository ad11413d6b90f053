package models

import (
	"time"

	"fintrack/pkg/calendar"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Budget struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	UserID     uuid.UUID       `db:"user_id" json:"user_id"`
	CategoryID *uuid.UUID      `db:"category_id" json:"category_id"`
	Name       string          `db:"name" json:"name"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	Period     calendar.Period `db:"period" json:"period"`
	StartDate  time.Time       `db:"start_date" json:"start_date"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

type BudgetProgress struct {
	Budget    *Budget         `json:"budget"`
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Percent   decimal.Decimal `json:"percent"`
	Exceeded  bool            `json:"exceeded"`
}
