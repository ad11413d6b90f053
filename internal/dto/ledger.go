package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletRequest struct {
	Name           string          `json:"name" validate:"required,max=100"`
	Type           string          `json:"type" validate:"required,oneof=cash bank credit ewallet investment"`
	Currency       string          `json:"currency" validate:"omitempty,iso4217"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	IsArchived     bool            `json:"is_archived"`
}

type CategoryRequest struct {
	Name  string `json:"name" validate:"required,max=60"`
	Type  string `json:"type" validate:"required,oneof=income expense"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Icon  string `json:"icon" validate:"max=40"`
}

type BudgetRequest struct {
	CategoryID *uuid.UUID      `json:"category_id"`
	Name       string          `json:"name" validate:"required,max=100"`
	Amount     decimal.Decimal `json:"amount"`
	Period     string          `json:"period" validate:"required,oneof=weekly monthly yearly"`
	StartDate  Date            `json:"start_date"`
}

type GoalRequest struct {
	Name          string          `json:"name" validate:"required,max=100"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Deadline      Date            `json:"deadline"`
}

type DebtRequest struct {
	Name         string           `json:"name" validate:"required,max=100"`
	Counterparty string           `json:"counterparty" validate:"max=100"`
	Direction    string           `json:"direction" validate:"required,oneof=i_owe owed_to_me"`
	Principal    decimal.Decimal  `json:"principal"`
	Remaining    *decimal.Decimal `json:"remaining"`
	InterestRate decimal.Decimal  `json:"interest_rate"`
	DueDate      Date             `json:"due_date"`
}

// AmountRequest is the body of goal contributions and debt payments.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type AssetRequest struct {
	Name          string          `json:"name" validate:"required,max=100"`
	Symbol        string          `json:"symbol" validate:"max=32"`
	Type          string          `json:"type" validate:"required,oneof=stock etf crypto fund cash other"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	Currency      string          `json:"currency" validate:"omitempty,iso4217"`
}

type TagRequest struct {
	Name  string `json:"name" validate:"required,max=40"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

type TaskRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"max=1000"`
	DueDate     Date   `json:"due_date"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

type CompleteTaskRequest struct {
	Done *bool `json:"done"`
}
