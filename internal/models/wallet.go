package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletType string

const (
	WalletTypeCash       WalletType = "cash"
	WalletTypeBank       WalletType = "bank"
	WalletTypeCredit     WalletType = "credit"
	WalletTypeEWallet    WalletType = "ewallet"
	WalletTypeInvestment WalletType = "investment"
)

type Wallet struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	UserID         uuid.UUID       `db:"user_id" json:"user_id"`
	Name           string          `db:"name" json:"name"`
	Type           WalletType      `db:"type" json:"type"`
	Currency       string          `db:"currency" json:"currency"`
	InitialBalance decimal.Decimal `db:"initial_balance" json:"initial_balance"`
	IsArchived     bool            `db:"is_archived" json:"is_archived"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// WalletBalance is the derived balance: initial balance plus the signed sum
// of every transaction touching the wallet.
type WalletBalance struct {
	WalletID     uuid.UUID       `json:"wallet_id"`
	Currency     string          `json:"currency"`
	Initial      decimal.Decimal `json:"initial_balance"`
	Income       decimal.Decimal `json:"income"`
	Expense      decimal.Decimal `json:"expense"`
	TransfersIn  decimal.Decimal `json:"transfers_in"`
	TransfersOut decimal.Decimal `json:"transfers_out"`
	Balance      decimal.Decimal `json:"balance"`
}

func (b WalletBalance) Total() decimal.Decimal {
	return b.Initial.Add(b.Income).Sub(b.Expense).Add(b.TransfersIn).Sub(b.TransfersOut)
}
