package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AssetType string

const (
	AssetTypeStock  AssetType = "stock"
	AssetTypeETF    AssetType = "etf"
	AssetTypeCrypto AssetType = "crypto"
	AssetTypeFund   AssetType = "fund"
	AssetTypeCash   AssetType = "cash"
	AssetTypeOther  AssetType = "other"
)

type Asset struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	UserID        uuid.UUID       `db:"user_id" json:"user_id"`
	Name          string          `db:"name" json:"name"`
	Symbol        string          `db:"symbol" json:"symbol"`
	Type          AssetType       `db:"type" json:"type"`
	Quantity      decimal.Decimal `db:"quantity" json:"quantity"`
	PurchasePrice decimal.Decimal `db:"purchase_price" json:"purchase_price"`
	CurrentPrice  decimal.Decimal `db:"current_price" json:"current_price"`
	ChangePercent decimal.Decimal `db:"change_percent" json:"change_percent"`
	Currency      string          `db:"currency" json:"currency"`
	LastSyncedAt  *time.Time      `db:"last_synced_at" json:"last_synced_at"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

func (a *Asset) MarketValue() decimal.Decimal {
	return a.Quantity.Mul(a.CurrentPrice)
}

func (a *Asset) CostBasis() decimal.Decimal {
	return a.Quantity.Mul(a.PurchasePrice)
}
