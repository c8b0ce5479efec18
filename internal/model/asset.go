package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Asset struct {
	ID            int64
	PortfolioID   int64
	Symbol        string
	ISIN          string
	Name          string
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	CurrentPrice  decimal.NullDecimal
	PurchaseDate  time.Time
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type AssetUpdate struct {
	Symbol        *string
	ISIN          *string
	Name          *string
	Quantity      *decimal.Decimal
	PurchasePrice *decimal.Decimal
	PurchaseDate  *time.Time
	Notes         *string
}

func (u AssetUpdate) Empty() bool {
	return u.Symbol == nil && u.ISIN == nil && u.Name == nil && u.Quantity == nil &&
		u.PurchasePrice == nil && u.PurchaseDate == nil && u.Notes == nil
}

type AssetValuation struct {
	Asset
	CurrentValue       decimal.Decimal
	InvestedValue      decimal.Decimal
	TotalChange        decimal.Decimal
	PriceChangePercent decimal.Decimal
}

type PricePoint struct {
	AssetID    int64
	Symbol     string
	Price      decimal.Decimal
	RecordedAt time.Time
}

type PriceUpdateResult struct {
	AssetID int64
	Symbol  string
	Price   decimal.NullDecimal
	Success bool
	Error   string
}
