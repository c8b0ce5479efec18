package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Portfolio struct {
	ID          int64
	UserID      int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type PortfolioUpdate struct {
	Name        *string
	Description *string
}

func (u PortfolioUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil
}

type PortfolioSummary struct {
	Portfolio
	AssetCount         int
	TotalValue         decimal.Decimal
	TotalInvested      decimal.Decimal
	TotalChange        decimal.Decimal
	TotalChangePercent decimal.Decimal
}

type PortfolioDetails struct {
	PortfolioSummary
	Assets []AssetValuation
}

type DashboardStats struct {
	PortfolioCount     int
	AssetCount         int
	TotalValue         decimal.Decimal
	TotalInvested      decimal.Decimal
	TotalChange        decimal.Decimal
	TotalChangePercent decimal.Decimal
}
