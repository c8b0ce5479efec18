package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Quote struct {
	Symbol        string
	ShortName     string
	Currency      string
	Exchange      string
	Price         decimal.Decimal
	PreviousClose decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
	UpdatedAt     time.Time
}

type Candle struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}
