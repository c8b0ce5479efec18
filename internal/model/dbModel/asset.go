package dbModel

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Asset struct {
	ID            int64               `db:"id"`
	PortfolioID   int64               `db:"portfolio_id"`
	Symbol        string              `db:"symbol"`
	ISIN          sql.NullString      `db:"isin"`
	Name          sql.NullString      `db:"name"`
	Quantity      decimal.Decimal     `db:"quantity"`
	PurchasePrice decimal.Decimal     `db:"purchase_price"`
	CurrentPrice  decimal.NullDecimal `db:"current_price"`
	PurchaseDate  time.Time           `db:"purchase_date"`
	Notes         sql.NullString      `db:"notes"`
	CreatedAt     time.Time           `db:"created_at"`
	UpdatedAt     time.Time           `db:"updated_at"`
}

type AssetPrice struct {
	AssetID    int64           `db:"asset_id"`
	Symbol     string          `db:"symbol"`
	Price      decimal.Decimal `db:"price"`
	RecordedAt time.Time       `db:"recorded_at"`
}
