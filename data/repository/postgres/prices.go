package postgres

import (
	"context"
	"time"

	"github.com/sebastiangueler-commits/cARTE/internal/converter/dbConverter"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/model/dbModel"
)

func (r *Postgres) InsertAssetPrice(ctx context.Context, point model.PricePoint) (err error) {
	query := `INSERT INTO asset_prices(asset_id, symbol, price, recorded_at) VALUES ($1, $2, $3, $4)`

	defer trace(ctx, "Postgres.InsertAssetPrice", query, map[string]any{"assetID": point.AssetID, "symbol": point.Symbol})(&err)

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, point.AssetID, point.Symbol, point.Price, point.RecordedAt)
	return mapErr(err)
}

func (r *Postgres) GetAssetPriceHistory(ctx context.Context, assetID int64, since time.Time) (points []model.PricePoint, err error) {
	query := `
		SELECT asset_id, symbol, price, recorded_at
		FROM asset_prices
		WHERE asset_id = $1 AND recorded_at >= $2
		ORDER BY recorded_at
		`

	defer trace(ctx, "Postgres.GetAssetPriceHistory", query, map[string]any{"assetID": assetID, "since": since})(&err)

	dbPrices := []dbModel.AssetPrice{}
	if err = r.txOrDb(ctx).SelectContext(ctx, &dbPrices, query, assetID, since); err != nil {
		return nil, err
	}

	points = make([]model.PricePoint, 0, len(dbPrices))
	for _, p := range dbPrices {
		points = append(points, dbConverter.ConvertPricePoint(p))
	}

	return points, nil
}
