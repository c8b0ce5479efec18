package postgres

import (
	"context"

	"github.com/sebastiangueler-commits/cARTE/internal/converter/dbConverter"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/model/dbModel"
	"github.com/shopspring/decimal"
)

const assetColumns = `id, portfolio_id, symbol, isin, name, quantity, purchase_price, current_price, purchase_date, notes, created_at, updated_at`

func (r *Postgres) InsertAsset(ctx context.Context, asset model.Asset) (_ model.Asset, err error) {
	query := `
		INSERT INTO assets(portfolio_id, symbol, isin, name, quantity, purchase_price, current_price, purchase_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + assetColumns

	defer trace(ctx, "Postgres.InsertAsset", query, map[string]any{"portfolioID": asset.PortfolioID, "symbol": asset.Symbol})(&err)

	dbAsset := dbModel.Asset{}
	err = r.txOrDb(ctx).QueryRowxContext(
		ctx,
		query,
		asset.PortfolioID,
		asset.Symbol,
		dbConverter.NullString(asset.ISIN),
		dbConverter.NullString(asset.Name),
		asset.Quantity,
		asset.PurchasePrice,
		asset.CurrentPrice,
		asset.PurchaseDate,
		dbConverter.NullString(asset.Notes),
	).StructScan(&dbAsset)
	if err != nil {
		return model.Asset{}, mapErr(err)
	}

	return dbConverter.ConvertAsset(dbAsset), nil
}

func (r *Postgres) GetAsset(ctx context.Context, assetID int64) (_ model.Asset, err error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	defer trace(ctx, "Postgres.GetAsset", query, map[string]any{"assetID": assetID})(&err)

	dbAsset := dbModel.Asset{}
	if err = r.txOrDb(ctx).GetContext(ctx, &dbAsset, query, assetID); err != nil {
		return model.Asset{}, mapErr(err)
	}

	return dbConverter.ConvertAsset(dbAsset), nil
}

func (r *Postgres) selectAssets(ctx context.Context, op, query string, args ...any) (assets []model.Asset, err error) {
	defer trace(ctx, op, query, map[string]any{"args": args})(&err)

	dbAssets := []dbModel.Asset{}
	if err = r.txOrDb(ctx).SelectContext(ctx, &dbAssets, query, args...); err != nil {
		return nil, err
	}

	assets = make([]model.Asset, 0, len(dbAssets))
	for _, a := range dbAssets {
		assets = append(assets, dbConverter.ConvertAsset(a))
	}

	return assets, nil
}

func (r *Postgres) GetAssetsByPortfolioID(ctx context.Context, portfolioID int64) ([]model.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE portfolio_id = $1 ORDER BY symbol, id`
	return r.selectAssets(ctx, "Postgres.GetAssetsByPortfolioID", query, portfolioID)
}

func (r *Postgres) GetAssetsByUserID(ctx context.Context, userID int64) ([]model.Asset, error) {
	query := `
		SELECT a.id, a.portfolio_id, a.symbol, a.isin, a.name, a.quantity, a.purchase_price, a.current_price,
			a.purchase_date, a.notes, a.created_at, a.updated_at
		FROM assets a
		JOIN portfolios p ON p.id = a.portfolio_id
		WHERE p.user_id = $1
		ORDER BY a.portfolio_id, a.symbol, a.id
		`
	return r.selectAssets(ctx, "Postgres.GetAssetsByUserID", query, userID)
}

func (r *Postgres) GetAllAssets(ctx context.Context) ([]model.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets ORDER BY symbol, id`
	return r.selectAssets(ctx, "Postgres.GetAllAssets", query)
}

// UpdateAsset changes only the fields set in upd.
func (r *Postgres) UpdateAsset(ctx context.Context, assetID int64, upd model.AssetUpdate) (_ model.Asset, err error) {
	query := `
		UPDATE assets
		SET
			symbol = COALESCE($1, symbol),
			isin = COALESCE($2, isin),
			name = COALESCE($3, name),
			quantity = COALESCE($4, quantity),
			purchase_price = COALESCE($5, purchase_price),
			purchase_date = COALESCE($6, purchase_date),
			notes = COALESCE($7, notes),
			updated_at = NOW()
		WHERE id = $8
		RETURNING ` + assetColumns

	defer trace(ctx, "Postgres.UpdateAsset", query, map[string]any{"assetID": assetID})(&err)

	var quantity, purchasePrice decimal.NullDecimal
	if upd.Quantity != nil {
		quantity = decimal.NewNullDecimal(*upd.Quantity)
	}
	if upd.PurchasePrice != nil {
		purchasePrice = decimal.NewNullDecimal(*upd.PurchasePrice)
	}

	dbAsset := dbModel.Asset{}
	err = r.txOrDb(ctx).QueryRowxContext(
		ctx,
		query,
		upd.Symbol,
		upd.ISIN,
		upd.Name,
		quantity,
		purchasePrice,
		upd.PurchaseDate,
		upd.Notes,
		assetID,
	).StructScan(&dbAsset)
	if err != nil {
		return model.Asset{}, mapErr(err)
	}

	return dbConverter.ConvertAsset(dbAsset), nil
}

func (r *Postgres) UpdateAssetCurrentPrice(ctx context.Context, assetID int64, price decimal.Decimal) (err error) {
	query := `UPDATE assets SET current_price = $1, updated_at = NOW() WHERE id = $2`

	defer trace(ctx, "Postgres.UpdateAssetCurrentPrice", query, map[string]any{"assetID": assetID, "price": price})(&err)

	res, err := r.txOrDb(ctx).ExecContext(ctx, query, price, assetID)
	if err != nil {
		return err
	}

	return requireAffected(res)
}

func (r *Postgres) DeleteAsset(ctx context.Context, assetID int64) (err error) {
	query := `DELETE FROM assets WHERE id = $1`

	defer trace(ctx, "Postgres.DeleteAsset", query, map[string]any{"assetID": assetID})(&err)

	res, err := r.txOrDb(ctx).ExecContext(ctx, query, assetID)
	if err != nil {
		return err
	}

	return requireAffected(res)
}
