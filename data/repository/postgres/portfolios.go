package postgres

import (
	"context"

	"github.com/sebastiangueler-commits/cARTE/internal/converter/dbConverter"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/model/dbModel"
)

const portfolioColumns = `id, user_id, name, description, created_at, updated_at`

func (r *Postgres) InsertPortfolio(ctx context.Context, portfolio model.Portfolio) (_ model.Portfolio, err error) {
	query := `INSERT INTO portfolios(user_id, name, description) VALUES ($1, $2, $3) RETURNING ` + portfolioColumns

	defer trace(ctx, "Postgres.InsertPortfolio", query, map[string]any{"userID": portfolio.UserID, "name": portfolio.Name})(&err)

	dbPortfolio := dbModel.Portfolio{}
	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, portfolio.UserID, portfolio.Name, dbConverter.NullString(portfolio.Description)).StructScan(&dbPortfolio)
	if err != nil {
		return model.Portfolio{}, mapErr(err)
	}

	return dbConverter.ConvertPortfolio(dbPortfolio), nil
}

func (r *Postgres) GetPortfolio(ctx context.Context, portfolioID int64) (_ model.Portfolio, err error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE id = $1`

	defer trace(ctx, "Postgres.GetPortfolio", query, map[string]any{"portfolioID": portfolioID})(&err)

	dbPortfolio := dbModel.Portfolio{}
	if err = r.txOrDb(ctx).GetContext(ctx, &dbPortfolio, query, portfolioID); err != nil {
		return model.Portfolio{}, mapErr(err)
	}

	return dbConverter.ConvertPortfolio(dbPortfolio), nil
}

func (r *Postgres) GetPortfoliosByUserID(ctx context.Context, userID int64) (portfolios []model.Portfolio, err error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	defer trace(ctx, "Postgres.GetPortfoliosByUserID", query, map[string]any{"userID": userID})(&err)

	dbPortfolios := []dbModel.Portfolio{}
	if err = r.txOrDb(ctx).SelectContext(ctx, &dbPortfolios, query, userID); err != nil {
		return nil, err
	}

	portfolios = make([]model.Portfolio, 0, len(dbPortfolios))
	for _, p := range dbPortfolios {
		portfolios = append(portfolios, dbConverter.ConvertPortfolio(p))
	}

	return portfolios, nil
}

// UpdatePortfolio changes only the fields set in upd.
func (r *Postgres) UpdatePortfolio(ctx context.Context, portfolioID int64, upd model.PortfolioUpdate) (_ model.Portfolio, err error) {
	query := `
		UPDATE portfolios
		SET
			name = COALESCE($1, name),
			description = COALESCE($2, description),
			updated_at = NOW()
		WHERE id = $3
		RETURNING ` + portfolioColumns

	defer trace(ctx, "Postgres.UpdatePortfolio", query, map[string]any{"portfolioID": portfolioID})(&err)

	dbPortfolio := dbModel.Portfolio{}
	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, upd.Name, upd.Description, portfolioID).StructScan(&dbPortfolio)
	if err != nil {
		return model.Portfolio{}, mapErr(err)
	}

	return dbConverter.ConvertPortfolio(dbPortfolio), nil
}

func (r *Postgres) DeletePortfolio(ctx context.Context, portfolioID int64) (err error) {
	query := `DELETE FROM portfolios WHERE id = $1`

	defer trace(ctx, "Postgres.DeletePortfolio", query, map[string]any{"portfolioID": portfolioID})(&err)

	res, err := r.txOrDb(ctx).ExecContext(ctx, query, portfolioID)
	if err != nil {
		return err
	}

	return requireAffected(res)
}
