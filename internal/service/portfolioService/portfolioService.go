package portfolioService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sebastiangueler-commits/cARTE/data/repository"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/service"
	"github.com/sebastiangueler-commits/cARTE/utils"
	"github.com/shopspring/decimal"
)

type Repository interface {
	service.ActivityRepository
	WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error

	InsertPortfolio(ctx context.Context, portfolio model.Portfolio) (model.Portfolio, error)
	GetPortfolio(ctx context.Context, portfolioID int64) (model.Portfolio, error)
	GetPortfoliosByUserID(ctx context.Context, userID int64) ([]model.Portfolio, error)
	UpdatePortfolio(ctx context.Context, portfolioID int64, upd model.PortfolioUpdate) (model.Portfolio, error)
	DeletePortfolio(ctx context.Context, portfolioID int64) error

	InsertAsset(ctx context.Context, asset model.Asset) (model.Asset, error)
	GetAsset(ctx context.Context, assetID int64) (model.Asset, error)
	GetAssetsByPortfolioID(ctx context.Context, portfolioID int64) ([]model.Asset, error)
	GetAssetsByUserID(ctx context.Context, userID int64) ([]model.Asset, error)
	GetAllAssets(ctx context.Context) ([]model.Asset, error)
	UpdateAsset(ctx context.Context, assetID int64, upd model.AssetUpdate) (model.Asset, error)
	UpdateAssetCurrentPrice(ctx context.Context, assetID int64, price decimal.Decimal) error
	DeleteAsset(ctx context.Context, assetID int64) error

	InsertAssetPrice(ctx context.Context, point model.PricePoint) error
	GetAssetPriceHistory(ctx context.Context, assetID int64, since time.Time) ([]model.PricePoint, error)
}

type PriceLookup interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, bool)
	GetPrices(ctx context.Context, symbols []string) map[string]decimal.Decimal
}

type ReportGenerator interface {
	Generate(ctx context.Context, portfolios []model.PortfolioDetails) (fileBytes []byte, fileExtension string, err error)
}

type PortfolioService struct {
	repo      Repository
	prices    PriceLookup
	generator ReportGenerator
	now       func() time.Time
}

func New(repo Repository, prices PriceLookup, generator ReportGenerator) *PortfolioService {
	return &PortfolioService{
		repo:      repo,
		prices:    prices,
		generator: generator,
		now:       time.Now,
	}
}

func (s *PortfolioService) ListPortfolios(ctx context.Context, requester model.Requester) ([]model.PortfolioSummary, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.ListPortfolios"

	slog.Debug("ListPortfolios start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", requester.UserID))

	portfolios, err := s.repo.GetPortfoliosByUserID(ctx, requester.UserID)
	if err != nil {
		return nil, err
	}

	assets, err := s.repo.GetAssetsByUserID(ctx, requester.UserID)
	if err != nil {
		return nil, err
	}

	byPortfolio := make(map[int64][]model.Asset, len(portfolios))
	for _, asset := range assets {
		byPortfolio[asset.PortfolioID] = append(byPortfolio[asset.PortfolioID], asset)
	}

	summaries := make([]model.PortfolioSummary, 0, len(portfolios))
	for _, p := range portfolios {
		summaries = append(summaries, Summarize(p, byPortfolio[p.ID]).PortfolioSummary)
	}

	return summaries, nil
}

func (s *PortfolioService) GetPortfolio(ctx context.Context, requester model.Requester, portfolioID int64) (model.PortfolioDetails, error) {
	portfolio, err := s.accessiblePortfolio(ctx, requester, portfolioID)
	if err != nil {
		return model.PortfolioDetails{}, err
	}

	assets, err := s.repo.GetAssetsByPortfolioID(ctx, portfolioID)
	if err != nil {
		return model.PortfolioDetails{}, err
	}

	return Summarize(portfolio, assets), nil
}

func (s *PortfolioService) CreatePortfolio(ctx context.Context, requester model.Requester, name, description string) (model.Portfolio, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.CreatePortfolio"

	name = strings.TrimSpace(name)
	if name == "" {
		return model.Portfolio{}, fmt.Errorf("%w: name is required", service.ErrInvalidInput)
	}

	portfolio, err := s.repo.InsertPortfolio(ctx, model.Portfolio{
		UserID:      requester.UserID,
		Name:        name,
		Description: strings.TrimSpace(description),
	})
	if err != nil {
		slog.Error("got error from repo.InsertPortfolio", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Portfolio{}, err
	}

	slog.Info("portfolio created", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolio.ID))

	return portfolio, nil
}

func (s *PortfolioService) UpdatePortfolio(ctx context.Context, requester model.Requester, portfolioID int64, upd model.PortfolioUpdate) (model.Portfolio, error) {
	if upd.Empty() {
		return model.Portfolio{}, service.ErrNoFieldsToUpdate
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return model.Portfolio{}, fmt.Errorf("%w: name can't be empty", service.ErrInvalidInput)
	}

	if _, err := s.accessiblePortfolio(ctx, requester, portfolioID); err != nil {
		return model.Portfolio{}, err
	}

	portfolio, err := s.repo.UpdatePortfolio(ctx, portfolioID, upd)
	if err != nil {
		return model.Portfolio{}, mapRepoErr(err)
	}

	return portfolio, nil
}

func (s *PortfolioService) DeletePortfolio(ctx context.Context, requester model.Requester, portfolioID int64) error {
	if _, err := s.accessiblePortfolio(ctx, requester, portfolioID); err != nil {
		return err
	}
	return mapRepoErr(s.repo.DeletePortfolio(ctx, portfolioID))
}

func (s *PortfolioService) ListAssets(ctx context.Context, requester model.Requester, portfolioID int64) ([]model.AssetValuation, error) {
	details, err := s.GetPortfolio(ctx, requester, portfolioID)
	if err != nil {
		return nil, err
	}
	return details.Assets, nil
}

func (s *PortfolioService) GetAsset(ctx context.Context, requester model.Requester, assetID int64) (model.AssetValuation, error) {
	asset, err := s.accessibleAsset(ctx, requester, assetID)
	if err != nil {
		return model.AssetValuation{}, err
	}
	return ValueAsset(asset), nil
}

// AddAsset stores a manually entered asset. The current price is looked up best-effort.
func (s *PortfolioService) AddAsset(ctx context.Context, requester model.Requester, portfolioID int64, asset model.Asset) (model.AssetValuation, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.AddAsset"

	if _, err := s.accessiblePortfolio(ctx, requester, portfolioID); err != nil {
		return model.AssetValuation{}, err
	}

	asset.PortfolioID = portfolioID
	asset.Symbol = strings.ToUpper(strings.TrimSpace(asset.Symbol))
	if err := validateAsset(asset); err != nil {
		return model.AssetValuation{}, err
	}
	if asset.Name == "" {
		asset.Name = asset.Symbol + " Inc."
	}
	if asset.PurchaseDate.IsZero() {
		asset.PurchaseDate = s.today()
	}
	if price, ok := s.prices.GetPrice(ctx, asset.Symbol); ok {
		asset.CurrentPrice = decimal.NewNullDecimal(price)
	}

	created, err := s.repo.InsertAsset(ctx, asset)
	if err != nil {
		slog.Error("got error from repo.InsertAsset", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.AssetValuation{}, mapRepoErr(err)
	}

	return ValueAsset(created), nil
}

func (s *PortfolioService) UpdateAsset(ctx context.Context, requester model.Requester, assetID int64, upd model.AssetUpdate) (model.AssetValuation, error) {
	if upd.Empty() {
		return model.AssetValuation{}, service.ErrNoFieldsToUpdate
	}
	if upd.Symbol != nil {
		symbol := strings.ToUpper(strings.TrimSpace(*upd.Symbol))
		if symbol == "" {
			return model.AssetValuation{}, fmt.Errorf("%w: symbol can't be empty", service.ErrInvalidInput)
		}
		upd.Symbol = &symbol
	}
	if upd.Quantity != nil && !upd.Quantity.IsPositive() {
		return model.AssetValuation{}, fmt.Errorf("%w: quantity must be positive", service.ErrInvalidInput)
	}
	if upd.PurchasePrice != nil && upd.PurchasePrice.IsNegative() {
		return model.AssetValuation{}, fmt.Errorf("%w: purchase price can't be negative", service.ErrInvalidInput)
	}

	if _, err := s.accessibleAsset(ctx, requester, assetID); err != nil {
		return model.AssetValuation{}, err
	}

	asset, err := s.repo.UpdateAsset(ctx, assetID, upd)
	if err != nil {
		return model.AssetValuation{}, mapRepoErr(err)
	}

	return ValueAsset(asset), nil
}

func (s *PortfolioService) DeleteAsset(ctx context.Context, requester model.Requester, assetID int64) error {
	if _, err := s.accessibleAsset(ctx, requester, assetID); err != nil {
		return err
	}
	return mapRepoErr(s.repo.DeleteAsset(ctx, assetID))
}

// ImportCandidates turns parsed candidates into assets of the portfolio in a single transaction.
// Prices are fetched before the transaction; a candidate without a recovered price takes the live one.
func (s *PortfolioService) ImportCandidates(ctx context.Context, requester model.Requester, portfolioID int64, candidates []model.Candidate) ([]model.AssetValuation, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.ImportCandidates"

	slog.Debug("ImportCandidates start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID), slog.Int("candidates", len(candidates)))

	if _, err := s.accessiblePortfolio(ctx, requester, portfolioID); err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return []model.AssetValuation{}, nil
	}

	symbols := make([]string, 0, len(candidates))
	for _, c := range candidates {
		symbols = append(symbols, c.Symbol)
	}
	prices := s.prices.GetPrices(ctx, symbols)

	imported := make([]model.AssetValuation, 0, len(candidates))
	err := s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, c := range candidates {
			asset := model.Asset{
				PortfolioID:   portfolioID,
				Symbol:        c.Symbol,
				Name:          c.Name,
				Quantity:      c.Quantity,
				PurchasePrice: c.PurchasePrice,
				PurchaseDate:  s.today(),
				Notes:         "imported from statement",
			}
			if price, ok := prices[c.Symbol]; ok {
				asset.CurrentPrice = decimal.NewNullDecimal(price)
				if asset.PurchasePrice.IsZero() {
					asset.PurchasePrice = price
				}
			}

			created, err := s.repo.InsertAsset(ctx, asset)
			if err != nil {
				return err
			}
			imported = append(imported, ValueAsset(created))
		}
		return nil
	})
	if err != nil {
		slog.Error("import transaction failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, mapRepoErr(err)
	}

	service.LogActivity(ctx, s.repo, requester.UserID, model.ActionImportAssets, map[string]any{
		"portfolioId": portfolioID,
		"assets":      len(imported),
	})

	slog.Info("candidates imported", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID), slog.Int("assets", len(imported)))

	return imported, nil
}

// RefreshPrices updates current prices of every asset in the portfolio. A failed lookup marks only its asset.
func (s *PortfolioService) RefreshPrices(ctx context.Context, requester model.Requester, portfolioID int64) ([]model.PriceUpdateResult, error) {
	if _, err := s.accessiblePortfolio(ctx, requester, portfolioID); err != nil {
		return nil, err
	}

	assets, err := s.repo.GetAssetsByPortfolioID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	results := s.refresh(ctx, assets)

	updated := 0
	for _, r := range results {
		if r.Success {
			updated++
		}
	}
	service.LogActivity(ctx, s.repo, requester.UserID, model.ActionRefreshPrices, map[string]any{
		"portfolioId": portfolioID,
		"updated":     updated,
		"failed":      len(results) - updated,
	})

	return results, nil
}

// RefreshAllPrices updates every stored asset; it is run by the scheduler.
func (s *PortfolioService) RefreshAllPrices(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.RefreshAllPrices"

	assets, err := s.repo.GetAllAssets(ctx)
	if err != nil {
		return err
	}

	results := s.refresh(ctx, assets)

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}

	slog.Info("prices refreshed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("assets", len(results)), slog.Int("failed", failed))

	return nil
}

func (s *PortfolioService) refresh(ctx context.Context, assets []model.Asset) []model.PriceUpdateResult {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.refresh"

	symbols := make([]string, 0, len(assets))
	for _, a := range assets {
		symbols = append(symbols, a.Symbol)
	}
	prices := s.prices.GetPrices(ctx, symbols)
	now := s.now()

	results := make([]model.PriceUpdateResult, 0, len(assets))
	for _, a := range assets {
		result := model.PriceUpdateResult{AssetID: a.ID, Symbol: a.Symbol}

		price, ok := prices[a.Symbol]
		if !ok {
			result.Error = "price unavailable"
			results = append(results, result)
			continue
		}

		err := s.repo.UpdateAssetCurrentPrice(ctx, a.ID, price)
		if err == nil {
			err = s.repo.InsertAssetPrice(ctx, model.PricePoint{AssetID: a.ID, Symbol: a.Symbol, Price: price, RecordedAt: now})
		}
		if err != nil {
			slog.Error("can't save refreshed price", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("assetID", a.ID), slog.String("err", err.Error()))
			result.Error = "can't save price"
			results = append(results, result)
			continue
		}

		result.Price = decimal.NewNullDecimal(price)
		result.Success = true
		results = append(results, result)
	}

	return results
}

func (s *PortfolioService) PriceHistory(ctx context.Context, requester model.Requester, assetID int64, days int) ([]model.PricePoint, error) {
	if _, err := s.accessibleAsset(ctx, requester, assetID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 30
	}
	return s.repo.GetAssetPriceHistory(ctx, assetID, s.now().AddDate(0, 0, -days))
}

func (s *PortfolioService) DashboardStats(ctx context.Context, requester model.Requester) (model.DashboardStats, error) {
	portfolios, err := s.repo.GetPortfoliosByUserID(ctx, requester.UserID)
	if err != nil {
		return model.DashboardStats{}, err
	}

	assets, err := s.repo.GetAssetsByUserID(ctx, requester.UserID)
	if err != nil {
		return model.DashboardStats{}, err
	}

	return dashboardStats(len(portfolios), assets), nil
}

// ExportPortfolios renders every portfolio of the requester into a spreadsheet.
func (s *PortfolioService) ExportPortfolios(ctx context.Context, requester model.Requester) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.ExportPortfolios"

	portfolios, err := s.repo.GetPortfoliosByUserID(ctx, requester.UserID)
	if err != nil {
		return nil, "", err
	}
	if len(portfolios) == 0 {
		return nil, "", service.ErrNotFound
	}

	assets, err := s.repo.GetAssetsByUserID(ctx, requester.UserID)
	if err != nil {
		return nil, "", err
	}

	byPortfolio := make(map[int64][]model.Asset, len(portfolios))
	for _, asset := range assets {
		byPortfolio[asset.PortfolioID] = append(byPortfolio[asset.PortfolioID], asset)
	}

	details := make([]model.PortfolioDetails, 0, len(portfolios))
	for _, p := range portfolios {
		details = append(details, Summarize(p, byPortfolio[p.ID]))
	}

	fileBytes, fileExtension, err = s.generator.Generate(ctx, details)
	if err != nil {
		slog.Error("can't generate report", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	return fileBytes, fileExtension, nil
}

func (s *PortfolioService) accessiblePortfolio(ctx context.Context, requester model.Requester, portfolioID int64) (model.Portfolio, error) {
	portfolio, err := s.repo.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return model.Portfolio{}, mapRepoErr(err)
	}
	if !requester.CanAccess(portfolio.UserID) {
		slog.Warn(
			"portfolio access denied",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.Int64("portfolioID", portfolioID),
			slog.Int64("userID", requester.UserID),
		)
		return model.Portfolio{}, service.ErrForbidden
	}
	return portfolio, nil
}

func (s *PortfolioService) accessibleAsset(ctx context.Context, requester model.Requester, assetID int64) (model.Asset, error) {
	asset, err := s.repo.GetAsset(ctx, assetID)
	if err != nil {
		return model.Asset{}, mapRepoErr(err)
	}
	if _, err = s.accessiblePortfolio(ctx, requester, asset.PortfolioID); err != nil {
		return model.Asset{}, err
	}
	return asset, nil
}

func (s *PortfolioService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateAsset(asset model.Asset) error {
	switch {
	case asset.Symbol == "":
		return fmt.Errorf("%w: symbol is required", service.ErrInvalidInput)
	case !asset.Quantity.IsPositive():
		return fmt.Errorf("%w: quantity must be positive", service.ErrInvalidInput)
	case asset.PurchasePrice.IsNegative():
		return fmt.Errorf("%w: purchase price can't be negative", service.ErrInvalidInput)
	}
	return nil
}

func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return service.ErrNotFound
	case errors.Is(err, repository.ErrAlreadyExists):
		return service.ErrAlreadyExists
	}
	return err
}
