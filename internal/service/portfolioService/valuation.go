package portfolioService

import (
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ValueAsset computes the asset's worth. Without a current price the purchase price stands in
// and the change is zero.
func ValueAsset(asset model.Asset) model.AssetValuation {
	v := model.AssetValuation{
		Asset:         asset,
		InvestedValue: asset.Quantity.Mul(asset.PurchasePrice),
	}

	if !asset.CurrentPrice.Valid {
		v.CurrentValue = v.InvestedValue
		return v
	}

	current := asset.CurrentPrice.Decimal
	v.CurrentValue = asset.Quantity.Mul(current)
	v.TotalChange = current.Sub(asset.PurchasePrice).Mul(asset.Quantity)
	if !asset.PurchasePrice.IsZero() {
		v.PriceChangePercent = current.Sub(asset.PurchasePrice).Div(asset.PurchasePrice).Mul(hundred).Round(2)
	}

	return v
}

func Summarize(portfolio model.Portfolio, assets []model.Asset) model.PortfolioDetails {
	details := model.PortfolioDetails{
		PortfolioSummary: model.PortfolioSummary{Portfolio: portfolio, AssetCount: len(assets)},
		Assets:           make([]model.AssetValuation, 0, len(assets)),
	}

	for _, asset := range assets {
		v := ValueAsset(asset)
		details.Assets = append(details.Assets, v)
		details.TotalValue = details.TotalValue.Add(v.CurrentValue)
		details.TotalInvested = details.TotalInvested.Add(v.InvestedValue)
		details.TotalChange = details.TotalChange.Add(v.TotalChange)
	}
	details.TotalChangePercent = percentOf(details.TotalChange, details.TotalInvested)

	return details
}

func dashboardStats(portfolioCount int, assets []model.Asset) model.DashboardStats {
	stats := model.DashboardStats{PortfolioCount: portfolioCount, AssetCount: len(assets)}
	for _, asset := range assets {
		v := ValueAsset(asset)
		stats.TotalValue = stats.TotalValue.Add(v.CurrentValue)
		stats.TotalInvested = stats.TotalInvested.Add(v.InvestedValue)
		stats.TotalChange = stats.TotalChange.Add(v.TotalChange)
	}
	stats.TotalChangePercent = percentOf(stats.TotalChange, stats.TotalInvested)
	return stats
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}
