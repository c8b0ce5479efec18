package httpConverter

import (
	"time"

	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserOverview struct {
	User
	PortfolioCount int `json:"portfolioCount"`
	AssetCount     int `json:"assetCount"`
}

type UserDetails struct {
	User
	Portfolios     []PortfolioSummary `json:"portfolios"`
	RecentActivity []Activity         `json:"recentActivity"`
}

type UsersPage struct {
	Users  []UserOverview `json:"users"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Portfolio struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PortfolioSummary struct {
	Portfolio
	AssetCount         int     `json:"assetCount"`
	TotalValue         float64 `json:"totalValue"`
	TotalInvested      float64 `json:"totalInvested"`
	TotalChange        float64 `json:"totalChange"`
	TotalChangePercent float64 `json:"totalChangePercent"`
}

type PortfolioDetails struct {
	PortfolioSummary
	Assets []Asset `json:"assets"`
}

type Asset struct {
	ID                 int64    `json:"id"`
	PortfolioID        int64    `json:"portfolioId"`
	Symbol             string   `json:"symbol"`
	ISIN               string   `json:"isin,omitempty"`
	Name               string   `json:"name"`
	Quantity           float64  `json:"quantity"`
	PurchasePrice      float64  `json:"purchasePrice"`
	CurrentPrice       *float64 `json:"currentPrice"`
	PurchaseDate       string   `json:"purchaseDate"`
	Notes              string   `json:"notes,omitempty"`
	CurrentValue       float64  `json:"currentValue"`
	InvestedValue      float64  `json:"investedValue"`
	TotalChange        float64  `json:"totalChange"`
	PriceChangePercent float64  `json:"priceChangePercent"`
}

type Candidate struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	PurchasePrice float64 `json:"purchasePrice"`
}

type Detection struct {
	Assets     []Candidate `json:"assets"`
	Text       string      `json:"text"`
	Confidence float64     `json:"confidence"`
	ImageURL   string      `json:"imageUrl,omitempty"`
}

type TextExtraction struct {
	ISINs      []string  `json:"isins"`
	Quantities []float64 `json:"quantities"`
	Prices     []float64 `json:"prices"`
	Confidence float64   `json:"confidence"`
	Text       string    `json:"text"`
}

type Activity struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details"`
	CreatedAt time.Time      `json:"createdAt"`
}

type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Currency      string    `json:"currency"`
	Exchange      string    `json:"exchange"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previousClose"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type PriceUpdate struct {
	AssetID int64    `json:"assetId"`
	Symbol  string   `json:"symbol"`
	Price   *float64 `json:"price,omitempty"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
}

type PricePoint struct {
	Price      float64   `json:"price"`
	RecordedAt time.Time `json:"recordedAt"`
}

type DashboardStats struct {
	PortfolioCount     int     `json:"portfolioCount"`
	AssetCount         int     `json:"assetCount"`
	TotalValue         float64 `json:"totalValue"`
	TotalInvested      float64 `json:"totalInvested"`
	TotalChange        float64 `json:"totalChange"`
	TotalChangePercent float64 `json:"totalChangePercent"`
}

func ConvertUser(user model.User) User {
	return User{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

func ConvertUsersPage(users []model.UserOverview, total, limit, offset int) UsersPage {
	res := UsersPage{Users: make([]UserOverview, 0, len(users)), Total: total, Limit: limit, Offset: offset}
	for _, u := range users {
		res.Users = append(res.Users, UserOverview{
			User:           ConvertUser(u.User),
			PortfolioCount: u.PortfolioCount,
			AssetCount:     u.AssetCount,
		})
	}
	return res
}

func ConvertUserDetails(details model.UserDetails) UserDetails {
	return UserDetails{
		User:           ConvertUser(details.User),
		Portfolios:     ConvertPortfolioSummaries(details.Portfolios),
		RecentActivity: ConvertActivities(details.RecentActivity),
	}
}

func ConvertPortfolio(portfolio model.Portfolio) Portfolio {
	return Portfolio{
		ID:          portfolio.ID,
		UserID:      portfolio.UserID,
		Name:        portfolio.Name,
		Description: portfolio.Description,
		CreatedAt:   portfolio.CreatedAt,
		UpdatedAt:   portfolio.UpdatedAt,
	}
}

func ConvertPortfolioSummary(summary model.PortfolioSummary) PortfolioSummary {
	return PortfolioSummary{
		Portfolio:          ConvertPortfolio(summary.Portfolio),
		AssetCount:         summary.AssetCount,
		TotalValue:         summary.TotalValue.InexactFloat64(),
		TotalInvested:      summary.TotalInvested.InexactFloat64(),
		TotalChange:        summary.TotalChange.InexactFloat64(),
		TotalChangePercent: summary.TotalChangePercent.InexactFloat64(),
	}
}

func ConvertPortfolioSummaries(summaries []model.PortfolioSummary) []PortfolioSummary {
	res := make([]PortfolioSummary, 0, len(summaries))
	for _, s := range summaries {
		res = append(res, ConvertPortfolioSummary(s))
	}
	return res
}

func ConvertPortfolioDetails(details model.PortfolioDetails) PortfolioDetails {
	return PortfolioDetails{
		PortfolioSummary: ConvertPortfolioSummary(details.PortfolioSummary),
		Assets:           ConvertAssets(details.Assets),
	}
}

func ConvertAsset(asset model.AssetValuation) Asset {
	return Asset{
		ID:                 asset.ID,
		PortfolioID:        asset.PortfolioID,
		Symbol:             asset.Symbol,
		ISIN:               asset.ISIN,
		Name:               asset.Name,
		Quantity:           asset.Quantity.InexactFloat64(),
		PurchasePrice:      asset.PurchasePrice.InexactFloat64(),
		CurrentPrice:       nullFloat(asset.CurrentPrice),
		PurchaseDate:       asset.PurchaseDate.Format(dateLayout),
		Notes:              asset.Notes,
		CurrentValue:       asset.CurrentValue.InexactFloat64(),
		InvestedValue:      asset.InvestedValue.InexactFloat64(),
		TotalChange:        asset.TotalChange.InexactFloat64(),
		PriceChangePercent: asset.PriceChangePercent.InexactFloat64(),
	}
}

func ConvertAssets(assets []model.AssetValuation) []Asset {
	res := make([]Asset, 0, len(assets))
	for _, a := range assets {
		res = append(res, ConvertAsset(a))
	}
	return res
}

func ConvertCandidates(candidates []model.Candidate) []Candidate {
	res := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		res = append(res, Candidate{
			Symbol:        c.Symbol,
			Name:          c.Name,
			Quantity:      c.Quantity.InexactFloat64(),
			PurchasePrice: c.PurchasePrice.InexactFloat64(),
		})
	}
	return res
}

func ConvertDetection(detection model.Detection) Detection {
	return Detection{
		Assets:     ConvertCandidates(detection.Candidates),
		Text:       detection.Text,
		Confidence: detection.Source.Confidence(),
		ImageURL:   detection.ImageURL,
	}
}

func ConvertTextExtraction(extraction model.TextExtraction) TextExtraction {
	return TextExtraction{
		ISINs:      nonNil(extraction.ISINs),
		Quantities: floats(extraction.Quantities),
		Prices:     floats(extraction.Prices),
		Confidence: extraction.Confidence,
		Text:       extraction.Text,
	}
}

func ConvertActivities(activities []model.Activity) []Activity {
	res := make([]Activity, 0, len(activities))
	for _, a := range activities {
		res = append(res, Activity{
			ID:        a.ID,
			Action:    string(a.Action),
			Details:   a.Details,
			CreatedAt: a.CreatedAt,
		})
	}
	return res
}

func ConvertQuote(quote model.Quote) Quote {
	return Quote{
		Symbol:        quote.Symbol,
		Name:          quote.ShortName,
		Currency:      quote.Currency,
		Exchange:      quote.Exchange,
		Price:         quote.Price.InexactFloat64(),
		PreviousClose: quote.PreviousClose.InexactFloat64(),
		Change:        quote.Change.InexactFloat64(),
		ChangePercent: quote.ChangePercent.InexactFloat64(),
		UpdatedAt:     quote.UpdatedAt,
	}
}

func ConvertPriceUpdates(results []model.PriceUpdateResult) []PriceUpdate {
	res := make([]PriceUpdate, 0, len(results))
	for _, r := range results {
		res = append(res, PriceUpdate{
			AssetID: r.AssetID,
			Symbol:  r.Symbol,
			Price:   nullFloat(r.Price),
			Success: r.Success,
			Error:   r.Error,
		})
	}
	return res
}

func ConvertPriceHistory(points []model.PricePoint) []PricePoint {
	res := make([]PricePoint, 0, len(points))
	for _, p := range points {
		res = append(res, PricePoint{Price: p.Price.InexactFloat64(), RecordedAt: p.RecordedAt})
	}
	return res
}

func ConvertDashboardStats(stats model.DashboardStats) DashboardStats {
	return DashboardStats{
		PortfolioCount:     stats.PortfolioCount,
		AssetCount:         stats.AssetCount,
		TotalValue:         stats.TotalValue.InexactFloat64(),
		TotalInvested:      stats.TotalInvested.InexactFloat64(),
		TotalChange:        stats.TotalChange.InexactFloat64(),
		TotalChangePercent: stats.TotalChangePercent.InexactFloat64(),
	}
}

func nullFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}

func floats(values []decimal.Decimal) []float64 {
	res := make([]float64, 0, len(values))
	for _, v := range values {
		res = append(res, v.InexactFloat64())
	}
	return res
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
