package dbConverter

import (
	"database/sql"
	"encoding/json"

	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/model/dbModel"
)

func ConvertUser(dbUser dbModel.User) model.User {
	return model.User{
		ID:           dbUser.ID,
		Email:        dbUser.Email,
		PasswordHash: dbUser.PasswordHash,
		FirstName:    dbUser.FirstName,
		LastName:     dbUser.LastName,
		Role:         model.Role(dbUser.Role),
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
	}
}

func ConvertUserOverview(dbUser dbModel.UserOverview) model.UserOverview {
	return model.UserOverview{
		User:           ConvertUser(dbUser.User),
		PortfolioCount: dbUser.PortfolioCount,
		AssetCount:     dbUser.AssetCount,
	}
}

func ConvertPortfolio(dbPortfolio dbModel.Portfolio) model.Portfolio {
	return model.Portfolio{
		ID:          dbPortfolio.ID,
		UserID:      dbPortfolio.UserID,
		Name:        dbPortfolio.Name,
		Description: dbPortfolio.Description.String,
		CreatedAt:   dbPortfolio.CreatedAt,
		UpdatedAt:   dbPortfolio.UpdatedAt,
	}
}

func ConvertAsset(dbAsset dbModel.Asset) model.Asset {
	return model.Asset{
		ID:            dbAsset.ID,
		PortfolioID:   dbAsset.PortfolioID,
		Symbol:        dbAsset.Symbol,
		ISIN:          dbAsset.ISIN.String,
		Name:          dbAsset.Name.String,
		Quantity:      dbAsset.Quantity,
		PurchasePrice: dbAsset.PurchasePrice,
		CurrentPrice:  dbAsset.CurrentPrice,
		PurchaseDate:  dbAsset.PurchaseDate,
		Notes:         dbAsset.Notes.String,
		CreatedAt:     dbAsset.CreatedAt,
		UpdatedAt:     dbAsset.UpdatedAt,
	}
}

func ConvertPricePoint(dbPrice dbModel.AssetPrice) model.PricePoint {
	return model.PricePoint{
		AssetID:    dbPrice.AssetID,
		Symbol:     dbPrice.Symbol,
		Price:      dbPrice.Price,
		RecordedAt: dbPrice.RecordedAt,
	}
}

// ConvertActivity decodes the JSONB details column; undecodable details are returned as nil.
func ConvertActivity(dbActivity dbModel.Activity) model.Activity {
	var details map[string]any
	if len(dbActivity.Details) > 0 {
		_ = json.Unmarshal(dbActivity.Details, &details)
	}

	return model.Activity{
		ID:        dbActivity.ID,
		UserID:    dbActivity.UserID,
		Action:    model.ActivityAction(dbActivity.Action),
		Details:   details,
		CreatedAt: dbActivity.CreatedAt,
	}
}

func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
