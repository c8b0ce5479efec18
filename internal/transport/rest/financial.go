package rest

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sebastiangueler-commits/cARTE/internal/converter/httpConverter"
	"github.com/sebastiangueler-commits/cARTE/internal/transport/rest/middleware"
)

const defaultHistoryDays = 30

func (ctrl *Controller) GetQuote(c *fiber.Ctx) error {
	quote, err := ctrl.prices.GetQuote(c.UserContext(), c.Params("symbol"))
	if err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", httpConverter.ConvertQuote(quote))
}

// UpdatePrices refreshes every asset of the portfolio; failed lookups are reported per asset.
func (ctrl *Controller) UpdatePrices(c *fiber.Ctx) error {
	portfolioID, ok := idParam(c, "portfolioId")
	if !ok {
		return invalidID(c)
	}

	results, err := ctrl.portfolios.RefreshPrices(c.UserContext(), requester(c), portfolioID)
	if err != nil {
		return errorResponse(c, err)
	}

	updated := 0
	for _, r := range results {
		if r.Success {
			updated++
		}
	}

	msg := fmt.Sprintf("%d of %d prices updated", updated, len(results))
	return middleware.JsonResponse(c, fiber.StatusOK, true, msg, httpConverter.ConvertPriceUpdates(results))
}

func (ctrl *Controller) PriceHistory(c *fiber.Ctx) error {
	assetID, ok := idParam(c, "assetId")
	if !ok {
		return invalidID(c)
	}

	days := c.QueryInt("days", defaultHistoryDays)
	if days <= 0 || days > 3650 {
		return middleware.ValidationErrorResponse(c, map[string]string{"days": "Must be between 1 and 3650!"})
	}

	points, err := ctrl.portfolios.PriceHistory(c.UserContext(), requester(c), assetID, days)
	if err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", httpConverter.ConvertPriceHistory(points))
}
