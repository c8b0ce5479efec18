package rest

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sebastiangueler-commits/cARTE/internal/converter/httpConverter"
	"github.com/sebastiangueler-commits/cARTE/internal/transport/rest/middleware"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (ctrl *Controller) ListPortfolios(c *fiber.Ctx) error {
	portfolios, err := ctrl.portfolios.ListPortfolios(c.UserContext(), requester(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", httpConverter.ConvertPortfolioSummaries(portfolios))
}

func (ctrl *Controller) GetPortfolio(c *fiber.Ctx) error {
	portfolioID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	details, err := ctrl.portfolios.GetPortfolio(c.UserContext(), requester(c), portfolioID)
	if err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", httpConverter.ConvertPortfolioDetails(details))
}

func (ctrl *Controller) CreatePortfolio(c *fiber.Ctx) error {
	var reqData createPortfolioRequest
	if ok, err := bindJSON(c, &reqData); !ok {
		return err
	}

	portfolio, err := ctrl.portfolios.CreatePortfolio(c.UserContext(), requester(c), reqData.Name, reqData.Description)
	if err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Portfolio created successfully!", httpConverter.ConvertPortfolio(portfolio))
}

func (ctrl *Controller) UpdatePortfolio(c *fiber.Ctx) error {
	portfolioID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	var reqData updatePortfolioRequest
	if ok, err := bindJSON(c, &reqData); !ok {
		return err
	}

	portfolio, err := ctrl.portfolios.UpdatePortfolio(c.UserContext(), requester(c), portfolioID, reqData.toModel())
	if err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Portfolio updated successfully!", httpConverter.ConvertPortfolio(portfolio))
}

func (ctrl *Controller) DeletePortfolio(c *fiber.Ctx) error {
	portfolioID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	if err := ctrl.portfolios.DeletePortfolio(c.UserContext(), requester(c), portfolioID); err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Portfolio deleted successfully!", nil)
}

func (ctrl *Controller) ExportPortfolios(c *fiber.Ctx) error {
	fileBytes, fileExtension, err := ctrl.portfolios.ExportPortfolios(c.UserContext(), requester(c))
	if err != nil {
		return errorResponse(c, err)
	}

	c.Attachment(fmt.Sprintf("portfolios_%s%s", time.Now().UTC().Format("2006-01-02"), fileExtension))
	c.Set(fiber.HeaderContentType, xlsxMIME)
	return c.Status(fiber.StatusOK).Send(fileBytes)
}

// ImportPortfolio detects assets in a statement (multipart image or JSON text) and stores them in the portfolio.
func (ctrl *Controller) ImportPortfolio(c *fiber.Ctx) error {
	portfolioID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	detection, ok, err := ctrl.detectFromBody(c)
	if !ok {
		return err
	}

	imported, err := ctrl.portfolios.ImportCandidates(c.UserContext(), requester(c), portfolioID, detection.Candidates)
	if err != nil {
		return errorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, fmt.Sprintf("%d assets imported", len(imported)), fiber.Map{
		"detection": httpConverter.ConvertDetection(detection),
		"imported":  httpConverter.ConvertAssets(imported),
	})
}

func (ctrl *Controller) ListAssets(c *fiber.Ctx) error {
	portfolioID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	assets, err := ctrl.portfolios.ListAssets(c.UserContext(), requester(c), portfolioID)
	if err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", httpConverter.ConvertAssets(assets))
}

func (ctrl *Controller) GetAsset(c *fiber.Ctx) error {
	assetID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	asset, err := ctrl.portfolios.GetAsset(c.UserContext(), requester(c), assetID)
	if err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", httpConverter.ConvertAsset(asset))
}

func (ctrl *Controller) AddAsset(c *fiber.Ctx) error {
	portfolioID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	var reqData createAssetRequest
	if ok, err := bindJSON(c, &reqData); !ok {
		return err
	}

	asset, err := ctrl.portfolios.AddAsset(c.UserContext(), requester(c), portfolioID, reqData.toModel())
	if err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Asset added successfully!", httpConverter.ConvertAsset(asset))
}

func (ctrl *Controller) UpdateAsset(c *fiber.Ctx) error {
	assetID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	var reqData updateAssetRequest
	if ok, err := bindJSON(c, &reqData); !ok {
		return err
	}

	asset, err := ctrl.portfolios.UpdateAsset(c.UserContext(), requester(c), assetID, reqData.toModel())
	if err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Asset updated successfully!", httpConverter.ConvertAsset(asset))
}

func (ctrl *Controller) DeleteAsset(c *fiber.Ctx) error {
	assetID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	if err := ctrl.portfolios.DeleteAsset(c.UserContext(), requester(c), assetID); err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Asset deleted successfully!", nil)
}

func (ctrl *Controller) DashboardStats(c *fiber.Ctx) error {
	stats, err := ctrl.portfolios.DashboardStats(c.UserContext(), requester(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", httpConverter.ConvertDashboardStats(stats))
}
