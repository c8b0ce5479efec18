package rest

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/service"
	"github.com/sebastiangueler-commits/cARTE/internal/service/adminService"
	"github.com/sebastiangueler-commits/cARTE/internal/service/authService"
	"github.com/sebastiangueler-commits/cARTE/internal/transport/rest/middleware"
	"github.com/sebastiangueler-commits/cARTE/utils"
)

type AuthService interface {
	Register(ctx context.Context, in authService.RegisterInput) (string, model.User, error)
	Login(ctx context.Context, email, password string) (string, model.User, error)
	Me(ctx context.Context, userID int64) (model.User, error)
	ParseToken(token string) (model.Requester, error)
}

type PortfolioService interface {
	ListPortfolios(ctx context.Context, requester model.Requester) ([]model.PortfolioSummary, error)
	GetPortfolio(ctx context.Context, requester model.Requester, portfolioID int64) (model.PortfolioDetails, error)
	CreatePortfolio(ctx context.Context, requester model.Requester, name, description string) (model.Portfolio, error)
	UpdatePortfolio(ctx context.Context, requester model.Requester, portfolioID int64, upd model.PortfolioUpdate) (model.Portfolio, error)
	DeletePortfolio(ctx context.Context, requester model.Requester, portfolioID int64) error
	ListAssets(ctx context.Context, requester model.Requester, portfolioID int64) ([]model.AssetValuation, error)
	GetAsset(ctx context.Context, requester model.Requester, assetID int64) (model.AssetValuation, error)
	AddAsset(ctx context.Context, requester model.Requester, portfolioID int64, asset model.Asset) (model.AssetValuation, error)
	UpdateAsset(ctx context.Context, requester model.Requester, assetID int64, upd model.AssetUpdate) (model.AssetValuation, error)
	DeleteAsset(ctx context.Context, requester model.Requester, assetID int64) error
	ImportCandidates(ctx context.Context, requester model.Requester, portfolioID int64, candidates []model.Candidate) ([]model.AssetValuation, error)
	RefreshPrices(ctx context.Context, requester model.Requester, portfolioID int64) ([]model.PriceUpdateResult, error)
	PriceHistory(ctx context.Context, requester model.Requester, assetID int64, days int) ([]model.PricePoint, error)
	DashboardStats(ctx context.Context, requester model.Requester) (model.DashboardStats, error)
	ExportPortfolios(ctx context.Context, requester model.Requester) ([]byte, string, error)
}

type DetectionService interface {
	DetectFromText(ctx context.Context, userID int64, text string) model.Detection
	DetectFromImage(ctx context.Context, userID int64, image []byte, filename string) (model.Detection, error)
	ExtractFromText(ctx context.Context, userID int64, text string) model.TextExtraction
	ExtractFromImage(ctx context.Context, userID int64, image []byte, filename string) (model.TextExtraction, error)
	History(ctx context.Context, userID int64) ([]model.Activity, error)
}

type PriceService interface {
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
}

type AdminService interface {
	ListUsers(ctx context.Context, search string, limit, offset int) (adminService.UsersPage, error)
	GetUserDetails(ctx context.Context, userID int64) (model.UserDetails, error)
	UpdateUserRole(ctx context.Context, requester model.Requester, userID int64, role model.Role) (model.User, error)
	DeleteUser(ctx context.Context, requester model.Requester, userID int64) error
}

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

type Controller struct {
	auth       AuthService
	portfolios PortfolioService
	detection  DetectionService
	prices     PriceService
	admin      AdminService
	health     map[string]HealthCheck
}

func NewController(
	auth AuthService,
	portfolios PortfolioService,
	detection DetectionService,
	prices PriceService,
	admin AdminService,
	health map[string]HealthCheck,
) *Controller {
	return &Controller{
		auth:       auth,
		portfolios: portfolios,
		detection:  detection,
		prices:     prices,
		admin:      admin,
		health:     health,
	}
}

func (ctrl *Controller) Health(c *fiber.Ctx) error {
	ctx := c.UserContext()

	statuses := make(map[string]string, len(ctrl.health))
	healthy := true
	for name, check := range ctrl.health {
		if err := check(ctx); err != nil {
			slog.Error(
				"health check failed",
				slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
				slog.String("dependency", name),
				slog.String("err", err.Error()),
			)
			statuses[name] = "down"
			healthy = false
			continue
		}
		statuses[name] = "up"
	}

	if !healthy {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Service unavailable", statuses)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", statuses)
}

// requester is set by middleware.JWT for every protected route.
func requester(c *fiber.Ctx) model.Requester {
	r, _ := middleware.GetRequester(c)
	return r
}

func idParam(c *fiber.Ctx, name string) (int64, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}

func invalidID(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid id!", nil)
}

// errorResponse maps service errors to HTTP statuses.
func errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not found!", nil)
	case errors.Is(err, service.ErrForbidden):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	case errors.Is(err, service.ErrAlreadyExists):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already exists!", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	case errors.Is(err, service.ErrUnauthorized):
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	case errors.Is(err, service.ErrNoFieldsToUpdate):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No fields to update!", nil)
	case errors.Is(err, service.ErrSelfDelete):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You can't delete your own account!", nil)
	case errors.Is(err, service.ErrInvalidInput):
		msg := strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error()+": ")
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, msg, nil)
	case errors.Is(err, service.ErrPriceUnavailable):
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Price is temporarily unavailable!", nil)
	case errors.Is(err, service.ErrOCRDisabled):
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "OCR is not configured!", nil)
	}

	slog.Error(
		"request failed",
		slog.String("rqID", utils.GetRequestIDFromCtx(c.UserContext())),
		slog.String("path", c.Path()),
		slog.String("err", err.Error()),
	)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
}
