package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sebastiangueler-commits/cARTE/config"
	"github.com/sebastiangueler-commits/cARTE/internal/transport/rest/middleware"
)

// multipart boundaries and text fields on top of the image itself
const multipartOverhead = 1 << 20

type Server struct {
	app  *fiber.App
	ctrl *Controller
	port int
}

func New(cfg *config.Config, ctrl *Controller) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "carte",
		BodyLimit:             cfg.HTTP.BodyLimitBytes + multipartOverhead,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(
		recover.New(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		cors.New(cors.Config{
			AllowOrigins: strings.Join(cfg.HTTP.CorsOrigins, ","),
			AllowMethods: "GET,POST,PUT,DELETE",
			AllowHeaders: "Content-Type,Authorization," + middleware.RequestIDHeader,
		}),
	)

	s := &Server{app: app, ctrl: ctrl, port: cfg.HTTP.Port}
	s.setupRoutes()

	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start() {
	go func() {
		if err := s.app.Listen(fmt.Sprintf(":%d", s.port)); err != nil {
			slog.Error("http server stopped with error", slog.String("err", err.Error()))
		}
	}()
	slog.Info("http server started", slog.Int("port", s.port))
}

func (s *Server) Stop(ctx context.Context) {
	slog.Info("start stopping http server")
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		slog.Error("http server shutdown failed", slog.String("err", err.Error()))
		return
	}
	slog.Info("http server stopped")
}

func (s *Server) setupRoutes() {
	ctrl := s.ctrl
	jwt := middleware.JWT(ctrl.auth)

	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api")
	api.Get("/health", ctrl.Health)

	auth := api.Group("/auth")
	auth.Post("/register", ctrl.Register)
	auth.Post("/login", ctrl.Login)
	auth.Get("/me", jwt, ctrl.Me)

	portfolios := api.Group("/portfolios", jwt)
	portfolios.Get("/", ctrl.ListPortfolios)
	portfolios.Post("/", ctrl.CreatePortfolio)
	// до /:id
	portfolios.Get("/export", ctrl.ExportPortfolios)
	portfolios.Get("/:id", ctrl.GetPortfolio)
	portfolios.Put("/:id", ctrl.UpdatePortfolio)
	portfolios.Delete("/:id", ctrl.DeletePortfolio)
	portfolios.Post("/:id/import", ctrl.ImportPortfolio)
	portfolios.Get("/:id/assets", ctrl.ListAssets)
	portfolios.Post("/:id/assets", ctrl.AddAsset)

	assets := api.Group("/assets", jwt)
	assets.Get("/:id", ctrl.GetAsset)
	assets.Put("/:id", ctrl.UpdateAsset)
	assets.Delete("/:id", ctrl.DeleteAsset)

	ocr := api.Group("/ocr", jwt)
	ocr.Post("/process", ctrl.ProcessImage)
	ocr.Post("/process-text", ctrl.ProcessText)
	ocr.Post("/detect-assets", ctrl.DetectAssets)
	ocr.Get("/history", ctrl.History)

	financial := api.Group("/financial", jwt)
	financial.Get("/quote/:symbol", ctrl.GetQuote)
	financial.Post("/update-prices/:portfolioId", ctrl.UpdatePrices)
	financial.Get("/price-history/:assetId", ctrl.PriceHistory)

	api.Get("/stats", jwt, ctrl.DashboardStats)

	admin := api.Group("/admin", jwt, middleware.AdminOnly())
	admin.Get("/users", ctrl.ListUsers)
	admin.Get("/users/:id", ctrl.GetUser)
	admin.Put("/users/:id/role", ctrl.UpdateUserRole)
	admin.Delete("/users/:id", ctrl.DeleteUser)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Failed to process your request!"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		slog.Error("unhandled error", slog.String("path", c.Path()), slog.String("err", err.Error()))
	}

	return middleware.JsonResponse(c, code, false, message, nil)
}
