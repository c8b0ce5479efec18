package middleware

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sebastiangueler-commits/cARTE/internal/metrics"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/utils"
)

const (
	RequestIDHeader = "X-Request-ID"
	requesterKey    = "requester"
	bearerPrefix    = "Bearer "
)

type TokenParser interface {
	ParseToken(token string) (model.Requester, error)
}

// RequestLogger puts the request id into the user context and logs every request.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()

		ctx := utils.CtxWithRqID(c.UserContext(), c.Get(RequestIDHeader))
		rqID := utils.GetRequestIDFromCtx(ctx)
		c.SetUserContext(ctx)
		c.Locals("rqID", rqID)
		c.Set(RequestIDHeader, rqID)

		slog.Info(
			"start request",
			slog.String("rqID", rqID),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
		)

		err := c.Next()

		slog.Info(
			"request finished",
			slog.String("rqID", rqID),
			slog.Int("status", c.Response().StatusCode()),
			slog.String("request duration", fmt.Sprintf("%.3fs", time.Since(now).Seconds())),
		)

		return err
	}
}

func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		err := c.Next()

		route := c.Route().Path
		metrics.HTTPRequests.WithLabelValues(route, c.Method(), strconv.Itoa(c.Response().StatusCode())).Inc()
		metrics.HTTPDuration.WithLabelValues(route, c.Method()).Observe(time.Since(now).Seconds())

		return err
	}
}

// JWT checks the bearer token and stores the caller in Locals.
func JWT(parser TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Missing or invalid Authorization header", nil)
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid Authorization header format", nil)
		}

		requester, err := parser.ParseToken(strings.TrimSpace(authHeader[len(bearerPrefix):]))
		if err != nil {
			slog.Info(
				"token rejected",
				slog.String("rqID", utils.GetRequestIDFromCtx(c.UserContext())),
				slog.String("err", err.Error()),
			)
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
		}

		c.Locals(requesterKey, requester)
		return c.Next()
	}
}

// AdminOnly must run after JWT.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requester, ok := GetRequester(c)
		if !ok || !requester.IsAdmin() {
			return JsonResponse(c, fiber.StatusForbidden, false, "Admin access required", nil)
		}
		return c.Next()
	}
}

func GetRequester(c *fiber.Ctx) (model.Requester, bool) {
	requester, ok := c.Locals(requesterKey).(model.Requester)
	return requester, ok
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data any) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}
