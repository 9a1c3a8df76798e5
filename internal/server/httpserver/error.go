package httpserver

import (
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"exusiai.dev/sprintsummary/internal/pkg/apperr"
	"exusiai.dev/sprintsummary/internal/pkg/middlewares"
)

// sentryHubKey is the fiber local the sentry middleware stores its hub under.
const sentryHubKey = "sentry-hub"

// sentryHub returns nil when the sentry middleware is not mounted.
func sentryHub(ctx *fiber.Ctx) *sentry.Hub {
	hub, _ := ctx.Locals(sentryHubKey).(*sentry.Hub)
	return hub
}

func handleCustomError(ctx *fiber.Ctx, e *apperr.AppError) error {
	log.Warn().
		Err(e).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Msg(e.Message)

	body := fiber.Map{
		"code":    e.ErrorCode,
		"message": e.Message,
	}

	// Add extra details if needed
	if e.Extras != nil && len(*e.Extras) > 0 {
		for k, v := range *e.Extras {
			body[k] = v
		}
	}

	return ctx.Status(e.StatusCode).JSON(body)
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return handleCustomError(ctx, appErr)
	}

	// Default 500 statuscode
	re := *apperr.ErrInternalError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		// a fiber.Error is the client's fault, such as an unmatched route
		re.StatusCode = fe.Code
		re.ErrorCode = "UNKNOWN_ERROR"
		re.Message = fe.Message
		return handleCustomError(ctx, &re)
	}

	log.Error().
		Stack().
		Err(err).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Int("status", re.StatusCode).
		Msg("Internal Server Error")

	if hub := sentryHub(ctx); hub != nil {
		hub.Scope().SetTag("status", strconv.Itoa(re.StatusCode))
		if u := middlewares.User(ctx); u != "" {
			hub.Scope().SetUser(sentry.User{
				ID: u,
			})
		}
		hub.CaptureException(err)
	}

	return handleCustomError(ctx, &re)
}
