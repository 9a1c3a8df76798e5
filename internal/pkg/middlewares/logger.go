package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"exusiai.dev/sprintsummary/internal/pkg/flog"
)

const HeaderRequestID = "X-Sprint-Request-ID"

func Logger(app *fiber.App) {
	Chained(
		app,
		flog.NewHandlerMiddleware(log.With().Logger()),
		flog.RequestIDHandler("request_id", HeaderRequestID),
		flog.FieldHandler("ip", flog.IP),
		flog.FieldHandler("method", flog.Method),
		flog.FieldHandler("url", flog.Path),
		flog.FieldHandler("user_agent", flog.UserAgent),
		requestLogger(),
	)
}

func requestLogger() fiber.Handler {
	return flog.AccessHandler(func(c *fiber.Ctx, duration time.Duration) {
		flog.FromFiberCtx(c).Info().
			Str("component", "httpreq").
			Int("status", c.Response().StatusCode()).
			Int("size", len(c.Response().Body())).
			Dur("duration", duration).
			Msg("received request")
	})
}
