package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"exusiai.dev/sprintsummary/internal/pkg/flog"
)

const LocalsKeyRequestID = "requestId"

// RequestID copies the id assigned by the logger chain into ctx.Locals.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := flog.IDFromFiberCtx(c); ok {
			c.Locals(LocalsKeyRequestID, id.String())
		}
		return c.Next()
	}
}
