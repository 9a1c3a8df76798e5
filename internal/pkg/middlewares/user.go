package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"exusiai.dev/sprintsummary/internal/model"
	"exusiai.dev/sprintsummary/internal/pkg/flog"
)

const (
	HeaderUser      = "X-Sprint-User"
	LocalsKeyUser   = "sprintUser"
	maxUserNameSize = 128
)

// InjectUser resolves the acting user from HeaderUser, falling back to
// defaultUser, and stores it in ctx.Locals.
func InjectUser(defaultUser string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := strings.TrimSpace(c.Get(HeaderUser))
		if user == "" || len(user) > maxUserNameSize {
			user = defaultUser
		}
		c.Locals(LocalsKeyUser, user)
		flog.FromFiberCtx(c).UpdateContext(func(zc zerolog.Context) zerolog.Context {
			return zc.Str("user", user)
		})
		return c.Next()
	}
}

func User(c *fiber.Ctx) string {
	user, _ := c.Locals(LocalsKeyUser).(string)
	return user
}

// UserScope is the document scope of the acting user.
func UserScope(c *fiber.Ctx) string {
	return model.UserScope(User(c))
}
