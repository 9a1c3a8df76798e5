package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/sprintsummary/internal/model"
	"exusiai.dev/sprintsummary/internal/pkg/middlewares"
	"exusiai.dev/sprintsummary/internal/server/svr"
	"exusiai.dev/sprintsummary/internal/service"
	"exusiai.dev/sprintsummary/internal/util/rekuest"
)

type Setting struct {
	fx.In

	SettingService *service.Setting
}

func RegisterSetting(v1 *svr.V1, c Setting) {
	v1.Get("/settings", c.GetSettings)
	v1.Put("/settings", c.PutSettings)
}

func (c *Setting) GetSettings(ctx *fiber.Ctx) error {
	settings, err := c.SettingService.Get(ctx.UserContext(), middlewares.UserScope(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(settings)
}

// @Summary  Save the table options of the current user
// @Tags     Setting
// @Accept   json
// @Produce  json
// @Param    settings body model.UserSettings true "Table options"
// @Success  200 {object} model.UserSettings
// @Failure  400 {object} apperr.AppError "Invalid settings"
// @Router   /v1/settings [PUT]
func (c *Setting) PutSettings(ctx *fiber.Ctx) error {
	var request model.UserSettings
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	if err := c.SettingService.Save(ctx.UserContext(), middlewares.UserScope(ctx), &request); err != nil {
		return err
	}

	return ctx.JSON(request)
}
