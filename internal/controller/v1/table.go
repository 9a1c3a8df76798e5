package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/sprintsummary/internal/model/types"
	"exusiai.dev/sprintsummary/internal/pkg/middlewares"
	"exusiai.dev/sprintsummary/internal/server/svr"
	"exusiai.dev/sprintsummary/internal/service"
	"exusiai.dev/sprintsummary/internal/util/rekuest"
)

type Table struct {
	fx.In

	TableService *service.Table
}

func RegisterTable(v1 *svr.V1, c Table) {
	v1.Get("/table", c.GetTable)
}

// @Summary  Render the pivot table of the current user
// @Description  Renders the stored summaries with the saved settings of the user, after merging combined teams.
// @Tags     Table
// @Produce  plain,html
// @Param    format query string false "text (default), pretty or html"
// @Success  200 {string} string
// @Router   /v1/table [GET]
func (c *Table) GetTable(ctx *fiber.Ctx) error {
	var query types.TableQuery
	if err := rekuest.ValidQuery(ctx, &query); err != nil {
		return err
	}

	table, err := c.TableService.Render(ctx.UserContext(), middlewares.UserScope(ctx), query.Format)
	if err != nil {
		return err
	}

	if query.Format == service.FormatHTML {
		ctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	} else {
		ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	}
	return ctx.SendString(table)
}
