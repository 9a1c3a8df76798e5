package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/sprintsummary/internal/pkg/middlewares"
	"exusiai.dev/sprintsummary/internal/server/svr"
	"exusiai.dev/sprintsummary/internal/service"
)

type Team struct {
	fx.In

	TeamService *service.Team
}

func RegisterTeam(v1 *svr.V1, c Team) {
	v1.Get("/teams", c.GetTeams)
}

// @Summary  Get teams available to the current user
// @Description  Teams found in the stored summaries of the user, followed by every combined team alias.
// @Tags     Team
// @Produce  json
// @Success  200 {array} string
// @Router   /v1/teams [GET]
func (c *Team) GetTeams(ctx *fiber.Ctx) error {
	teams, err := c.TeamService.Available(ctx.UserContext(), middlewares.UserScope(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(teams)
}
