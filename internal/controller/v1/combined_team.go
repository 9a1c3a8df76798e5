package v1

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/sprintsummary/internal/model/types"
	"exusiai.dev/sprintsummary/internal/pkg/apperr"
	"exusiai.dev/sprintsummary/internal/server/svr"
	"exusiai.dev/sprintsummary/internal/service"
	"exusiai.dev/sprintsummary/internal/util/rekuest"
)

type CombinedTeam struct {
	fx.In

	CombinedTeamService *service.CombinedTeam
}

func RegisterCombinedTeam(v1 *svr.V1, c CombinedTeam) {
	v1.Get("/combined-teams", c.GetCombinedTeams)
	v1.Post("/combined-teams", c.CreateCombinedTeam)
	v1.Put("/combined-teams/:id", requireID, c.UpdateCombinedTeam)
	v1.Delete("/combined-teams/:id", requireID, c.DeleteCombinedTeam)
}

func requireID(ctx *fiber.Ctx) error {
	if strings.TrimSpace(ctx.Params("id")) == "" {
		return apperr.ErrInvalidReq.Msg("invalid or missing id")
	}
	return ctx.Next()
}

func (c *CombinedTeam) GetCombinedTeams(ctx *fiber.Ctx) error {
	teams, err := c.CombinedTeamService.List(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(teams)
}

func (c *CombinedTeam) CreateCombinedTeam(ctx *fiber.Ctx) error {
	var request types.CombinedTeamRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	team, err := c.CombinedTeamService.Create(ctx.UserContext(), &request)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(team)
}

// @Summary  Replace a combined team
// @Description  The etag in the body must match the stored revision, otherwise 409 is returned.
// @Tags     CombinedTeam
// @Accept   json
// @Produce  json
// @Param    id      path string                    true "Combined team id"
// @Param    request body types.CombinedTeamRequest true "Combined team"
// @Success  200 {object} model.CombinedTeam
// @Failure  404 {object} apperr.AppError "Combined team not found"
// @Failure  409 {object} apperr.AppError "Combined team was modified since it was read"
// @Router   /v1/combined-teams/{id} [PUT]
func (c *CombinedTeam) UpdateCombinedTeam(ctx *fiber.Ctx) error {
	var request types.CombinedTeamRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	team, err := c.CombinedTeamService.Update(ctx.UserContext(), ctx.Params("id"), &request)
	if err != nil {
		return err
	}

	return ctx.JSON(team)
}

func (c *CombinedTeam) DeleteCombinedTeam(ctx *fiber.Ctx) error {
	if err := c.CombinedTeamService.Delete(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}
