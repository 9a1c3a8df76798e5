package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/sprintsummary/internal/core/pivot"
	"exusiai.dev/sprintsummary/internal/server/svr"
	"exusiai.dev/sprintsummary/internal/service"
)

type Project struct {
	fx.In

	ProjectService *service.Project
}

func RegisterProject(v1 *svr.V1, c Project) {
	v1.Get("/projects", c.GetProjects)
	v1.Get("/metrics", c.GetMetrics)
}

// @Summary  Get project names known to the work tracker
// @Tags     Project
// @Produce  json
// @Success  200 {array} string
// @Router   /v1/projects [GET]
func (c *Project) GetProjects(ctx *fiber.Ctx) error {
	names, err := c.ProjectService.Names(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(names)
}

func (c *Project) GetMetrics(ctx *fiber.Ctx) error {
	return ctx.JSON(pivot.MetricNames())
}
