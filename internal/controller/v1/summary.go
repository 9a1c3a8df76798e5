package v1

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"exusiai.dev/sprintsummary/internal/model/types"
	"exusiai.dev/sprintsummary/internal/pkg/apperr"
	"exusiai.dev/sprintsummary/internal/pkg/fiberstore"
	"exusiai.dev/sprintsummary/internal/pkg/flog"
	"exusiai.dev/sprintsummary/internal/pkg/middlewares"
	"exusiai.dev/sprintsummary/internal/server/svr"
	"exusiai.dev/sprintsummary/internal/service"
	"exusiai.dev/sprintsummary/internal/util/rekuest"
)

type Summary struct {
	fx.In

	Redis                *redis.Client
	SprintSummaryService *service.SprintSummary
	RefreshService       *service.Refresh
}

func RegisterSummary(v1 *svr.V1, c Summary) {
	v1.Get("/summaries", c.GetSummaries)
	v1.Get("/summaries/refresh", c.GetRefreshStatus)
	v1.Post("/summaries/refresh", limiter.New(limiter.Config{
		KeyGenerator: middlewares.UserScope,
		LimitReached: func(ctx *fiber.Ctx) error {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"code":    "TOO_MANY_REQUESTS",
				"message": "A refresh reads every sprint of every selected project from the work tracker. Please wait before requesting another one.",
			})
		},
		Max:        6,
		Expiration: time.Minute,
		Storage:    fiberstore.NewRedis(c.Redis, "limiter#refresh"),
	}), c.RefreshSummaries)
}

func (c *Summary) GetSummaries(ctx *fiber.Ctx) error {
	summaries, err := c.SprintSummaryService.List(ctx.UserContext(), middlewares.UserScope(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(types.SummariesResponse{
		Summaries: summaries,
	})
}

// @Summary  Queue a refresh of the current user's summaries
// @Description  Projects in the body replace the selected projects of the user. An empty body refreshes the selected projects.
// @Tags     Summary
// @Accept   json
// @Produce  json
// @Param    request body types.RefreshRequest false "Projects to refresh"
// @Success  202 {object} types.RefreshEnqueuedResponse
// @Router   /v1/summaries/refresh [POST]
func (c *Summary) RefreshSummaries(ctx *fiber.Ctx) error {
	var request types.RefreshRequest
	if len(ctx.Body()) > 0 {
		if err := rekuest.ValidBody(ctx, &request); err != nil {
			return err
		}
	}

	scope := middlewares.UserScope(ctx)
	taskID, err := c.RefreshService.Enqueue(ctx.UserContext(), scope, request.Projects)
	if err != nil {
		return err
	}

	flog.InfoFrom(ctx).
		Str("evt.name", "refresh.enqueued").
		Str("taskId", taskID).
		Msg("refresh enqueued")

	return ctx.Status(fiber.StatusAccepted).JSON(types.RefreshEnqueuedResponse{
		TaskID: taskID,
	})
}

func (c *Summary) GetRefreshStatus(ctx *fiber.Ctx) error {
	status, ok := c.RefreshService.Status(middlewares.UserScope(ctx))
	if !ok {
		return apperr.ErrNotFound.Msg("no refresh has been run for this user by this instance")
	}

	return ctx.JSON(status)
}
