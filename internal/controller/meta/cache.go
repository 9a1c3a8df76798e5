package meta

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/sprintsummary/internal/model/cache"
	"exusiai.dev/sprintsummary/internal/model/types"
	"exusiai.dev/sprintsummary/internal/server/svr"
	"exusiai.dev/sprintsummary/internal/util/rekuest"
)

type Cache struct {
	fx.In
}

func RegisterCache(meta *svr.Meta, c Cache) {
	meta.Post("/cache/purge", c.Purge)
}

// Purge drops every entry of a cache family, so that the next read goes to
// the document store or the work tracker again.
func (c *Cache) Purge(ctx *fiber.Ctx) error {
	var request types.PurgeCacheRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	var err error
	switch request.Name {
	case types.CacheTable:
		err = cache.TableByKey.Clear(ctx.UserContext(), "")
	case types.CacheSummaries:
		err = cache.SummariesByScope.Clear(ctx.UserContext(), "")
	case types.CacheCombinedTeams:
		err = cache.CombinedTeams.Clear(ctx.UserContext(), "")
	case types.CacheProjects:
		cache.ProjectNames.Delete()
	}
	if err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}
