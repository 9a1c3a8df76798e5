package app

import (
	"context"
	"time"

	"go.uber.org/fx"

	"exusiai.dev/sprintsummary/internal/app/appconfig"
	"exusiai.dev/sprintsummary/internal/app/appcontext"
	"exusiai.dev/sprintsummary/internal/controller"
	"exusiai.dev/sprintsummary/internal/infra"
	"exusiai.dev/sprintsummary/internal/model/cache"
	"exusiai.dev/sprintsummary/internal/pkg/logger"
	"exusiai.dev/sprintsummary/internal/repo"
	"exusiai.dev/sprintsummary/internal/server"
	"exusiai.dev/sprintsummary/internal/service"
	"exusiai.dev/sprintsummary/internal/workers/refreshwkr"
	"exusiai.dev/sprintsummary/internal/workers/schedwkr"
)

func Options(ctx appcontext.Ctx, additionalOpts ...fx.Option) []fx.Option {
	conf, err := appconfig.Parse(ctx)
	if err != nil {
		panic(err)
	}

	// logger and configuration are the only two things that are not in the fx graph
	// because some other packages need them to be initialized before fx starts
	logger.Configure(conf)

	baseOpts := []fx.Option{
		// fx meta
		fx.WithLogger(logger.Fx),

		// Misc
		fx.Supply(conf),

		// Infrastructures
		infra.Module(),

		// Servers
		server.Module(),

		// Repositories
		repo.Module(),

		// Services
		service.Module(),

		// Global Singleton Inits: Keep those before controllers to ensure they are initialized
		// before controllers are registered as controllers are also fx#Invoke functions which
		// are called in the order of their registration.
		fx.Invoke(infra.SentryInit),
		fx.Invoke(cache.Initialize),
		fx.Invoke(createSchema),

		// Controllers
		controller.Module(),

		// Workers
		fx.Invoke(refreshwkr.Start),
		fx.Invoke(schedwkr.Start),

		// fx Extra Options
		fx.StartTimeout(15 * time.Second),
		// StopTimeout is not typically needed, since we're using fiber's Shutdown(),
		// in which fiber has its own IdleTimeout for controlling the shutdown timeout.
		// It acts as a countermeasure in case the fiber app is not properly shutting down.
		fx.StopTimeout(5 * time.Minute),
	}

	return append(baseOpts, additionalOpts...)
}

func New(ctx appcontext.Ctx, additionalOpts ...fx.Option) *fx.App {
	return fx.New(Options(ctx, additionalOpts...)...)
}

func createSchema(lc fx.Lifecycle, schema *repo.Schema) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return schema.Create(ctx)
		},
	})
}
