package cli

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"exusiai.dev/sprintsummary/internal/app"
	"exusiai.dev/sprintsummary/internal/app/appcontext"
)

func Start(module fx.Option) {
	if err := app.New(appcontext.Declare(appcontext.EnvCLI), module).Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to start app")
	}
}

// DepsFn lazily starts the app and populates T from its graph.
func DepsFn[T any]() func() T {
	return func() T {
		var deps T
		Start(fx.Populate(&deps))
		return deps
	}
}
