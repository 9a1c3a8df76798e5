package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"exusiai.dev/sprintsummary/cmd/app/cli/refresh"
	"exusiai.dev/sprintsummary/cmd/app/cli/render"
	"exusiai.dev/sprintsummary/cmd/app/server"
	"exusiai.dev/sprintsummary/internal/pkg/bininfo"
)

func Run() {
	app := &cli.App{
		Name:        "sprintsummary",
		Description: "Sprint work item metrics gathered from a work tracker and rendered as pivot tables. Built with Go, fiber, bun and go.uber.org/fx. Uses NATS as MQ and Redis as state synchronization.",
		Version:     bininfo.Version,
		Commands: []*cli.Command{
			server.Command(),
			server.WorkerCommand(),
			refresh.Command(),
			render.Command(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run app")
	}
}
