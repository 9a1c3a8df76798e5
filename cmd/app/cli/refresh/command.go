package refresh

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "exusiai.dev/sprintsummary/cmd/app/cli"
	"exusiai.dev/sprintsummary/internal/model"
	"exusiai.dev/sprintsummary/internal/model/types"
	"exusiai.dev/sprintsummary/internal/service"
)

type CommandDeps struct {
	fx.In

	RefreshService *service.Refresh
}

func Command() *cli.Command {
	depsFn := cliapp.DepsFn[CommandDeps]()
	return &cli.Command{
		Name:        "refresh",
		Usage:       "run one refresh synchronously",
		Description: "gather every sprint of the selected projects of a user from the work tracker and replace the stored summaries",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user",
				Usage:    "user whose summaries are refreshed",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "project",
				Usage: "project to gather; defaults to the selected projects of the user",
			},
		},
		Action: func(c *cli.Context) error {
			return run(c, depsFn())
		},
	}
}

func run(c *cli.Context, deps CommandDeps) error {
	task := &types.RefreshTask{
		TaskID:    "cli-" + strings.ToLower(ulid.Make().String()),
		Scope:     model.UserScope(c.String("user")),
		Projects:  c.StringSlice("project"),
		CreatedAt: time.Now().UnixMicro(),
	}

	ran, err := deps.RefreshService.Run(c.Context, task)
	if err != nil {
		return err
	}
	if !ran {
		return cli.Exit("a refresh of "+task.Scope+" is already running", 1)
	}

	status, _ := deps.RefreshService.Status(task.Scope)
	fmt.Fprintf(c.App.Writer, "refreshed %s: %d sprints, teams %s\n",
		task.Scope, status.Sprints, strings.Join(status.Teams, ", "))
	return nil
}
