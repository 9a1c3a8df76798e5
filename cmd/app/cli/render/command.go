package render

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"exusiai.dev/sprintsummary/internal/service"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:        "render",
		Usage:       "render a pivot table from a dataset file",
		Description: "aggregate, merge and render sprint records read from a YAML dataset, without touching any infrastructure",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "YAML dataset to render",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "text, pretty or html",
				Value:   service.FormatText,
			},
		},
		Action: func(c *cli.Context) error {
			b, err := os.ReadFile(c.Path("input"))
			if err != nil {
				return err
			}

			var dataset Dataset
			if err := yaml.Unmarshal(b, &dataset); err != nil {
				return errors.Wrap(err, "failed to decode dataset")
			}

			out, err := dataset.Render(c.String("format"))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(c.App.Writer, out)
			return err
		},
	}
}
