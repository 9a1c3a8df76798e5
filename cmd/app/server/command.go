package server

import "github.com/urfave/cli/v2"

func Command() *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "start server",
		Action: func(c *cli.Context) error {
			Run()
			return nil
		},
	}
}

func WorkerCommand() *cli.Command {
	return &cli.Command{
		Name:  "worker",
		Usage: "consume queued and scheduled refreshes without serving the API",
		Action: func(c *cli.Context) error {
			RunWorker()
			return nil
		},
	}
}
