package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func main() {
	// load values from .env into the system
	if err := godotenv.Load(); err != nil {
		log.Print("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  "cOrange",
		Usage: "OrangeHRM attendance punch clock",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runPunch(ctx)
		},
		Commands: []*cli.Command{
			{
				Name:  "punch",
				Usage: "Start the interactive punch clock",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runPunch(ctx)
				},
			},
			{
				Name:  "serve",
				Usage: "Serve the punch control API",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runServe(ctx)
				},
			},
			{
				Name:  "import",
				Usage: "Backfill attendance from an xlsx timesheet",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Required: true,
						Usage:    "Timesheet with punch in and punch out columns",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runImport(ctx, cmd.String("file"), os.Stdout)
				},
			},
			{
				Name:  "request",
				Usage: "Send an authenticated request to the OrangeHRM API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "method",
						Aliases: []string{"X"},
						Value:   "GET",
						Usage:   "HTTP method: GET, POST, PUT, PATCH or DELETE",
					},
					&cli.StringFlag{
						Name:     "path",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "API path, e.g. /api/employees",
					},
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "JSON request body",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runRequest(ctx, cmd.String("method"), cmd.String("path"), cmd.String("data"), os.Stdout)
				},
			},
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatalf("cOrange: %v", err)
	}
}
