package main

import (
	"context"
	"log"
	"os"

	"github.com/rafflehub/backend/pkg/logger"
	"github.com/rafflehub/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func main() {
	server := &srv{ctx: context.Background()}

	app := &cli.App{
		Name:  "srv",
		Usage: "Rafflehub backend services",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "TOML file consulted for settings not present in the environment",
			},
		},
		Before: func(cctx *cli.Context) error {
			cfg, err := loadConfig(cctx.String("config"))
			if err != nil {
				return err
			}

			server.ctx = xcontext.WithConfigs(server.ctx, cfg)
			server.ctx = xcontext.WithLogger(server.ctx, logger.NewLogger(logLevel(cfg.Env)))
			return nil
		},
		Commands: []*cli.Command{
			{
				Action:      server.startApi,
				Name:        "api",
				Usage:       "Start service api",
				Description: "The main service including all public and admin apis.",
			},
			{
				Action:      server.startCron,
				Name:        "cron",
				Usage:       "Start cron jobs",
				Description: "Sweeps competition statuses and recalculates trending scores.",
			},
			{
				Action:      server.startSearchRPC,
				Name:        "search",
				Usage:       "Start service search indexer",
				Description: "Serves the full-text competition index over rpc.",
			},
			{
				Action:      server.startSubscriber,
				Name:        "subscriber",
				Usage:       "Start service subscriber",
				Description: "Consumes order events into the sale activity feed.",
			},
			{
				Action: server.startMigrate,
				Name:   "migrate",
				Usage:  "Migrate database to a schema version",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "version",
						Usage: "the schema version to migrate to",
						Value: "0000",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
