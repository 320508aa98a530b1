// Package main provides the automation engine server.
package main

import (
	"context"
	"os"
	"time"

	"github.com/arcadiahq/automation-engine/pkg/log"
	"github.com/arcadiahq/automation-engine/pkg/otelhelper"
	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9100

func main() {
	logger := log.WithModule("automation-engine")

	command := &cli.Command{
		Name:                  "automation-engine",
		Usage:                 "Run scheduled automations and event-triggered workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the management API on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Postgres connection URL for query steps (optional)",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.DurationFlag{
				Name:    "check-interval",
				Usage:   "How often the scheduler evaluates cron entries",
				Value:   30 * time.Second,
				Sources: cli.EnvVars("CHECK_INTERVAL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OTLP trace export",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			serviceID := "automation-engine-" + uuid.New().String()
			logger.InfoContext(ctx, "Initializing automation engine", "service_id", serviceID)

			if command.Bool("tracing") {
				if _, err := otelhelper.NewTracer(ctx, "automation-engine"); err != nil {
					logger.ErrorContext(ctx, "Failed to initialize tracer", "error", err)
				}
			}

			engine, err := NewEngine(ctx, logger, EngineConfig{
				DatabaseURL:   command.String("database-url"),
				CheckInterval: command.Duration("check-interval"),
			})
			if err != nil {
				return err
			}
			defer engine.Close()

			engine.Scheduler.Start()
			defer engine.Scheduler.Stop()

			return engine.Start(command.Int("port"))
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
