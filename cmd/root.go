package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/kyleking/supplier-api/internal/config"
	"github.com/kyleking/supplier-api/internal/errors"
	"github.com/kyleking/supplier-api/internal/logging"
)

// NewRootCommand builds the supplier-api command tree
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "supplier-api",
		Usage: "Serve the suppliers dataset as a JSON HTTP API",
		Description: `supplier-api answers read and insert requests against a SQLite suppliers
database. Every response is a JSON envelope carrying a status code, a success
flag and the result payload.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db-path",
				Usage: "path to the SQLite database",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text, json)",
			},
		},
		Commands: []*cli.Command{
			ServeCommand(),
			MigrateCommand(),
			RoutesCommand(),
			ConfigCommand(),
			StatsCommand(),
		},
	}
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCommand().Run(ctx, os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		for _, s := range errors.SuggestionsOf(err) {
			fmt.Fprintf(os.Stderr, "  %s\n", s)
		}
	}

	return err
}

// loadConfig resolves the configuration for cmd, applying the global flags
// and any command specific overrides, and installs the global logger.
func loadConfig(cmd *cli.Command, overrides map[string]any) (*config.Config, error) {
	flags := map[string]any{
		"db-path":    cmd.String("db-path"),
		"log-level":  cmd.String("log-level"),
		"log-format": cmd.String("log-format"),
	}
	for k, v := range overrides {
		flags[k] = v
	}

	cfg, err := config.LoadConfigWithOverrides(flags)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeConfig, "failed to load configuration").
			WithSuggestion("Check " + config.EnvPrefix + "* variables and " + config.GetConfigDir() + "/config.json")
	}

	if err := logging.InitializeLogger(cfg.Logging); err != nil {
		logging.SetupFallbackLogger()
		logging.ErrorWithErr("Failed to initialize logger, using fallback", err)
	}

	return cfg, nil
}
