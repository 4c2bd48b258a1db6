package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/kyleking/supplier-api/internal/config"
	"github.com/kyleking/supplier-api/internal/errors"
)

func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:        "config",
		Usage:       "Display the active configuration",
		Description: `Show the current active configuration including all settings from file, environment variables, and command-line flags.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the configuration as JSON",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}

			return runConfig(os.Stdout, cfg, cmd.Bool("json"))
		},
	}
}

func runConfig(w io.Writer, cfg *config.Config, asJSON bool) error {
	if cfg == nil {
		return errors.NewConfigError("failed to load configuration", "")
	}

	if asJSON {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}

		fmt.Fprintln(w, string(data))

		return nil
	}

	fmt.Fprintln(w, "Active Configuration:")

	fmt.Fprintln(w, "\nServer:")
	fmt.Fprintf(w, "  Address: %s\n", cfg.Server.Address())
	fmt.Fprintf(w, "  Read Timeout: %s\n", cfg.Server.ReadTimeout)
	fmt.Fprintf(w, "  Write Timeout: %s\n", cfg.Server.WriteTimeout)
	fmt.Fprintf(w, "  Shutdown Timeout: %s\n", cfg.Server.ShutdownTimeout)
	fmt.Fprintf(w, "  Metrics: %t\n", cfg.Server.MetricsEnabled)

	fmt.Fprintln(w, "\nDatabase:")
	fmt.Fprintf(w, "  Path: %s\n", cfg.Database.Path)
	fmt.Fprintf(w, "  Max Connections: %d\n", cfg.Database.MaxConnections)
	fmt.Fprintf(w, "  Max Idle Connections: %d\n", cfg.Database.MaxIdleConns)
	fmt.Fprintf(w, "  Connection Lifetime: %s\n", cfg.Database.ConnMaxLifetime)
	fmt.Fprintf(w, "  Query Timeout: %s\n", cfg.Database.QueryTimeout)
	fmt.Fprintf(w, "  Auto Migrate: %t\n", cfg.Database.AutoMigrate)
	fmt.Fprintf(w, "  Seed: %t\n", cfg.Database.Seed)

	fmt.Fprintln(w, "\nLogging:")
	fmt.Fprintf(w, "  Level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(w, "  Format: %s\n", cfg.Logging.Format)
	fmt.Fprintf(w, "  Output: %s\n", cfg.Logging.Output)

	if cfg.Logging.Output == "file" {
		fmt.Fprintf(w, "  File: %s\n", cfg.Logging.File)
	}

	return nil
}
