package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/kyleking/supplier-api/internal/formatter"
	"github.com/kyleking/supplier-api/internal/storage"
)

func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:        "stats",
		Usage:       "Display database statistics",
		Description: `Show the number of rows in every table of the suppliers database.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}

			store, err := openStore(ctx, &cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer store.Close()

			return runStats(ctx, os.Stdout, store)
		},
	}
}

func runStats(ctx context.Context, w io.Writer, store *storage.Store) error {
	counts, err := store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get statistics: %w", err)
	}

	fmt.Fprintf(w, "Database Statistics\n")
	fmt.Fprintf(w, "===================\n\n")
	fmt.Fprintf(w, "Path: %s\n\n", store.Path())
	fmt.Fprintln(w, formatter.NewFormatter().FormatStats(counts))

	return nil
}
