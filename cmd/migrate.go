package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/kyleking/supplier-api/internal/errors"
	"github.com/kyleking/supplier-api/internal/formatter"
	"github.com/kyleking/supplier-api/internal/logging"
	"github.com/kyleking/supplier-api/internal/storage"
)

func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Usage:       "Apply or roll back database migrations",
		Description: `Apply pending migrations. With --down N, roll back to version N. With --status, list every migration and whether it is applied.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "down",
				Usage: "roll back to this version",
			},
			&cli.BoolFlag{
				Name:  "status",
				Usage: "print the migration status and exit",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}

			store, err := storage.NewStoreFromConfig(&cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			return runMigrate(ctx, os.Stdout, storage.NewMigrationManager(store.DB()), cmd.String("down"), cmd.Bool("status"))
		},
	}
}

func runMigrate(ctx context.Context, w io.Writer, m *storage.MigrationManager, down string, status bool) error {
	switch {
	case status:
		// fall through to the status listing
	case down != "":
		target, err := strconv.Atoi(down)
		if err != nil {
			return errors.Newf(errors.ErrTypeConfig, "--down expects a version number: %q", down)
		}

		if err := m.MigrateDown(ctx, target); err != nil {
			return err
		}
	default:
		if err := m.MigrateUp(ctx); err != nil {
			return err
		}
	}

	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	logging.WithField("version", current).Info("Database schema version")

	rows, err := m.GetMigrationStatus(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, formatter.NewFormatter().FormatMigrationStatus(rows))

	return nil
}
