package cmd

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/kyleking/supplier-api/internal/config"
	"github.com/kyleking/supplier-api/internal/errors"
	"github.com/kyleking/supplier-api/internal/logging"
	"github.com/kyleking/supplier-api/internal/routing"
	"github.com/kyleking/supplier-api/internal/server"
	"github.com/kyleking/supplier-api/internal/storage"
)

func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Usage:       "Serve the supplier API over HTTP",
		Description: `Listen on [ip] [port] (or --host/--port) and answer API requests until interrupted.`,
		ArgsUsage:   " [ip] [port]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "address to listen on",
			},
			&cli.StringFlag{
				Name:  "port",
				Usage: "port to listen on (1-65534)",
			},
			&cli.BoolFlag{
				Name:  "seed",
				Usage: "insert the sample dataset into an empty database",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			overrides, err := listenOverrides(cmd.Args().Slice(), cmd.String("host"), cmd.String("port"))
			if err != nil {
				return err
			}

			overrides["seed"] = cmd.Bool("seed")

			cfg, err := loadConfig(cmd, overrides)
			if err != nil {
				return err
			}

			return runServe(ctx, cfg)
		},
	}
}

// listenOverrides merges the positional [ip] [port] with the flags. Positional
// values win.
func listenOverrides(args []string, host, port string) (map[string]any, error) {
	if len(args) > 2 {
		return nil, errors.Newf(errors.ErrTypeConfig, "expected at most 2 arguments, got %d", len(args)).
			WithSuggestion("Usage: supplier-api serve [ip] [port]")
	}

	if len(args) > 0 {
		host = args[0]
	}

	if len(args) > 1 {
		port = args[1]
	}

	if port != "" {
		if _, err := config.ParsePort(port); err != nil {
			return nil, errors.Wrap(err, errors.ErrTypeConfig, "invalid port")
		}
	}

	return map[string]any{"host": host, "port": port}, nil
}

func runServe(ctx context.Context, cfg *config.Config) error {
	store, err := openStore(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := newServer(store, cfg)

	return srv.ListenAndServe(ctx)
}

// openStore opens the database and brings it to the state the configuration
// asks for.
func openStore(ctx context.Context, cfg *config.DatabaseConfig) (*storage.Store, error) {
	store, err := storage.NewStoreFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := store.Initialize(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	if cfg.Seed {
		if err := storage.SeedSampleData(ctx, store.DB()); err != nil {
			_ = store.Close()
			return nil, errors.Wrap(err, errors.ErrTypeQuery, "failed to seed sample data")
		}
	}

	return store, nil
}

func newServer(store *storage.Store, cfg *config.Config) *server.Server {
	logger := logging.GetLogger().WithField("database", store.Path())

	return server.New(store.DB(), routing.Default(), server.Options{
		Config:       cfg.Server,
		QueryTimeout: store.QueryTimeout(),
		Logger:       logger,
	})
}
