package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/kyleking/supplier-api/internal/errors"
	"github.com/kyleking/supplier-api/internal/formatter"
	"github.com/kyleking/supplier-api/internal/routing"
)

func RoutesCommand() *cli.Command {
	return &cli.Command{
		Name:        "routes",
		Usage:       "List the API endpoints",
		Description: `Print the endpoint table the server routes requests with.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: "short",
				Usage: "output format (short, long)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return runRoutes(os.Stdout, cmd.String("format"))
		},
	}
}

func runRoutes(w io.Writer, format string) error {
	f, err := formatter.ParseFormat(format)
	if err != nil {
		return errors.Wrap(err, errors.ErrTypeConfig, "invalid --format")
	}

	fmt.Fprintln(w, formatter.NewFormatter().FormatEndpoints(routing.Endpoints(), f))

	return nil
}
