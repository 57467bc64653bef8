package main

import (
	"context"
	"em27-metadata/internal/config"
	"em27-metadata/internal/logger"
	"encoding/json"
	"fmt"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"os"
	"os/signal"
	"syscall"
)

var (
	sourceKind string
	pretty     bool
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "em27-metadata"
	app.Usage = "resolve the metadata contexts of EM27/SUN sensors"
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "source",
			Usage:       "overrides METADATA_SOURCE (local, github or postgres)",
			Destination: &sourceKind,
		},
		&cli.BoolFlag{
			Name:        "pretty",
			Usage:       "indent JSON output",
			Destination: &pretty,
		},
	}
	app.Commands = []*cli.Command{
		validateCommand,
		queryCommand,
		explodeCommand,
		exportCommand,
		importCommand,
		serveCommand,
	}
	return app
}

func main() {
	app := newApp()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("Command failed")
		cancel()
		os.Exit(1)
	}
}

// loadConfig reads the configuration and sets up the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if sourceKind != "" {
		cfg.Source.Kind = sourceKind
		if err := cfg.Source.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	logger.NewLogger(cfg.Logger)
	return cfg, nil
}

func jsonOutput(c *cli.Context, in any) error {
	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(in, "", "  ")
	} else {
		out, err = json.Marshal(in)
	}
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(c.App.Writer, string(out))
	return err
}
