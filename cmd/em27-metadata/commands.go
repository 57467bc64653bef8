package main

import (
	"em27-metadata/internal/config/components"
	"em27-metadata/internal/database/influx"
	"em27-metadata/internal/database/postgres"
	"em27-metadata/internal/database/postgres/repositories"
	"em27-metadata/internal/loader"
	"em27-metadata/internal/logger"
	"em27-metadata/internal/metadata"
	"em27-metadata/internal/services"
	"errors"
	"fmt"
	"github.com/urfave/cli/v2"
	"time"
)

var validateCommand = &cli.Command{
	Name:   "validate",
	Usage:  "loads the metadata and runs the integrity checks",
	Action: validate,
}

func validate(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	catalogs, err := loadCatalog(c.Context, cfg)
	if err != nil {
		var validationErr *metadata.ValidationError
		if errors.As(err, &validationErr) {
			for _, violation := range validationErr.Violations {
				_, _ = fmt.Fprintln(c.App.ErrWriter, violation.String())
			}
			return cli.Exit(fmt.Sprintf("metadata is invalid: %d violation(s)", len(validationErr.Violations)), 2)
		}
		return err
	}

	catalog, err := catalogs.Current()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "metadata is valid: %d locations, %d sensors, %d campaigns\n",
		len(catalog.Locations()), len(catalog.Sensors()), len(catalog.Campaigns()))
	return err
}

var rangeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "from",
		Usage:    "start of the window, e.g. 2020-08-24T00:00:00+00:00",
		Required: true,
	},
	&cli.StringFlag{
		Name:     "to",
		Usage:    "end of the window (inclusive)",
		Required: true,
	},
}

func parseRange(c *cli.Context) (time.Time, time.Time, error) {
	from, err := loader.ParseTimestamp(c.String("from"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--from: %w", err)
	}
	to, err := loader.ParseTimestamp(c.String("to"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--to: %w", err)
	}
	return from, to, nil
}

var queryCommand = &cli.Command{
	Name:      "query",
	Usage:     "prints the contexts of a sensor within a window",
	ArgsUsage: "--sensor <sensor_id> --from <timestamp> --to <timestamp>",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:     "sensor",
			Usage:    "the sensor id",
			Required: true,
		},
	}, rangeFlags...),
	Action: query,
}

func query(c *cli.Context) error {
	from, to, err := parseRange(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalogs, err := loadCatalog(c.Context, cfg)
	if err != nil {
		return err
	}

	contextService := services.NewContextService(catalogs, cfg.Service.MaxConcurrentQueries,
		cfg.Service.QueryTimeout, logger.GetLogger("context-service"))
	contexts, err := contextService.Query(c.Context, c.String("sensor"), from, to)
	if err != nil {
		return err
	}
	return jsonOutput(c, contexts)
}

var explodeCommand = &cli.Command{
	Name:      "explode",
	Usage:     "prints the context covering each timestamp, or null",
	ArgsUsage: "--sensor <sensor_id> --at <timestamp> [--at <timestamp> ...]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "sensor",
			Usage:    "the sensor id",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:     "at",
			Usage:    "a timestamp to look up, can be repeated",
			Required: true,
		},
	},
	Action: explode,
}

func explode(c *cli.Context) error {
	timestamps := make([]time.Time, 0, len(c.StringSlice("at")))
	for _, raw := range c.StringSlice("at") {
		ts, err := loader.ParseTimestamp(raw)
		if err != nil {
			return fmt.Errorf("--at: %w", err)
		}
		timestamps = append(timestamps, ts)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalogs, err := loadCatalog(c.Context, cfg)
	if err != nil {
		return err
	}

	contextService := services.NewContextService(catalogs, cfg.Service.MaxConcurrentQueries,
		cfg.Service.QueryTimeout, logger.GetLogger("context-service"))
	exploded, err := contextService.Explode(c.Context, c.String("sensor"), timestamps)
	if err != nil {
		return err
	}
	return jsonOutput(c, exploded)
}

var exportCommand = &cli.Command{
	Name:  "export",
	Usage: "writes the contexts within a window to InfluxDB",
	Flags: append([]cli.Flag{
		&cli.StringSliceFlag{
			Name:  "sensor",
			Usage: "a sensor id to export, can be repeated; all sensors when omitted",
		},
	}, rangeFlags...),
	Action: export,
}

func export(c *cli.Context) error {
	from, to, err := parseRange(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalogs, err := loadCatalog(c.Context, cfg)
	if err != nil {
		return err
	}

	influxDB, err := influx.NewConnection(cfg.Influx)
	if err != nil {
		return fmt.Errorf("could not connect to InfluxDB: %w", err)
	}
	defer influxDB.Close()

	writer := influx.NewContextWriter(influxDB.GetWriteAPI(), influxDB.BatchSize(), logger.GetLogger("context-writer"))
	exportService := services.NewExportService(catalogs, writer, logger.GetLogger("export-service"))

	total, err := exportService.Export(c.Context, c.StringSlice("sensor"), from, to)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "exported %d contexts to bucket %s\n", total, cfg.Influx.Bucket)
	return err
}

var importCommand = &cli.Command{
	Name:   "import",
	Usage:  "replaces the metadata stored in PostgreSQL with the content of the configured source",
	Action: importMetadata,
}

func importMetadata(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Source.Kind == components.SourcePostgres {
		return cli.Exit("import needs a local or github source", 2)
	}

	options, err := cfg.Service.CatalogOptions()
	if err != nil {
		return err
	}
	source, closeSource, err := newSource(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	db, err := postgres.NewConnection(cfg.Postgres)
	if err != nil {
		return fmt.Errorf("could not connect to PostgreSQL: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	importService := services.NewImportService(source, repositories.NewMetadataRepository(db.GetDB()),
		options, logger.GetLogger("import-service"))
	data, err := importService.Import(c.Context)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.App.Writer, "imported %d locations, %d sensors, %d campaigns\n",
		len(data.Locations), len(data.Sensors), len(data.Campaigns))
	return err
}

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "answers context queries over MQTT until interrupted",
	Action: func(c *cli.Context) error {
		app := &Application{}
		if err := app.initialize(c.Context); err != nil {
			app.shutdown()
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		return app.run()
	},
}
