package main

import (
	"context"
	"em27-metadata/internal/config"
	"em27-metadata/internal/config/components"
	"em27-metadata/internal/database/postgres"
	"em27-metadata/internal/database/postgres/repositories"
	"em27-metadata/internal/loader"
	"em27-metadata/internal/logger"
	"em27-metadata/internal/services"
	"fmt"
)

// newSource builds the configured metadata source. The returned close function releases the database
// connection of the postgres source.
func newSource(cfg *config.Config) (loader.Source, func(), error) {
	parser := loader.Parser{MinuteAligned: cfg.Source.MinuteAligned}

	switch cfg.Source.Kind {
	case components.SourceLocal:
		return &loader.LocalSource{
			LocationsPath: cfg.Source.LocationsPath,
			SensorsPath:   cfg.Source.SensorsPath,
			CampaignsPath: cfg.Source.CampaignsPath,
			Parser:        parser,
		}, func() {}, nil
	case components.SourceGitHub:
		return loader.NewGitHubSource(loader.GitHubOptions{
			Repository: cfg.Source.GitHubRepository,
			Branch:     cfg.Source.GitHubBranch,
			Token:      cfg.Source.GitHubToken,
			Timeout:    cfg.Source.RequestTimeout,
			RetryCount: cfg.Source.RetryCount,
		}, parser, logger.GetLogger("github-source")), func() {}, nil
	case components.SourcePostgres:
		db, err := postgres.NewConnection(cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to PostgreSQL: %w", err)
		}
		closeDB := func() {
			_ = db.Close()
		}
		return repositories.NewMetadataRepository(db.GetDB()), closeDB, nil
	default:
		return nil, nil, fmt.Errorf("unknown metadata source %q", cfg.Source.Kind)
	}
}

// loadCatalog builds a catalog service holding the catalog of the configured source.
func loadCatalog(ctx context.Context, cfg *config.Config) (*services.CatalogService, error) {
	options, err := cfg.Service.CatalogOptions()
	if err != nil {
		return nil, err
	}

	source, closeSource, err := newSource(cfg)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	catalogs := services.NewCatalogService(source, options, logger.GetLogger("catalog-service"))
	if err := catalogs.Reload(ctx); err != nil {
		return nil, err
	}
	return catalogs, nil
}
