package main

import (
	"context"
	"em27-metadata/internal/config"
	"em27-metadata/internal/config/components"
	"em27-metadata/internal/database/postgres"
	"em27-metadata/internal/database/postgres/listeners"
	"em27-metadata/internal/database/postgres/repositories"
	"em27-metadata/internal/loader"
	"em27-metadata/internal/logger"
	"em27-metadata/internal/mq"
	"em27-metadata/internal/mq/handlers"
	"em27-metadata/internal/services"
	"fmt"
	"github.com/rs/zerolog/log"
	"time"
)

// Application runs the MQTT query service.
type Application struct {
	config *config.Config

	postgresDB      *postgres.PostgresDB
	listenerManager *listeners.ListenerManager
	source          loader.Source
	closeSource     func()

	catalogService *services.CatalogService
	contextService *services.ContextService

	mqttClient   *mq.Client
	topicManager *mq.TopicManager
	queryHandler *handlers.QueryHandler

	ctx        context.Context
	cancelFunc context.CancelFunc
}

func (app *Application) initialize(parent context.Context) error {
	var err error

	app.config, err = loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log.Info().
		Str("component", "main").
		Str("service", app.config.Service.Name).
		Str("version", app.config.Service.Version).
		Str("source", app.config.Source.Kind).
		Msg("Setting up service...")

	app.ctx, app.cancelFunc = context.WithCancel(parent)

	if err := app.initializeSource(); err != nil {
		return fmt.Errorf("error while initializing metadata source: %w", err)
	}

	if err := app.initializeServices(); err != nil {
		return fmt.Errorf("error while initializing services: %w", err)
	}

	if err := app.initializeMQTT(); err != nil {
		return fmt.Errorf("error while initializing MQTT: %w", err)
	}

	if err := app.setupTopicHandlers(); err != nil {
		return fmt.Errorf("error while setting up topic handlers: %w", err)
	}

	if err := app.setupTableListeners(); err != nil {
		return fmt.Errorf("error while setting up table listeners: %w", err)
	}

	log.Info().Msg("Successfully initialized application")
	return nil
}

func (app *Application) initializeSource() error {
	var err error
	if app.config.Source.Kind != components.SourcePostgres {
		app.source, app.closeSource, err = newSource(app.config)
		return err
	}

	app.postgresDB, err = postgres.NewConnection(app.config.Postgres)
	if err != nil {
		return fmt.Errorf("could not connect to PostgreSQL: %w", err)
	}
	app.source = repositories.NewMetadataRepository(app.postgresDB.GetDB())

	log.Info().
		Str("component", "main").
		Str("host", app.config.Postgres.Host).
		Msg("Successfully initialized database")
	return nil
}

func (app *Application) initializeServices() error {
	options, err := app.config.Service.CatalogOptions()
	if err != nil {
		return err
	}

	app.catalogService = services.NewCatalogService(app.source, options, logger.GetLogger("catalog-service"))

	loadCtx, cancel := context.WithTimeout(app.ctx, time.Minute)
	defer cancel()
	if err := app.catalogService.Reload(loadCtx); err != nil {
		return err
	}

	app.contextService = services.NewContextService(
		app.catalogService,
		app.config.Service.MaxConcurrentQueries,
		app.config.Service.QueryTimeout,
		logger.GetLogger("context-service"),
	)

	log.Info().
		Str("component", "main").
		Msg("Successfully initialized services")
	return nil
}

func (app *Application) initializeMQTT() error {
	var err error

	app.topicManager = mq.NewTopicManager(app.config.MQTT.BaseTopic, logger.GetLogger("topic-manager"))

	app.mqttClient, err = mq.NewClient(app.config.MQTT, logger.GetLogger("mq-client"))
	if err != nil {
		return fmt.Errorf("could not create MQTT client: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(app.ctx, 30*time.Second)
	defer cancel()

	if err := app.mqttClient.Connect(connectCtx); err != nil {
		return fmt.Errorf("could not connect to MQTT broker: %w", err)
	}

	log.Info().
		Str("component", "main").
		Str("broker", app.config.MQTT.GetUrl()).
		Msg("Successfully initialized MQTT client")

	return nil
}

func (app *Application) setupTopicHandlers() error {
	app.queryHandler = handlers.NewQueryHandler(
		app.contextService,
		app.mqttClient,
		app.topicManager,
		logger.GetLogger("query-handler"),
	)

	if err := app.mqttClient.Subscribe(app.queryHandler.Topic(), app.queryHandler.HandleMessage); err != nil {
		return fmt.Errorf("error subscribing to query topic: %w", err)
	}

	return nil
}

// setupTableListeners reloads the catalog on changes of the metadata tables. Only the postgres source has
// tables to listen on.
func (app *Application) setupTableListeners() error {
	if app.postgresDB == nil {
		return nil
	}

	app.listenerManager = listeners.NewListenerManager(
		app.postgresDB.GetDB(),
		app.config.Postgres.GetDsn(),
		logger.GetLogger("listener-manager"),
	)

	for _, table := range listeners.MetadataTables {
		listener := listeners.NewMetadataTableListener(
			table,
			logger.GetLogger("metadata-listener"),
			app.mqttClient,
			app.topicManager,
			app.catalogService,
		)
		if err := app.listenerManager.RegisterListener(listener); err != nil {
			return fmt.Errorf("failed to register %s listener: %w", table, err)
		}
	}

	if err := app.listenerManager.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize listener manager: %w", err)
	}

	app.listenerManager.Start()

	log.Info().Msg("All table listeners initialized and started")
	return nil
}

func (app *Application) run() error {
	<-app.ctx.Done()
	log.Info().Msg("Received shutdown signal, shutting down application")

	app.shutdown()
	return nil
}

func (app *Application) shutdown() {
	if app.listenerManager != nil {
		app.listenerManager.Stop()
	}

	if app.catalogService != nil {
		app.catalogService.Close()
	}

	if app.mqttClient != nil {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		app.mqttClient.Disconnect(disconnectCtx)
		cancel()
	}

	if app.closeSource != nil {
		app.closeSource()
	}

	if app.postgresDB != nil {
		if err := app.postgresDB.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing PostgreSQL connection")
		}
	}

	if app.cancelFunc != nil {
		app.cancelFunc()
	}
}
