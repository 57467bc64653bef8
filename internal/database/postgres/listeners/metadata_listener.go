package listeners

import (
	"context"
	"em27-metadata/internal/interfaces"
	"em27-metadata/internal/mq"
	"fmt"
	"github.com/rs/zerolog"
)

// MetadataTables are the tables whose changes invalidate the loaded catalog.
var MetadataTables = []string{
	"locations",
	"sensors",
	"setup_records",
	"utc_offset_records",
	"pressure_data_source_records",
	"calibration_records",
	"campaigns",
}

type CatalogReloader interface {
	RequestReload()
}

// MetadataTableListener forwards changes of a metadata table to MQTT and schedules a catalog reload.
type MetadataTableListener struct {
	*BaseTableListener
	logger       zerolog.Logger
	publisher    interfaces.Publisher
	topicManager *mq.TopicManager
	reloader     CatalogReloader
}

func NewMetadataTableListener(
	tableName string,
	logger zerolog.Logger,
	publisher interfaces.Publisher,
	topicManager *mq.TopicManager,
	reloader CatalogReloader,
) *MetadataTableListener {
	return &MetadataTableListener{
		BaseTableListener: NewBaseTableListener(tableName),
		logger:            logger,
		publisher:         publisher,
		topicManager:      topicManager,
		reloader:          reloader,
	}
}

func (l *MetadataTableListener) HandleChange(ctx context.Context, event *interfaces.TableChangeEvent) error {
	l.logger.Info().
		Str("operation", string(event.Operation)).
		Str("table", event.Table).
		Time("timestamp", event.Timestamp).
		Msg("Metadata table change detected")

	var action string
	switch event.Operation {
	case interfaces.InsertOperation:
		action = "created"
	case interfaces.UpdateOperation:
		action = "updated"
	case interfaces.DeleteOperation:
		action = "deleted"
	default:
		return fmt.Errorf("unknown operation: %s", event.Operation)
	}

	l.reloader.RequestReload()

	if l.publisher == nil {
		return nil
	}
	topic := l.topicManager.GetEventTopic(event.Table, action)
	if err := l.publisher.PublishJSON(topic, map[string]interface{}{
		"event":     event.Table + "_" + action,
		"row":       event.Row(),
		"timestamp": event.Timestamp,
	}); err != nil {
		l.logger.Error().Err(err).
			Str("topic", topic).
			Msg("Failed to publish metadata change event")
	}

	return nil
}

var _ interfaces.ITableListener = (*MetadataTableListener)(nil)
