package handlers

import (
	"context"
	"em27-metadata/internal/interfaces"
	"em27-metadata/internal/models"
	"em27-metadata/internal/mq"
	"em27-metadata/internal/mq/messages"
	"encoding/json"
	"errors"
	"fmt"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"time"
)

type ContextQuerier interface {
	Query(ctx context.Context, sensorID string, from, to time.Time) ([]models.SensorDataContext, error)
	Explode(ctx context.Context, sensorID string, timestamps []time.Time) ([]*models.SensorDataContext, error)
}

type QueryHandler struct {
	contextService ContextQuerier
	publisher      interfaces.Publisher
	topicManager   *mq.TopicManager
	logger         zerolog.Logger
	handlerTopic   string
	timeout        time.Duration
}

func NewQueryHandler(
	contextService ContextQuerier,
	publisher interfaces.Publisher,
	topicManager *mq.TopicManager,
	logger zerolog.Logger,
) *QueryHandler {
	return &QueryHandler{
		contextService: contextService,
		publisher:      publisher,
		topicManager:   topicManager,
		logger:         logger,
		handlerTopic:   topicManager.GetQueryTopic(),
		timeout:        30 * time.Second,
	}
}

func (h *QueryHandler) Topic() string {
	return h.handlerTopic
}

func (h *QueryHandler) TransformMessage(msg mqtt.Message) (string, *messages.QueryMessage, error) {
	if msg == nil {
		return "", nil, fmt.Errorf("received nil message: %w", ErrMessageIsNil)
	}
	if len(msg.Payload()) == 0 {
		return "", nil, ErrEmptyMessage
	}

	sensorID, err := h.topicManager.ExtractSensorID(msg.Topic())
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidTopic, err)
	}

	var queryMessage messages.QueryMessage
	if err := json.Unmarshal(msg.Payload(), &queryMessage); err != nil {
		return "", nil, fmt.Errorf("could not parse query: %w: %v", ErrInvalidMessage, err)
	}

	return sensorID, &queryMessage, nil
}

func (h *QueryHandler) HandleMessage(client mqtt.Client, msg mqtt.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.Process(ctx, msg); err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			return
		}

		h.logger.Error().Err(err).
			Str("topic", msg.Topic()).
			Str("message", string(msg.Payload())).
			Msg("Failed to handle query")
	}
}

// Process answers a single query. Resolution failures are reported to the requester in the reply.
func (h *QueryHandler) Process(ctx context.Context, msg mqtt.Message) error {
	sensorID, queryMessage, err := h.TransformMessage(msg)
	if err != nil {
		return err
	}

	if queryMessage.Source == mq.MessageSource {
		h.logger.Debug().
			Str("source", queryMessage.Source).
			Msg("Ignoring own message")
		return nil
	}

	reply := messages.ContextsMessage{
		RequestID: queryMessage.Data.RequestID,
		SensorID:  sensorID,
	}
	if reply.RequestID == "" {
		reply.RequestID = uuid.NewString()
	}

	if err := h.resolve(ctx, sensorID, &queryMessage.Data, &reply); err != nil {
		h.logger.Warn().Err(err).
			Str("sensor_id", sensorID).
			Str("request_id", reply.RequestID).
			Msg("Query could not be resolved")
		reply.Error = err.Error()
	}

	topic := h.topicManager.GetContextsTopic(sensorID)
	if err := h.publisher.PublishJSON(topic, reply); err != nil {
		return fmt.Errorf("failed to publish reply for request %s: %w", reply.RequestID, err)
	}

	h.logger.Debug().
		Str("sensor_id", sensorID).
		Str("request_id", reply.RequestID).
		Int("contexts", len(reply.Contexts)).
		Int("exploded", len(reply.Exploded)).
		Msg("Answered query")

	return nil
}

func (h *QueryHandler) resolve(ctx context.Context, sensorID string, dto *messages.QueryDto, reply *messages.ContextsMessage) error {
	query, err := dto.ToQuery()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	if dto.IsExplode() {
		reply.Exploded, err = h.contextService.Explode(ctx, sensorID, query.Timestamps)
		return err
	}

	reply.Contexts, err = h.contextService.Query(ctx, sensorID, query.From, query.To)
	if err != nil {
		return err
	}
	if reply.Contexts == nil {
		reply.Contexts = []models.SensorDataContext{}
	}
	return nil
}
