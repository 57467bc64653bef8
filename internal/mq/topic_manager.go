package mq

import (
	"fmt"
	"github.com/rs/zerolog"
	"regexp"
	"strings"
)

type TopicManager struct {
	BaseTopic string
	logger    zerolog.Logger
}

func NewTopicManager(baseTopic string, logger zerolog.Logger) *TopicManager {
	return &TopicManager{
		BaseTopic: strings.TrimSuffix(baseTopic, "/"),
		logger:    logger,
	}
}

const (
	QueryTopicTemplate    = "%s/v1/queries/+"
	ContextsTopicTemplate = "%s/v1/contexts/%s"
	EventTopicTemplate    = "%s/v1/events/%s/%s"
)

func (m *TopicManager) GetQueryTopic() string {
	return fmt.Sprintf(QueryTopicTemplate, m.BaseTopic)
}

func (m *TopicManager) GetContextsTopic(sensorID string) string {
	return fmt.Sprintf(ContextsTopicTemplate, m.BaseTopic, sensorID)
}

func (m *TopicManager) GetEventTopic(table, action string) string {
	return fmt.Sprintf(EventTopicTemplate, m.BaseTopic, table, action)
}

func (m *TopicManager) buildTopicRegex(template string) *regexp.Regexp {
	pattern := regexp.QuoteMeta(template)
	pattern = strings.ReplaceAll(pattern, "%s", regexp.QuoteMeta(m.BaseTopic))
	pattern = strings.ReplaceAll(pattern, `\+`, "([^/]+)")

	return regexp.MustCompile("^" + pattern + "$")
}

func (m *TopicManager) ExtractIdFromTopic(topic, template string) (string, error) {
	matches := m.buildTopicRegex(template).FindStringSubmatch(topic)
	if len(matches) < 2 {
		return "", fmt.Errorf("could not extract ID from topic: %s", topic)
	}

	return matches[1], nil
}

func (m *TopicManager) ExtractSensorID(topic string) (string, error) {
	return m.ExtractIdFromTopic(topic, QueryTopicTemplate)
}
