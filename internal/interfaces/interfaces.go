package interfaces

import (
	"context"
	"time"
)

// Publisher sends a JSON document to a topic.
type Publisher interface {
	PublishJSON(topic string, data interface{}) error
}

type ITableListener interface {
	GetTableName() string
	HandleChange(ctx context.Context, event *TableChangeEvent) error
	GetChannelName() string
}

type IListenerManager interface {
	RegisterListener(listener ITableListener) error
	Initialize() error
	Start()
	Stop()
}

type OperationType string

const (
	InsertOperation OperationType = "INSERT"
	UpdateOperation OperationType = "UPDATE"
	DeleteOperation OperationType = "DELETE"
)

type TableChangeEvent struct {
	Operation OperationType          `json:"operation"`
	Table     string                 `json:"table"`
	OldData   map[string]interface{} `json:"old_data,omitempty"`
	NewData   map[string]interface{} `json:"new_data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Row returns the row the event is about: the new row, or the old one for deletions.
func (t *TableChangeEvent) Row() map[string]interface{} {
	if t.Operation == DeleteOperation {
		return t.OldData
	}
	return t.NewData
}
