package eventbus

import (
	"encoding/json"
	"time"
)

// Event is implemented by the domain events that are written to the action
// log and pushed to websocket clients.
type Event interface {
	EventType() string
	EventMeta() Metadata
}

// Metadata is embedded by domain events.
type Metadata struct {
	UserID     string          `json:"user_id"`
	Module     string          `json:"module"`
	Action     string          `json:"action"`
	EntityID   string          `json:"entity_id"`
	Diff       json.RawMessage `json:"diff,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewMetadata(userID, module, action, entityID string) Metadata {
	return Metadata{
		UserID:     userID,
		Module:     module,
		Action:     action,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
}

func (m Metadata) EventMeta() Metadata {
	return m
}

// WithDiff returns a copy carrying diff.
func (m Metadata) WithDiff(diff json.RawMessage) Metadata {
	m.Diff = diff
	return m
}
