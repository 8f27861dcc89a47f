package actionlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/granempresa/erp-portal/pkg/eventbus"
)

// ActionLog is one mutation made through the portal.
type ActionLog struct {
	ID        uuid.UUID       `json:"id"`
	UserID    string          `json:"user_id"`
	Module    string          `json:"module"`
	Action    string          `json:"action"`
	EntityID  string          `json:"entity_id"`
	EventType string          `json:"event_type"`
	Diff      json.RawMessage `json:"diff,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// FromEvent builds the log entry of a domain event.
func FromEvent(e eventbus.Event) *ActionLog {
	meta := e.EventMeta()
	created := meta.OccurredAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return &ActionLog{
		ID:        uuid.New(),
		UserID:    meta.UserID,
		Module:    meta.Module,
		Action:    meta.Action,
		EntityID:  meta.EntityID,
		EventType: e.EventType(),
		Diff:      meta.Diff,
		CreatedAt: created,
	}
}

type FindParams struct {
	UserID   string
	Module   string
	Action   string
	EntityID string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// Matches applies the filters of p; pagination is left to the caller.
func (p *FindParams) Matches(l *ActionLog) bool {
	if p == nil {
		return true
	}
	switch {
	case p.UserID != "" && l.UserID != p.UserID:
		return false
	case p.Module != "" && l.Module != p.Module:
		return false
	case p.Action != "" && l.Action != p.Action:
		return false
	case p.EntityID != "" && l.EntityID != p.EntityID:
		return false
	case p.From != nil && l.CreatedAt.Before(*p.From):
		return false
	case p.To != nil && l.CreatedAt.After(*p.To):
		return false
	}
	return true
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]*ActionLog, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, log *ActionLog) error
}
