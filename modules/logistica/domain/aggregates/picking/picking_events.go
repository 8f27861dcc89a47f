package picking

import (
	"context"
	"encoding/json"

	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/eventbus"
)

const GuardadaEventType = "logistica.picking.guardada"

type GuardadaEvent struct {
	eventbus.Metadata
	Orden OrdenPicking `json:"orden"`
}

func (e *GuardadaEvent) EventType() string { return GuardadaEventType }

func NewGuardadaEvent(ctx context.Context, p OrdenPicking, diff json.RawMessage) *GuardadaEvent {
	return &GuardadaEvent{
		Metadata: eventbus.NewMetadata(composables.UseActor(ctx), "logistica", "editar_picking", p.ID.String()).WithDiff(diff),
		Orden:    p,
	}
}
