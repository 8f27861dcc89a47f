package guia

import (
	"context"
	"encoding/json"

	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/eventbus"
)

const GuardadaEventType = "logistica.guia.guardada"

type GuardadaEvent struct {
	eventbus.Metadata
	Guia GuiaDespacho `json:"guia"`
}

func (e *GuardadaEvent) EventType() string { return GuardadaEventType }

func NewGuardadaEvent(ctx context.Context, g GuiaDespacho, diff json.RawMessage) *GuardadaEvent {
	return &GuardadaEvent{
		Metadata: eventbus.NewMetadata(composables.UseActor(ctx), "logistica", "editar_guia", g.ID.String()).WithDiff(diff),
		Guia:     g,
	}
}
