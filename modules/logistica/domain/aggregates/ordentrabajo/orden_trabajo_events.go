package ordentrabajo

import (
	"context"
	"encoding/json"

	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/eventbus"
)

const EstadoCambiadoEventType = "logistica.ot.estado"

type EstadoCambiadoEvent struct {
	eventbus.Metadata
	Anterior string       `json:"anterior"`
	Orden    OrdenTrabajo `json:"orden"`
}

func (e *EstadoCambiadoEvent) EventType() string { return EstadoCambiadoEventType }

func NewEstadoCambiadoEvent(ctx context.Context, anterior string, o OrdenTrabajo, diff json.RawMessage) *EstadoCambiadoEvent {
	return &EstadoCambiadoEvent{
		Metadata: eventbus.NewMetadata(composables.UseActor(ctx), "logistica", "cambiar_estado_ot", o.ID.String()).WithDiff(diff),
		Anterior: anterior,
		Orden:    o,
	}
}
