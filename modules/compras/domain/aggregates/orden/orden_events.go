package orden

import (
	"context"
	"encoding/json"

	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/eventbus"
)

const (
	CreadaEventType         = "compras.orden.creada"
	EstadoCambiadoEventType = "compras.orden.estado"
	EliminadaEventType      = "compras.orden.eliminada"
)

type CreadaEvent struct {
	eventbus.Metadata
	Orden OrdenCompra `json:"orden"`
}

func (e *CreadaEvent) EventType() string { return CreadaEventType }

func NewCreadaEvent(ctx context.Context, o OrdenCompra) *CreadaEvent {
	return &CreadaEvent{
		Metadata: eventbus.NewMetadata(composables.UseActor(ctx), "compras", "crear", o.ID.String()),
		Orden:    o,
	}
}

type EstadoCambiadoEvent struct {
	eventbus.Metadata
	Anterior string      `json:"anterior"`
	Orden    OrdenCompra `json:"orden"`
}

func (e *EstadoCambiadoEvent) EventType() string { return EstadoCambiadoEventType }

func NewEstadoCambiadoEvent(ctx context.Context, anterior string, o OrdenCompra, diff json.RawMessage) *EstadoCambiadoEvent {
	return &EstadoCambiadoEvent{
		Metadata: eventbus.NewMetadata(composables.UseActor(ctx), "compras", "cambiar_estado", o.ID.String()).WithDiff(diff),
		Anterior: anterior,
		Orden:    o,
	}
}

type EliminadaEvent struct {
	eventbus.Metadata
}

func (e *EliminadaEvent) EventType() string { return EliminadaEventType }

func NewEliminadaEvent(ctx context.Context, id string) *EliminadaEvent {
	return &EliminadaEvent{
		Metadata: eventbus.NewMetadata(composables.UseActor(ctx), "compras", "eliminar", id),
	}
}
