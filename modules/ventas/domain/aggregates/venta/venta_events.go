package venta

import (
	"context"

	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/eventbus"
)

const CreadaEventType = "ventas.venta.creada"

type CreadaEvent struct {
	eventbus.Metadata
	Venta Venta `json:"venta"`
}

func (e *CreadaEvent) EventType() string { return CreadaEventType }

func NewCreadaEvent(ctx context.Context, v Venta) *CreadaEvent {
	return &CreadaEvent{
		Metadata: eventbus.NewMetadata(composables.UseActor(ctx), "ventas", "crear", v.ID.String()),
		Venta:    v,
	}
}
