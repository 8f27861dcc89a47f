package cliente

import (
	"context"

	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/eventbus"
)

const CreadoEventType = "ventas.cliente.creado"

type CreadoEvent struct {
	eventbus.Metadata
	Cliente Cliente `json:"cliente"`
}

func (e *CreadoEvent) EventType() string { return CreadoEventType }

func NewCreadoEvent(ctx context.Context, c Cliente) *CreadoEvent {
	return &CreadoEvent{
		Metadata: eventbus.NewMetadata(composables.UseActor(ctx), "ventas", "crear_cliente", c.ID.String()),
		Cliente:  c,
	}
}
