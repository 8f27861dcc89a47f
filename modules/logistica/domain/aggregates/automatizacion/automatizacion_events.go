package automatizacion

import (
	"context"

	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/eventbus"
)

const PedidoProcesadoEventType = "logistica.pedido.procesado"

type PedidoProcesadoEvent struct {
	eventbus.Metadata
	Pedido Pedido `json:"pedido"`
}

func (e *PedidoProcesadoEvent) EventType() string { return PedidoProcesadoEventType }

func NewPedidoProcesadoEvent(ctx context.Context, p Pedido) *PedidoProcesadoEvent {
	return &PedidoProcesadoEvent{
		Metadata: eventbus.NewMetadata(composables.UseActor(ctx), "logistica", "procesar_pedido", p.VentaID.String()),
		Pedido:   p,
	}
}
