package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/modules/ventas/domain/aggregates/venta"
	"github.com/granempresa/erp-portal/pkg/backend"
)

// DespachoGateway posts sales to the logistics integration endpoint.
type DespachoGateway struct {
	client *backend.Client
}

func NewDespachoGateway(client *backend.Client) venta.Despacho {
	return &DespachoGateway{client: client}
}

func (g *DespachoGateway) Enviar(ctx context.Context, ventaID string) error {
	body := map[string]backend.ID{"venta_id": backend.ID(ventaID)}
	if err := g.client.Post(ctx, "/integracion/recibir-pedido-venta", body, nil); err != nil {
		return errors.Wrapf(err, "forward venta %s to logistica", ventaID)
	}
	return nil
}
