package guia

import (
	"context"
	"time"

	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/editbuffer"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

var Editable = editbuffer.NewWhitelist("transportista", "patente", "estado", "fecha_entrega", "observaciones")

// GuiaDespacho is a dispatch note tracking a shipment.
type GuiaDespacho struct {
	ID            backend.ID `json:"id"`
	Numero        string     `json:"numero,omitempty"`
	VentaID       backend.ID `json:"venta_id,omitempty"`
	Cliente       string     `json:"cliente,omitempty"`
	Direccion     string     `json:"direccion,omitempty"`
	Transportista string     `json:"transportista,omitempty"`
	Patente       string     `json:"patente,omitempty"`
	Estado        string     `json:"estado,omitempty"`
	FechaEntrega  string     `json:"fecha_entrega,omitempty"`
	Observaciones string     `json:"observaciones,omitempty"`
}

func (g GuiaDespacho) Entrega() time.Time {
	return listing.ParseDate(g.FechaEntrega)
}

func (g GuiaDespacho) Validate() error {
	if g.FechaEntrega != "" && g.Entrega().IsZero() {
		return serrors.NewValidationError(nil).Add(g.ID.String()+".fecha_entrega", "must be a date (YYYY-MM-DD)")
	}
	return nil
}

type Repository interface {
	GetAll(ctx context.Context) ([]GuiaDespacho, error)
	Update(ctx context.Context, g GuiaDespacho) error
}
