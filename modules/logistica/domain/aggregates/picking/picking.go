package picking

import (
	"context"

	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/editbuffer"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

// Editable are the fields the picking table edits inline.
var Editable = editbuffer.NewWhitelist("cantidad_pickeada", "ubicacion", "estado", "operario")

type OrdenPicking struct {
	ID                 backend.ID `json:"id"`
	OrdenTrabajoID     backend.ID `json:"orden_trabajo_id,omitempty"`
	ProductoID         backend.ID `json:"producto_id,omitempty"`
	Producto           string     `json:"producto,omitempty"`
	CantidadSolicitada int        `json:"cantidad_solicitada"`
	CantidadPickeada   int        `json:"cantidad_pickeada"`
	Ubicacion          string     `json:"ubicacion,omitempty"`
	Estado             string     `json:"estado,omitempty"`
	Operario           string     `json:"operario,omitempty"`
}

// Validate rejects picked quantities outside [0, cantidad_solicitada].
func (p OrdenPicking) Validate() error {
	ve := serrors.NewValidationError(nil)
	if p.CantidadPickeada < 0 {
		ve.Add(p.ID.String()+".cantidad_pickeada", "must not be negative")
	}
	if p.CantidadSolicitada > 0 && p.CantidadPickeada > p.CantidadSolicitada {
		ve.Add(p.ID.String()+".cantidad_pickeada", "exceeds the requested quantity")
	}
	return ve.OrNil()
}

type Repository interface {
	GetAll(ctx context.Context) ([]OrdenPicking, error)
	Update(ctx context.Context, p OrdenPicking) error
}
