package automatizacion

import (
	"context"
	"encoding/json"

	"github.com/granempresa/erp-portal/pkg/backend"
)

// Carga is the number of work orders the balancer assigned to an operator.
type Carga struct {
	Operario string `json:"operario"`
	Ordenes  int    `json:"ordenes"`
}

type Resumen struct {
	Operarios []Carga `json:"operarios"`
	Total     int     `json:"total"`
}

func NewResumen(cargas []Carga) Resumen {
	r := Resumen{Operarios: cargas}
	if r.Operarios == nil {
		r.Operarios = []Carga{}
	}
	for _, c := range cargas {
		r.Total += c.Ordenes
	}
	return r
}

// Pedido asks the backend to turn a sale into work orders.
type Pedido struct {
	VentaID backend.ID `json:"venta_id" validate:"required"`
}

type Repository interface {
	Cargas(ctx context.Context) ([]Carga, error)
	// ProcesarPedido returns the backend answer untouched.
	ProcesarPedido(ctx context.Context, p Pedido) (json.RawMessage, error)
}
