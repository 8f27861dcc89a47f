package orden

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/money"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

const (
	EstadoPendiente = "PENDIENTE"
	EstadoAprobada  = "APROBADA"
	EstadoRechazada = "RECHAZADA"
	EstadoCancelada = "CANCELADA"
	EstadoEnviada   = "ENVIADA"
	EstadoRecibida  = "RECIBIDA"
)

var transitions = map[string][]string{
	EstadoPendiente: {EstadoAprobada, EstadoRechazada, EstadoCancelada},
	EstadoAprobada:  {EstadoEnviada, EstadoCancelada},
	EstadoEnviada:   {EstadoRecibida},
}

// CanTransition reports whether a purchase order may move from one state to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[strings.ToUpper(from)] {
		if next == strings.ToUpper(to) {
			return true
		}
	}
	return false
}

// Next lists the states reachable from estado.
func Next(estado string) []string {
	return append([]string(nil), transitions[strings.ToUpper(estado)]...)
}

type Linea struct {
	ProductoID     backend.ID      `json:"producto_id"`
	Producto       string          `json:"producto,omitempty"`
	ProveedorID    backend.ID      `json:"proveedor_id,omitempty"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

func (l Linea) Money() money.Line {
	return money.Line{Cantidad: l.Cantidad, PrecioUnitario: l.PrecioUnitario}
}

type OrdenCompra struct {
	ID            backend.ID      `json:"id,omitempty"`
	Numero        string          `json:"numero,omitempty"`
	ProveedorID   backend.ID      `json:"proveedor_id"`
	Proveedor     string          `json:"proveedor,omitempty"`
	Fecha         string          `json:"fecha"`
	Estado        string          `json:"estado"`
	Lineas        []Linea         `json:"lineas,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	IVA           decimal.Decimal `json:"iva"`
	Total         decimal.Decimal `json:"total"`
	Moneda        string          `json:"moneda,omitempty"`
	Observaciones string          `json:"observaciones,omitempty"`
}

func (o OrdenCompra) FechaEmision() time.Time {
	return listing.ParseDate(o.Fecha)
}

// TransitionTo returns a copy of the order in estado, or INVALID_STATE.
func (o OrdenCompra) TransitionTo(estado string) (OrdenCompra, error) {
	estado = strings.ToUpper(strings.TrimSpace(estado))
	if !CanTransition(o.Estado, estado) {
		return o, serrors.InvalidState(strings.ToUpper(o.Estado), estado)
	}
	o.Estado = estado
	return o, nil
}

// WithTotals derives subtotal, iva and total from the lines.
func (o OrdenCompra) WithTotals(iva decimal.Decimal, currency string) (OrdenCompra, error) {
	lines := make([]money.Line, len(o.Lineas))
	for i, l := range o.Lineas {
		lines[i] = l.Money()
	}
	totals, err := money.Compute(lines, iva, currency)
	if err != nil {
		return o, err
	}
	o.Subtotal, o.IVA, o.Total, o.Moneda = totals.Subtotal, totals.IVA, totals.Total, totals.Currency
	return o, nil
}

type Repository interface {
	GetAll(ctx context.Context) ([]OrdenCompra, error)
	GetByID(ctx context.Context, id string) (OrdenCompra, error)
	Create(ctx context.Context, o OrdenCompra) (OrdenCompra, error)
	// Update sends the full order; it returns the backend's copy, or the
	// input when the backend answered with an empty body.
	Update(ctx context.Context, o OrdenCompra) (OrdenCompra, error)
	Delete(ctx context.Context, id string) error
}
