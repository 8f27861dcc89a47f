package venta

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/money"
)

const (
	EstadoPendiente = "PENDIENTE"
	EstadoPagada    = "PAGADA"
	EstadoAnulada   = "ANULADA"
)

type Item struct {
	ProductoID     backend.ID      `json:"producto_id"`
	Producto       string          `json:"producto,omitempty"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

type Venta struct {
	ID            backend.ID      `json:"id,omitempty"`
	Numero        string          `json:"numero,omitempty"`
	ClienteID     backend.ID      `json:"cliente_id"`
	Cliente       string          `json:"cliente,omitempty"`
	Fecha         string          `json:"fecha"`
	Estado        string          `json:"estado"`
	MetodoPago    string          `json:"metodo_pago"`
	Items         []Item          `json:"items,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	IVA           decimal.Decimal `json:"iva"`
	Total         decimal.Decimal `json:"total"`
	Moneda        string          `json:"moneda,omitempty"`
	Observaciones string          `json:"observaciones,omitempty"`
}

func (v Venta) Emision() time.Time {
	return listing.ParseDate(v.Fecha)
}

// WithTotals derives subtotal, iva and total from the items.
func (v Venta) WithTotals(iva decimal.Decimal, currency string) (Venta, error) {
	lines := make([]money.Line, len(v.Items))
	for i, it := range v.Items {
		lines[i] = money.Line{Cantidad: it.Cantidad, PrecioUnitario: it.PrecioUnitario}
	}
	totals, err := money.Compute(lines, iva, currency)
	if err != nil {
		return v, err
	}
	v.Subtotal, v.IVA, v.Total, v.Moneda = totals.Subtotal, totals.IVA, totals.Total, totals.Currency
	return v, nil
}

type Repository interface {
	GetAll(ctx context.Context) ([]Venta, error)
	GetByID(ctx context.Context, id string) (Venta, error)
	Create(ctx context.Context, v Venta) (Venta, error)
}

// Despacho forwards a sale to the logistics backend.
type Despacho interface {
	Enviar(ctx context.Context, ventaID string) error
}
