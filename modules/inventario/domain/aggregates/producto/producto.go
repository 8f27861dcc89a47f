package producto

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

const (
	TipoEntrada = "ENTRADA"
	TipoSalida  = "SALIDA"
	TipoAjuste  = "AJUSTE"
)

type Producto struct {
	ID          backend.ID      `json:"id"`
	SKU         string          `json:"sku"`
	Nombre      string          `json:"nombre"`
	Categoria   string          `json:"categoria,omitempty"`
	Bodega      string          `json:"bodega,omitempty"`
	Stock       int             `json:"stock"`
	StockMinimo *int            `json:"stock_minimo,omitempty"`
	Precio      decimal.Decimal `json:"precio"`
	Unidad      string          `json:"unidad,omitempty"`
}

// Minimo returns the product's reorder threshold, or fallback when it has none.
func (p Producto) Minimo(fallback int) int {
	if p.StockMinimo != nil {
		return *p.StockMinimo
	}
	return fallback
}

func (p Producto) BajoStock(fallback int) bool {
	return p.Stock <= p.Minimo(fallback)
}

// Ajuste is a stock movement requested by a user.
type Ajuste struct {
	Tipo     string `json:"tipo" validate:"required"`
	Cantidad int    `json:"cantidad"`
	Motivo   string `json:"motivo" validate:"max=300"`
}

// Normalize upper-cases the type and trims the reason.
func (a Ajuste) Normalize() Ajuste {
	a.Tipo = strings.ToUpper(strings.TrimSpace(a.Tipo))
	a.Motivo = strings.TrimSpace(a.Motivo)
	return a
}

// Apply returns the stock after a. ENTRADA and SALIDA move by a positive
// quantity and SALIDA cannot go below zero; AJUSTE sets an absolute,
// non-negative stock.
func (a Ajuste) Apply(stock int) (int, error) {
	a = a.Normalize()
	ve := serrors.NewValidationError(nil)
	switch a.Tipo {
	case TipoEntrada:
		if a.Cantidad <= 0 {
			return stock, ve.Add("cantidad", "must be greater than zero")
		}
		return stock + a.Cantidad, nil
	case TipoSalida:
		if a.Cantidad <= 0 {
			return stock, ve.Add("cantidad", "must be greater than zero")
		}
		if a.Cantidad > stock {
			return stock, ve.Add("cantidad", "exceeds available stock")
		}
		return stock - a.Cantidad, nil
	case TipoAjuste:
		if a.Cantidad < 0 {
			return stock, ve.Add("cantidad", "must not be negative")
		}
		return a.Cantidad, nil
	default:
		return stock, ve.Add("tipo", "must be ENTRADA, SALIDA or AJUSTE")
	}
}

type Repository interface {
	GetAll(ctx context.Context) ([]Producto, error)
	GetByID(ctx context.Context, id string) (Producto, error)
	// AjustarStock returns the backend's copy of the product, or nil when
	// the backend answered with an empty body.
	AjustarStock(ctx context.Context, id string, a Ajuste) (*Producto, error)
}
