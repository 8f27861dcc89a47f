package movimiento

import (
	"context"
	"time"

	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/listing"
)

// Movimiento is a stock movement recorded by the inventory backend.
type Movimiento struct {
	ID         backend.ID `json:"id"`
	ProductoID backend.ID `json:"producto_id"`
	Producto   string     `json:"producto,omitempty"`
	SKU        string     `json:"sku,omitempty"`
	Tipo       string     `json:"tipo"`
	Cantidad   int        `json:"cantidad"`
	Motivo     string     `json:"motivo,omitempty"`
	Usuario    string     `json:"usuario,omitempty"`
	Fecha      string     `json:"fecha"`
}

func (m Movimiento) Momento() time.Time {
	return listing.ParseDate(m.Fecha)
}

type Repository interface {
	GetAll(ctx context.Context) ([]Movimiento, error)
}
