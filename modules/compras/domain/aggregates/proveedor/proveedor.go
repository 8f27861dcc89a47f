package proveedor

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/granempresa/erp-portal/pkg/backend"
)

type Proveedor struct {
	ID       backend.ID `json:"id"`
	Nombre   string     `json:"nombre"`
	RUT      string     `json:"rut,omitempty"`
	Email    string     `json:"email,omitempty"`
	Telefono string     `json:"telefono,omitempty"`
	Activo   bool       `json:"activo"`
}

// Producto is an item of a supplier's catalog.
type Producto struct {
	ID          backend.ID      `json:"id"`
	ProveedorID backend.ID      `json:"proveedor_id,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Nombre      string          `json:"nombre"`
	Precio      decimal.Decimal `json:"precio"`
	Unidad      string          `json:"unidad,omitempty"`
}

type Repository interface {
	GetAll(ctx context.Context) ([]Proveedor, error)
	Productos(ctx context.Context, proveedorID string) ([]Producto, error)
}
