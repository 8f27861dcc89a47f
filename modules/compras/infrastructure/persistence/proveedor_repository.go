package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/modules/compras/domain/aggregates/proveedor"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

type ProveedorRepository struct {
	client *backend.Client
}

func NewProveedorRepository(client *backend.Client) proveedor.Repository {
	return &ProveedorRepository{client: client}
}

func (r *ProveedorRepository) GetAll(ctx context.Context) ([]proveedor.Proveedor, error) {
	var out []proveedor.Proveedor
	if err := r.client.Get(ctx, "/suppliers", nil, &out); err != nil {
		return nil, errors.Wrap(err, "list suppliers")
	}
	return out, nil
}

func (r *ProveedorRepository) Productos(ctx context.Context, proveedorID string) ([]proveedor.Producto, error) {
	var out []proveedor.Producto
	if err := r.client.Get(ctx, backend.Path("suppliers", proveedorID, "products"), nil, &out); err != nil {
		if backend.IsNotFound(err) {
			return nil, serrors.NotFound("proveedor", proveedorID)
		}
		return nil, errors.Wrapf(err, "list products of supplier %s", proveedorID)
	}
	return out, nil
}
