package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/modules/inventario/domain/aggregates/producto"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

type ProductoRepository struct {
	client *backend.Client
}

func NewProductoRepository(client *backend.Client) producto.Repository {
	return &ProductoRepository{client: client}
}

func (r *ProductoRepository) GetAll(ctx context.Context) ([]producto.Producto, error) {
	var out []producto.Producto
	if err := r.client.Get(ctx, "/productos", nil, &out); err != nil {
		return nil, errors.Wrap(err, "list productos")
	}
	return out, nil
}

func (r *ProductoRepository) GetByID(ctx context.Context, id string) (producto.Producto, error) {
	var out producto.Producto
	if err := r.client.Get(ctx, backend.Path("productos", id), nil, &out); err != nil {
		if backend.IsNotFound(err) {
			return out, serrors.NotFound("producto", id)
		}
		return out, errors.Wrapf(err, "get producto %s", id)
	}
	return out, nil
}

func (r *ProductoRepository) AjustarStock(ctx context.Context, id string, a producto.Ajuste) (*producto.Producto, error) {
	var out producto.Producto
	if err := r.client.Patch(ctx, backend.Path("productos", id, "stock"), a, &out); err != nil {
		if backend.IsNotFound(err) {
			return nil, serrors.NotFound("producto", id)
		}
		return nil, errors.Wrapf(err, "adjust stock of producto %s", id)
	}
	if out.ID.IsZero() {
		return nil, nil
	}
	return &out, nil
}
