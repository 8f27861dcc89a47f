package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/modules/compras/domain/aggregates/orden"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

type OrdenRepository struct {
	client *backend.Client
}

func NewOrdenRepository(client *backend.Client) orden.Repository {
	return &OrdenRepository{client: client}
}

func (r *OrdenRepository) GetAll(ctx context.Context) ([]orden.OrdenCompra, error) {
	var out []orden.OrdenCompra
	if err := r.client.Get(ctx, "/purchases", nil, &out); err != nil {
		return nil, errors.Wrap(err, "list purchases")
	}
	return out, nil
}

func (r *OrdenRepository) GetByID(ctx context.Context, id string) (orden.OrdenCompra, error) {
	var out orden.OrdenCompra
	if err := r.client.Get(ctx, backend.Path("purchases", id), nil, &out); err != nil {
		if backend.IsNotFound(err) {
			return out, serrors.NotFound("orden de compra", id)
		}
		return out, errors.Wrapf(err, "get purchase %s", id)
	}
	return out, nil
}

func (r *OrdenRepository) Create(ctx context.Context, o orden.OrdenCompra) (orden.OrdenCompra, error) {
	var out orden.OrdenCompra
	if err := r.client.Post(ctx, "/purchases", o, &out); err != nil {
		return out, errors.Wrap(err, "create purchase")
	}
	if out.ID.IsZero() {
		return out, errors.New("create purchase: backend returned no id")
	}
	return out, nil
}

func (r *OrdenRepository) Update(ctx context.Context, o orden.OrdenCompra) (orden.OrdenCompra, error) {
	var out orden.OrdenCompra
	if err := r.client.Put(ctx, backend.Path("purchases", o.ID.String()), o, &out); err != nil {
		if backend.IsNotFound(err) {
			return o, serrors.NotFound("orden de compra", o.ID.String())
		}
		return o, errors.Wrapf(err, "update purchase %s", o.ID)
	}
	if out.ID.IsZero() {
		return o, nil
	}
	return out, nil
}

func (r *OrdenRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, backend.Path("purchases", id), nil); err != nil {
		if backend.IsNotFound(err) {
			return serrors.NotFound("orden de compra", id)
		}
		return errors.Wrapf(err, "delete purchase %s", id)
	}
	return nil
}
