package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/modules/ventas/domain/aggregates/venta"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

type VentaRepository struct {
	client *backend.Client
}

func NewVentaRepository(client *backend.Client) venta.Repository {
	return &VentaRepository{client: client}
}

func (r *VentaRepository) GetAll(ctx context.Context) ([]venta.Venta, error) {
	var out []venta.Venta
	if err := r.client.Get(ctx, "/ventas", nil, &out); err != nil {
		return nil, errors.Wrap(err, "list ventas")
	}
	return out, nil
}

func (r *VentaRepository) GetByID(ctx context.Context, id string) (venta.Venta, error) {
	var out venta.Venta
	if err := r.client.Get(ctx, backend.Path("ventas", id), nil, &out); err != nil {
		if backend.IsNotFound(err) {
			return out, serrors.NotFound("venta", id)
		}
		return out, errors.Wrapf(err, "get venta %s", id)
	}
	return out, nil
}

func (r *VentaRepository) Create(ctx context.Context, v venta.Venta) (venta.Venta, error) {
	var out venta.Venta
	if err := r.client.Post(ctx, "/ventas", v, &out); err != nil {
		return v, errors.Wrap(err, "create venta")
	}
	if out.ID.IsZero() {
		return v, nil
	}
	return out, nil
}
