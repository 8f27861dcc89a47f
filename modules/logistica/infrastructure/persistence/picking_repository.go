package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/modules/logistica/domain/aggregates/picking"
	"github.com/granempresa/erp-portal/pkg/backend"
)

type PickingRepository struct {
	client *backend.Client
}

func NewPickingRepository(client *backend.Client) picking.Repository {
	return &PickingRepository{client: client}
}

func (r *PickingRepository) GetAll(ctx context.Context) ([]picking.OrdenPicking, error) {
	var out []picking.OrdenPicking
	if err := r.client.Get(ctx, "/ordenes-picking", nil, &out); err != nil {
		return nil, errors.Wrap(err, "list ordenes de picking")
	}
	return out, nil
}

func (r *PickingRepository) Update(ctx context.Context, p picking.OrdenPicking) error {
	if err := r.client.Put(ctx, backend.Path("ordenes-picking", p.ID.String()), p, nil); err != nil {
		return errors.Wrapf(err, "update orden de picking %s", p.ID)
	}
	return nil
}
