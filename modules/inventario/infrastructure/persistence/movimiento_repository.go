package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/modules/inventario/domain/aggregates/movimiento"
	"github.com/granempresa/erp-portal/pkg/backend"
)

type MovimientoRepository struct {
	client *backend.Client
}

func NewMovimientoRepository(client *backend.Client) movimiento.Repository {
	return &MovimientoRepository{client: client}
}

func (r *MovimientoRepository) GetAll(ctx context.Context) ([]movimiento.Movimiento, error) {
	var out []movimiento.Movimiento
	if err := r.client.Get(ctx, "/movimientos", nil, &out); err != nil {
		return nil, errors.Wrap(err, "list movimientos")
	}
	return out, nil
}
