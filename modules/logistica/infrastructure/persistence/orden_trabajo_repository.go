package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/modules/logistica/domain/aggregates/ordentrabajo"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

type OrdenTrabajoRepository struct {
	client *backend.Client
}

func NewOrdenTrabajoRepository(client *backend.Client) ordentrabajo.Repository {
	return &OrdenTrabajoRepository{client: client}
}

func (r *OrdenTrabajoRepository) GetAll(ctx context.Context) ([]ordentrabajo.OrdenTrabajo, error) {
	var out []ordentrabajo.OrdenTrabajo
	if err := r.client.Get(ctx, "/ordenes-trabajo", nil, &out); err != nil {
		return nil, errors.Wrap(err, "list ordenes de trabajo")
	}
	return out, nil
}

func (r *OrdenTrabajoRepository) GetByID(ctx context.Context, id string) (ordentrabajo.OrdenTrabajo, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return ordentrabajo.OrdenTrabajo{}, err
	}
	for _, o := range all {
		if o.ID.String() == id {
			return o, nil
		}
	}
	return ordentrabajo.OrdenTrabajo{}, serrors.NotFound("orden de trabajo", id)
}

func (r *OrdenTrabajoRepository) CambiarEstado(ctx context.Context, id string, c ordentrabajo.Cambio) (*ordentrabajo.OrdenTrabajo, error) {
	var out ordentrabajo.OrdenTrabajo
	if err := r.client.Patch(ctx, backend.Path("ordenes-trabajo", id, "estado"), c, &out); err != nil {
		if backend.IsNotFound(err) {
			return nil, serrors.NotFound("orden de trabajo", id)
		}
		return nil, errors.Wrapf(err, "change state of orden de trabajo %s", id)
	}
	if out.ID.IsZero() {
		return nil, nil
	}
	return &out, nil
}
