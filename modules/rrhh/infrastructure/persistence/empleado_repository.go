package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/modules/rrhh/domain/aggregates/empleado"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

type EmpleadoRepository struct {
	client *backend.Client
}

func NewEmpleadoRepository(client *backend.Client) empleado.Repository {
	return &EmpleadoRepository{client: client}
}

func (r *EmpleadoRepository) GetAll(ctx context.Context) ([]empleado.Empleado, error) {
	var out []empleado.Empleado
	if err := r.client.Get(ctx, "/empleados", nil, &out); err != nil {
		return nil, errors.Wrap(err, "list empleados")
	}
	return out, nil
}

func (r *EmpleadoRepository) GetByID(ctx context.Context, id string) (empleado.Empleado, error) {
	var out empleado.Empleado
	if err := r.client.Get(ctx, backend.Path("empleados", id), nil, &out); err != nil {
		if backend.IsNotFound(err) {
			return out, serrors.NotFound("empleado", id)
		}
		return out, errors.Wrapf(err, "get empleado %s", id)
	}
	return out, nil
}
