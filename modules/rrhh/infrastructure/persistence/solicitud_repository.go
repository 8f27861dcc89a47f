package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/modules/rrhh/domain/aggregates/solicitud"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

type SolicitudRepository struct {
	client *backend.Client
}

func NewSolicitudRepository(client *backend.Client) solicitud.Repository {
	return &SolicitudRepository{client: client}
}

func (r *SolicitudRepository) GetAll(ctx context.Context) ([]solicitud.Solicitud, error) {
	var out []solicitud.Solicitud
	if err := r.client.Get(ctx, "/solicitudes", nil, &out); err != nil {
		return nil, errors.Wrap(err, "list solicitudes")
	}
	return out, nil
}

// GetByID scans the list: the RRHH backend has no single-request endpoint.
func (r *SolicitudRepository) GetByID(ctx context.Context, id string) (solicitud.Solicitud, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return solicitud.Solicitud{}, err
	}
	for _, s := range all {
		if s.ID.String() == id {
			return s, nil
		}
	}
	return solicitud.Solicitud{}, serrors.NotFound("solicitud", id)
}

func (r *SolicitudRepository) Resolve(ctx context.Context, id string, res solicitud.Resolution) (*solicitud.Solicitud, error) {
	var out solicitud.Solicitud
	if err := r.client.Patch(ctx, backend.Path("solicitudes", id), res, &out); err != nil {
		return nil, errors.Wrapf(err, "resolve solicitud %s", id)
	}
	if out.ID.IsZero() {
		return nil, nil
	}
	return &out, nil
}
