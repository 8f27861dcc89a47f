package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/modules/logistica/domain/aggregates/guia"
	"github.com/granempresa/erp-portal/pkg/backend"
)

type GuiaRepository struct {
	client *backend.Client
}

func NewGuiaRepository(client *backend.Client) guia.Repository {
	return &GuiaRepository{client: client}
}

func (r *GuiaRepository) GetAll(ctx context.Context) ([]guia.GuiaDespacho, error) {
	var out []guia.GuiaDespacho
	if err := r.client.Get(ctx, "/guias-despacho", nil, &out); err != nil {
		return nil, errors.Wrap(err, "list guias de despacho")
	}
	return out, nil
}

func (r *GuiaRepository) Update(ctx context.Context, g guia.GuiaDespacho) error {
	if err := r.client.Put(ctx, backend.Path("guias-despacho", g.ID.String()), g, nil); err != nil {
		return errors.Wrapf(err, "update guia de despacho %s", g.ID)
	}
	return nil
}
