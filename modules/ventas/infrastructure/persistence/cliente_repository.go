package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/modules/ventas/domain/aggregates/cliente"
	"github.com/granempresa/erp-portal/pkg/backend"
)

type ClienteRepository struct {
	client *backend.Client
}

func NewClienteRepository(client *backend.Client) cliente.Repository {
	return &ClienteRepository{client: client}
}

func (r *ClienteRepository) GetAll(ctx context.Context) ([]cliente.Cliente, error) {
	var out []cliente.Cliente
	if err := r.client.Get(ctx, "/clientes", nil, &out); err != nil {
		return nil, errors.Wrap(err, "list clientes")
	}
	return out, nil
}

func (r *ClienteRepository) Create(ctx context.Context, c cliente.Cliente) (cliente.Cliente, error) {
	var out cliente.Cliente
	if err := r.client.Post(ctx, "/clientes", c, &out); err != nil {
		return c, errors.Wrap(err, "create cliente")
	}
	if out.ID.IsZero() {
		return c, nil
	}
	return out, nil
}
