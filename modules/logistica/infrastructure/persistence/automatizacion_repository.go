package persistence

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/modules/logistica/domain/aggregates/automatizacion"
	"github.com/granempresa/erp-portal/pkg/backend"
)

type AutomatizacionRepository struct {
	client *backend.Client
}

func NewAutomatizacionRepository(client *backend.Client) automatizacion.Repository {
	return &AutomatizacionRepository{client: client}
}

// Cargas accepts either a list of {operario, ordenes} or an object keyed by
// operator; the second form is returned sorted by operator.
func (r *AutomatizacionRepository) Cargas(ctx context.Context) ([]automatizacion.Carga, error) {
	var raw json.RawMessage
	if err := r.client.Get(ctx, "/automatizacion/resumen", nil, &raw); err != nil {
		return nil, errors.Wrap(err, "automatizacion resumen")
	}
	var list []automatizacion.Carga
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var byOperario map[string]int
	if err := json.Unmarshal(raw, &byOperario); err != nil {
		return nil, errors.Wrap(err, "decode automatizacion resumen")
	}
	out := make([]automatizacion.Carga, 0, len(byOperario))
	for op, n := range byOperario {
		out = append(out, automatizacion.Carga{Operario: op, Ordenes: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operario < out[j].Operario })
	return out, nil
}

func (r *AutomatizacionRepository) ProcesarPedido(ctx context.Context, p automatizacion.Pedido) (json.RawMessage, error) {
	var out json.RawMessage
	if err := r.client.Post(ctx, "/integracion/recibir-pedido-venta", p, &out); err != nil {
		return nil, errors.Wrapf(err, "procesar pedido de venta %s", p.VentaID)
	}
	return out, nil
}
