package services

import (
	"context"
	"encoding/json"

	"github.com/granempresa/erp-portal/modules/logistica/domain/aggregates/automatizacion"
	"github.com/granempresa/erp-portal/pkg/eventbus"
)

type Procesado struct {
	VentaID   string          `json:"venta_id"`
	Respuesta json.RawMessage `json:"respuesta,omitempty"`
}

type AutomatizacionService struct {
	repo      automatizacion.Repository
	publisher eventbus.EventBus
}

func NewAutomatizacionService(repo automatizacion.Repository, publisher eventbus.EventBus) *AutomatizacionService {
	return &AutomatizacionService{repo: repo, publisher: publisher}
}

func (s *AutomatizacionService) Resumen(ctx context.Context) (automatizacion.Resumen, error) {
	cargas, err := s.repo.Cargas(ctx)
	if err != nil {
		return automatizacion.Resumen{}, err
	}
	return automatizacion.NewResumen(cargas), nil
}

// Procesar hands a sale to the backend balancer, which creates and assigns
// its work orders.
func (s *AutomatizacionService) Procesar(ctx context.Context, p automatizacion.Pedido) (Procesado, error) {
	resp, err := s.repo.ProcesarPedido(ctx, p)
	if err != nil {
		return Procesado{}, err
	}
	s.publisher.Publish(automatizacion.NewPedidoProcesadoEvent(ctx, p))
	return Procesado{VentaID: p.VentaID.String(), Respuesta: resp}, nil
}
