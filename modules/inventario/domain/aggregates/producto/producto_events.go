package producto

import (
	"context"

	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/eventbus"
)

const StockAjustadoEventType = "inventario.stock.ajustado"

type StockAjustadoEvent struct {
	eventbus.Metadata
	Ajuste        Ajuste   `json:"ajuste"`
	StockAnterior int      `json:"stock_anterior"`
	Producto      Producto `json:"producto"`
}

func (e *StockAjustadoEvent) EventType() string { return StockAjustadoEventType }

func NewStockAjustadoEvent(ctx context.Context, a Ajuste, anterior int, p Producto) *StockAjustadoEvent {
	return &StockAjustadoEvent{
		Metadata:      eventbus.NewMetadata(composables.UseActor(ctx), "inventario", "ajustar_stock", p.ID.String()),
		Ajuste:        a,
		StockAnterior: anterior,
		Producto:      p,
	}
}
