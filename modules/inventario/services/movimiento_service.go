package services

import (
	"context"

	"github.com/granempresa/erp-portal/modules/inventario/domain/aggregates/movimiento"
	"github.com/granempresa/erp-portal/pkg/listing"
)

var MovimientoFields = listing.Fields[movimiento.Movimiento]{
	Text: func(m movimiento.Movimiento) []string {
		return []string{m.Producto, m.SKU, m.Motivo, m.Usuario}
	},
	Date: movimiento.Movimiento.Momento,
	Filters: map[string]func(movimiento.Movimiento, string) bool{
		"tipo":        listing.Equal(func(m movimiento.Movimiento) string { return m.Tipo }),
		"producto_id": listing.Equal(func(m movimiento.Movimiento) string { return m.ProductoID.String() }),
	},
	Sort: map[string]func(a, b movimiento.Movimiento) int{
		"fecha":    listing.ByTime(movimiento.Movimiento.Momento),
		"cantidad": listing.ByNumber(func(m movimiento.Movimiento) int { return m.Cantidad }),
	},
	DefaultSort: "fecha",
	DefaultDesc: true,
}

type MovimientoService struct {
	repo movimiento.Repository
}

func NewMovimientoService(repo movimiento.Repository) *MovimientoService {
	return &MovimientoService{repo: repo}
}

func (s *MovimientoService) List(ctx context.Context, q listing.Query) (listing.Page[movimiento.Movimiento], error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return listing.Page[movimiento.Movimiento]{}, err
	}
	return listing.Apply(all, q, MovimientoFields), nil
}
