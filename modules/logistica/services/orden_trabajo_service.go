package services

import (
	"context"

	"github.com/granempresa/erp-portal/modules/logistica/domain/aggregates/ordentrabajo"
	"github.com/granempresa/erp-portal/pkg/editbuffer"
	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/listing"
)

var OrdenTrabajoFields = listing.Fields[ordentrabajo.OrdenTrabajo]{
	Text: func(o ordentrabajo.OrdenTrabajo) []string {
		return []string{o.Numero, o.Descripcion, o.AsignadoA, o.Tipo}
	},
	Date: ordentrabajo.OrdenTrabajo.Creacion,
	Filters: map[string]func(ordentrabajo.OrdenTrabajo, string) bool{
		"estado": func(o ordentrabajo.OrdenTrabajo, v string) bool {
			return ordentrabajo.NormalizeEstado(o.Estado) == ordentrabajo.NormalizeEstado(v)
		},
		"asignado_a": listing.Equal(func(o ordentrabajo.OrdenTrabajo) string { return o.AsignadoA }),
		"prioridad":  listing.Equal(func(o ordentrabajo.OrdenTrabajo) string { return o.Prioridad }),
	},
	Sort: map[string]func(a, b ordentrabajo.OrdenTrabajo) int{
		"fecha":     listing.ByTime(ordentrabajo.OrdenTrabajo.Creacion),
		"estado":    listing.ByString(func(o ordentrabajo.OrdenTrabajo) string { return o.Estado }),
		"prioridad": listing.ByString(func(o ordentrabajo.OrdenTrabajo) string { return o.Prioridad }),
	},
	DefaultSort: "fecha",
	DefaultDesc: true,
}

// ResumenOT counts work orders per state. Every known state is present.
type ResumenOT struct {
	PorEstado map[string]int `json:"por_estado"`
	Total     int            `json:"total"`
}

type OrdenTrabajoService struct {
	repo      ordentrabajo.Repository
	publisher eventbus.EventBus
}

func NewOrdenTrabajoService(repo ordentrabajo.Repository, publisher eventbus.EventBus) *OrdenTrabajoService {
	return &OrdenTrabajoService{repo: repo, publisher: publisher}
}

func (s *OrdenTrabajoService) List(ctx context.Context, q listing.Query) (listing.Page[ordentrabajo.OrdenTrabajo], error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return listing.Page[ordentrabajo.OrdenTrabajo]{}, err
	}
	return listing.Apply(all, q, OrdenTrabajoFields), nil
}

func (s *OrdenTrabajoService) Resumen(ctx context.Context) (ResumenOT, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return ResumenOT{}, err
	}
	res := ResumenOT{PorEstado: make(map[string]int, len(ordentrabajo.Estados))}
	for _, e := range ordentrabajo.Estados {
		res.PorEstado[e] = 0
	}
	for _, o := range all {
		res.PorEstado[ordentrabajo.NormalizeEstado(o.Estado)]++
		res.Total++
	}
	return res, nil
}

// CambiarEstado checks the transition locally before PATCHing the backend.
func (s *OrdenTrabajoService) CambiarEstado(ctx context.Context, id string, c ordentrabajo.Cambio) (ordentrabajo.OrdenTrabajo, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ordentrabajo.OrdenTrabajo{}, err
	}
	next, c, err := current.Apply(c)
	if err != nil {
		return ordentrabajo.OrdenTrabajo{}, err
	}
	saved, err := s.repo.CambiarEstado(ctx, id, c)
	if err != nil {
		return ordentrabajo.OrdenTrabajo{}, err
	}
	if saved != nil {
		next = *saved
	}
	edit := editbuffer.Edit[ordentrabajo.OrdenTrabajo]{ID: id, Before: current, After: next}
	s.publisher.Publish(ordentrabajo.NewEstadoCambiadoEvent(ctx, current.Estado, next, edit.DiffOf()))
	return next, nil
}
