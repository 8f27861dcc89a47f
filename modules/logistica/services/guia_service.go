package services

import (
	"context"

	"github.com/granempresa/erp-portal/modules/logistica/domain/aggregates/guia"
	"github.com/granempresa/erp-portal/pkg/batch"
	"github.com/granempresa/erp-portal/pkg/editbuffer"
	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

var GuiaFields = listing.Fields[guia.GuiaDespacho]{
	Text: func(g guia.GuiaDespacho) []string {
		return []string{g.Numero, g.Cliente, g.Transportista, g.Patente, g.Direccion}
	},
	Date: guia.GuiaDespacho.Entrega,
	Filters: map[string]func(guia.GuiaDespacho, string) bool{
		"estado":        listing.Equal(func(g guia.GuiaDespacho) string { return g.Estado }),
		"transportista": listing.Equal(func(g guia.GuiaDespacho) string { return g.Transportista }),
	},
	Sort: map[string]func(a, b guia.GuiaDespacho) int{
		"fecha_entrega": listing.ByTime(guia.GuiaDespacho.Entrega),
		"numero":        listing.ByString(func(g guia.GuiaDespacho) string { return g.Numero }),
		"estado":        listing.ByString(func(g guia.GuiaDespacho) string { return g.Estado }),
	},
}

type GuiaService struct {
	repo      guia.Repository
	publisher eventbus.EventBus
}

func NewGuiaService(repo guia.Repository, publisher eventbus.EventBus) *GuiaService {
	return &GuiaService{repo: repo, publisher: publisher}
}

func (s *GuiaService) List(ctx context.Context, q listing.Query) (listing.Page[guia.GuiaDespacho], error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return listing.Page[guia.GuiaDespacho]{}, err
	}
	return listing.Apply(all, q, GuiaFields), nil
}

func (s *GuiaService) Guardar(ctx context.Context, cambios editbuffer.Changes) (batch.SequenceReport, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return batch.SequenceReport{}, err
	}
	edits, err := editbuffer.Plan(rows, func(g guia.GuiaDespacho) string { return g.ID.String() }, cambios, guia.Editable)
	if err != nil {
		return batch.SequenceReport{}, err
	}
	ve := serrors.NewValidationError(nil)
	for _, e := range edits {
		if rowErr, ok := serrors.AsValidation(e.After.Validate()); ok {
			for f, msg := range rowErr.Fields {
				ve.Add(f, msg)
			}
		}
	}
	if err := ve.OrNil(); err != nil {
		return batch.SequenceReport{}, err
	}
	return batch.Sequential(ctx, edits, func(e editbuffer.Edit[guia.GuiaDespacho]) string { return e.ID },
		func(ctx context.Context, e editbuffer.Edit[guia.GuiaDespacho]) error {
			if err := s.repo.Update(ctx, e.After); err != nil {
				return err
			}
			s.publisher.Publish(guia.NewGuardadaEvent(ctx, e.After, e.DiffOf()))
			return nil
		}), nil
}
