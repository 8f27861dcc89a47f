package services

import (
	"context"

	"github.com/granempresa/erp-portal/modules/logistica/domain/aggregates/picking"
	"github.com/granempresa/erp-portal/pkg/batch"
	"github.com/granempresa/erp-portal/pkg/editbuffer"
	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

// PickingFields has no default sort: the backend order is the order rows
// are saved in.
var PickingFields = listing.Fields[picking.OrdenPicking]{
	Text: func(p picking.OrdenPicking) []string {
		return []string{p.Producto, p.Ubicacion, p.Operario}
	},
	Filters: map[string]func(picking.OrdenPicking, string) bool{
		"estado":           listing.Equal(func(p picking.OrdenPicking) string { return p.Estado }),
		"operario":         listing.Equal(func(p picking.OrdenPicking) string { return p.Operario }),
		"orden_trabajo_id": listing.Equal(func(p picking.OrdenPicking) string { return p.OrdenTrabajoID.String() }),
	},
	Sort: map[string]func(a, b picking.OrdenPicking) int{
		"producto":  listing.ByString(func(p picking.OrdenPicking) string { return p.Producto }),
		"ubicacion": listing.ByString(func(p picking.OrdenPicking) string { return p.Ubicacion }),
		"estado":    listing.ByString(func(p picking.OrdenPicking) string { return p.Estado }),
	},
}

// GuardarDTO carries the pending inline edits of a table, keyed by row id.
type GuardarDTO struct {
	Cambios editbuffer.Changes `json:"cambios" validate:"required,min=1"`
}

type PickingService struct {
	repo      picking.Repository
	publisher eventbus.EventBus
}

func NewPickingService(repo picking.Repository, publisher eventbus.EventBus) *PickingService {
	return &PickingService{repo: repo, publisher: publisher}
}

func (s *PickingService) List(ctx context.Context, q listing.Query) (listing.Page[picking.OrdenPicking], error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return listing.Page[picking.OrdenPicking]{}, err
	}
	return listing.Apply(all, q, PickingFields), nil
}

// Guardar PUTs every changed row in list order and stops at the first
// failure; rows after it are reported as skipped.
func (s *PickingService) Guardar(ctx context.Context, cambios editbuffer.Changes) (batch.SequenceReport, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return batch.SequenceReport{}, err
	}
	edits, err := editbuffer.Plan(rows, func(p picking.OrdenPicking) string { return p.ID.String() }, cambios, picking.Editable)
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
	return batch.Sequential(ctx, edits, func(e editbuffer.Edit[picking.OrdenPicking]) string { return e.ID },
		func(ctx context.Context, e editbuffer.Edit[picking.OrdenPicking]) error {
			if err := s.repo.Update(ctx, e.After); err != nil {
				return err
			}
			s.publisher.Publish(picking.NewGuardadaEvent(ctx, e.After, e.DiffOf()))
			return nil
		}), nil
}
