package services

import (
	"context"

	"github.com/granempresa/erp-portal/modules/rrhh/domain/aggregates/empleado"
	"github.com/granempresa/erp-portal/pkg/listing"
)

var EmpleadoFields = listing.Fields[empleado.Empleado]{
	Text: func(e empleado.Empleado) []string {
		return []string{e.NombreCompleto(), e.Email, e.RUT, e.Cargo}
	},
	Date: empleado.Empleado.Ingreso,
	Filters: map[string]func(empleado.Empleado, string) bool{
		"departamento": listing.Equal(func(e empleado.Empleado) string { return e.Departamento }),
		"cargo":        listing.Equal(func(e empleado.Empleado) string { return e.Cargo }),
		"activo":       listing.Bool(func(e empleado.Empleado) bool { return e.Activo }),
	},
	Sort: map[string]func(a, b empleado.Empleado) int{
		"nombre":        listing.ByString(empleado.Empleado.NombreCompleto),
		"fecha_ingreso": listing.ByTime(empleado.Empleado.Ingreso),
		"departamento":  listing.ByString(func(e empleado.Empleado) string { return e.Departamento }),
	},
	DefaultSort: "nombre",
}

type EmpleadoService struct {
	repo empleado.Repository
}

func NewEmpleadoService(repo empleado.Repository) *EmpleadoService {
	return &EmpleadoService{repo: repo}
}

func (s *EmpleadoService) List(ctx context.Context, q listing.Query) (listing.Page[empleado.Empleado], error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return listing.Page[empleado.Empleado]{}, err
	}
	return listing.Apply(all, q, EmpleadoFields), nil
}

// Export returns every employee matching q, unpaginated.
func (s *EmpleadoService) Export(ctx context.Context, q listing.Query) ([]empleado.Empleado, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return listing.Filter(all, q, EmpleadoFields), nil
}

func (s *EmpleadoService) GetByID(ctx context.Context, id string) (empleado.Empleado, error) {
	return s.repo.GetByID(ctx, id)
}
