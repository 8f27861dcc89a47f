package services

import (
	"context"
	"strings"

	"github.com/granempresa/erp-portal/modules/ventas/domain/aggregates/cliente"
	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/serrors"
	"github.com/granempresa/erp-portal/pkg/validation"
)

var ClienteFields = listing.Fields[cliente.Cliente]{
	Text: func(c cliente.Cliente) []string {
		return []string{c.Nombre, c.RUT, c.Email, c.Comuna}
	},
	Filters: map[string]func(cliente.Cliente, string) bool{
		"comuna": listing.Equal(func(c cliente.Cliente) string { return c.Comuna }),
	},
	Sort: map[string]func(a, b cliente.Cliente) int{
		"nombre": listing.ByString(func(c cliente.Cliente) string { return c.Nombre }),
		"rut":    listing.ByString(func(c cliente.Cliente) string { return validation.NormalizeRUT(c.RUT) }),
	},
	DefaultSort: "nombre",
}

type ClienteDTO struct {
	Nombre    string `json:"nombre" validate:"required,max=200"`
	RUT       string `json:"rut" validate:"required,rut"`
	Email     string `json:"email" validate:"required,email"`
	Telefono  string `json:"telefono" validate:"max=30"`
	Direccion string `json:"direccion" validate:"max=300"`
	Comuna    string `json:"comuna" validate:"max=100"`
}

type ClienteService struct {
	repo      cliente.Repository
	publisher eventbus.EventBus
}

func NewClienteService(repo cliente.Repository, publisher eventbus.EventBus) *ClienteService {
	return &ClienteService{repo: repo, publisher: publisher}
}

func (s *ClienteService) List(ctx context.Context, q listing.Query) (listing.Page[cliente.Cliente], error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return listing.Page[cliente.Cliente]{}, err
	}
	return listing.Apply(all, q, ClienteFields), nil
}

// Create stores the RUT in its canonical 12.345.678-5 form and rejects a
// RUT that is already registered.
func (s *ClienteService) Create(ctx context.Context, dto ClienteDTO) (cliente.Cliente, error) {
	if err := validation.Struct(ctx, &dto); err != nil {
		return cliente.Cliente{}, err
	}
	existing, err := s.repo.GetAll(ctx)
	if err != nil {
		return cliente.Cliente{}, err
	}
	for _, c := range existing {
		if c.SameRUT(dto.RUT) {
			return cliente.Cliente{}, serrors.NewValidationError(nil).Add("rut", "already registered")
		}
	}
	created, err := s.repo.Create(ctx, cliente.Cliente{
		Nombre:    strings.TrimSpace(dto.Nombre),
		RUT:       validation.FormatRUT(dto.RUT),
		Email:     strings.ToLower(strings.TrimSpace(dto.Email)),
		Telefono:  strings.TrimSpace(dto.Telefono),
		Direccion: strings.TrimSpace(dto.Direccion),
		Comuna:    strings.TrimSpace(dto.Comuna),
	})
	if err != nil {
		return cliente.Cliente{}, err
	}
	s.publisher.Publish(cliente.NewCreadoEvent(ctx, created))
	return created, nil
}
