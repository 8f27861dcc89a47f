package cliente

import (
	"context"
	"strings"

	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/validation"
)

type Cliente struct {
	ID        backend.ID `json:"id,omitempty"`
	Nombre    string     `json:"nombre"`
	RUT       string     `json:"rut"`
	Email     string     `json:"email,omitempty"`
	Telefono  string     `json:"telefono,omitempty"`
	Direccion string     `json:"direccion,omitempty"`
	Comuna    string     `json:"comuna,omitempty"`
}

// SameRUT compares RUTs ignoring dots, dashes and case.
func (c Cliente) SameRUT(rut string) bool {
	a, b := validation.NormalizeRUT(c.RUT), validation.NormalizeRUT(rut)
	return a != "" && strings.EqualFold(a, b)
}

type Repository interface {
	GetAll(ctx context.Context) ([]Cliente, error)
	Create(ctx context.Context, c Cliente) (Cliente, error)
}
