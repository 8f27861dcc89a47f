package empleado

import (
	"context"
	"strings"
	"time"

	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/listing"
)

type Empleado struct {
	ID           backend.ID `json:"id"`
	Nombre       string     `json:"nombre"`
	Apellido     string     `json:"apellido,omitempty"`
	RUT          string     `json:"rut,omitempty"`
	Email        string     `json:"email"`
	Cargo        string     `json:"cargo"`
	Departamento string     `json:"departamento"`
	FechaIngreso string     `json:"fecha_ingreso,omitempty"`
	Activo       bool       `json:"activo"`
}

func (e Empleado) NombreCompleto() string {
	return strings.TrimSpace(e.Nombre + " " + e.Apellido)
}

func (e Empleado) Ingreso() time.Time {
	return listing.ParseDate(e.FechaIngreso)
}

type Repository interface {
	GetAll(ctx context.Context) ([]Empleado, error)
	GetByID(ctx context.Context, id string) (Empleado, error)
}
