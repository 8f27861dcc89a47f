package solicitud

import (
	"context"
	"strings"
	"time"

	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

const (
	EstadoPendiente = "PENDIENTE"
	EstadoAprobada  = "APROBADA"
	EstadoRechazada = "RECHAZADA"
)

// Solicitud is a leave or permission request filed by an employee.
type Solicitud struct {
	ID          backend.ID `json:"id"`
	EmpleadoID  backend.ID `json:"empleado_id"`
	Empleado    string     `json:"empleado,omitempty"`
	Tipo        string     `json:"tipo"`
	Estado      string     `json:"estado"`
	FechaInicio string     `json:"fecha_inicio"`
	FechaFin    string     `json:"fecha_fin,omitempty"`
	Motivo      string     `json:"motivo,omitempty"`
	Comentario  string     `json:"comentario,omitempty"`
}

func (s Solicitud) Inicio() time.Time {
	return listing.ParseDate(s.FechaInicio)
}

func (s Solicitud) Pendiente() bool {
	return strings.EqualFold(s.Estado, EstadoPendiente)
}

// Resolve moves a pending request to APROBADA or RECHAZADA.
func (s Solicitud) Resolve(estado, comentario string) (Solicitud, error) {
	estado = strings.ToUpper(strings.TrimSpace(estado))
	comentario = strings.TrimSpace(comentario)
	if estado != EstadoAprobada && estado != EstadoRechazada {
		return s, serrors.NewValidationError(nil).Add("estado", "unknown resolution "+estado)
	}
	if !s.Pendiente() {
		return s, serrors.InvalidState(strings.ToUpper(s.Estado), estado)
	}
	if estado == EstadoRechazada && comentario == "" {
		return s, serrors.NewValidationError(nil).Add("comentario", "a rejection needs a comment")
	}
	s.Estado = estado
	s.Comentario = comentario
	return s, nil
}

// Resolution is the PATCH body sent to the backend.
type Resolution struct {
	Estado     string `json:"estado"`
	Comentario string `json:"comentario,omitempty"`
}

type Repository interface {
	GetAll(ctx context.Context) ([]Solicitud, error)
	GetByID(ctx context.Context, id string) (Solicitud, error)
	// Resolve returns the backend's copy of the request, or nil when the
	// backend answered with an empty body.
	Resolve(ctx context.Context, id string, r Resolution) (*Solicitud, error)
}
