package ordentrabajo

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

const (
	EstadoCreada     = "CREADA"
	EstadoAsignada   = "ASIGNADA"
	EstadoEnPicking  = "EN PICKING"
	EstadoCompletada = "COMPLETADA"
	EstadoCancelada  = "CANCELADA"
)

// Estados lists every work order state in lifecycle order.
var Estados = []string{EstadoCreada, EstadoAsignada, EstadoEnPicking, EstadoCompletada, EstadoCancelada}

var transitions = map[string][]string{
	EstadoCreada:    {EstadoAsignada, EstadoCancelada},
	EstadoAsignada:  {EstadoEnPicking, EstadoCancelada},
	EstadoEnPicking: {EstadoCompletada, EstadoCancelada},
}

// NormalizeEstado maps backend spellings such as "en_picking" onto the Estado constants.
func NormalizeEstado(estado string) string {
	estado = strings.ToUpper(strings.TrimSpace(estado))
	return strings.ReplaceAll(estado, "_", " ")
}

func CanTransition(from, to string) bool {
	return slices.Contains(transitions[NormalizeEstado(from)], NormalizeEstado(to))
}

// Terminal reports whether no transition leaves estado.
func Terminal(estado string) bool {
	return len(transitions[NormalizeEstado(estado)]) == 0
}

type OrdenTrabajo struct {
	ID          backend.ID `json:"id"`
	Numero      string     `json:"numero,omitempty"`
	Tipo        string     `json:"tipo,omitempty"`
	Estado      string     `json:"estado"`
	Prioridad   string     `json:"prioridad,omitempty"`
	AsignadoA   string     `json:"asignado_a,omitempty"`
	VentaID     backend.ID `json:"venta_id,omitempty"`
	Descripcion string     `json:"descripcion,omitempty"`
	Fecha       string     `json:"fecha_creacion,omitempty"`
}

func (o OrdenTrabajo) Creacion() time.Time {
	return listing.ParseDate(o.Fecha)
}

// Cambio is the body of a state change request.
type Cambio struct {
	Estado    string `json:"estado" validate:"required"`
	AsignadoA string `json:"asignado_a,omitempty"`
}

// Apply returns the order after c. Assigning requires naming the operator.
func (o OrdenTrabajo) Apply(c Cambio) (OrdenTrabajo, Cambio, error) {
	c.Estado = NormalizeEstado(c.Estado)
	c.AsignadoA = strings.TrimSpace(c.AsignadoA)
	if !slices.Contains(Estados, c.Estado) {
		return o, c, serrors.NewValidationError(nil).Add("estado", "unknown state "+c.Estado)
	}
	if !CanTransition(o.Estado, c.Estado) {
		return o, c, serrors.InvalidState(o.Estado, c.Estado)
	}
	if c.Estado == EstadoAsignada && c.AsignadoA == "" {
		return o, c, serrors.NewValidationError(nil).Add("asignado_a", "required to assign a work order")
	}
	o.Estado = c.Estado
	if c.AsignadoA != "" {
		o.AsignadoA = c.AsignadoA
	}
	return o, c, nil
}

type Repository interface {
	GetAll(ctx context.Context) ([]OrdenTrabajo, error)
	GetByID(ctx context.Context, id string) (OrdenTrabajo, error)
	// CambiarEstado returns nil when the backend answered without a body.
	CambiarEstado(ctx context.Context, id string, c Cambio) (*OrdenTrabajo, error)
}
