package services

import (
	"context"
	"fmt"

	"github.com/granempresa/erp-portal/modules/rrhh/domain/aggregates/empleado"
	"github.com/granempresa/erp-portal/modules/rrhh/domain/aggregates/solicitud"
	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/mailer"
)

var SolicitudFields = listing.Fields[solicitud.Solicitud]{
	Text: func(s solicitud.Solicitud) []string {
		return []string{s.Empleado, s.Tipo, s.Motivo}
	},
	Date: solicitud.Solicitud.Inicio,
	Filters: map[string]func(solicitud.Solicitud, string) bool{
		"estado":      listing.Equal(func(s solicitud.Solicitud) string { return s.Estado }),
		"tipo":        listing.Equal(func(s solicitud.Solicitud) string { return s.Tipo }),
		"empleado_id": listing.Equal(func(s solicitud.Solicitud) string { return s.EmpleadoID.String() }),
	},
	Sort: map[string]func(a, b solicitud.Solicitud) int{
		"fecha_inicio": listing.ByTime(solicitud.Solicitud.Inicio),
		"estado":       listing.ByString(func(s solicitud.Solicitud) string { return s.Estado }),
	},
	DefaultSort: "fecha_inicio",
	DefaultDesc: true,
}

// Resultado is the outcome of approving or rejecting a request.
type Resultado struct {
	Solicitud         solicitud.Solicitud `json:"solicitud"`
	Notificado        bool                `json:"notificado"`
	ErrorNotificacion string              `json:"error_notificacion,omitempty"`
}

type SolicitudService struct {
	repo      solicitud.Repository
	empleados empleado.Repository
	mailer    mailer.Service
	publisher eventbus.EventBus
}

func NewSolicitudService(
	repo solicitud.Repository,
	empleados empleado.Repository,
	m mailer.Service,
	publisher eventbus.EventBus,
) *SolicitudService {
	return &SolicitudService{
		repo:      repo,
		empleados: empleados,
		mailer:    m,
		publisher: publisher,
	}
}

func (s *SolicitudService) List(ctx context.Context, q listing.Query) (listing.Page[solicitud.Solicitud], error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return listing.Page[solicitud.Solicitud]{}, err
	}
	return listing.Apply(all, q, SolicitudFields), nil
}

func (s *SolicitudService) Aprobar(ctx context.Context, id string, notificar bool) (Resultado, error) {
	return s.resolve(ctx, id, solicitud.EstadoAprobada, "", notificar)
}

func (s *SolicitudService) Rechazar(ctx context.Context, id, comentario string, notificar bool) (Resultado, error) {
	return s.resolve(ctx, id, solicitud.EstadoRechazada, comentario, notificar)
}

func (s *SolicitudService) resolve(ctx context.Context, id, estado, comentario string, notificar bool) (Resultado, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Resultado{}, err
	}
	resolved, err := current.Resolve(estado, comentario)
	if err != nil {
		return Resultado{}, err
	}
	saved, err := s.repo.Resolve(ctx, id, solicitud.Resolution{
		Estado:     resolved.Estado,
		Comentario: resolved.Comentario,
	})
	if err != nil {
		return Resultado{}, err
	}
	if saved != nil {
		resolved = *saved
	}
	s.publisher.Publish(solicitud.NewResueltaEvent(ctx, resolved))

	res := Resultado{Solicitud: resolved}
	if notificar {
		if err := s.notify(ctx, resolved); err != nil {
			composables.UseLogger(ctx).WithError(err).WithField("solicitud", id).Warn("failed to notify employee")
			res.ErrorNotificacion = err.Error()
		} else {
			res.Notificado = true
		}
	}
	return res, nil
}

func (s *SolicitudService) notify(ctx context.Context, sol solicitud.Solicitud) error {
	emp, err := s.empleados.GetByID(ctx, sol.EmpleadoID.String())
	if err != nil {
		return err
	}
	if emp.Email == "" {
		return fmt.Errorf("empleado %s has no email", emp.ID)
	}
	body := fmt.Sprintf("Hola %s,\n\nTu solicitud de %s del %s fue %s.",
		emp.Nombre, sol.Tipo, sol.FechaInicio, sol.Estado)
	if sol.Comentario != "" {
		body += "\n\nComentario: " + sol.Comentario
	}
	return s.mailer.Send(ctx, mailer.Email{
		To:       []string{emp.Email},
		Subject:  "Solicitud " + sol.Estado,
		TextBody: body,
	})
}
