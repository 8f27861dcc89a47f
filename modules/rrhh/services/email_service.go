package services

import (
	"context"
	"fmt"

	"github.com/granempresa/erp-portal/modules/rrhh/domain/aggregates/empleado"
	"github.com/granempresa/erp-portal/pkg/batch"
	"github.com/granempresa/erp-portal/pkg/mailer"
)

type EmailDTO struct {
	EmpleadoIDs []string `json:"empleado_ids" validate:"required,min=1,dive,required"`
	Asunto      string   `json:"asunto" validate:"required,max=200"`
	Cuerpo      string   `json:"cuerpo" validate:"required"`
}

type Destinatario struct {
	EmpleadoID string `json:"empleado_id"`
	Email      string `json:"email"`
}

type EmailService struct {
	empleados empleado.Repository
	mailer    mailer.Service
	limit     int
}

func NewEmailService(empleados empleado.Repository, m mailer.Service, limit int) *EmailService {
	return &EmailService{empleados: empleados, mailer: m, limit: limit}
}

// Send mails every selected employee independently; one bad address never
// stops the rest.
func (s *EmailService) Send(ctx context.Context, dto EmailDTO) batch.Summary[Destinatario] {
	return batch.FanOut(ctx, dedupe(dto.EmpleadoIDs), s.limit, func(id string) string { return id },
		func(ctx context.Context, id string) (Destinatario, error) {
			emp, err := s.empleados.GetByID(ctx, id)
			if err != nil {
				return Destinatario{}, err
			}
			if emp.Email == "" {
				return Destinatario{}, fmt.Errorf("empleado %s has no email", id)
			}
			d := Destinatario{EmpleadoID: id, Email: emp.Email}
			err = s.mailer.Send(ctx, mailer.Email{
				To:       []string{emp.Email},
				Subject:  dto.Asunto,
				TextBody: dto.Cuerpo,
			})
			return d, err
		})
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
