package solicitud

import (
	"context"

	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/eventbus"
)

const ResueltaEventType = "rrhh.solicitud.resuelta"

type ResueltaEvent struct {
	eventbus.Metadata
	Solicitud Solicitud `json:"solicitud"`
}

func (e *ResueltaEvent) EventType() string { return ResueltaEventType }

func NewResueltaEvent(ctx context.Context, s Solicitud) *ResueltaEvent {
	action := "aprobar"
	if s.Estado == EstadoRechazada {
		action = "rechazar"
	}
	return &ResueltaEvent{
		Metadata:  eventbus.NewMetadata(composables.UseActor(ctx), "rrhh", action, s.ID.String()),
		Solicitud: s,
	}
}
