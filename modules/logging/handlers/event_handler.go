package handlers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/granempresa/erp-portal/modules/core/domain/aggregates/auth"
	"github.com/granempresa/erp-portal/modules/logging/domain/entities/actionlog"
	"github.com/granempresa/erp-portal/modules/logging/domain/entities/authenticationlog"
	"github.com/granempresa/erp-portal/modules/logging/services"
	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/eventbus"
)

// EventsHandler writes published domain events to the action log and
// logins to the authentication log.
type EventsHandler struct {
	pool    *pgxpool.Pool
	service *services.LogsService
	logger  *logrus.Logger
}

func NewEventsHandler(pool *pgxpool.Pool, service *services.LogsService, logger *logrus.Logger) *EventsHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &EventsHandler{pool: pool, service: service, logger: logger}
}

// Register subscribes the handler to publisher.
func (h *EventsHandler) Register(publisher eventbus.EventBus) {
	publisher.Subscribe(h.OnEvent)
	publisher.Subscribe(h.OnLoggedIn)
}

func (h *EventsHandler) context() context.Context {
	ctx := context.Background()
	if h.pool != nil {
		ctx = composables.WithPool(ctx, h.pool)
	}
	return ctx
}

func (h *EventsHandler) OnEvent(e eventbus.Event) {
	entry := actionlog.FromEvent(e)
	if err := h.service.CreateActionLog(h.context(), entry); err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"event":     entry.EventType,
			"user_id":   entry.UserID,
			"entity_id": entry.EntityID,
		}).Warn("failed to persist action log")
	}
}

func (h *EventsHandler) OnLoggedIn(e *auth.LoggedInEvent) {
	entry := &authenticationlog.AuthenticationLog{
		UserID:    e.UserID,
		Email:     e.Email,
		IP:        e.IP,
		UserAgent: e.UserAgent,
		CreatedAt: e.OccurredAt,
	}
	if err := h.service.CreateAuthenticationLog(h.context(), entry); err != nil {
		h.logger.WithError(err).
			WithField("user_id", e.UserID).
			Warn("failed to persist authentication log")
	}
}
