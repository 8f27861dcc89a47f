package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/granempresa/erp-portal/modules/logging/domain/entities/actionlog"
	"github.com/granempresa/erp-portal/modules/logging/domain/entities/authenticationlog"
	"github.com/granempresa/erp-portal/modules/logging/infrastructure/persistence/models"
)

func toDomainAuthenticationLog(row *models.AuthenticationLog) *authenticationlog.AuthenticationLog {
	return &authenticationlog.AuthenticationLog{
		ID:        uuid.MustParse(row.ID),
		UserID:    row.UserID,
		Email:     row.Email,
		IP:        row.IP,
		UserAgent: row.UserAgent,
		CreatedAt: row.CreatedAt,
	}
}

func toDomainActionLog(row *models.ActionLog) *actionlog.ActionLog {
	var diff json.RawMessage
	if len(row.Diff) > 0 {
		diff = json.RawMessage(row.Diff)
	}
	return &actionlog.ActionLog{
		ID:        uuid.MustParse(row.ID),
		UserID:    row.UserID,
		Module:    row.Module,
		Action:    row.Action,
		EntityID:  row.EntityID,
		EventType: row.EventType,
		Diff:      diff,
		CreatedAt: row.CreatedAt,
	}
}

func toDBActionLog(l *actionlog.ActionLog) *models.ActionLog {
	var diff []byte
	if len(l.Diff) > 0 {
		diff = []byte(l.Diff)
	}
	return &models.ActionLog{
		ID:        l.ID.String(),
		UserID:    l.UserID,
		Module:    l.Module,
		Action:    l.Action,
		EntityID:  l.EntityID,
		EventType: l.EventType,
		Diff:      diff,
		CreatedAt: l.CreatedAt,
	}
}

func formatLimitOffset(limit, offset int) string {
	if limit <= 0 {
		return ""
	}
	if offset < 0 {
		offset = 0
	}
	return fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset)
}
