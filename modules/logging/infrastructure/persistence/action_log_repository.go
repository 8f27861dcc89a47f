package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/granempresa/erp-portal/modules/logging/domain/entities/actionlog"
	"github.com/granempresa/erp-portal/modules/logging/infrastructure/persistence/models"
	"github.com/granempresa/erp-portal/pkg/composables"
)

type ActionLogRepository struct{}

func NewActionLogRepository() actionlog.Repository {
	return &ActionLogRepository{}
}

func (r *ActionLogRepository) List(ctx context.Context, params *actionlog.FindParams) ([]*actionlog.ActionLog, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildActionLogFilters(params)
	query := `
		SELECT id, user_id, module, action, entity_id, event_type, diff, created_at
		FROM action_logs
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
	`
	if params != nil {
		query += " " + formatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query action logs")
	}
	defer rows.Close()

	var results []*actionlog.ActionLog
	for rows.Next() {
		var row models.ActionLog
		if err := rows.Scan(
			&row.ID,
			&row.UserID,
			&row.Module,
			&row.Action,
			&row.EntityID,
			&row.EventType,
			&row.Diff,
			&row.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan action log")
		}
		results = append(results, toDomainActionLog(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ActionLogRepository) Count(ctx context.Context, params *actionlog.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildActionLogFilters(params)

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM action_logs
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "count action logs")
	}
	return count, nil
}

func (r *ActionLogRepository) Create(ctx context.Context, log *actionlog.ActionLog) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	row := toDBActionLog(log)
	_, err = tx.Exec(
		ctx,
		`INSERT INTO action_logs (id, user_id, module, action, entity_id, event_type, diff, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		row.ID,
		row.UserID,
		row.Module,
		row.Action,
		row.EntityID,
		row.EventType,
		row.Diff,
		row.CreatedAt,
	)
	return errors.Wrap(err, "insert action log")
}

func buildActionLogFilters(params *actionlog.FindParams) ([]string, []any) {
	where := []string{"1 = 1"}
	var args []any
	if params == nil {
		return where, args
	}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if v := strings.TrimSpace(params.UserID); v != "" {
		add("user_id = $%d", v)
	}
	if v := strings.TrimSpace(params.Module); v != "" {
		add("module = $%d", v)
	}
	if v := strings.TrimSpace(params.Action); v != "" {
		add("action = $%d", v)
	}
	if v := strings.TrimSpace(params.EntityID); v != "" {
		add("entity_id = $%d", v)
	}
	if params.From != nil && !params.From.IsZero() {
		add("created_at >= $%d", *params.From)
	}
	if params.To != nil && !params.To.IsZero() {
		add("created_at <= $%d", *params.To)
	}
	return where, args
}
