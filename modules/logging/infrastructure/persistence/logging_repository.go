package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/granempresa/erp-portal/modules/logging/domain/entities/authenticationlog"
	"github.com/granempresa/erp-portal/modules/logging/infrastructure/persistence/models"
	"github.com/granempresa/erp-portal/pkg/composables"
)

type AuthenticationLogRepository struct{}

func NewAuthenticationLogRepository() authenticationlog.Repository {
	return &AuthenticationLogRepository{}
}

func (r *AuthenticationLogRepository) List(
	ctx context.Context,
	params *authenticationlog.FindParams,
) ([]*authenticationlog.AuthenticationLog, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildAuthLogFilters(params)
	query := `
		SELECT id, user_id, email, ip, user_agent, created_at
		FROM authentication_logs
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
	`
	if params != nil {
		query += " " + formatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query authentication logs")
	}
	defer rows.Close()

	var results []*authenticationlog.AuthenticationLog
	for rows.Next() {
		var row models.AuthenticationLog
		if err := rows.Scan(&row.ID, &row.UserID, &row.Email, &row.IP, &row.UserAgent, &row.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan authentication log")
		}
		results = append(results, toDomainAuthenticationLog(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *AuthenticationLogRepository) Count(ctx context.Context, params *authenticationlog.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildAuthLogFilters(params)

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM authentication_logs
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "count authentication logs")
	}
	return count, nil
}

func (r *AuthenticationLogRepository) Create(ctx context.Context, log *authenticationlog.AuthenticationLog) error {
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
	_, err = tx.Exec(
		ctx,
		`INSERT INTO authentication_logs (id, user_id, email, ip, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ID.String(),
		log.UserID,
		log.Email,
		log.IP,
		log.UserAgent,
		log.CreatedAt,
	)
	return errors.Wrap(err, "insert authentication log")
}

func buildAuthLogFilters(params *authenticationlog.FindParams) ([]string, []any) {
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
	if v := strings.TrimSpace(params.IP); v != "" {
		add("ip = $%d", v)
	}
	if params.From != nil && !params.From.IsZero() {
		add("created_at >= $%d", *params.From)
	}
	if params.To != nil && !params.To.IsZero() {
		add("created_at <= $%d", *params.To)
	}
	return where, args
}
