package services

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/modules/logging/domain/entities/actionlog"
	"github.com/granempresa/erp-portal/modules/logging/domain/entities/authenticationlog"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/validation"
)

// Query is the filter accepted by the log listings. Desde and Hasta are
// inclusive calendar days.
type Query struct {
	UserID   string `form:"user_id"`
	Module   string `form:"module"`
	Action   string `form:"action"`
	EntityID string `form:"entity_id"`
	IP       string `form:"ip"`
	Desde    string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta    string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page" validate:"gte=0"`
	Limit    int    `form:"limit" validate:"gte=0,lte=500"`
}

const defaultLimit = 50

func (q Query) window() (from, to *time.Time) {
	if t, err := time.Parse(time.DateOnly, q.Desde); err == nil {
		from = &t
	}
	if t, err := time.Parse(time.DateOnly, q.Hasta); err == nil {
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to
}

func (q Query) paging() (page, limit, offset int) {
	page, limit = q.Page, q.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return page, limit, (page - 1) * limit
}

type LogsService struct {
	authRepo   authenticationlog.Repository
	actionRepo actionlog.Repository
}

func NewLogsService(
	authRepo authenticationlog.Repository,
	actionRepo actionlog.Repository,
) *LogsService {
	return &LogsService{
		authRepo:   authRepo,
		actionRepo: actionRepo,
	}
}

func (s *LogsService) ListActionLogs(ctx context.Context, q Query) (listing.Page[*actionlog.ActionLog], error) {
	if err := validation.Struct(ctx, q); err != nil {
		return listing.Page[*actionlog.ActionLog]{}, err
	}
	page, limit, offset := q.paging()
	from, to := q.window()
	params := &actionlog.FindParams{
		UserID:   q.UserID,
		Module:   q.Module,
		Action:   q.Action,
		EntityID: q.EntityID,
		From:     from,
		To:       to,
		Limit:    limit,
		Offset:   offset,
	}
	logs, err := s.actionRepo.List(ctx, params)
	if err != nil {
		return listing.Page[*actionlog.ActionLog]{}, err
	}
	total, err := s.actionRepo.Count(ctx, params)
	if err != nil {
		return listing.Page[*actionlog.ActionLog]{}, err
	}
	return newPage(logs, total, page, limit), nil
}

func (s *LogsService) ListAuthenticationLogs(
	ctx context.Context,
	q Query,
) (listing.Page[*authenticationlog.AuthenticationLog], error) {
	if err := validation.Struct(ctx, q); err != nil {
		return listing.Page[*authenticationlog.AuthenticationLog]{}, err
	}
	page, limit, offset := q.paging()
	from, to := q.window()
	params := &authenticationlog.FindParams{
		UserID: q.UserID,
		IP:     q.IP,
		From:   from,
		To:     to,
		Limit:  limit,
		Offset: offset,
	}
	logs, err := s.authRepo.List(ctx, params)
	if err != nil {
		return listing.Page[*authenticationlog.AuthenticationLog]{}, err
	}
	total, err := s.authRepo.Count(ctx, params)
	if err != nil {
		return listing.Page[*authenticationlog.AuthenticationLog]{}, err
	}
	return newPage(logs, total, page, limit), nil
}

func (s *LogsService) CreateAuthenticationLog(ctx context.Context, log *authenticationlog.AuthenticationLog) error {
	if log == nil {
		return errors.New("authentication log payload is required")
	}
	return s.authRepo.Create(ctx, log)
}

func (s *LogsService) CreateActionLog(ctx context.Context, log *actionlog.ActionLog) error {
	if log == nil {
		return errors.New("action log payload is required")
	}
	return s.actionRepo.Create(ctx, log)
}

func newPage[T any](items []T, total int64, page, limit int) listing.Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return listing.Page[T]{
		Data:  items,
		Total: int(total),
		Page:  page,
		Limit: limit,
		Pages: pages,
	}
}
