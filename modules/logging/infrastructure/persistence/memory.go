package persistence

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/granempresa/erp-portal/modules/logging/domain/entities/actionlog"
	"github.com/granempresa/erp-portal/modules/logging/domain/entities/authenticationlog"
)

const defaultMemorySize = 1000

// ring keeps the newest size entries; older ones are dropped.
type ring[T any] struct {
	mu      sync.RWMutex
	size    int
	entries []T
}

func newRing[T any](size int) *ring[T] {
	if size <= 0 {
		size = defaultMemorySize
	}
	return &ring[T]{size: size}
}

func (r *ring[T]) push(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, v)
	if over := len(r.entries) - r.size; over > 0 {
		r.entries = slices.Delete(r.entries, 0, over)
	}
}

// newest returns the entries matching keep, newest first.
func (r *ring[T]) newest(keep func(T) bool) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []T
	for i := len(r.entries) - 1; i >= 0; i-- {
		if keep(r.entries[i]) {
			out = append(out, r.entries[i])
		}
	}
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// MemoryActionLogRepository holds the latest action logs when no database is configured.
type MemoryActionLogRepository struct {
	ring *ring[*actionlog.ActionLog]
}

func NewMemoryActionLogRepository(size int) *MemoryActionLogRepository {
	return &MemoryActionLogRepository{ring: newRing[*actionlog.ActionLog](size)}
}

func (r *MemoryActionLogRepository) List(_ context.Context, params *actionlog.FindParams) ([]*actionlog.ActionLog, error) {
	items := r.ring.newest(params.Matches)
	if params == nil {
		return items, nil
	}
	return page(items, params.Limit, params.Offset), nil
}

func (r *MemoryActionLogRepository) Count(_ context.Context, params *actionlog.FindParams) (int64, error) {
	return int64(len(r.ring.newest(params.Matches))), nil
}

func (r *MemoryActionLogRepository) Create(_ context.Context, log *actionlog.ActionLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	r.ring.push(log)
	return nil
}

// MemoryAuthenticationLogRepository holds the latest logins when no database is configured.
type MemoryAuthenticationLogRepository struct {
	ring *ring[*authenticationlog.AuthenticationLog]
}

func NewMemoryAuthenticationLogRepository(size int) *MemoryAuthenticationLogRepository {
	return &MemoryAuthenticationLogRepository{ring: newRing[*authenticationlog.AuthenticationLog](size)}
}

func (r *MemoryAuthenticationLogRepository) List(
	_ context.Context,
	params *authenticationlog.FindParams,
) ([]*authenticationlog.AuthenticationLog, error) {
	items := r.ring.newest(params.Matches)
	if params == nil {
		return items, nil
	}
	return page(items, params.Limit, params.Offset), nil
}

func (r *MemoryAuthenticationLogRepository) Count(_ context.Context, params *authenticationlog.FindParams) (int64, error) {
	return int64(len(r.ring.newest(params.Matches))), nil
}

func (r *MemoryAuthenticationLogRepository) Create(_ context.Context, log *authenticationlog.AuthenticationLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	r.ring.push(log)
	return nil
}
