package authenticationlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AuthenticationLog struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

type FindParams struct {
	UserID string
	IP     string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

func (p *FindParams) Matches(l *AuthenticationLog) bool {
	if p == nil {
		return true
	}
	switch {
	case p.UserID != "" && l.UserID != p.UserID:
		return false
	case p.IP != "" && l.IP != p.IP:
		return false
	case p.From != nil && l.CreatedAt.Before(*p.From):
		return false
	case p.To != nil && l.CreatedAt.After(*p.To):
		return false
	}
	return true
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]*AuthenticationLog, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, log *AuthenticationLog) error
}
