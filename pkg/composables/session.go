package composables

import (
	"context"
	"errors"

	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/constants"
	"github.com/granempresa/erp-portal/pkg/session"
)

var ErrNoSession = errors.New("no session found in context")

// WithSession stores the session in ctx together with its backend token,
// so backend clients called further down forward it automatically.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	ctx = context.WithValue(ctx, constants.SessionKey, s)
	return backend.WithToken(ctx, s.Token)
}

func UseSession(ctx context.Context) (*session.Session, error) {
	s, ok := ctx.Value(constants.SessionKey).(*session.Session)
	if !ok || s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}

func UseUser(ctx context.Context) (session.User, error) {
	s, err := UseSession(ctx)
	if err != nil {
		return session.User{}, err
	}
	return s.User, nil
}

// UseAuthzRequest builds the authz request for the current user.
func UseAuthzRequest(ctx context.Context, object, action string) (authz.Request, error) {
	user, err := UseUser(ctx)
	if err != nil {
		return authz.Request{}, err
	}
	return authz.NewRequest(authz.SubjectForUser(user.ID), user.Roles, object, action), nil
}

// UseActor returns the id of the current user, or "system" outside a request.
func UseActor(ctx context.Context) string {
	user, err := UseUser(ctx)
	if err != nil || user.ID == "" {
		return "system"
	}
	return user.ID
}
