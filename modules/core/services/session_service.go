package services

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/modules/core/domain/aggregates/auth"
	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/session"
	"github.com/granempresa/erp-portal/pkg/validation"
)

type SessionService struct {
	gateway   auth.Gateway
	store     session.Store
	ttl       time.Duration
	publisher eventbus.EventBus
}

func NewSessionService(gateway auth.Gateway, store session.Store, ttl time.Duration, publisher eventbus.EventBus) *SessionService {
	return &SessionService{
		gateway:   gateway,
		store:     store,
		ttl:       ttl,
		publisher: publisher,
	}
}

// Login checks the credentials against the auth backend and opens a session
// holding the backend token.
func (s *SessionService) Login(ctx context.Context, creds auth.Credentials) (*session.Session, error) {
	creds = creds.Normalize()
	if err := validation.Struct(ctx, &creds); err != nil {
		return nil, err
	}
	grant, err := s.gateway.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	sess, err := session.New(grant.Token, grant.Usuario.User(), s.ttl)
	if err != nil {
		return nil, errors.Wrap(err, "new session")
	}
	sess.IP, _ = composables.UseIP(ctx)
	sess.UserAgent, _ = composables.UseUserAgent(ctx)
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, errors.Wrap(err, "save session")
	}
	composables.UseLogger(ctx).WithField("user-id", sess.User.ID).Info("user logged in")
	s.publisher.Publish(auth.NewLoggedInEvent(sess))
	return sess, nil
}

// Logout deletes the current session. Logging out twice is not an error.
func (s *SessionService) Logout(ctx context.Context) error {
	sess, err := composables.UseSession(ctx)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, session.ErrNotFound) {
		return errors.Wrap(err, "delete session")
	}
	s.publisher.Publish(auth.NewLoggedOutEvent(sess))
	return nil
}
