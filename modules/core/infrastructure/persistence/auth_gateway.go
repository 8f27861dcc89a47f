package persistence

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/modules/core/domain/aggregates/auth"
	"github.com/granempresa/erp-portal/pkg/backend"
)

// AuthGateway logs users in against the RRHH auth endpoint.
type AuthGateway struct {
	client *backend.Client
}

func NewAuthGateway(client *backend.Client) auth.Gateway {
	return &AuthGateway{client: client}
}

func (g *AuthGateway) Login(ctx context.Context, creds auth.Credentials) (auth.Grant, error) {
	var grant auth.Grant
	if err := g.client.Post(ctx, "/auth/login", creds, &grant); err != nil {
		if be, ok := backend.AsError(err); ok && (be.Status == http.StatusUnauthorized || be.Status == http.StatusForbidden) {
			return auth.Grant{}, auth.ErrInvalidCredentials
		}
		return auth.Grant{}, errors.Wrap(err, "login")
	}
	if strings.TrimSpace(grant.Token) == "" || grant.Usuario.ID.IsZero() {
		return auth.Grant{}, errors.New("login: auth backend returned no token or user")
	}
	return grant, nil
}
