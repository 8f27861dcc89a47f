package auth

import (
	"context"
	"slices"
	"strings"

	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/serrors"
	"github.com/granempresa/erp-portal/pkg/session"
)

var ErrInvalidCredentials = serrors.NewError(serrors.CodeUnauthorized, "invalid email or password", "Login.Errors.InvalidCredentials")

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Normalize trims the email and lower-cases it. The password is left alone.
func (c Credentials) Normalize() Credentials {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	return c
}

// Usuario is the user record of the auth backend. Older deployments send a
// single "rol" instead of "roles".
type Usuario struct {
	ID     backend.ID `json:"id"`
	Nombre string     `json:"nombre"`
	Email  string     `json:"email"`
	Roles  []string   `json:"roles"`
	Rol    string     `json:"rol"`
}

func (u Usuario) User() session.User {
	roles := make([]string, 0, len(u.Roles)+1)
	for _, r := range slices.Concat(u.Roles, []string{u.Rol}) {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" && !slices.Contains(roles, r) {
			roles = append(roles, r)
		}
	}
	return session.User{
		ID:     u.ID.String(),
		Nombre: strings.TrimSpace(u.Nombre),
		Email:  strings.ToLower(strings.TrimSpace(u.Email)),
		Roles:  roles,
	}
}

// Grant is what the auth backend hands back for valid credentials.
type Grant struct {
	Token   string  `json:"token"`
	Usuario Usuario `json:"usuario"`
}

// Gateway exchanges credentials for a backend token.
type Gateway interface {
	Login(ctx context.Context, creds Credentials) (Grant, error)
}
