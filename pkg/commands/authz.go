package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/iota-uz/go-i18n/v2/i18n"

	"github.com/granempresa/erp-portal/modules/core/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/intl"
	"github.com/granempresa/erp-portal/pkg/session"
	"github.com/granempresa/erp-portal/pkg/types"
)

// CheckPermission prints whether role may perform action on object and
// returns the decision.
func CheckPermission(ctx context.Context, svc *authz.Service, role, object, action string, out io.Writer) (bool, error) {
	req := authz.NewRequest(authz.SubjectForRole(role), []string{role}, object, action)
	allowed, err := svc.Check(ctx, req)
	if err != nil {
		return false, err
	}
	verdict := "deny"
	if allowed {
		verdict = "allow"
	}
	_, err = fmt.Fprintf(out, "%s %s %s: %s\n", role, object, authz.NormalizeAction(action), verdict)
	return allowed, err
}

// PrintNavigation writes the menu a user with role sees, translated to lang.
func PrintNavigation(ctx context.Context, app application.Application, role, lang string, out io.Writer) error {
	nav := app.Service(services.NavigationService{}).(*services.NavigationService)
	ctx = intl.WithLocalizer(ctx, i18n.NewLocalizer(app.Bundle(), lang))
	menu := nav.Menu(ctx, session.User{ID: "cli", Roles: []string{role}})
	if len(menu) == 0 {
		_, err := fmt.Fprintf(out, "role %q sees no menu entries\n", role)
		return err
	}
	return writeMenu(out, menu, 0)
}

func writeMenu(out io.Writer, items []types.NavigationItem, depth int) error {
	for _, item := range items {
		line := strings.Repeat("  ", depth) + item.Name
		if item.Href != "" {
			line += " (" + item.Href + ")"
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
		if err := writeMenu(out, item.Children, depth+1); err != nil {
			return err
		}
	}
	return nil
}
