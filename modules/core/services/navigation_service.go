package services

import (
	"context"
	"slices"

	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/intl"
	"github.com/granempresa/erp-portal/pkg/session"
	"github.com/granempresa/erp-portal/pkg/spotlight"
	"github.com/granempresa/erp-portal/pkg/types"
)

// viewStateActions are resolved for every object that appears in the menu,
// so the SPA can hide buttons up front.
var viewStateActions = []string{
	authz.ActionList,
	authz.ActionView,
	authz.ActionCreate,
	authz.ActionUpdate,
	authz.ActionDelete,
	authz.ActionApprove,
	authz.ActionExport,
	authz.ActionImport,
}

type NavigationService struct {
	authz *authz.Service
	items func() []types.NavigationItem
}

// NewNavigationService reads the menu through items on every call, so modules
// registered later still show up.
func NewNavigationService(authzSvc *authz.Service, items func() []types.NavigationItem) *NavigationService {
	return &NavigationService{authz: authzSvc, items: items}
}

// Menu returns the menu user may see: denied items are removed, emptied
// parents dropped and single-child parents collapsed. Names are translated
// with the localizer of ctx when there is one.
func (s *NavigationService) Menu(ctx context.Context, user session.User) []types.NavigationItem {
	subject := authz.SubjectForUser(user.ID)
	visible := types.FilterNavigation(s.items(), func(item types.NavigationItem) bool {
		return s.authz.Allowed(ctx, authz.NewRequest(subject, user.Roles, item.AuthzObject, item.Action()))
	})
	menu := types.CollapseNavigation(visible)
	localizer, _ := intl.UseLocalizer(ctx)
	return types.TranslateNavigation(localizer, menu)
}

// Search ranks the entries of the user's menu against q.
func (s *NavigationService) Search(ctx context.Context, user session.User, q string) []spotlight.QuickLink {
	return spotlight.Find(q, spotlight.FromNavigation(s.Menu(ctx, user)))
}

// ViewState resolves every action on every object of the menu.
func (s *NavigationService) ViewState(ctx context.Context, user session.User) *authz.ViewState {
	var caps []authz.Capability
	for _, object := range menuObjects(s.items()) {
		for _, action := range viewStateActions {
			caps = append(caps, authz.Capability{Object: object, Action: action})
		}
	}
	return s.authz.NewViewState(ctx, authz.SubjectForUser(user.ID), user.Roles, caps)
}

func menuObjects(items []types.NavigationItem) []string {
	var out []string
	var walk func([]types.NavigationItem)
	walk = func(items []types.NavigationItem) {
		for _, item := range items {
			if item.AuthzObject != "" && !slices.Contains(out, item.AuthzObject) {
				out = append(out, item.AuthzObject)
			}
			walk(item.Children)
		}
	}
	walk(items)
	slices.Sort(out)
	return out
}
