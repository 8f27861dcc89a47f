package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/httpapi"
)

// RequireAuthz guards a route with an (object, action) pair: 401 without a
// session, 403 when the policy denies every subject of the user.
func RequireAuthz(svc *authz.Service, object, action string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			req, err := composables.UseAuthzRequest(ctx, object, action)
			if err != nil {
				httpapi.WriteServiceError(w, r, err)
				return
			}
			if err := svc.Authorize(ctx, req); err != nil {
				httpapi.WriteServiceError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guard wraps a single handler, for routers that mix actions on one subrouter.
func Guard(svc *authz.Service, object, action string, h http.HandlerFunc) http.Handler {
	return RequireAuthz(svc, object, action)(h)
}
