package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/session"
)

// ProvideSession loads the session named by the sid cookie. Requests without
// a valid session pass through unauthenticated; RequireSession and
// RequireAuthz reject them where needed.
func ProvideSession(store session.Store, cookieKey string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieKey)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			sess, err := store.Get(ctx, cookie.Value)
			switch {
			case errors.Is(err, session.ErrNotFound):
				ClearSessionCookie(w, cookieKey)
				next.ServeHTTP(w, r)
				return
			case err != nil:
				composables.UseLogger(ctx).WithError(err).Error("failed to load session")
				next.ServeHTTP(w, r)
				return
			}
			if sess.Expired(time.Now()) {
				_ = store.Delete(ctx, sess.ID)
				ClearSessionCookie(w, cookieKey)
				next.ServeHTTP(w, r)
				return
			}
			if params, ok := composables.UseParams(ctx); ok {
				params.Authenticated = true
			}
			logger := composables.UseLogger(ctx).WithField("user-id", sess.User.ID)
			ctx = composables.WithLogger(composables.WithSession(ctx, sess), logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession answers 401 when no session was provided.
func RequireSession() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := composables.UseSession(r.Context()); err != nil {
				httpapi.WriteServiceError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func SetSessionCookie(w http.ResponseWriter, key string, sess *session.Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     key,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, key string) {
	http.SetCookie(w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
