package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/modules/core/domain/aggregates/auth"
	"github.com/granempresa/erp-portal/modules/core/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/middleware"
	"github.com/granempresa/erp-portal/pkg/session"
	"github.com/granempresa/erp-portal/pkg/types"
)

type AuthControllerOptions struct {
	CookieKey    string
	SecureCookie bool
	// LoginAttempts per minute and client IP; zero disables the limit.
	LoginAttempts int
	RealIPHeader  string
}

// Profile is the payload the SPA boots from after login and on reload.
type Profile struct {
	User       session.User           `json:"user"`
	Navigation []types.NavigationItem `json:"navigation"`
	ViewState  *authz.ViewState       `json:"viewstate"`
	ExpiresAt  time.Time              `json:"expires_at"`
}

type AuthController struct {
	app               application.Application
	sessionService    *services.SessionService
	navigationService *services.NavigationService
	opts              AuthControllerOptions
	basePath          string
}

func NewAuthController(app application.Application, opts AuthControllerOptions) application.Controller {
	return &AuthController{
		app:               app,
		sessionService:    app.Service(services.SessionService{}).(*services.SessionService),
		navigationService: app.Service(services.NavigationService{}).(*services.NavigationService),
		opts:              opts,
		basePath:          "/api/auth",
	}
}

func (c *AuthController) Key() string {
	return c.basePath
}

func (c *AuthController) Register(r *mux.Router) {
	loginRouter := r.PathPrefix(c.basePath + "/login").Subrouter()
	loginRouter.Use(
		middleware.ProvideLocalizer(c.app),
		middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerPeriod: c.opts.LoginAttempts,
			Period:            time.Minute,
			RealIPHeader:      c.opts.RealIPHeader,
		}),
	)
	loginRouter.HandleFunc("", c.Login).Methods(http.MethodPost)

	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireSession(), middleware.ProvideLocalizer(c.app))
	router.HandleFunc("/logout", c.Logout).Methods(http.MethodPost)
	router.HandleFunc("/me", c.Me).Methods(http.MethodGet)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if err := httpapi.DecodeJSON(r, &creds); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	sess, err := c.sessionService.Login(r.Context(), creds)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	middleware.SetSessionCookie(w, c.opts.CookieKey, sess, c.opts.SecureCookie)
	httpapi.WriteOK(w, c.profile(r, sess))
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.sessionService.Logout(r.Context()); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	middleware.ClearSessionCookie(w, c.opts.CookieKey)
	w.WriteHeader(http.StatusNoContent)
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	sess, err := composables.UseSession(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, c.profile(r, sess))
}

func (c *AuthController) profile(r *http.Request, sess *session.Session) Profile {
	ctx := r.Context()
	return Profile{
		User:       sess.User,
		Navigation: c.navigationService.Menu(ctx, sess.User),
		ViewState:  c.navigationService.ViewState(ctx, sess.User),
		ExpiresAt:  sess.ExpiresAt,
	}
}
