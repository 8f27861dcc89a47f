package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/modules/core/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/middleware"
)

type NavigationController struct {
	app               application.Application
	navigationService *services.NavigationService
	basePath          string
}

func NewNavigationController(app application.Application) application.Controller {
	return &NavigationController{
		app:               app,
		navigationService: app.Service(services.NavigationService{}).(*services.NavigationService),
		basePath:          "/api/navigation",
	}
}

func (c *NavigationController) Key() string {
	return c.basePath
}

func (c *NavigationController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireSession(), middleware.ProvideLocalizer(c.app))
	router.HandleFunc("", c.Menu).Methods(http.MethodGet)
	router.HandleFunc("/search", c.Search).Methods(http.MethodGet)
	router.HandleFunc("/viewstate", c.ViewState).Methods(http.MethodGet)
}

func (c *NavigationController) Menu(w http.ResponseWriter, r *http.Request) {
	user, err := composables.UseUser(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, c.navigationService.Menu(r.Context(), user))
}

func (c *NavigationController) ViewState(w http.ResponseWriter, r *http.Request) {
	user, err := composables.UseUser(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, c.navigationService.ViewState(r.Context(), user))
}

func (c *NavigationController) Search(w http.ResponseWriter, r *http.Request) {
	user, err := composables.UseUser(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, c.navigationService.Search(r.Context(), user, r.URL.Query().Get("q")))
}
