package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/modules/logging/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/middleware"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

const (
	AccionesAuthzObject = "logging.acciones"
	AccesosAuthzObject  = "logging.accesos"
)

type LogsController struct {
	authz       *authz.Service
	logsService *services.LogsService
	basePath    string
}

func NewLogsController(app application.Application) application.Controller {
	return &LogsController{
		authz:       app.Service(authz.Service{}).(*authz.Service),
		logsService: app.Service(services.LogsService{}).(*services.LogsService),
		basePath:    "/api/logging",
	}
}

func (c *LogsController) Key() string {
	return c.basePath
}

func (c *LogsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireSession())
	router.Handle("/acciones", middleware.Guard(c.authz, AccionesAuthzObject, authz.ActionView, c.Acciones)).Methods(http.MethodGet)
	router.Handle("/accesos", middleware.Guard(c.authz, AccesosAuthzObject, authz.ActionView, c.Accesos)).Methods(http.MethodGet)
}

func (c *LogsController) Acciones(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	page, err := c.logsService.ListActionLogs(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, page)
}

func (c *LogsController) Accesos(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	page, err := c.logsService.ListAuthenticationLogs(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, page)
}

func parseQuery(r *http.Request) (services.Query, error) {
	q, err := composables.UseQuery(&services.Query{}, r)
	if err != nil {
		return services.Query{}, serrors.NewValidationError(nil).Add("query", err.Error())
	}
	return *q, nil
}
