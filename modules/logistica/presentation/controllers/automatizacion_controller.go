package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/modules/logistica/domain/aggregates/automatizacion"
	"github.com/granempresa/erp-portal/modules/logistica/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/middleware"
)

type AutomatizacionController struct {
	authz                 *authz.Service
	automatizacionService *services.AutomatizacionService
	basePath              string
}

func NewAutomatizacionController(app application.Application) application.Controller {
	return &AutomatizacionController{
		authz:                 app.Service(authz.Service{}).(*authz.Service),
		automatizacionService: app.Service(services.AutomatizacionService{}).(*services.AutomatizacionService),
		basePath:              "/api/logistica/automatizacion",
	}
}

func (c *AutomatizacionController) Key() string {
	return c.basePath
}

func (c *AutomatizacionController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireSession())
	router.Handle("/resumen", middleware.Guard(c.authz, AutomatizacionAuthzObject, authz.ActionList, c.Resumen)).Methods(http.MethodGet)
	router.Handle("/procesar", middleware.Guard(c.authz, AutomatizacionAuthzObject, authz.ActionCreate, c.Procesar)).Methods(http.MethodPost)
}

func (c *AutomatizacionController) Resumen(w http.ResponseWriter, r *http.Request) {
	res, err := c.automatizacionService.Resumen(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, res)
}

func (c *AutomatizacionController) Procesar(w http.ResponseWriter, r *http.Request) {
	var dto automatizacion.Pedido
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	out, err := c.automatizacionService.Procesar(r.Context(), dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, out)
}
