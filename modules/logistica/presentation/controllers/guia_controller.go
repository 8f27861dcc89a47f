package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/modules/logistica/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/middleware"
)

type GuiaController struct {
	authz       *authz.Service
	guiaService *services.GuiaService
	basePath    string
}

func NewGuiaController(app application.Application) application.Controller {
	return &GuiaController{
		authz:       app.Service(authz.Service{}).(*authz.Service),
		guiaService: app.Service(services.GuiaService{}).(*services.GuiaService),
		basePath:    "/api/logistica/guias",
	}
}

func (c *GuiaController) Key() string {
	return c.basePath
}

func (c *GuiaController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireSession())
	router.Handle("", middleware.Guard(c.authz, GuiasAuthzObject, authz.ActionList, c.List)).Methods(http.MethodGet)
	router.Handle("/guardar", middleware.Guard(c.authz, GuiasAuthzObject, authz.ActionUpdate, c.Guardar)).Methods(http.MethodPost)
}

func (c *GuiaController) List(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r, services.GuiaFields)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	page, err := c.guiaService.List(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, page)
}

func (c *GuiaController) Guardar(w http.ResponseWriter, r *http.Request) {
	var dto services.GuardarDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	report, err := c.guiaService.Guardar(r.Context(), dto.Cambios)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	writeReport(w, r, report)
}
