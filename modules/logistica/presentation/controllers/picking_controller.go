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

type PickingController struct {
	authz          *authz.Service
	pickingService *services.PickingService
	basePath       string
}

func NewPickingController(app application.Application) application.Controller {
	return &PickingController{
		authz:          app.Service(authz.Service{}).(*authz.Service),
		pickingService: app.Service(services.PickingService{}).(*services.PickingService),
		basePath:       "/api/logistica/picking",
	}
}

func (c *PickingController) Key() string {
	return c.basePath
}

func (c *PickingController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireSession())
	router.Handle("", middleware.Guard(c.authz, PickingAuthzObject, authz.ActionList, c.List)).Methods(http.MethodGet)
	router.Handle("/guardar", middleware.Guard(c.authz, PickingAuthzObject, authz.ActionUpdate, c.Guardar)).Methods(http.MethodPost)
}

func (c *PickingController) List(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r, services.PickingFields)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	page, err := c.pickingService.List(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, page)
}

func (c *PickingController) Guardar(w http.ResponseWriter, r *http.Request) {
	var dto services.GuardarDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	report, err := c.pickingService.Guardar(r.Context(), dto.Cambios)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	writeReport(w, r, report)
}
