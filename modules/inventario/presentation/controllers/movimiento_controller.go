package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/modules/inventario/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/middleware"
)

type MovimientoController struct {
	authz             *authz.Service
	movimientoService *services.MovimientoService
	basePath          string
}

func NewMovimientoController(app application.Application) application.Controller {
	return &MovimientoController{
		authz:             app.Service(authz.Service{}).(*authz.Service),
		movimientoService: app.Service(services.MovimientoService{}).(*services.MovimientoService),
		basePath:          "/api/inventario/movimientos",
	}
}

func (c *MovimientoController) Key() string {
	return c.basePath
}

func (c *MovimientoController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireSession())
	router.Handle("", middleware.Guard(c.authz, MovimientosAuthzObject, authz.ActionList, c.List)).Methods(http.MethodGet)
}

func (c *MovimientoController) List(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r, services.MovimientoFields)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	page, err := c.movimientoService.List(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, page)
}
