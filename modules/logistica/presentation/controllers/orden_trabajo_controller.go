package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/modules/logistica/domain/aggregates/ordentrabajo"
	"github.com/granempresa/erp-portal/modules/logistica/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/batch"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/middleware"
)

var (
	OrdenesTrabajoAuthzObject = authz.ObjectName("logistica", "ordenes_trabajo")
	PickingAuthzObject        = authz.ObjectName("logistica", "picking")
	GuiasAuthzObject          = authz.ObjectName("logistica", "guias")
	AutomatizacionAuthzObject = authz.ObjectName("logistica", "automatizacion")
)

// writeReport answers 200 for a complete batch save; otherwise the status
// follows the row that stopped it.
func writeReport(w http.ResponseWriter, r *http.Request, report batch.SequenceReport) {
	status := http.StatusOK
	if !report.OK() {
		status, _ = httpapi.Classify(r.Context(), report.Failed.Err())
	}
	_ = httpapi.WriteJSON(w, status, report)
}

type OrdenTrabajoController struct {
	authz               *authz.Service
	ordenTrabajoService *services.OrdenTrabajoService
	basePath            string
}

func NewOrdenTrabajoController(app application.Application) application.Controller {
	return &OrdenTrabajoController{
		authz:               app.Service(authz.Service{}).(*authz.Service),
		ordenTrabajoService: app.Service(services.OrdenTrabajoService{}).(*services.OrdenTrabajoService),
		basePath:            "/api/logistica/ordenes-trabajo",
	}
}

func (c *OrdenTrabajoController) Key() string {
	return c.basePath
}

func (c *OrdenTrabajoController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireSession())
	router.Handle("", middleware.Guard(c.authz, OrdenesTrabajoAuthzObject, authz.ActionList, c.List)).Methods(http.MethodGet)
	router.Handle("/resumen", middleware.Guard(c.authz, OrdenesTrabajoAuthzObject, authz.ActionList, c.Resumen)).Methods(http.MethodGet)
	router.Handle("/{id}/estado", middleware.Guard(c.authz, OrdenesTrabajoAuthzObject, authz.ActionUpdate, c.CambiarEstado)).Methods(http.MethodPatch)
}

func (c *OrdenTrabajoController) List(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r, services.OrdenTrabajoFields)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	page, err := c.ordenTrabajoService.List(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, page)
}

func (c *OrdenTrabajoController) Resumen(w http.ResponseWriter, r *http.Request) {
	res, err := c.ordenTrabajoService.Resumen(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, res)
}

func (c *OrdenTrabajoController) CambiarEstado(w http.ResponseWriter, r *http.Request) {
	var dto ordentrabajo.Cambio
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	ot, err := c.ordenTrabajoService.CambiarEstado(r.Context(), mux.Vars(r)["id"], dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, ot)
}
