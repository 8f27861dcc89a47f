package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/modules/compras/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/middleware"
)

type CotizacionController struct {
	authz        *authz.Service
	ordenService *services.OrdenService
	basePath     string
}

func NewCotizacionController(app application.Application) application.Controller {
	return &CotizacionController{
		authz:        app.Service(authz.Service{}).(*authz.Service),
		ordenService: app.Service(services.OrdenService{}).(*services.OrdenService),
		basePath:     "/api/compras/cotizar",
	}
}

func (c *CotizacionController) Key() string {
	return c.basePath
}

func (c *CotizacionController) Register(r *mux.Router) {
	r.Handle(c.basePath, middleware.Guard(c.authz, OrdenesAuthzObject, authz.ActionCreate, c.Cotizar)).Methods(http.MethodPost)
}

func (c *CotizacionController) Cotizar(w http.ResponseWriter, r *http.Request) {
	var dto services.CotizarDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	cot, err := c.ordenService.Cotizar(r.Context(), dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, cot)
}
