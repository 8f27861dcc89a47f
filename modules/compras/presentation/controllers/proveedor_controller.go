package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/modules/compras/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/middleware"
)

type PrecargarDTO struct {
	ProveedorIDs []string `json:"proveedor_ids" validate:"required,min=1,dive,required"`
}

type ProveedorController struct {
	authz            *authz.Service
	proveedorService *services.ProveedorService
	basePath         string
}

func NewProveedorController(app application.Application) application.Controller {
	return &ProveedorController{
		authz:            app.Service(authz.Service{}).(*authz.Service),
		proveedorService: app.Service(services.ProveedorService{}).(*services.ProveedorService),
		basePath:         "/api/compras/proveedores",
	}
}

func (c *ProveedorController) Key() string {
	return c.basePath
}

func (c *ProveedorController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireSession())
	router.Handle("", middleware.Guard(c.authz, ProveedoresAuthzObject, authz.ActionList, c.List)).Methods(http.MethodGet)
	router.Handle("/productos/precargar", middleware.Guard(c.authz, ProveedoresAuthzObject, authz.ActionList, c.Precargar)).Methods(http.MethodPost)
	router.Handle("/{id}/productos", middleware.Guard(c.authz, ProveedoresAuthzObject, authz.ActionList, c.Productos)).Methods(http.MethodGet)
}

func (c *ProveedorController) List(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r, services.ProveedorFields)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	page, err := c.proveedorService.List(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, page)
}

func (c *ProveedorController) Productos(w http.ResponseWriter, r *http.Request) {
	items, err := c.proveedorService.Productos(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, items)
}

func (c *ProveedorController) Precargar(w http.ResponseWriter, r *http.Request) {
	var dto PrecargarDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, c.proveedorService.Precargar(r.Context(), dto.ProveedorIDs))
}
