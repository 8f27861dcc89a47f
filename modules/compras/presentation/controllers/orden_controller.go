package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/modules/compras/domain/aggregates/orden"
	"github.com/granempresa/erp-portal/modules/compras/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/export"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/middleware"
)

var (
	OrdenesAuthzObject     = authz.ObjectName("compras", "ordenes")
	ProveedoresAuthzObject = authz.ObjectName("compras", "proveedores")
)

var ordenColumns = []export.Column[orden.OrdenCompra]{
	{Header: "ID", Value: func(o orden.OrdenCompra) any { return o.ID.String() }},
	{Header: "Número", Value: func(o orden.OrdenCompra) any { return o.Numero }},
	{Header: "Proveedor", Value: func(o orden.OrdenCompra) any { return o.Proveedor }},
	{Header: "Fecha", Value: func(o orden.OrdenCompra) any { return o.Fecha }},
	{Header: "Estado", Value: func(o orden.OrdenCompra) any { return o.Estado }},
	{Header: "Subtotal", Value: func(o orden.OrdenCompra) any { return o.Subtotal }},
	{Header: "IVA", Value: func(o orden.OrdenCompra) any { return o.IVA }},
	{Header: "Total", Value: func(o orden.OrdenCompra) any { return o.Total }},
}

type EstadoDTO struct {
	Estado string `json:"estado" validate:"required"`
}

type OrdenController struct {
	authz        *authz.Service
	ordenService *services.OrdenService
	basePath     string
}

func NewOrdenController(app application.Application) application.Controller {
	return &OrdenController{
		authz:        app.Service(authz.Service{}).(*authz.Service),
		ordenService: app.Service(services.OrdenService{}).(*services.OrdenService),
		basePath:     "/api/compras/ordenes",
	}
}

func (c *OrdenController) Key() string {
	return c.basePath
}

func (c *OrdenController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireSession())
	router.Handle("", middleware.Guard(c.authz, OrdenesAuthzObject, authz.ActionList, c.List)).Methods(http.MethodGet)
	router.Handle("", middleware.Guard(c.authz, OrdenesAuthzObject, authz.ActionCreate, c.Create)).Methods(http.MethodPost)
	router.Handle("/export.xlsx", middleware.Guard(c.authz, OrdenesAuthzObject, authz.ActionExport, c.Export)).Methods(http.MethodGet)
	router.Handle("/eliminar", middleware.Guard(c.authz, OrdenesAuthzObject, authz.ActionDelete, c.Eliminar)).Methods(http.MethodPost)
	router.Handle("/{id}", middleware.Guard(c.authz, OrdenesAuthzObject, authz.ActionView, c.Get)).Methods(http.MethodGet)
	router.Handle("/{id}/estado", middleware.Guard(c.authz, OrdenesAuthzObject, authz.ActionUpdate, c.CambiarEstado)).Methods(http.MethodPut)
}

func (c *OrdenController) List(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r, services.OrdenFields)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	page, err := c.ordenService.List(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, page)
}

func (c *OrdenController) Export(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r, services.OrdenFields)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	items, err := c.ordenService.Export(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	if err := export.ServeXLSX(w, "ordenes-compra", items, ordenColumns); err != nil {
		httpapi.WriteServiceError(w, r, err)
	}
}

func (c *OrdenController) Get(w http.ResponseWriter, r *http.Request) {
	o, err := c.ordenService.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, o)
}

func (c *OrdenController) CambiarEstado(w http.ResponseWriter, r *http.Request) {
	var dto EstadoDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	o, err := c.ordenService.CambiarEstado(r.Context(), mux.Vars(r)["id"], dto.Estado)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, o)
}

func (c *OrdenController) Eliminar(w http.ResponseWriter, r *http.Request) {
	var dto services.EliminarDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, c.ordenService.Eliminar(r.Context(), dto.IDs))
}

// Create answers 201 when every supplier order was created. Otherwise the
// status follows the failing backend call and the body carries the saga report.
func (c *OrdenController) Create(w http.ResponseWriter, r *http.Request) {
	var dto services.CreateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	res, err := c.ordenService.Create(r.Context(), dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	status := http.StatusCreated
	if !res.Saga.OK() {
		status, _ = httpapi.Classify(r.Context(), res.Saga.Failed.Err())
	}
	_ = httpapi.WriteJSON(w, status, res)
}
