package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/modules/ventas/domain/aggregates/venta"
	"github.com/granempresa/erp-portal/modules/ventas/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/export"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/middleware"
)

var ventaColumns = []export.Column[venta.Venta]{
	{Header: "ID", Value: func(v venta.Venta) any { return v.ID.String() }},
	{Header: "Número", Value: func(v venta.Venta) any { return v.Numero }},
	{Header: "Cliente", Value: func(v venta.Venta) any { return v.Cliente }},
	{Header: "Fecha", Value: func(v venta.Venta) any { return v.Fecha }},
	{Header: "Estado", Value: func(v venta.Venta) any { return v.Estado }},
	{Header: "Método de pago", Value: func(v venta.Venta) any { return v.MetodoPago }},
	{Header: "Subtotal", Value: func(v venta.Venta) any { return v.Subtotal }},
	{Header: "IVA", Value: func(v venta.Venta) any { return v.IVA }},
	{Header: "Total", Value: func(v venta.Venta) any { return v.Total }},
}

type VentaController struct {
	authz        *authz.Service
	ventaService *services.VentaService
	basePath     string
}

func NewVentaController(app application.Application) application.Controller {
	return &VentaController{
		authz:        app.Service(authz.Service{}).(*authz.Service),
		ventaService: app.Service(services.VentaService{}).(*services.VentaService),
		basePath:     "/api/ventas",
	}
}

func (c *VentaController) Key() string {
	return c.basePath
}

func (c *VentaController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireSession())
	router.Handle("", middleware.Guard(c.authz, VentasAuthzObject, authz.ActionList, c.List)).Methods(http.MethodGet)
	router.Handle("", middleware.Guard(c.authz, VentasAuthzObject, authz.ActionCreate, c.Create)).Methods(http.MethodPost)
	router.Handle("/export.xlsx", middleware.Guard(c.authz, VentasAuthzObject, authz.ActionExport, c.Export)).Methods(http.MethodGet)
	router.Handle("/resumen", middleware.Guard(c.authz, VentasAuthzObject, authz.ActionList, c.Resumen)).Methods(http.MethodGet)
	router.Handle("/{id}", middleware.Guard(c.authz, VentasAuthzObject, authz.ActionView, c.Get)).Methods(http.MethodGet)
}

func (c *VentaController) List(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r, services.VentaFields)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	page, err := c.ventaService.List(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, page)
}

func (c *VentaController) Export(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r, services.VentaFields)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	items, err := c.ventaService.Export(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	if err := export.ServeXLSX(w, "ventas", items, ventaColumns); err != nil {
		httpapi.WriteServiceError(w, r, err)
	}
}

func (c *VentaController) Resumen(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r, services.VentaFields)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	res, err := c.ventaService.Resumen(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, res)
}

func (c *VentaController) Get(w http.ResponseWriter, r *http.Request) {
	v, err := c.ventaService.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, v)
}

func (c *VentaController) Create(w http.ResponseWriter, r *http.Request) {
	var dto services.CreateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	res, err := c.ventaService.Create(r.Context(), dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, res)
}
