package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/modules/inventario/domain/aggregates/producto"
	"github.com/granempresa/erp-portal/modules/inventario/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/export"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/middleware"
)

var (
	ProductosAuthzObject   = authz.ObjectName("inventario", "productos")
	MovimientosAuthzObject = authz.ObjectName("inventario", "movimientos")
)

var productoColumns = []export.Column[producto.Producto]{
	{Header: "ID", Value: func(p producto.Producto) any { return p.ID.String() }},
	{Header: "SKU", Value: func(p producto.Producto) any { return p.SKU }},
	{Header: "Nombre", Value: func(p producto.Producto) any { return p.Nombre }},
	{Header: "Categoría", Value: func(p producto.Producto) any { return p.Categoria }},
	{Header: "Bodega", Value: func(p producto.Producto) any { return p.Bodega }},
	{Header: "Stock", Value: func(p producto.Producto) any { return p.Stock }},
	{Header: "Precio", Value: func(p producto.Producto) any { return p.Precio }},
}

type ProductoController struct {
	authz           *authz.Service
	productoService *services.ProductoService
	maxUploadSize   int64
	basePath        string
}

func NewProductoController(app application.Application, maxUploadSize int64) application.Controller {
	return &ProductoController{
		authz:           app.Service(authz.Service{}).(*authz.Service),
		productoService: app.Service(services.ProductoService{}).(*services.ProductoService),
		maxUploadSize:   maxUploadSize,
		basePath:        "/api/inventario",
	}
}

func (c *ProductoController) Key() string {
	return c.basePath + "/productos"
}

func (c *ProductoController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireSession())
	router.Handle("/productos", middleware.Guard(c.authz, ProductosAuthzObject, authz.ActionList, c.List)).Methods(http.MethodGet)
	router.Handle("/productos/export.xlsx", middleware.Guard(c.authz, ProductosAuthzObject, authz.ActionExport, c.Export)).Methods(http.MethodGet)
	router.Handle("/productos/{id}/stock", middleware.Guard(c.authz, ProductosAuthzObject, authz.ActionUpdate, c.AjustarStock)).Methods(http.MethodPatch)
	router.Handle("/alertas", middleware.Guard(c.authz, ProductosAuthzObject, authz.ActionList, c.Alertas)).Methods(http.MethodGet)
	router.Handle("/importar", middleware.Guard(c.authz, ProductosAuthzObject, authz.ActionImport, c.Importar)).Methods(http.MethodPost)
}

func (c *ProductoController) List(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r, c.productoService.Fields())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	page, err := c.productoService.List(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, page)
}

func (c *ProductoController) Export(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r, c.productoService.Fields())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	items, err := c.productoService.Export(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	if err := export.ServeXLSX(w, "productos", items, productoColumns); err != nil {
		httpapi.WriteServiceError(w, r, err)
	}
}

func (c *ProductoController) AjustarStock(w http.ResponseWriter, r *http.Request) {
	var dto producto.Ajuste
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	p, err := c.productoService.AjustarStock(r.Context(), mux.Vars(r)["id"], dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, p)
}

func (c *ProductoController) Alertas(w http.ResponseWriter, r *http.Request) {
	items, err := c.productoService.Alertas(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, items)
}

func (c *ProductoController) Importar(w http.ResponseWriter, r *http.Request) {
	data, err := httpapi.ReadUpload(w, r, "file", c.maxUploadSize)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	table, err := export.ReadTable(data)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	report, err := c.productoService.Importar(r.Context(), table)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, report)
}
