package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/modules/ventas/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/middleware"
)

var (
	VentasAuthzObject   = authz.ObjectName("ventas", "ventas")
	ClientesAuthzObject = authz.ObjectName("ventas", "clientes")
)

type ClienteController struct {
	authz          *authz.Service
	clienteService *services.ClienteService
	basePath       string
}

func NewClienteController(app application.Application) application.Controller {
	return &ClienteController{
		authz:          app.Service(authz.Service{}).(*authz.Service),
		clienteService: app.Service(services.ClienteService{}).(*services.ClienteService),
		basePath:       "/api/ventas/clientes",
	}
}

func (c *ClienteController) Key() string {
	return c.basePath
}

func (c *ClienteController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireSession())
	router.Handle("", middleware.Guard(c.authz, ClientesAuthzObject, authz.ActionList, c.List)).Methods(http.MethodGet)
	router.Handle("", middleware.Guard(c.authz, ClientesAuthzObject, authz.ActionCreate, c.Create)).Methods(http.MethodPost)
}

func (c *ClienteController) List(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r, services.ClienteFields)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	page, err := c.clienteService.List(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, page)
}

func (c *ClienteController) Create(w http.ResponseWriter, r *http.Request) {
	var dto services.ClienteDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	created, err := c.clienteService.Create(r.Context(), dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, created)
}
