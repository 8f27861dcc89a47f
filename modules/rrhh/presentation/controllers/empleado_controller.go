package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/modules/rrhh/domain/aggregates/empleado"
	"github.com/granempresa/erp-portal/modules/rrhh/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/export"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/middleware"
)

var (
	EmpleadosAuthzObject   = authz.ObjectName("rrhh", "empleados")
	SolicitudesAuthzObject = authz.ObjectName("rrhh", "solicitudes")
	EmailsAuthzObject      = authz.ObjectName("rrhh", "emails")
)

var empleadoColumns = []export.Column[empleado.Empleado]{
	{Header: "ID", Value: func(e empleado.Empleado) any { return e.ID.String() }},
	{Header: "Nombre", Value: func(e empleado.Empleado) any { return e.NombreCompleto() }},
	{Header: "RUT", Value: func(e empleado.Empleado) any { return e.RUT }},
	{Header: "Email", Value: func(e empleado.Empleado) any { return e.Email }},
	{Header: "Cargo", Value: func(e empleado.Empleado) any { return e.Cargo }},
	{Header: "Departamento", Value: func(e empleado.Empleado) any { return e.Departamento }},
	{Header: "Fecha ingreso", Value: func(e empleado.Empleado) any { return e.FechaIngreso }},
	{Header: "Activo", Value: func(e empleado.Empleado) any { return e.Activo }},
}

type EmpleadoController struct {
	authz           *authz.Service
	empleadoService *services.EmpleadoService
	basePath        string
}

func NewEmpleadoController(app application.Application) application.Controller {
	return &EmpleadoController{
		authz:           app.Service(authz.Service{}).(*authz.Service),
		empleadoService: app.Service(services.EmpleadoService{}).(*services.EmpleadoService),
		basePath:        "/api/rrhh/empleados",
	}
}

func (c *EmpleadoController) Key() string {
	return c.basePath
}

func (c *EmpleadoController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireSession())
	router.Handle("", middleware.Guard(c.authz, EmpleadosAuthzObject, authz.ActionList, c.List)).Methods(http.MethodGet)
	router.Handle("/export.xlsx", middleware.Guard(c.authz, EmpleadosAuthzObject, authz.ActionExport, c.Export)).Methods(http.MethodGet)
	router.Handle("/{id}", middleware.Guard(c.authz, EmpleadosAuthzObject, authz.ActionView, c.Get)).Methods(http.MethodGet)
}

func (c *EmpleadoController) List(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r, services.EmpleadoFields)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	page, err := c.empleadoService.List(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, page)
}

func (c *EmpleadoController) Export(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r, services.EmpleadoFields)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	items, err := c.empleadoService.Export(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	if err := export.ServeXLSX(w, "empleados", items, empleadoColumns); err != nil {
		httpapi.WriteServiceError(w, r, err)
	}
}

func (c *EmpleadoController) Get(w http.ResponseWriter, r *http.Request) {
	e, err := c.empleadoService.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, e)
}
