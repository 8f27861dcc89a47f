package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/modules/rrhh/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/middleware"
)

type AprobarDTO struct {
	Notificar bool `json:"notificar"`
}

type RechazarDTO struct {
	Comentario string `json:"comentario" validate:"required,max=500"`
	Notificar  bool   `json:"notificar"`
}

type SolicitudController struct {
	authz            *authz.Service
	solicitudService *services.SolicitudService
	basePath         string
}

func NewSolicitudController(app application.Application) application.Controller {
	return &SolicitudController{
		authz:            app.Service(authz.Service{}).(*authz.Service),
		solicitudService: app.Service(services.SolicitudService{}).(*services.SolicitudService),
		basePath:         "/api/rrhh/solicitudes",
	}
}

func (c *SolicitudController) Key() string {
	return c.basePath
}

func (c *SolicitudController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireSession())
	router.Handle("", middleware.Guard(c.authz, SolicitudesAuthzObject, authz.ActionList, c.List)).Methods(http.MethodGet)
	router.Handle("/{id}/aprobar", middleware.Guard(c.authz, SolicitudesAuthzObject, authz.ActionApprove, c.Aprobar)).Methods(http.MethodPost)
	router.Handle("/{id}/rechazar", middleware.Guard(c.authz, SolicitudesAuthzObject, authz.ActionApprove, c.Rechazar)).Methods(http.MethodPost)
}

func (c *SolicitudController) List(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r, services.SolicitudFields)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	page, err := c.solicitudService.List(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, page)
}

func (c *SolicitudController) Aprobar(w http.ResponseWriter, r *http.Request) {
	var dto AprobarDTO
	if r.ContentLength > 0 {
		if err := httpapi.DecodeJSON(r, &dto); err != nil {
			httpapi.WriteServiceError(w, r, err)
			return
		}
	}
	res, err := c.solicitudService.Aprobar(r.Context(), mux.Vars(r)["id"], dto.Notificar)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, res)
}

func (c *SolicitudController) Rechazar(w http.ResponseWriter, r *http.Request) {
	var dto RechazarDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	res, err := c.solicitudService.Rechazar(r.Context(), mux.Vars(r)["id"], dto.Comentario, dto.Notificar)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, res)
}
