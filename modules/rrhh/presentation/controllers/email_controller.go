package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/modules/rrhh/services"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/middleware"
)

type EmailController struct {
	authz        *authz.Service
	emailService *services.EmailService
	basePath     string
}

func NewEmailController(app application.Application) application.Controller {
	return &EmailController{
		authz:        app.Service(authz.Service{}).(*authz.Service),
		emailService: app.Service(services.EmailService{}).(*services.EmailService),
		basePath:     "/api/rrhh/emails",
	}
}

func (c *EmailController) Key() string {
	return c.basePath
}

func (c *EmailController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireSession())
	router.Handle("", middleware.Guard(c.authz, EmailsAuthzObject, authz.ActionCreate, c.Send)).Methods(http.MethodPost)
}

// Send answers 200 even when some recipients failed; the summary says which.
func (c *EmailController) Send(w http.ResponseWriter, r *http.Request) {
	var dto services.EmailDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.WriteOK(w, c.emailService.Send(r.Context(), dto))
}
