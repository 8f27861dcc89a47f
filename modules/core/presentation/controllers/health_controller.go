package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/httpapi"
)

type HealthReport struct {
	Status   string           `json:"status"`
	Backends []backend.Status `json:"backends"`
}

type HealthController struct {
	registry *backend.Registry
	timeout  time.Duration
}

func NewHealthController(app application.Application, timeout time.Duration) application.Controller {
	return &HealthController{
		registry: app.Service(backend.Registry{}).(*backend.Registry),
		timeout:  timeout,
	}
}

func (c *HealthController) Key() string {
	return "/health"
}

func (c *HealthController) Register(r *mux.Router) {
	r.HandleFunc("/health", c.Get).Methods(http.MethodGet)
}

// Get pings every backend; any backend down turns the report "degraded" and
// the status 503.
func (c *HealthController) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()
	report := HealthReport{Status: "ok", Backends: c.registry.PingAll(ctx)}
	status := http.StatusOK
	for _, b := range report.Backends {
		if !b.OK {
			report.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	_ = httpapi.WriteJSON(w, status, report)
}
