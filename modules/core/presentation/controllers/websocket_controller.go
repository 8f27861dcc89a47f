package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/middleware"
)

type WebSocketController struct {
	hub application.Huber
}

func NewWebSocketController(app application.Application) application.Controller {
	return &WebSocketController{hub: app.Websocket()}
}

func (c *WebSocketController) Key() string {
	return "/ws"
}

func (c *WebSocketController) Register(r *mux.Router) {
	if c.hub == nil {
		return
	}
	r.Handle("/ws", middleware.RequireSession()(c.hub)).Methods(http.MethodGet)
}
