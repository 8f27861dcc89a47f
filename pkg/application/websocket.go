package application

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/session"
	"github.com/granempresa/erp-portal/pkg/ws"
)

const (
	ChannelAuthenticated string = "authenticated"
)

// ChannelForUser is the private channel of a single user.
func ChannelForUser(userID string) string {
	return fmt.Sprintf("user/%s", userID)
}

type HuberOptions struct {
	Logger      *logrus.Logger
	CheckOrigin func(r *http.Request) bool
}

type Connection interface {
	ws.Connectioner
	User() session.User
}

type WsCallback func(conn Connection) error

// Message is the frame pushed to clients.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type Huber interface {
	http.Handler
	ForEach(channel string, f WsCallback) error
	Broadcast(channel string, msg Message) error
	// PublishEvent is subscribed to the event bus.
	PublishEvent(e eventbus.Event)
	Close()
}

func NewHub(opts *HuberOptions) Huber {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	appHub := &huber{
		logger:          logger,
		connectionsMeta: make(map[*ws.Connection]session.User),
	}
	appHub.hub = ws.NewHub(&ws.HubOptions{
		Logger:       logger,
		CheckOrigin:  opts.CheckOrigin,
		OnConnect:    appHub.onConnect,
		OnDisconnect: appHub.onDisconnect,
	})
	return appHub
}

type huber struct {
	hub             *ws.Hub
	logger          *logrus.Logger
	mu              sync.RWMutex
	connectionsMeta map[*ws.Connection]session.User
}

func (h *huber) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeHTTP(w, r)
}

// onConnect only admits connections that carry a session.
func (h *huber) onConnect(r *http.Request, hub *ws.Hub, conn *ws.Connection) error {
	usr, err := composables.UseUser(r.Context())
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.connectionsMeta[conn] = usr
	h.mu.Unlock()
	hub.JoinChannel(ChannelAuthenticated, conn)
	hub.JoinChannel(ChannelForUser(usr.ID), conn)
	return nil
}

func (h *huber) onDisconnect(conn *ws.Connection) {
	h.mu.Lock()
	delete(h.connectionsMeta, conn)
	h.mu.Unlock()
}

func (h *huber) ForEach(channel string, f WsCallback) error {
	for _, conn := range h.hub.ConnectionsInChannel(channel) {
		h.mu.RLock()
		usr, ok := h.connectionsMeta[conn]
		h.mu.RUnlock()
		if !ok {
			h.logger.Error("connection meta not found")
			continue
		}
		if err := f(&connection{user: usr, conn: conn}); err != nil {
			return err
		}
	}
	return nil
}

func (h *huber) Broadcast(channel string, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	h.hub.BroadcastToChannel(channel, data)
	return nil
}

func (h *huber) PublishEvent(e eventbus.Event) {
	msg := Message{Type: e.EventType(), Payload: e}
	if err := h.Broadcast(ChannelAuthenticated, msg); err != nil {
		h.logger.WithError(err).WithField("type", e.EventType()).Error("failed to broadcast event")
	}
}

func (h *huber) Close() {
	h.hub.Close()
}

type connection struct {
	user session.User
	conn ws.Connectioner
}

func (c *connection) SendMessage(message []byte) error {
	return c.conn.SendMessage(message)
}

func (c *connection) Close() error {
	return c.conn.Close()
}

func (c *connection) User() session.User {
	return c.user
}
