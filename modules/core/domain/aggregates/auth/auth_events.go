package auth

import (
	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/session"
)

type LoggedInEvent struct {
	eventbus.Metadata
	Email     string `json:"email"`
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

func (e *LoggedInEvent) EventType() string { return "core.session.login" }

func NewLoggedInEvent(sess *session.Session) *LoggedInEvent {
	return &LoggedInEvent{
		Metadata:  eventbus.NewMetadata(sess.User.ID, "core", "login", sess.User.ID),
		Email:     sess.User.Email,
		IP:        sess.IP,
		UserAgent: sess.UserAgent,
	}
}

type LoggedOutEvent struct {
	eventbus.Metadata
}

func (e *LoggedOutEvent) EventType() string { return "core.session.logout" }

func NewLoggedOutEvent(sess *session.Session) *LoggedOutEvent {
	return &LoggedOutEvent{
		Metadata: eventbus.NewMetadata(sess.User.ID, "core", "logout", sess.User.ID),
	}
}
