package models

import "time"

type AuthenticationLog struct {
	ID        string
	UserID    string
	Email     string
	IP        string
	UserAgent string
	CreatedAt time.Time
}

type ActionLog struct {
	ID        string
	UserID    string
	Module    string
	Action    string
	EntityID  string
	EventType string
	Diff      []byte
	CreatedAt time.Time
}
