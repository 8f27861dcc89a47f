package authz

import (
	"context"
	"strings"
)

// Capability is an object/action pair the client wants resolved up front.
type Capability struct {
	Object string
	Action string
}

func (c Capability) Key() string {
	return strings.ToLower(strings.TrimSpace(c.Object)) + ":" + NormalizeAction(c.Action)
}

// ViewState exposes authorization information to the SPA, which uses it
// to hide buttons the user cannot use.
type ViewState struct {
	Subject      string          `json:"subject"`
	Roles        []string        `json:"roles"`
	Capabilities map[string]bool `json:"capabilities"`
}

// NewViewState resolves every capability for the given subject and roles.
func (s *Service) NewViewState(ctx context.Context, subject string, roles []string, caps []Capability) *ViewState {
	state := &ViewState{
		Subject:      subject,
		Roles:        append([]string(nil), roles...),
		Capabilities: make(map[string]bool, len(caps)),
	}
	for _, c := range caps {
		state.Capabilities[c.Key()] = s.Allowed(ctx, NewRequest(subject, roles, c.Object, c.Action))
	}
	return state
}

// Capability reports whether a capability was recorded as allowed.
func (v *ViewState) Capability(object, action string) bool {
	if v == nil {
		return false
	}
	return v.Capabilities[Capability{Object: object, Action: action}.Key()]
}
