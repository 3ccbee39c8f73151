package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	RemoteType string     `json:"remote_type"`
	Passes     int        `json:"passes"`
	LastPass   *time.Time `json:"last_pass,omitempty"`
	LastResult PassResult `json:"last_result"`
	LastError  string     `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	remoteType := "unknown"
	if s.remote != nil {
		remoteType = "remote"
		if comp, ok := s.remote.(introspection.Component); ok {
			remoteType = comp.ComponentType()
		}
	}

	state := ServiceState{
		RemoteType: remoteType,
		Passes:     s.passes,
		LastPass:   s.lastPass,
		LastResult: s.lastResult,
	}
	if s.lastErr != nil {
		state.LastError = s.lastErr.Error()
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "sync-service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
