package trello

import (
	"github.com/aretw0/introspection"
	"golang.org/x/time/rate"
)

// ClientState exposes internal state for observability. Credentials are never part of it.
type ClientState struct {
	BaseURL    string  `json:"base_url"`
	BoardID    string  `json:"board_id"`
	Requests   int     `json:"requests"`
	Failures   int     `json:"failures"`
	LastStatus int     `json:"last_status,omitempty"`
	RateLimit  float64 `json:"rate_limit,omitempty"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := ClientState{
		BaseURL:    c.baseURL.String(),
		BoardID:    c.boardID,
		Requests:   c.requests,
		Failures:   c.failures,
		LastStatus: c.lastStatus,
	}
	if limit := c.limiter.Limit(); limit != rate.Inf {
		state.RateLimit = float64(limit)
	}
	return state
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "trello"
}

var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
