// Package protocol defines the message-passing contract between the
// refinement orchestrator and a remote party. The core consumes the
// Client interface; discovery, authentication, and wire encoding are the
// transport's business.
package protocol

import "context"

// SendRequest is one message to a named remote party. Either Text or
// Data (or both) may be set.
type SendRequest struct {
	Recipient string         `json:"recipient"`
	Text      string         `json:"text,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Response is the finite (non-streaming) result of one send: a text
// payload, a structured payload, or both.
type Response struct {
	Text string         `json:"text,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

// Client delivers a message to a remote party and returns its response.
// Errors are categorized via the Error type in this package; callers
// branch on KindOf rather than string matching.
type Client interface {
	Send(ctx context.Context, req SendRequest) (*Response, error)
}
