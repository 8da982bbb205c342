package protocol

import (
	"context"
	"fmt"
	"sync"
)

// MockClient is a scripted Client implementation for testing. Responses
// are returned in order; a response function may also be supplied to
// compute replies from the request.
type MockClient struct {
	mu        sync.Mutex
	responses []mockStep
	calls     []SendRequest
	respond   func(ctx context.Context, req SendRequest) (*Response, error)
}

type mockStep struct {
	resp *Response
	err  error
}

// NewMockClient creates an empty mock. Queue replies with EnqueueResponse
// and EnqueueError, or install a handler with RespondWith.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// RespondWith installs a handler invoked for every send once the queued
// steps are exhausted.
func (m *MockClient) RespondWith(fn func(ctx context.Context, req SendRequest) (*Response, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.respond = fn
}

// EnqueueResponse appends a canned successful reply.
func (m *MockClient) EnqueueResponse(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockStep{resp: &Response{Text: text}})
}

// EnqueueError appends a canned failure.
func (m *MockClient) EnqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockStep{err: err})
}

// Calls returns a copy of every request seen so far.
func (m *MockClient) Calls() []SendRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SendRequest, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockClient) Send(ctx context.Context, req SendRequest) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrTimeout(err)
	}

	m.mu.Lock()
	m.calls = append(m.calls, req)
	if len(m.responses) > 0 {
		step := m.responses[0]
		m.responses = m.responses[1:]
		m.mu.Unlock()
		return step.resp, step.err
	}
	fn := m.respond
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return &Response{Text: fmt.Sprintf("mock reply to: %s", req.Text)}, nil
}

var _ Client = (*MockClient)(nil)
