package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
)

// HTTPClient is a thin JSON-over-HTTP Client. Each send POSTs the
// message to <baseURL>/agents/<recipient>/messages and decodes a single
// JSON response body.
type HTTPClient struct {
	baseURL string
	httpc   *http.Client
}

// NewHTTPClient builds a client for the given base URL. Per-call
// deadlines come from the context; the underlying http.Client carries no
// timeout of its own.
func NewHTTPClient(baseURL string) (*HTTPClient, error) {
	u, err := url.ParseRequestURI(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("protocol: invalid base URL %q", baseURL)
	}
	return &HTTPClient{
		baseURL: baseURL,
		httpc:   &http.Client{},
	}, nil
}

type wireMessage struct {
	Text string         `json:"text,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

type wireResponse struct {
	Text  string         `json:"text,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
	Error string         `json:"error,omitempty"`
}

func (c *HTTPClient) Send(ctx context.Context, req SendRequest) (*Response, error) {
	if req.Recipient == "" {
		return nil, ErrTransport(errors.New("empty recipient"))
	}

	body, err := json.Marshal(wireMessage{Text: req.Text, Data: req.Data})
	if err != nil {
		return nil, ErrTransport(err)
	}

	endpoint := fmt.Sprintf("%s/agents/%s/messages", c.baseURL, url.PathEscape(req.Recipient))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, ErrTransport(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpc.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout(err)
		}
		return nil, ErrTransport(err)
	}
	defer httpResp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, ErrTransport(err)
	}

	switch {
	case httpResp.StatusCode >= 200 && httpResp.StatusCode < 300:
	case httpResp.StatusCode == http.StatusBadGateway,
		httpResp.StatusCode == http.StatusServiceUnavailable,
		httpResp.StatusCode == http.StatusGatewayTimeout:
		// Intermediary failures: the remote task never ran.
		return nil, ErrTransport(fmt.Errorf("remote returned %d: %s", httpResp.StatusCode, truncate(string(data), 200)))
	default:
		return nil, ErrRemoteTask(fmt.Sprintf("remote returned %d: %s", httpResp.StatusCode, truncate(string(data), 200)))
	}

	var wire wireResponse
	if len(bytes.TrimSpace(data)) == 0 {
		// A 204 or empty 200 body is a successful send with no payload.
		return &Response{}, nil
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, ErrTransport(fmt.Errorf("decode response: %w", err))
	}
	if wire.Error != "" {
		return nil, ErrRemoteTask(wire.Error)
	}

	return &Response{Text: wire.Text, Data: wire.Data}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ Client = (*HTTPClient)(nil)
