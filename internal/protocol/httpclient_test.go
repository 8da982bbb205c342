package protocol

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	got, ok := KindOf(err)
	require.True(t, ok, "expected a protocol error, got %v", err)
	require.Equal(t, kind, got)
}

func TestHTTPClientSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/agents/drafter/messages", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "draft one"}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL)
	require.NoError(t, err)

	resp, err := client.Send(context.Background(), SendRequest{Recipient: "drafter", Text: "write a narrative"})
	require.NoError(t, err)
	require.Equal(t, "draft one", resp.Text)
}

func TestHTTPClientRemoteError(t *testing.T) {
	t.Run("error field in body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error": "agent crashed"}`))
		}))
		defer srv.Close()

		client, err := NewHTTPClient(srv.URL)
		require.NoError(t, err)

		_, err = client.Send(context.Background(), SendRequest{Recipient: "drafter", Text: "x"})
		requireKind(t, err, KindRemoteTaskFailed)
		require.ErrorContains(t, err, "agent crashed")
	})

	t.Run("500 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client, err := NewHTTPClient(srv.URL)
		require.NoError(t, err)

		_, err = client.Send(context.Background(), SendRequest{Recipient: "drafter", Text: "x"})
		requireKind(t, err, KindRemoteTaskFailed)
	})

	t.Run("gateway statuses are transport failures", func(t *testing.T) {
		for _, status := range []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout} {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "down", status)
			}))

			client, err := NewHTTPClient(srv.URL)
			require.NoError(t, err)

			_, err = client.Send(context.Background(), SendRequest{Recipient: "drafter", Text: "x"})
			requireKind(t, err, KindTransportFailure)
			srv.Close()
		}
	})
}

func TestHTTPClientAcceptsAny2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL)
	require.NoError(t, err)

	resp, err := client.Send(context.Background(), SendRequest{Recipient: "drafter", Text: "x"})
	require.NoError(t, err)
	require.Empty(t, resp.Text)
}

func TestHTTPClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Send(ctx, SendRequest{Recipient: "drafter", Text: "x"})
	requireKind(t, err, KindTimeout)
}

func TestHTTPClientTransportFailure(t *testing.T) {
	// Nothing listens on this address.
	client, err := NewHTTPClient("http://127.0.0.1:1")
	require.NoError(t, err)

	_, err = client.Send(context.Background(), SendRequest{Recipient: "drafter", Text: "x"})
	requireKind(t, err, KindTransportFailure)
}

func TestNewHTTPClientRejectsBadURL(t *testing.T) {
	for _, bad := range []string{"", "localhost:8088", "not a url", "/just/a/path", "http://"} {
		_, err := NewHTTPClient(bad)
		require.Error(t, err, "base URL %q", bad)
	}

	_, err := NewHTTPClient("http://localhost:8088")
	require.NoError(t, err)
}

func TestHTTPClientEmptyRecipient(t *testing.T) {
	client, err := NewHTTPClient("http://localhost:9")
	require.NoError(t, err)

	_, err = client.Send(context.Background(), SendRequest{Text: "x"})
	requireKind(t, err, KindTransportFailure)
}

func TestMockClientScriptedResponses(t *testing.T) {
	mock := NewMockClient()
	mock.EnqueueResponse("first")
	mock.EnqueueError(ErrRemoteTask("scripted failure"))

	resp, err := mock.Send(context.Background(), SendRequest{Recipient: "drafter", Text: "one"})
	require.NoError(t, err)
	require.Equal(t, "first", resp.Text)

	_, err = mock.Send(context.Background(), SendRequest{Recipient: "drafter", Text: "two"})
	requireKind(t, err, KindRemoteTaskFailed)

	calls := mock.Calls()
	require.Len(t, calls, 2)
	require.Equal(t, "one", calls[0].Text)
}

func TestMockClientHandler(t *testing.T) {
	mock := NewMockClient()
	mock.RespondWith(func(ctx context.Context, req SendRequest) (*Response, error) {
		return &Response{Text: "echo: " + req.Text}, nil
	})

	resp, err := mock.Send(context.Background(), SendRequest{Recipient: "a", Text: "hi"})
	require.NoError(t, err)
	require.Equal(t, "echo: hi", resp.Text)
}
