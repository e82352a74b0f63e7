package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		require.NotNil(t, req.Temperature)
		assert.InDelta(t, 0.1, *req.Temperature, 1e-9)

		json.NewEncoder(w).Encode(chatResponse{
			Choices: []chatChoice{{
				Message:      Message{Role: "assistant", Content: `{"endpoint":"/pets"}`},
				FinishReason: "stop",
			}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", "test-model", 5*time.Second)
	out, err := c.Chat(context.Background(), []Message{
		{Role: "system", Content: "match queries"},
		{Role: "user", Content: "list pets"},
	}, Options{Temperature: 0.1, JSONMode: true})

	require.NoError(t, err)
	assert.Equal(t, `{"endpoint":"/pets"}`, out)
}

func TestChatRequestPath(t *testing.T) {
	tests := []struct {
		name string
		base string // appended to the test server URL
		want string
	}{
		{"api root", "/v1", "/v1/chat/completions"},
		{"trailing slash", "/v1/", "/v1/chat/completions"},
		{"full completions url", "/v1/chat/completions", "/v1/chat/completions"},
		{"bare host", "", "/chat/completions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				json.NewEncoder(w).Encode(chatResponse{
					Choices: []chatChoice{{Message: Message{Role: "assistant", Content: "ok"}}},
				})
			}))
			defer srv.Close()

			c := New(srv.URL+tt.base, "k", "m", 5*time.Second)
			_, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, gotPath)
		})
	}
}

func TestChatBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(chatResponse{
			Error: &apiError{Type: "invalid_request_error", Message: "bad key"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "bad", "m", 5*time.Second)
	_, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}, Options{})
	assert.ErrorContains(t, err, "bad key")
}

func TestChatNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, "k", "m", 5*time.Second)
	_, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}, Options{})
	assert.ErrorContains(t, err, "decoding response")
}

func TestChatContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server detects the client disconnect and
		// cancels the request context; otherwise this handler never returns.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := New(srv.URL, "k", "m", 5*time.Second)
	_, err := c.Chat(ctx, []Message{{Role: "user", Content: "hi"}}, Options{})
	assert.Error(t, err)
}
