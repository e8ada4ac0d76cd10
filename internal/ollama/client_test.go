package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatJSON(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: `{"2025-10-03": "Picture Day"}`},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "llama3.1:8b", 0.1)
	content, err := c.ChatJSON(context.Background(), "give me titles")
	require.NoError(t, err)
	assert.Equal(t, `{"2025-10-03": "Picture Day"}`, content)

	assert.Equal(t, "llama3.1:8b", gotReq.Model)
	assert.False(t, gotReq.Stream)
	assert.Equal(t, "json", gotReq.Format)
	assert.Equal(t, 0.1, gotReq.Options.Temperature)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "give me titles", gotReq.Messages[0].Content)
}

func TestChatJSONServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "llama3.1:8b", 0.1)
	_, err := c.ChatJSON(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestChatJSONEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "llama3.1:8b", 0.1)
	_, err := c.ChatJSON(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestChatJSONConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, "llama3.1:8b", 0.1)
	_, err := c.ChatJSON(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestCheckModel(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		tags    string
		wantErr bool
	}{
		{
			name:  "exact model present",
			model: "llama3.1:8b",
			tags:  `{"models": [{"name": "llama3.1:8b", "model": "llama3.1:8b"}]}`,
		},
		{
			name:  "tag ignored",
			model: "llama3.1",
			tags:  `{"models": [{"name": "llama3.1:8b", "model": "llama3.1:8b"}]}`,
		},
		{
			name:    "model missing",
			model:   "mistral",
			tags:    `{"models": [{"name": "llama3.1:8b", "model": "llama3.1:8b"}]}`,
			wantErr: true,
		},
		{
			name:    "no models pulled",
			model:   "llama3.1:8b",
			tags:    `{"models": []}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/tags", r.URL.Path)
				w.Write([]byte(tt.tags))
			}))
			defer srv.Close()

			err := NewClient(srv.URL, tt.model, 0.1).CheckModel(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckModelServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := NewClient(srv.URL, "llama3.1:8b", 0.1).CheckModel(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot connect")
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", "llama3.1:8b", 0.1)
	assert.Equal(t, DefaultHost, c.host)

	c = NewClient("http://example.com:11434/", "llama3.1:8b", 0.1)
	assert.Equal(t, "http://example.com:11434", c.host)
	assert.Equal(t, "llama3.1:8b", c.Model())
}
