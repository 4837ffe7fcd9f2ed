package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req MessagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-sonnet-4-5", req.Model)
		assert.Equal(t, 1024, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(MessagesResponse{
			Content: []ContentBlock{{Type: "text", Text: "hello from the model"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "claude-sonnet-4-5", 1024, logrus.New())

	reply, err := client.Complete(context.Background(), "say hello")
	require.NoError(t, err)
	assert.Equal(t, "hello from the model", reply)
}

func TestClient_CompleteMessages_SystemPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req MessagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "you are LOIS", req.System)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "assistant", req.Messages[1].Role)

		json.NewEncoder(w).Encode(MessagesResponse{
			Content: []ContentBlock{{Type: "text", Text: "ok"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "claude-sonnet-4-5", 1024, logrus.New())

	reply, err := client.CompleteMessages(context.Background(), "you are LOIS", []Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

func TestClient_NoTextBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(MessagesResponse{
			Content: []ContentBlock{{Type: "tool_use"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "claude-sonnet-4-5", 1024, logrus.New())

	_, err := client.Complete(context.Background(), "prompt")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no text content block")
}

func TestClient_ErrorHandling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"type": "error",
			"error": map[string]string{
				"type":    "invalid_request_error",
				"message": "max_tokens is required",
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "claude-sonnet-4-5", 1024, logrus.New())

	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "max_tokens is required")
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json fence",
			input:    "```json\n{\"type\": \"sql\"}\n```",
			expected: `{"type": "sql"}`,
		},
		{
			name:     "generic fence",
			input:    "```\n{\"type\": \"sql\"}\n```",
			expected: `{"type": "sql"}`,
		},
		{
			name:     "bare json",
			input:    `{"type": "sql"}`,
			expected: `{"type": "sql"}`,
		},
		{
			name:     "fence with surrounding prose stripped by json match",
			input:    "Here you go:\n```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSON(tt.input))
		})
	}
}
