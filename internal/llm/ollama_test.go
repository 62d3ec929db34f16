package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProviderCompleteToolCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)
		assert.False(t, req.Stream, "expected stream=false")
		assert.Len(t, req.Tools, 1, "expected one tool forwarded")
		resp := ollamaChatResponse{}
		resp.Message.Role = "assistant"
		resp.Message.ToolCalls = []ollamaToolCall{{}}
		resp.Message.ToolCalls[0].Function.Name = "get_my_roster"
		resp.Message.ToolCalls[0].Function.Arguments = map[string]interface{}{"teamId": "t1"}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p := NewOllamaProvider(server.URL, "llama3", 5*time.Second)
	assert.False(t, p.SupportsToolChoiceAny(), "SupportsToolChoiceAny() want false for Ollama")

	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "show my roster"}},
		Tools:    []ToolSpec{{Name: "get_my_roster", Description: "fetch roster"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "get_my_roster", resp.ToolCalls[0].Name)
}

func TestOllamaProviderJSONMode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "json", req.Format)
		resp := ollamaChatResponse{}
		resp.Message.Content = `{"sentiment":"NEUTRAL"}`
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p := NewOllamaProvider(server.URL, "llama3", 5*time.Second)
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "classify"}},
		JSONMode: true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"sentiment":"NEUTRAL"}`, resp.Content)
}
