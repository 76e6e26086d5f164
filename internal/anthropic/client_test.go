package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/verdant-labs/sprout/internal/errors"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient("")
	if !errors.Is(err, errors.ErrAPIKeyMissing) {
		t.Errorf("expected ErrAPIKeyMissing, got %v", err)
	}
}

func TestChat_DecodesTextAndToolUses(t *testing.T) {
	var gotReq map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("x-api-key = %q, want %q", r.Header.Get("x-api-key"), "test-key")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("anthropic-version header missing")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		resp := map[string]any{
			"stop_reason": "tool_use",
			"content": []map[string]any{
				{"type": "text", "text": "Reviewing the plan."},
				{
					"type":  "tool_use",
					"id":    "toolu_01",
					"name":  "provide_feedback",
					"input": map[string]any{"message": "add more depth", "severity": "high"},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL), WithModel("claude-test"), WithMaxTokens(100))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	resp, err := client.Chat(context.Background(), ChatRequest{
		System:   "You are a reviewer.",
		Messages: []Message{{Role: "user", Content: "review this"}},
		Tools: []Tool{{
			Name:        "provide_feedback",
			Description: "Record one review finding",
			InputSchema: map[string]any{"type": "object"},
		}},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if resp.Text != "Reviewing the plan." {
		t.Errorf("Text = %q", resp.Text)
	}
	if resp.StopReason != "tool_use" {
		t.Errorf("StopReason = %q, want %q", resp.StopReason, "tool_use")
	}
	if len(resp.ToolUses) != 1 {
		t.Fatalf("expected 1 tool use, got %d", len(resp.ToolUses))
	}
	if resp.ToolUses[0].Name != "provide_feedback" {
		t.Errorf("tool name = %q", resp.ToolUses[0].Name)
	}

	var input map[string]string
	if err := json.Unmarshal(resp.ToolUses[0].Input, &input); err != nil {
		t.Fatalf("tool input not valid JSON: %v", err)
	}
	if input["severity"] != "high" {
		t.Errorf("tool input severity = %q", input["severity"])
	}

	// Request body carried the configured model and the tool definitions.
	if gotReq["model"] != "claude-test" {
		t.Errorf("request model = %v", gotReq["model"])
	}
	if gotReq["system"] != "You are a reviewer." {
		t.Errorf("request system = %v", gotReq["system"])
	}
	if _, ok := gotReq["tools"]; !ok {
		t.Error("request missing tools array")
	}
}

func TestChat_APIErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "invalid_request_error", "message": "max_tokens required"},
		})
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if got := err.Error(); got != "API error (status 400): max_tokens required" {
		t.Errorf("error = %q", got)
	}
}

func TestChat_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Chat(ctx, ChatRequest{Messages: []Message{{Role: "user", Content: "hi"}}}); err == nil {
		t.Error("expected error from cancelled context")
	}
}
