package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChatConvertsMessagesAndResponse(t *testing.T) {
	var gotReq anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("missing anthropic-version header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		resp := anthropicResponse{
			Model:   "test-model",
			Role:    "assistant",
			Content: []anthropicContent{{Type: "text", Text: `{"intents": []}`}},
			Usage:   anthropicUsage{InputTokens: 10, OutputTokens: 5},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewAnthropicClient("test-key", nil)
	c.baseURL = srv.URL

	resp, err := c.Chat(context.Background(), "test-model", []Message{
		{Role: "system", Content: "you are a classifier"},
		{Role: "user", Content: "buy milk"},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if gotReq.System != "you are a classifier" {
		t.Errorf("system prompt = %q", gotReq.System)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Errorf("messages = %+v, want single user message", gotReq.Messages)
	}
	if resp.Content != `{"intents": []}` {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.InputTokens != 10 || resp.OutputTokens != 5 {
		t.Errorf("tokens = %d/%d, want 10/5", resp.InputTokens, resp.OutputTokens)
	}
}

func TestChatImageBecomesContentBlock(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContent{{Type: "text", Text: "ok"}},
		})
	}))
	defer srv.Close()

	c := NewAnthropicClient("k", nil)
	c.baseURL = srv.URL

	_, err := c.Chat(context.Background(), "m", []Message{{
		Role:    "user",
		Content: "describe this",
		Image:   &ImageAttachment{Data: []byte{0x1, 0x2}, MediaType: "image/png"},
	}})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	msgs := gotBody["messages"].([]any)
	blocks := msgs[0].(map[string]any)["content"].([]any)
	if len(blocks) != 2 {
		t.Fatalf("content blocks = %d, want 2 (image + text)", len(blocks))
	}
	img := blocks[0].(map[string]any)
	if img["type"] != "image" {
		t.Errorf("first block type = %v, want image", img["type"])
	}
	src := img["source"].(map[string]any)
	if src["media_type"] != "image/png" {
		t.Errorf("media_type = %v", src["media_type"])
	}
}

func TestChatAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewAnthropicClient("k", nil)
	c.baseURL = srv.URL

	_, err := c.Chat(context.Background(), "m", []Message{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
}
