package perplexity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TheTechnextInc/mindful-chatbot/pkg/llm"
)

func TestChatSuccess(t *testing.T) {
	var gotAuth string
	var gotReq perplexityChatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(perplexityChatResponse{
			Choices: []struct {
				Message perplexityMessage `json:"message"`
			}{
				{Message: perplexityMessage{Role: "assistant", Content: "You are not alone."}},
			},
		})
	}))
	defer srv.Close()

	p := NewPerplexityProvider("test-key", "sonar-pro")
	p.BaseURL = srv.URL

	got, err := p.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "be kind"},
		{Role: "user", Content: "I feel low"},
	}, llm.WithMaxTokens(200))
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if got != "You are not alone." {
		t.Errorf("Chat() = %q, want %q", got, "You are not alone.")
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "sonar-pro" {
		t.Errorf("Model = %q, want sonar-pro", gotReq.Model)
	}
	if gotReq.ReturnCitations {
		t.Error("ReturnCitations should be false")
	}
	if gotReq.MaxTokens != 200 {
		t.Errorf("MaxTokens = %d, want 200", gotReq.MaxTokens)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("Messages = %+v", gotReq.Messages)
	}
}

func TestChatUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewPerplexityProvider("test-key", "")
	p.BaseURL = srv.URL

	_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	if !errors.Is(err, llm.ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestChatMissingAPIKey(t *testing.T) {
	p := NewPerplexityProvider("", "")

	_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	if !errors.Is(err, llm.ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want ErrUpstreamUnavailable", err)
	}
}
