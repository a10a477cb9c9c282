package models

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Protocol-Lattice/planagent/pkg/utils/json"
)

func TestScriptedLLMReplaysInOrder(t *testing.T) {
	llm := NewScriptedLLM("first").Fail(errors.New("boom")).Push("third")
	ctx := context.Background()

	got, err := llm.Chat(ctx, Request{Messages: []Message{User("a")}})
	if err != nil || got != "first" {
		t.Fatalf("first reply = %q, %v", got, err)
	}
	if _, err := llm.Chat(ctx, Request{Messages: []Message{User("b")}}); err == nil || err.Error() != "boom" {
		t.Fatalf("expected scripted failure, got %v", err)
	}
	if got, _ := llm.Chat(ctx, Request{Messages: []Message{User("c")}}); got != "third" {
		t.Fatalf("third reply = %q", got)
	}
	if llm.Calls() != 3 {
		t.Fatalf("expected 3 recorded requests, got %d", llm.Calls())
	}
	if llm.Requests[1].Messages[0].Content != "b" {
		t.Fatalf("request not recorded: %+v", llm.Requests[1])
	}
}

func TestScriptedLLMEchoFallback(t *testing.T) {
	llm := NewScriptedLLM()
	got, err := llm.Chat(context.Background(), Request{Messages: []Message{
		System("you are helpful"),
		User("How are you doing?"),
	}})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("fallback is not JSON: %v", err)
	}
	if decoded["requires_tools"] != false || decoded["requires_changes"] != false {
		t.Fatalf("unexpected flags: %v", decoded)
	}
	if decoded["direct_response"] != "Dummy response: How are you doing?" {
		t.Fatalf("unexpected direct response: %v", decoded["direct_response"])
	}
}

func TestSplitSystem(t *testing.T) {
	system, rest := splitSystem([]Message{System("a"), User("q"), System("b"), Assistant("p")})
	if system != "a\n\nb" {
		t.Fatalf("system = %q", system)
	}
	if len(rest) != 2 || rest[0].Role != RoleUser || rest[1].Role != RoleAssistant {
		t.Fatalf("unexpected turns: %+v", rest)
	}
}

func TestNewLLMProvider(t *testing.T) {
	ctx := context.Background()

	llm, model, err := NewLLMProvider(ctx, ProviderConfig{Provider: "Scripted"})
	if err != nil {
		t.Fatalf("NewLLMProvider returned error: %v", err)
	}
	if _, ok := llm.(*ScriptedLLM); !ok || model != "scripted" {
		t.Fatalf("unexpected provider %T / %q", llm, model)
	}

	if _, _, err := NewLLMProvider(ctx, ProviderConfig{Provider: "nope"}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}

	t.Setenv("DEEPSEEK_API_KEY", "")
	if _, _, err := NewLLMProvider(ctx, ProviderConfig{}); err == nil {
		t.Fatalf("expected missing key error for default deepseek provider")
	}

	t.Setenv("DEEPSEEK_API_KEY", "sk-test")
	llm, model, err = NewLLMProvider(ctx, ProviderConfig{})
	if err != nil {
		t.Fatalf("deepseek provider: %v", err)
	}
	if _, ok := llm.(*OpenAILLM); !ok || model != DeepSeekModel {
		t.Fatalf("unexpected deepseek provider %T / %q", llm, model)
	}
}

func TestOpenAILLMChat(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"requires_tools\": false}"}}]}`)
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "sk-test")
	llm := NewOpenAILLM("gpt-test", srv.URL+"/v1")
	got, err := llm.Chat(context.Background(), Request{
		Messages: []Message{System("sys"), User("hello")},
	})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if got != `{"requires_tools": false}` {
		t.Fatalf("unexpected completion %q", got)
	}

	if captured["model"] != "gpt-test" {
		t.Fatalf("expected default model, got %v", captured["model"])
	}
	temp, ok := captured["temperature"].(float64)
	if !ok || temp <= 0 || temp > 1e-6 {
		t.Fatalf("expected near-zero temperature to be sent, got %v", captured["temperature"])
	}
	msgs, _ := captured["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %v", captured["messages"])
	}
	if first, _ := msgs[0].(map[string]any); first["role"] != "system" || first["content"] != "sys" {
		t.Fatalf("unexpected first message %v", first)
	}
}

func TestOllamaLLMChat(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"model":"llama3.1","message":{"role":"assistant","content":"pong"},"done":true}`+"\n")
	}))
	defer srv.Close()

	llm, err := NewOllamaLLM("llama3.1", srv.URL)
	if err != nil {
		t.Fatalf("NewOllamaLLM: %v", err)
	}
	got, err := llm.Chat(context.Background(), Request{Messages: []Message{User("ping")}})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if got != "pong" {
		t.Fatalf("unexpected completion %q", got)
	}
	if captured["stream"] != false {
		t.Fatalf("expected non-streaming request, got %v", captured["stream"])
	}
	opts, _ := captured["options"].(map[string]any)
	if opts["temperature"] != float64(0) {
		t.Fatalf("expected zero temperature option, got %v", opts)
	}
}
