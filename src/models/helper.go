package models

import (
	"context"
	"fmt"
	"strings"
)

// ProviderConfig selects and configures a chat model backend.
type ProviderConfig struct {
	Provider string
	Model    string
	// BaseURL overrides the API endpoint (OpenAI compatible providers) or the
	// host (Ollama).
	BaseURL string
}

// DefaultModels holds the model used when ProviderConfig.Model is empty.
var DefaultModels = map[string]string{
	"deepseek":  DeepSeekModel,
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-3-5-sonnet-latest",
	"gemini":    "gemini-1.5-flash",
	"ollama":    "llama3.1",
	"dummy":     "scripted",
}

// NewLLMProvider returns a concrete ChatModel and the model name requests
// should carry.
func NewLLMProvider(ctx context.Context, cfg ProviderConfig) (ChatModel, string, error) {
	provider := canonicalProvider(cfg.Provider)
	model := modelOr(cfg.Model, DefaultModels[provider])

	switch provider {
	case "deepseek":
		llm, err := NewDeepSeekLLM(model, cfg.BaseURL)
		if err != nil {
			return nil, "", err
		}
		return llm, model, nil
	case "openai":
		return NewOpenAILLM(model, cfg.BaseURL), model, nil
	case "gemini":
		llm, err := NewGeminiLLM(ctx, model)
		if err != nil {
			return nil, "", err
		}
		return llm, model, nil
	case "ollama":
		llm, err := NewOllamaLLM(model, cfg.BaseURL)
		if err != nil {
			return nil, "", err
		}
		return llm, model, nil
	case "anthropic":
		return NewAnthropicLLM(model), model, nil
	case "dummy":
		return NewScriptedLLM(), model, nil
	default:
		return nil, "", fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

func canonicalProvider(name string) string {
	switch p := strings.ToLower(strings.TrimSpace(name)); p {
	case "", "deepseek":
		return "deepseek"
	case "google", "gemini":
		return "gemini"
	case "claude", "anthropic":
		return "anthropic"
	case "scripted", "dummy":
		return "dummy"
	default:
		return p
	}
}
