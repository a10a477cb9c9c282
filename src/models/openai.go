package models

import (
	"context"
	"errors"
	"math"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	DeepSeekBaseURL = "https://api.deepseek.com"
	DeepSeekModel   = "deepseek-chat"
)

// OpenAILLM talks to any OpenAI compatible chat completions endpoint.
type OpenAILLM struct {
	Client *openai.Client
	Model  string
}

// NewOpenAILLM reads OPENAI_API_KEY (or OPENAI_KEY). An empty baseURL keeps
// the SDK default.
func NewOpenAILLM(model, baseURL string) *OpenAILLM {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_KEY") // fallback
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAILLM{Client: openai.NewClientWithConfig(cfg), Model: model}
}

// NewDeepSeekLLM uses the DeepSeek endpoint through the OpenAI protocol,
// authenticated with DEEPSEEK_API_KEY.
func NewDeepSeekLLM(model, baseURL string) (*OpenAILLM, error) {
	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		return nil, errors.New("missing DEEPSEEK_API_KEY")
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = modelOr(baseURL, DeepSeekBaseURL)
	return &OpenAILLM{
		Client: openai.NewClientWithConfig(cfg),
		Model:  modelOr(model, DeepSeekModel),
	}, nil
}

func (o *OpenAILLM) Chat(ctx context.Context, req Request) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}

	temperature := req.Temperature
	if temperature == 0 {
		// the SDK drops a zero temperature from the payload
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       modelOr(req.Model, o.Model),
		Messages:    msgs,
		Temperature: temperature,
		Stream:      false,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ ChatModel = (*OpenAILLM)(nil)
