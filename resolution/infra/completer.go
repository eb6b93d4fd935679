package infra

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompleter faz uma única chamada de chat completion (sem streaming)
// contra qualquer endpoint compatível: DeepSeek, Ollama /v1, cmd/mock-llm.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

func NewOpenAICompleter(cfg LLMConfig) *OpenAICompleter {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	oc.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAICompleter{client: openai.NewClientWithConfig(oc), model: cfg.Model}
}

// Complete implementa domain.Completer.
func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "completion: create")
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("completion: response has no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
