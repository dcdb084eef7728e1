package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ChatCompletions talks to an OpenAI-compatible /chat/completions endpoint.
// Groq exposes the same API under a different base URL.
type ChatCompletions struct {
	name    string
	baseURL string
	apiKey  string
	model   string
}

// NewOpenAI builds an OpenAI provider.
func NewOpenAI(baseURL, apiKey, model string) *ChatCompletions {
	return newChatCompletions("openai", baseURL, apiKey, model)
}

// NewGroq builds a Groq provider.
func NewGroq(baseURL, apiKey, model string) *ChatCompletions {
	return newChatCompletions("groq", baseURL, apiKey, model)
}

func newChatCompletions(name, baseURL, apiKey, model string) *ChatCompletions {
	return &ChatCompletions{name: name, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, model: model}
}

func (c *ChatCompletions) Name() string { return c.name }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompt as a single user message.
func (c *ChatCompletions) Generate(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{fiber.HeaderAuthorization: "Bearer " + c.apiKey}

	var resp chatResponse
	if err := postJSON(ctx, c.baseURL+"/chat/completions", headers, req, &resp); err != nil {
		return "", fmt.Errorf("%s: %w", c.name, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%s: %w", c.name, ErrEmptyReply)
	}
	return resp.Choices[0].Message.Content, nil
}
