package assistant

import (
	"context"
	"fmt"
	"strings"
)

// Gemini calls the Google Generative Language generateContent endpoint.
type Gemini struct {
	baseURL string
	apiKey  string
	model   string
}

// NewGemini builds a Gemini provider.
func NewGemini(baseURL, apiKey, model string) *Gemini {
	return &Gemini{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, model: model}
}

func (g *Gemini) Name() string { return "gemini" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate returns the text parts of the first candidate.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req := geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}}

	var resp geminiResponse
	if err := postJSON(ctx, url, map[string]string{"x-goog-api-key": g.apiKey}, req, &resp); err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini: %w", ErrEmptyReply)
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyReply)
	}
	return sb.String(), nil
}
