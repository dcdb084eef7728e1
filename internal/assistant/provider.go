package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/teleposta/ict-helpdesk/internal/config"
)

// Provider generates a reply for a prompt using an external model.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyReply is returned when a provider answers without any text.
var ErrEmptyReply = errors.New("provider returned an empty reply")

// BuildProviders constructs the providers named in cfg.Providers, in order.
// Providers without an API key and unknown names are skipped.
func BuildProviders(cfg config.AssistantConfig, logger *zap.Logger) []Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	var out []Provider
	for _, name := range cfg.Providers {
		switch name {
		case "gemini":
			if cfg.GeminiAPIKey == "" {
				logger.Info("assistant provider disabled", zap.String("provider", name), zap.String("reason", "no api key"))
				continue
			}
			out = append(out, NewGemini(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel))
		case "openai":
			if cfg.OpenAIAPIKey == "" {
				logger.Info("assistant provider disabled", zap.String("provider", name), zap.String("reason", "no api key"))
				continue
			}
			out = append(out, NewOpenAI(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel))
		case "groq":
			if cfg.GroqAPIKey == "" {
				logger.Info("assistant provider disabled", zap.String("provider", name), zap.String("reason", "no api key"))
				continue
			}
			out = append(out, NewGroq(cfg.GroqBaseURL, cfg.GroqAPIKey, cfg.GroqModel))
		default:
			logger.Warn("unknown assistant provider", zap.String("provider", name))
		}
	}
	return out
}

// postJSON sends body to url and decodes the JSON answer into out. The
// agent timeout follows the context deadline.
func postJSON(ctx context.Context, url string, headers map[string]string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	agent := fiber.Post(url)
	for k, v := range headers {
		agent.Set(k, v)
	}
	agent.JSON(body)
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return context.DeadlineExceeded
		}
		agent.Timeout(remaining)
	}
	if err := agent.Parse(); err != nil {
		return err
	}
	code, raw, errs := agent.Struct(out)
	if code == 0 && len(errs) > 0 {
		return errors.Join(errs...)
	}
	if code != fiber.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", code, truncate(string(raw), 200))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
