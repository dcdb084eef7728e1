package assistant

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const systemPrompt = `You are GPO, the friendly ICT Support Assistant for Teleposta GPO (Ministry of Public Service).
Be warm, polite and brief. Thank the user, restate their goal in one sentence, then give 3 to 6 numbered steps.
You cover WiFi, printers, projectors, computer hardware, software installs and updates, network issues and email.
If physical help or privileged access is needed, ask the user to create a support ticket with the issue, location, device, extension and best time to visit.
Remind users to save work before restarts and never to share passwords.`

// Gateway answers chat messages through an ordered list of providers and
// falls back to canned replies when none of them answers.
type Gateway struct {
	providers []Provider
	timeout   time.Duration
	logger    *zap.Logger
}

// Status describes the configured provider chain.
type Status struct {
	Providers    []string
	FallbackOnly bool
}

// NewGateway builds a gateway. A non-positive timeout defaults to 15s.
func NewGateway(providers []Provider, timeout time.Duration, logger *zap.Logger) *Gateway {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{providers: providers, timeout: timeout, logger: logger}
}

// Respond never fails: provider errors are logged and the next provider is
// tried, ending with a canned reply.
func (g *Gateway) Respond(ctx context.Context, message string) string {
	prompt := buildPrompt(message)
	for _, p := range g.providers {
		start := time.Now()
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		raw, err := p.Generate(callCtx, prompt)
		cancel()
		if err != nil {
			g.logger.Warn("assistant provider failed",
				zap.String("provider", p.Name()),
				zap.Duration("latency", time.Since(start)),
				zap.Error(err))
			continue
		}
		reply := PlainText(raw)
		if reply == "" {
			g.logger.Warn("assistant provider returned no text", zap.String("provider", p.Name()))
			continue
		}
		g.logger.Debug("assistant reply",
			zap.String("provider", p.Name()),
			zap.Duration("latency", time.Since(start)))
		return reply
	}
	return CannedReply(message)
}

// Status reports which providers are configured.
func (g *Gateway) Status() Status {
	names := make([]string, 0, len(g.providers))
	for _, p := range g.providers {
		names = append(names, p.Name())
	}
	return Status{Providers: names, FallbackOnly: len(names) == 0}
}

func buildPrompt(message string) string {
	return systemPrompt + "\n\nUser question: " + message + "\n\nPlease provide a helpful response:"
}
