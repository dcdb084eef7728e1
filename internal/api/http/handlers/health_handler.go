package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/teleposta/ict-helpdesk/internal/assistant"
	"github.com/teleposta/ict-helpdesk/internal/observability"
)

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness checks.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    Pinger
	redis       Pinger
	metrics     *observability.Metrics
	assistant   *assistant.Gateway
}

// HealthDependencies bundles what the health checks inspect.
type HealthDependencies struct {
	ServiceName string
	Version     string
	Postgres    Pinger
	Redis       Pinger
	Metrics     *observability.Metrics
	Assistant   *assistant.Gateway
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(deps HealthDependencies) *HealthHandler {
	return &HealthHandler{
		serviceName: deps.ServiceName,
		version:     deps.Version,
		postgres:    deps.Postgres,
		redis:       deps.Redis,
		metrics:     deps.Metrics,
		assistant:   deps.Assistant,
	}
}

// Live handles GET /health.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   h.serviceName,
		"version":   h.version,
	})
}

// Ready handles GET /health/ready by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true
	for name, dep := range map[string]Pinger{"postgres": h.postgres, "redis": h.redis} {
		if dep == nil {
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			depStatus[name] = err.Error()
			ready = false
		} else {
			depStatus[name] = "ok"
		}
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
			"metrics":      h.metrics.Snapshot(),
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}

// AI handles GET /health/ai. The assistant always answers thanks to canned
// replies, so the status is always ok.
func (h *HealthHandler) AI(c *fiber.Ctx) error {
	status := assistant.Status{FallbackOnly: true}
	if h.assistant != nil {
		status = h.assistant.Status()
	}
	model := "fallback-mode"
	note := "AI is available with fallback responses"
	if !status.FallbackOnly {
		model = strings.Join(status.Providers, ", ") + " (with fallback)"
		note = "AI is always available with fallback responses"
	}
	providers := status.Providers
	if providers == nil {
		providers = []string{}
	}
	return c.JSON(fiber.Map{
		"status":        "ok",
		"model":         model,
		"providers":     providers,
		"fallback_only": status.FallbackOnly,
		"latency_ms":    0,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"note":          note,
	})
}
