package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/teleposta/ict-helpdesk/internal/api/dto"
	"github.com/teleposta/ict-helpdesk/internal/assistant"
	apperrors "github.com/teleposta/ict-helpdesk/pkg/util"
)

// AssistantHandler serves the chat assistant.
type AssistantHandler struct {
	gateway *assistant.Gateway
}

// NewAssistantHandler constructs handler.
func NewAssistantHandler(gateway *assistant.Gateway) *AssistantHandler {
	return &AssistantHandler{gateway: gateway}
}

// Chat handles POST /ai/chat.
func (h *AssistantHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return apperrors.NewValidationError("message is required", map[string]any{"message": "message is required"})
	}
	return c.JSON(dto.ChatResponse{
		Response:         h.gateway.Respond(c.UserContext(), message),
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		SuggestedActions: assistant.SuggestedActions(message),
	})
}

// QuickFixes handles GET /ai/quick-fixes/:issue_type.
func (h *AssistantHandler) QuickFixes(c *fiber.Ctx) error {
	issueType := c.Params("issue_type")
	return c.JSON(dto.QuickFixesResponse{
		IssueType:  issueType,
		QuickFixes: assistant.QuickFixes(issueType),
	})
}
