package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/teleposta/ict-helpdesk/internal/api/dto"
	apperrors "github.com/teleposta/ict-helpdesk/pkg/util"
)

// parseBody decodes the JSON body into req and runs its validate tags.
func parseBody(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
	}
	return dto.Validate(req)
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]any{name: c.Params(name)})
	}
	return id, nil
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func queryInt64(c *fiber.Ctx, key string) (*int64, error) {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid "+key, map[string]any{key: val})
	}
	return &parsed, nil
}
