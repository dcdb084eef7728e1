package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/teleposta/ict-helpdesk/internal/api/dto"
	"github.com/teleposta/ict-helpdesk/internal/auth"
	"github.com/teleposta/ict-helpdesk/internal/domain"
	"github.com/teleposta/ict-helpdesk/internal/service"
)

// AuthHandler exposes login and session endpoints for staff accounts.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	result, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Message:            "Login successful",
		Token:              result.Token.Value,
		ExpiresAt:          result.Token.ExpiresAt,
		User:               dto.NewUserResponse(result.User),
		MustChangePassword: result.User.MustChangePassword,
	})
}

// Logout handles POST /logout. Tokens are stateless; the client discards it.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.UserContext(), principal.User); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// ChangePassword handles POST /change-password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), principal.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

// Me handles GET /me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": dto.NewUserResponse(principal.User)})
}

func currentPrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, domain.ErrTokenMissing
	}
	return principal, nil
}
