package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/teleposta/ict-helpdesk/internal/api/dto"
	"github.com/teleposta/ict-helpdesk/internal/domain"
	"github.com/teleposta/ict-helpdesk/internal/service"
)

// UsersHandler exposes account administration.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /admin/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"users": dto.NewUserResponses(users)})
}

// Get handles GET /admin/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": dto.NewUserResponse(user)})
}

// Create handles POST /admin/users. A generated password is returned once.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input := service.CreateUserInput{
		Username:           req.Username,
		Password:           req.Password,
		DepartmentID:       req.DepartmentID,
		Active:             req.Active,
		MustChangePassword: req.MustChangePassword,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}
	created, err := h.users.CreateUser(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":            "User created successfully",
		"user":               dto.NewUserResponse(created.User),
		"temporary_password": created.TemporaryPassword,
	})
}

// ResetPassword handles POST /admin/users/:id/reset-password.
func (h *UsersHandler) ResetPassword(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	password, err := h.users.ResetPassword(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":      "Password reset successfully",
		"new_password": password,
	})
}
