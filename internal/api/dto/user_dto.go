package dto

import (
	"time"

	"github.com/teleposta/ict-helpdesk/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest payload. Length rules live in the auth service.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// CreateUserRequest payload for POST /admin/users.
type CreateUserRequest struct {
	Username           string  `json:"username" validate:"required,max=80"`
	Password           *string `json:"password"`
	Role               *string `json:"role"`
	DepartmentID       *int64  `json:"department_id"`
	Active             *bool   `json:"active"`
	MustChangePassword *bool   `json:"must_change_password"`
}

// UserResponse is the public user representation. The password hash never leaves the service.
type UserResponse struct {
	ID                 int64      `json:"id"`
	Username           string     `json:"username"`
	Role               string     `json:"role"`
	DepartmentID       *int64     `json:"department_id"`
	DepartmentName     *string    `json:"department_name"`
	Active             bool       `json:"active"`
	MustChangePassword bool       `json:"must_change_password"`
	CreatedAt          time.Time  `json:"created_at"`
	LastLogin          *time.Time `json:"last_login"`
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	Message            string       `json:"message"`
	Token              string       `json:"token"`
	ExpiresAt          time.Time    `json:"expires_at"`
	User               UserResponse `json:"user"`
	MustChangePassword bool         `json:"must_change_password"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Username:           u.Username,
		Role:               string(u.Role),
		DepartmentID:       u.DepartmentID,
		DepartmentName:     u.DepartmentName,
		Active:             u.Active,
		MustChangePassword: u.MustChangePassword,
		CreatedAt:          u.CreatedAt,
		LastLogin:          u.LastLogin,
	}
}

// NewUserResponses maps a slice, never returning nil.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
