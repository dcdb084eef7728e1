package domain

import (
	"net/http"

	apperrors "github.com/teleposta/ict-helpdesk/pkg/util"
)

// Sentinel errors. Compare with errors.Is; attach context with WithDetails.
var (
	ErrInvalidCredentials       = apperrors.NewDomainError("INVALID_CREDENTIALS", "invalid credentials", http.StatusUnauthorized, nil)
	ErrAccountLocked            = apperrors.NewDomainError("ACCOUNT_LOCKED", "account is temporarily locked due to failed login attempts", http.StatusUnauthorized, nil)
	ErrAccountDisabled          = apperrors.NewDomainError("ACCOUNT_DISABLED", "account is deactivated", http.StatusUnauthorized, nil)
	ErrTokenMissing             = apperrors.NewDomainError("TOKEN_MISSING", "token is missing", http.StatusUnauthorized, nil)
	ErrTokenExpired             = apperrors.NewDomainError("TOKEN_EXPIRED", "token has expired", http.StatusUnauthorized, nil)
	ErrTokenInvalid             = apperrors.NewDomainError("TOKEN_INVALID", "invalid token", http.StatusUnauthorized, nil)
	ErrForbidden                = apperrors.NewDomainError("FORBIDDEN", "insufficient role", http.StatusForbidden, nil)
	ErrIncorrectCurrentPassword = apperrors.NewDomainError("INCORRECT_CURRENT_PASSWORD", "current password is incorrect", http.StatusBadRequest, nil)
	ErrPasswordTooShort         = apperrors.NewDomainError("PASSWORD_TOO_SHORT", "password must be at least 8 characters long", http.StatusBadRequest, nil)
	ErrUserNotFound             = apperrors.NewDomainError("USER_NOT_FOUND", "user not found", http.StatusNotFound, nil)
	ErrUsernameTaken            = apperrors.NewDomainError("USERNAME_TAKEN", "username already exists", http.StatusConflict, nil)
	ErrInvalidRole              = apperrors.NewDomainError("INVALID_ROLE", "role must be one of ADMIN, AGENT, VIEWER", http.StatusBadRequest, nil)

	ErrReferenceNotFound = apperrors.NewDomainError("REFERENCE_NOT_FOUND", "reference not found", http.StatusNotFound, nil)
	ErrDepartmentExists  = apperrors.NewDomainError("DEPARTMENT_EXISTS", "department already exists", http.StatusConflict, nil)

	ErrTicketNotFound   = apperrors.NewDomainError("TICKET_NOT_FOUND", "ticket not found", http.StatusNotFound, nil)
	ErrInvalidStatus    = apperrors.NewDomainError("INVALID_STATUS", "invalid status", http.StatusBadRequest, nil)
	ErrInvalidPriority  = apperrors.NewDomainError("INVALID_PRIORITY", "priority must be one of low, medium, high, urgent", http.StatusBadRequest, nil)
	ErrMissingAssignee  = apperrors.NewDomainError("MISSING_ASSIGNEE", "assigned_to is required", http.StatusBadRequest, nil)
	ErrInvalidRating    = apperrors.NewDomainError("INVALID_RATING", "rating must be between 1 and 5", http.StatusBadRequest, nil)
	ErrTicketNotRatable = apperrors.NewDomainError("TICKET_NOT_RATABLE", "only resolved or closed tickets can be rated", http.StatusConflict, nil)
)
