package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/teleposta/ict-helpdesk/internal/domain"
	apperrors "github.com/teleposta/ict-helpdesk/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User   *domain.User
	Claims *Claims
}

// UserLookup loads accounts referenced by session tokens.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  UserLookup
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Authenticate resolves an Authorization header value to an active account.
func (m *AuthMiddleware) Authenticate(ctx context.Context, authHeader string) (*Principal, error) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return nil, domain.ErrTokenMissing
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, domain.ErrTokenInvalid
	}
	raw := strings.TrimSpace(parts[1])
	if raw == "" {
		return nil, domain.ErrTokenMissing
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return nil, err
	}

	user, err := m.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, apperrors.MapError(err)
	}
	if !user.Active {
		return nil, domain.ErrTokenInvalid
	}
	return &Principal{User: user, Claims: claims}, nil
}

// Authorize authenticates the header and checks the role hierarchy.
func (m *AuthMiddleware) Authorize(ctx context.Context, authHeader string, required domain.Role) (*Principal, error) {
	principal, err := m.Authenticate(ctx, authHeader)
	if err != nil {
		return nil, err
	}
	if !principal.User.HasPermission(required) {
		return nil, domain.ErrForbidden.WithDetails(map[string]any{"required_role": required})
	}
	return principal, nil
}

// Handle admits any active account. VIEWER is the lowest role.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	return m.guard(domain.RoleViewer)(c)
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal != nil && principal.User != nil
}
