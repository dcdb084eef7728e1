package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teleposta/ict-helpdesk/internal/domain"
	apperrors "github.com/teleposta/ict-helpdesk/pkg/util"
)

type stubUsers map[int64]*domain.User

func (s stubUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func newTestMiddleware() (*AuthMiddleware, *TokenManager) {
	tm := NewTokenManager("secret", time.Hour)
	users := stubUsers{
		1: {ID: 1, Username: "admin", Role: domain.RoleAdmin, Active: true},
		2: {ID: 2, Username: "viewer", Role: domain.RoleViewer, Active: true},
		3: {ID: 3, Username: "gone", Role: domain.RoleAdmin, Active: false},
	}
	return NewAuthMiddleware(tm, users), tm
}

func bearer(t *testing.T, tm *TokenManager, id int64, role domain.Role) string {
	t.Helper()
	tok, err := tm.GenerateToken(&domain.User{ID: id, Username: "u", Role: role})
	require.NoError(t, err)
	return "Bearer " + tok.Value
}

func TestAuthorize(t *testing.T) {
	mw, tm := newTestMiddleware()
	ctx := context.Background()

	principal, err := mw.Authorize(ctx, bearer(t, tm, 1, domain.RoleAdmin), domain.RoleAgent)
	require.NoError(t, err)
	assert.Equal(t, "admin", principal.User.Username)
	assert.Equal(t, int64(1), principal.Claims.UserID)

	_, err = mw.Authorize(ctx, "", domain.RoleViewer)
	assert.ErrorIs(t, err, domain.ErrTokenMissing)

	_, err = mw.Authorize(ctx, "Token abc", domain.RoleViewer)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = mw.Authorize(ctx, bearer(t, tm, 2, domain.RoleViewer), domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = mw.Authorize(ctx, bearer(t, tm, 3, domain.RoleAdmin), domain.RoleViewer)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid, "inactive accounts are rejected")

	_, err = mw.Authorize(ctx, bearer(t, tm, 99, domain.RoleAdmin), domain.RoleViewer)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid, "unknown accounts are rejected")
}

func TestRequire_FiberChain(t *testing.T) {
	mw, tm := newTestMiddleware()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Get("/admin", append(mw.Require(domain.RoleAdmin), func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		require.True(t, ok)
		return c.SendString(p.User.Username)
	})...)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"admin", bearer(t, tm, 1, domain.RoleAdmin), fiber.StatusOK},
		{"viewer", bearer(t, tm, 2, domain.RoleViewer), fiber.StatusForbidden},
		{"missing", "", fiber.StatusUnauthorized},
		{"inactive", bearer(t, tm, 3, domain.RoleAdmin), fiber.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestHandle_AdmitsAnyActiveRole(t *testing.T) {
	mw, tm := newTestMiddleware()
	app := fiber.New()
	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		require.True(t, ok)
		return c.SendString(string(p.User.Role))
	})

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, tm, 2, domain.RoleViewer))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
