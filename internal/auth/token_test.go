package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teleposta/ict-helpdesk/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	user := &domain.User{ID: 42, Username: "alice", Role: domain.RoleAgent}

	token, err := tm.GenerateToken(user)
	require.NoError(t, err)
	assert.Equal(t, int64(42), token.UserID)
	assert.Equal(t, domain.RoleAgent, token.Role)

	claims, err := tm.ParseToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, domain.RoleAgent, claims.Role)
}

func TestTokenManager_Expired(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret", time.Hour)
	tm.now = func() time.Time { return issued }

	token, err := tm.GenerateToken(&domain.User{ID: 1, Username: "bob", Role: domain.RoleViewer})
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = tm.ParseToken(token.Value)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("one", time.Hour)
	verifier := NewTokenManager("two", time.Hour)

	token, err := issuer.GenerateToken(&domain.User{ID: 1, Username: "bob", Role: domain.RoleViewer})
	require.NoError(t, err)

	_, err = verifier.ParseToken(token.Value)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = verifier.ParseToken("not.a.jwt")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
