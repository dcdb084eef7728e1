package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teleposta/ict-helpdesk/internal/auth"
	"github.com/teleposta/ict-helpdesk/internal/domain"
)

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "admin", "correct-horse", domain.RoleAdmin)

	res, err := f.auth.Login(context.Background(), "admin", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)
	assert.NotEmpty(t, res.Token.Value)
	assert.Equal(t, domain.RoleAdmin, res.Token.Role)

	claims, err := f.auth.TokenManager().ParseToken(res.Token.Value)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	stored, _ := f.store.User(user.ID)
	require.NotNil(t, stored.LastLogin)
	assert.Equal(t, f.clock.Now(), *stored.LastLogin)
}

func TestLogin_UnknownUserAndDisabled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Login(ctx, "ghost", "whatever")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	hash, err := auth.HashPassword("password1", 4)
	require.NoError(t, err)
	f.store.AddUser(domain.User{Username: "former", PasswordHash: hash, Role: domain.RoleAgent, Active: false})
	_, err = f.auth.Login(ctx, "former", "password1")
	assert.ErrorIs(t, err, domain.ErrAccountDisabled)
}

func TestLogin_LocksAfterFiveFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "agent", "right-password", domain.RoleAgent)

	for i := 1; i <= 5; i++ {
		_, err := f.auth.Login(ctx, "agent", "wrong")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials, "attempt %d", i)

		stored, _ := f.store.User(user.ID)
		assert.Equal(t, i, stored.FailedLoginAttempts, "failure counter is committed")
	}

	_, err := f.auth.Login(ctx, "agent", "right-password")
	assert.ErrorIs(t, err, domain.ErrAccountLocked)

	f.clock.Advance(5*time.Minute + time.Second)
	res, err := f.auth.Login(ctx, "agent", "right-password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)

	stored, _ := f.store.User(user.ID)
	assert.Zero(t, stored.FailedLoginAttempts)
	assert.Nil(t, stored.LockedUntil)
}

func TestLogin_SuccessResetsCounter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "viewer", "password1", domain.RoleViewer)

	for i := 0; i < 3; i++ {
		_, _ = f.auth.Login(ctx, "viewer", "nope")
	}
	_, err := f.auth.Login(ctx, "viewer", "password1")
	require.NoError(t, err)

	stored, _ := f.store.User(user.ID)
	assert.Zero(t, stored.FailedLoginAttempts)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hash, err := auth.HashPassword("temp1234", 4)
	require.NoError(t, err)
	user := f.store.AddUser(domain.User{Username: "new", PasswordHash: hash, Role: domain.RoleViewer, Active: true, MustChangePassword: true})

	assert.ErrorIs(t, f.auth.ChangePassword(ctx, user.ID, "temp1234", "short"), domain.ErrPasswordTooShort)
	assert.ErrorIs(t, f.auth.ChangePassword(ctx, user.ID, "wrong", "long-enough"), domain.ErrIncorrectCurrentPassword)
	assert.ErrorIs(t, f.auth.ChangePassword(ctx, user.ID, "wrong", "short"), domain.ErrIncorrectCurrentPassword,
		"the current password is checked before the new one")

	require.NoError(t, f.auth.ChangePassword(ctx, user.ID, "temp1234", "long-enough"))
	stored, _ := f.store.User(user.ID)
	assert.False(t, stored.MustChangePassword)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "long-enough"))

	_, err = f.auth.Login(ctx, "new", "long-enough")
	assert.NoError(t, err)
}
