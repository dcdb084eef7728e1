package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleSatisfies(t *testing.T) {
	assert.True(t, RoleAdmin.Satisfies(RoleAdmin))
	assert.True(t, RoleAdmin.Satisfies(RoleAgent))
	assert.True(t, RoleAdmin.Satisfies(RoleViewer))
	assert.True(t, RoleAgent.Satisfies(RoleViewer))
	assert.False(t, RoleAgent.Satisfies(RoleAdmin))
	assert.False(t, RoleViewer.Satisfies(RoleAgent))
	assert.False(t, Role("ROOT").Satisfies(RoleViewer))
	assert.False(t, RoleAdmin.Satisfies(Role("")))
}

func TestUserLockout(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	u := &User{Role: RoleAgent}

	for i := 0; i < 4; i++ {
		u.RecordFailedLogin(now, 5, 5*time.Minute)
	}
	assert.Equal(t, 4, u.FailedLoginAttempts)
	assert.False(t, u.IsLocked(now))

	u.RecordFailedLogin(now, 5, 5*time.Minute)
	require.NotNil(t, u.LockedUntil)
	assert.True(t, u.IsLocked(now.Add(4*time.Minute)))
	assert.False(t, u.IsLocked(now.Add(5*time.Minute)))

	later := now.Add(10 * time.Minute)
	u.RecordSuccessfulLogin(later)
	assert.Zero(t, u.FailedLoginAttempts)
	assert.Nil(t, u.LockedUntil)
	require.NotNil(t, u.LastLogin)
	assert.Equal(t, later, *u.LastLogin)
}

func TestParseRef(t *testing.T) {
	assert.Equal(t, Ref{ID: 12}, ParseRef("12"))
	assert.Equal(t, Ref{Name: "Teleposta Tower"}, ParseRef(" Teleposta Tower "))
	assert.Equal(t, Ref{Name: "0"}, ParseRef("0"))
	assert.True(t, ParseRef("").IsZero())
}
