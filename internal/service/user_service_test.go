package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teleposta/ict-helpdesk/internal/auth"
	"github.com/teleposta/ict-helpdesk/internal/domain"
)

func TestCreateUser_Defaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.users.CreateUser(ctx, CreateUserInput{Username: "neema", DepartmentID: &f.ict.ID})
	require.NoError(t, err)
	require.NotNil(t, created.TemporaryPassword)
	assert.Len(t, *created.TemporaryPassword, 8)
	assert.Equal(t, domain.RoleViewer, created.User.Role)
	assert.True(t, created.User.Active)
	assert.True(t, created.User.MustChangePassword)
	assert.Equal(t, "ICT Department", *created.User.DepartmentName)
	assert.NoError(t, auth.ComparePassword(created.User.PasswordHash, *created.TemporaryPassword))
}

func TestCreateUser_ExplicitFields(t *testing.T) {
	f := newFixture(t)
	role := domain.Role("agent")
	password := "given-password"
	inactive := false
	mustChange := false

	created, err := f.users.CreateUser(context.Background(), CreateUserInput{
		Username:           "juma",
		Password:           &password,
		Role:               &role,
		Active:             &inactive,
		MustChangePassword: &mustChange,
	})
	require.NoError(t, err)
	assert.Nil(t, created.TemporaryPassword)
	assert.Equal(t, domain.RoleAgent, created.User.Role)
	assert.False(t, created.User.Active)
	assert.False(t, created.User.MustChangePassword)
}

func TestCreateUser_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "taken", "password1", domain.RoleViewer)

	_, err := f.users.CreateUser(ctx, CreateUserInput{Username: "taken"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	bad := domain.Role("ROOT")
	_, err = f.users.CreateUser(ctx, CreateUserInput{Username: "x", Role: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	missingDept := int64(999)
	_, err = f.users.CreateUser(ctx, CreateUserInput{Username: "y", DepartmentID: &missingDept})
	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)

	_, err = f.users.CreateUser(ctx, CreateUserInput{Username: "  "})
	assert.ErrorContains(t, err, "username is required")

	users, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "amina", "old-password", domain.RoleAgent)

	password, err := f.users.ResetPassword(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, password, 8)

	stored, _ := f.store.User(user.ID)
	assert.True(t, stored.MustChangePassword)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, password))

	_, err = f.users.ResetPassword(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
