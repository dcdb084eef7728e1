package domain

import "time"

// User is a staff account able to sign in to the helpdesk console.
type User struct {
	ID                  int64
	Username            string
	PasswordHash        string
	Role                Role
	DepartmentID        *int64
	DepartmentName      *string
	Active              bool
	MustChangePassword  bool
	CreatedAt           time.Time
	LastLogin           *time.Time
	FailedLoginAttempts int
	LockedUntil         *time.Time
}

// IsLocked reports whether the lockout window is still open at now.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// RecordFailedLogin bumps the failure counter and locks the account once
// maxAttempts consecutive failures are reached.
func (u *User) RecordFailedLogin(now time.Time, maxAttempts int, lockout time.Duration) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		until := now.Add(lockout)
		u.LockedUntil = &until
	}
}

// RecordSuccessfulLogin clears lockout state and stamps the login time.
func (u *User) RecordSuccessfulLogin(now time.Time) {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.LastLogin = &now
}

// HasPermission reports whether the user's role satisfies required.
func (u *User) HasPermission(required Role) bool {
	return u.Role.Satisfies(required)
}
