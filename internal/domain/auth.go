package domain

import "time"

// Role is a staff permission level.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleAgent  Role = "AGENT"
	RoleViewer Role = "VIEWER"
)

var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleAgent:  2,
	RoleAdmin:  3,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Satisfies reports whether r grants the permissions of required.
// ADMIN satisfies AGENT and VIEWER, AGENT satisfies VIEWER.
func (r Role) Satisfies(required Role) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	need, ok := roleRank[required]
	if !ok {
		return false
	}
	return have >= need
}

// Token represents issued session token metadata.
type Token struct {
	Value     string
	UserID    int64
	Username  string
	Role      Role
	ExpiresAt time.Time
}
