package auth

import (
	"time"

	"swarmfeedback/internal/model"
)

// PrincipalKey is the echo context key holding the authenticated Principal.
const PrincipalKey = "principal"

// Principal is the authenticated identity of a request.
// The zero value is the anonymous caller.
type Principal struct {
	UserID    string
	Username  string
	Roles     []model.Role
	TokenID   string
	ExpiresAt time.Time
}

// Anonymous returns the principal used for unauthenticated callers.
func Anonymous() Principal {
	return Principal{}
}

// IsAuthenticated reports whether the principal came from a valid token.
func (p Principal) IsAuthenticated() bool {
	return p.UserID != ""
}

// HasRole reports whether the principal holds role.
func (p Principal) HasRole(role model.Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool {
	return p.HasRole(model.RoleAdmin)
}

func (p Principal) IsReviewer() bool {
	return p.HasRole(model.RoleReviewer)
}
