package model

import "strings"

// Role is a closed set of authorities a user can hold.
type Role string

const (
	RoleAdmin     Role = "ROLE_ADMIN"
	RoleReviewer  Role = "ROLE_REVIEWER"
	RoleSubmitter Role = "ROLE_SUBMITTER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleReviewer, RoleSubmitter:
		return true
	}
	return false
}

// ParseRole resolves a requested role name such as "reviewer" or "ROLE_REVIEWER".
// ok is false for names that do not match any role.
func ParseRole(name string) (role Role, ok bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "role_")
	switch n {
	case "admin":
		return RoleAdmin, true
	case "reviewer":
		return RoleReviewer, true
	case "submitter":
		return RoleSubmitter, true
	}
	return "", false
}

// RoleStrings converts roles for token claims and responses.
func RoleStrings(roles []Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

// RolesFromStrings converts claim values back to roles, dropping unknown entries.
func RolesFromStrings(values []string) []Role {
	out := make([]Role, 0, len(values))
	for _, v := range values {
		if r := Role(v); r.Valid() {
			out = append(out, r)
		}
	}
	return out
}
