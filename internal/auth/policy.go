package auth

import (
	apperrors "swarmfeedback/internal/errors"
)

// RequireAuthenticated fails with ErrUnauthorized for anonymous callers.
func RequireAuthenticated(p Principal) error {
	if !p.IsAuthenticated() {
		return apperrors.ErrUnauthorized
	}
	return nil
}

// RequireAdmin gates admin-only operations: anonymous callers get
// ErrUnauthorized, authenticated non-admins ErrAdminRequired.
func RequireAdmin(p Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !p.IsAdmin() {
		return apperrors.ErrAdminRequired
	}
	return nil
}
