package store

import "strings"

// RequireToken is the write guard: every mutating operation calls it before
// the backend is touched. Validating the token itself belongs to auth.
func RequireToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrUnauthorized
	}
	return nil
}
