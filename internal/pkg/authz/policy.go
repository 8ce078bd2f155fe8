// internal/pkg/authz/policy.go
package authz

import (
	"errors"
	"fmt"
	"strings"

	"kynix-service/internal/pkg/token"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrAccountInactive = errors.New("account is inactive")
)

// PermissionError reports an authorization denial together with the required
// and actual permission sets for diagnostics.
type PermissionError struct {
	Required []string
	Current  []string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("insufficient permissions: required one of [%s], have [%s]",
		strings.Join(e.Required, ", "), strings.Join(e.Current, ", "))
}

// Check evaluates claims against a required-permission set.
//
// Nil claims deny with ErrUnauthenticated, an inactive account with
// ErrAccountInactive. The admin role is allowed unconditionally. A non-empty
// required set allows when at least one required permission is held
// (any-of, not all-of); an empty set allows any authenticated active user.
func Check(claims *token.Claims, required ...string) error {
	if claims == nil {
		return ErrUnauthenticated
	}

	if !claims.IsActive {
		return ErrAccountInactive
	}

	if claims.IsAdmin() {
		return nil
	}

	if len(required) > 0 && !claims.HasAnyPermission(required...) {
		return &PermissionError{Required: required, Current: claims.Permissions}
	}

	return nil
}
