// internal/pkg/token/errors.go
package token

import "errors"

var (
	// ErrInvalidSignature covers malformed tokens, wrong signatures and
	// issuer/audience mismatches.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrExpired is returned for structurally valid tokens past their expiry.
	ErrExpired = errors.New("token expired")
)
