// internal/pkg/token/verifier.go
package token

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

type Verifier struct {
	pub      *rsa.PublicKey
	issuer   string
	audience string
}

func NewVerifier(pub *rsa.PublicKey, issuer, audience string) *Verifier {
	return &Verifier{
		pub:      pub,
		issuer:   issuer,
		audience: audience,
	}
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return v.pub, nil
}

// Verify validates a token's signature, expiry, issuer and audience and
// returns its claims. Fails with ErrExpired past expiry, ErrInvalidSignature
// for everything else.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	if v.pub == nil {
		return nil, fmt.Errorf("token verifier has nil public key")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, v.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidSignature
	}

	return v.checkRegistered(claims)
}

// DecodeExpired validates the signature but ignores expiry. Used by the
// refresh path to recover a stable user id from a lapsed token; every other
// field must be re-read from the account store before being trusted.
func (v *Verifier) DecodeExpired(tokenString string) (*Claims, error) {
	if v.pub == nil {
		return nil, fmt.Errorf("token verifier has nil public key")
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	parsed, err := parser.ParseWithClaims(tokenString, &Claims{}, v.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidSignature
	}

	return v.checkRegistered(claims)
}

func (v *Verifier) checkRegistered(claims *Claims) (*Claims, error) {
	if claims.Issuer != v.issuer {
		return nil, fmt.Errorf("%w: issuer %q", ErrInvalidSignature, claims.Issuer)
	}
	if !claims.VerifyAudience(v.audience, true) {
		return nil, fmt.Errorf("%w: audience", ErrInvalidSignature)
	}
	return claims, nil
}

// DecodeUnsafe extracts claims with no signature or expiry validation.
// Callers must not trust anything in the result beyond the user id, and must
// re-check account status against the authoritative store before acting.
func DecodeUnsafe(tokenString string) (*Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return &claims, nil
}
