// internal/pkg/token/generator.go
package token

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// DefaultTTL is applied when Issue is called with a zero ttl.
const DefaultTTL = 24 * time.Hour

type Generator struct {
	priv     *rsa.PrivateKey
	issuer   string
	audience string
	kid      string // key id for rotation
	Ttl      time.Duration
}

func NewGenerator(priv *rsa.PrivateKey, issuer, audience, kid string, ttl time.Duration) *Generator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Generator{
		priv:     priv,
		issuer:   issuer,
		audience: audience,
		kid:      kid,
		Ttl:      ttl,
	}
}

// Issue signs a token carrying the given identity claims. The registered
// claims (issuer, audience, expiry, jti) are filled here; whatever the caller
// set on them is overwritten. A zero ttl falls back to the generator default;
// a negative ttl yields an already-expired token.
func (g *Generator) Issue(c *Claims, ttl time.Duration) (string, error) {
	if g.priv == nil {
		return "", fmt.Errorf("token generator has nil private key")
	}

	if ttl == 0 {
		ttl = g.Ttl
	}

	now := time.Now()
	c.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    g.issuer,
		Subject:   fmt.Sprintf("%d", c.UserID),
		Audience:  []string{g.audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        ulid.Make().String(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, c)
	if g.kid != "" {
		tok.Header["kid"] = g.kid
	}

	return tok.SignedString(g.priv)
}
