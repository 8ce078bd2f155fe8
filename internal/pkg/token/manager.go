// internal/pkg/token/manager.go
package token

import (
	"crypto/rsa"
	"fmt"
	"time"
)

type Config struct {
	PrivPath string
	PubPath  string
	Issuer   string
	Audience string
	TTL      time.Duration
	KID      string
}

// Manager bundles the signing and verifying halves of the token service.
// It is the sole minter and verifier of identity tokens.
type Manager struct {
	Generator *Generator
	Verifier  *Verifier
}

// LoadAndBuild reads the keypair from disk and builds a Manager. Key
// misconfiguration is fatal at process level, not per call.
func LoadAndBuild(cfg Config) (*Manager, error) {
	priv, err := LoadPrivateKey(cfg.PrivPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load private key from %s: %w", cfg.PrivPath, err)
	}

	pub, err := LoadPublicKey(cfg.PubPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load public key from %s: %w", cfg.PubPath, err)
	}

	return NewManager(priv, pub, cfg), nil
}

// NewManager builds a Manager from in-memory keys.
func NewManager(priv *rsa.PrivateKey, pub *rsa.PublicKey, cfg Config) *Manager {
	return &Manager{
		Generator: NewGenerator(priv, cfg.Issuer, cfg.Audience, cfg.KID, cfg.TTL),
		Verifier:  NewVerifier(pub, cfg.Issuer, cfg.Audience),
	}
}
