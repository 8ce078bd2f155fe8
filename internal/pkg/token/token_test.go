package token

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(t *testing.T) *Manager {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return NewManager(priv, &priv.PublicKey, Config{
		Issuer:   "kynix-test",
		Audience: "kynix-test-users",
		TTL:      time.Hour,
		KID:      "test-key",
	})
}

func testClaims() *Claims {
	return &Claims{
		UserID:      42,
		Email:       "jordan@example.com",
		Role:        "user",
		Permissions: []string{"read", "read_users"},
		FirstName:   "Jordan",
		LastName:    "Reyes",
		IsActive:    true,
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	m := testManager(t)

	signed, err := m.Generator.Issue(testClaims(), time.Hour)
	require.NoError(t, err)

	got, err := m.Verifier.Verify(signed)
	require.NoError(t, err)

	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, "jordan@example.com", got.Email)
	assert.Equal(t, "user", got.Role)
	assert.Equal(t, []string{"read", "read_users"}, got.Permissions)
	assert.Equal(t, "Jordan", got.FirstName)
	assert.Equal(t, "Reyes", got.LastName)
	assert.True(t, got.IsActive)
	assert.NotEmpty(t, got.ID, "jti should be set")
	assert.NotNil(t, got.IssuedAt)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	m := testManager(t)

	signed, err := m.Generator.Issue(testClaims(), -time.Minute)
	require.NoError(t, err)

	_, err = m.Verifier.Verify(signed)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestDecodeExpired_RecoversIDFromExpiredToken(t *testing.T) {
	t.Parallel()

	m := testManager(t)

	signed, err := m.Generator.Issue(testClaims(), -time.Minute)
	require.NoError(t, err)

	got, err := m.Verifier.DecodeExpired(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UserID)
}

func TestDecodeExpired_RejectsForeignSignature(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	other := testManager(t)

	signed, err := other.Generator.Issue(testClaims(), time.Hour)
	require.NoError(t, err)

	_, err = m.Verifier.DecodeExpired(signed)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestDecodeUnsafe_ExtractsIDWithoutValidation(t *testing.T) {
	t.Parallel()

	m := testManager(t)

	signed, err := m.Generator.Issue(testClaims(), -time.Minute)
	require.NoError(t, err)

	got, err := DecodeUnsafe(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UserID)
}

func TestVerify_WrongKey(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	other := testManager(t)

	signed, err := other.Generator.Issue(testClaims(), time.Hour)
	require.NoError(t, err)

	_, err = m.Verifier.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_WrongIssuer(t *testing.T) {
	t.Parallel()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	issuerA := NewManager(priv, &priv.PublicKey, Config{Issuer: "a", Audience: "users", TTL: time.Hour})
	issuerB := NewManager(priv, &priv.PublicKey, Config{Issuer: "b", Audience: "users", TTL: time.Hour})

	signed, err := issuerA.Generator.Issue(testClaims(), time.Hour)
	require.NoError(t, err)

	_, err = issuerB.Verifier.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	m := testManager(t)

	_, err := m.Verifier.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
