package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/bookshelf/internal/domain"
	"github.com/msomdec/bookshelf/internal/service"
)

func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := service.NewTokenService("")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestTokenService_SignVerify(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tokens, err := service.NewTokenService(testJWTSecret, service.WithClock(fixedClock(&now)))
	require.NoError(t, err)

	signed, err := tokens.Sign(domain.Claim{Subject: "user-1", Email: "a@x.com"}, 15*time.Minute)
	require.NoError(t, err)
	assert.Len(t, strings.Split(signed, "."), 3)

	claim, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claim.Subject)
	assert.Equal(t, "a@x.com", claim.Email)
	assert.True(t, claim.ExpiresAt.Equal(now.Add(15*time.Minute)))
}

func TestTokenService_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tokens, err := service.NewTokenService(testJWTSecret, service.WithClock(fixedClock(&now)))
	require.NoError(t, err)

	signed, err := tokens.Sign(domain.Claim{Subject: "user-1"}, time.Minute)
	require.NoError(t, err)

	now = now.Add(59 * time.Second)
	_, err = tokens.Verify(signed)
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_UniquePerMint(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tokens, err := service.NewTokenService(testJWTSecret, service.WithClock(fixedClock(&now)))
	require.NoError(t, err)

	claim := domain.Claim{Subject: "user-1"}
	a, err := tokens.Sign(claim, time.Minute)
	require.NoError(t, err)
	b, err := tokens.Sign(claim, time.Minute)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestTokenService_Rejects(t *testing.T) {
	tokens, err := service.NewTokenService(testJWTSecret)
	require.NoError(t, err)
	other, err := service.NewTokenService("another-secret-key-for-unit-tests-000000")
	require.NoError(t, err)

	valid, err := tokens.Sign(domain.Claim{Subject: "user-1"}, time.Minute)
	require.NoError(t, err)
	foreign, err := other.Sign(domain.Claim{Subject: "user-1"}, time.Minute)
	require.NoError(t, err)
	noSubject, err := tokens.Sign(domain.Claim{}, time.Minute)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + flipFirst(parts[2])

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "garbage"},
		{"tampered signature", tampered},
		{"wrong secret", foreign},
		{"alg none", unsigned},
		{"missing subject", noSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Verify(tt.token)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}

// flipFirst changes the first character, which always alters decoded bytes.
func flipFirst(s string) string {
	if strings.HasPrefix(s, "A") {
		return "B" + s[1:]
	}
	return "A" + s[1:]
}
