package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"todoboard/internal/core/domain"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	payload := domain.TokenPayload{ID: 7, Email: "user@example.com", TokenVersion: 2}

	tokenString, err := svc.Issue(payload)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	decoded, err := svc.Verify(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a")
	verifier := NewJWTService("secret-b")

	tokenString, err := issuer.Issue(domain.TokenPayload{ID: 1, Email: "a@b.c", TokenVersion: 1})
	assert.NoError(t, err)

	_, err = verifier.Verify(tokenString)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	secret := "test-secret"
	svc := NewJWTService(secret)

	claims := jwt.MapClaims{
		"id":           1,
		"email":        "a@b.c",
		"tokenVersion": 1,
		"exp":          time.Now().Add(-time.Minute).Unix(),
	}

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)

	_, err = svc.Verify(expired)
	assert.Error(t, err)
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	claims := jwt.MapClaims{
		"id":           1,
		"email":        "a@b.c",
		"tokenVersion": 1,
		"exp":          time.Now().Add(time.Hour).Unix(),
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = svc.Verify(unsigned)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret")

	_, err := svc.Verify("not-a-token")
	assert.Error(t, err)
}
