package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govitrine/internal/pkg/token"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := token.NewService("segredo", time.Hour)

	signed, err := svc.GenerateToken("u-1", "admin")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "GoVitrine-API", claims.Issuer)
}

func TestValidate_WrongSecret(t *testing.T) {
	signed, _ := token.NewService("a", time.Hour).GenerateToken("u-1", "customer")

	_, err := token.NewService("b", time.Hour).ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	signed, _ := token.NewService("segredo", -time.Minute).GenerateToken("u-1", "customer")

	_, err := token.NewService("segredo", time.Hour).ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidate_FallsBackToSubject(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u-9",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := raw.SignedString([]byte("segredo"))
	require.NoError(t, err)

	claims, err := token.NewService("segredo", time.Hour).ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "u-9", claims.UserID)
}

func TestValidate_RejectsForeignIssuer(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, token.CustomClaims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "outra-api",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := raw.SignedString([]byte("segredo"))
	require.NoError(t, err)

	_, err = token.NewService("segredo", time.Hour).ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS512, token.CustomClaims{
		UserID:           "u-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := raw.SignedString([]byte("segredo"))
	require.NoError(t, err)

	_, err = token.NewService("segredo", time.Hour).ValidateToken(signed)
	assert.Error(t, err)
}

func TestRoles(t *testing.T) {
	svc := token.NewService("segredo", time.Hour)

	signed, err := svc.GenerateToken("u-1", "superuser")
	require.NoError(t, err)
	claims, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "customer", claims.Role)

	_, err = svc.GenerateToken("", "admin")
	assert.ErrorIs(t, err, token.ErrMissingUserID)
}
