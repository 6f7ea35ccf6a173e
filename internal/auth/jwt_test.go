package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestJWTSignVerifyRoundTrip(t *testing.T) {
	j := NewJWT("test-secret", time.Hour)

	token, err := j.Sign(42, "Dana Whitfield")
	require.NoError(t, err)

	claims, err := j.Verify(token)
	require.NoError(t, err)
	require.Equal(t, uint64(42), claims.UserID)
	require.Equal(t, "Dana Whitfield", claims.Name)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := NewJWT("secret-a", time.Hour).Sign(1, "Staff")
	require.NoError(t, err)

	_, err = NewJWT("secret-b", time.Hour).Verify(token)
	require.Error(t, err)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  float64(1),
		"name": "Staff",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewJWT("test-secret", time.Hour).Verify(token)
	require.Error(t, err)
}
