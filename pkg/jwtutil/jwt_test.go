package jwtutil

import (
	"testing"
	"time"

	"jobboard-service/pkg/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUtil(key string, hours int) *JWTUtil {
	return NewJWTUtil(&config.JWTConfig{SigningKey: key, ExpirationHours: hours})
}

func TestGenerateAndValidate(t *testing.T) {
	j := newUtil("secret", 168)

	token, err := j.GenerateToken(42)
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.WithinDuration(t, time.Now().Add(168*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	j := newUtil("secret", 1)
	j.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := j.GenerateToken(1)
	require.NoError(t, err)

	_, err = j.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	token, err := newUtil("other", 1).GenerateToken(1)
	require.NoError(t, err)

	_, err = newUtil("secret", 1).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsUnsignedToken(t *testing.T) {
	claims := UserClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newUtil("secret", 1).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := newUtil("secret", 1).ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestMissingConfig(t *testing.T) {
	j := NewJWTUtil(nil)

	_, err := j.GenerateToken(1)
	assert.ErrorIs(t, err, ErrMissingConfig)

	_, err = j.ValidateToken("x")
	assert.ErrorIs(t, err, ErrMissingConfig)
}
