package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher()

	hashed, err := hasher.Hash("secreto123")
	require.NoError(t, err)
	require.NotEqual(t, "secreto123", hashed)

	assert.True(t, hasher.Verify("secreto123", hashed))
	assert.False(t, hasher.Verify("incorrecta", hashed))
	assert.False(t, hasher.Verify("secreto123", "no-es-un-hash"))
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("clave-de-prueba", time.Hour)

	token, err := svc.CreateAccessToken("user-42")
	require.NoError(t, err)

	subject, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", subject)
}

func TestJWTService_RejectsInvalidTokens(t *testing.T) {
	svc := NewJWTService("clave-de-prueba", time.Hour)
	token, err := svc.CreateAccessToken("user-42")
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.VerifyToken("ni.siquiera.jwt")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService("otra-clave", time.Hour)
		_, err := other.VerifyToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		svc := NewJWTService("clave-de-prueba", time.Minute)
		token, err := svc.CreateAccessToken("user-42")
		require.NoError(t, err)

		svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		_, err = svc.VerifyToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
