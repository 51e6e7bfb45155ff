package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/application-tracker/internal/apperr"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	tok, err := issuer.Issue(42, "ada@example.com")
	require.NoError(t, err)

	claims, err := issuer.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestParseRejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	tok, err := issuer.Issue(1, "a@example.com")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenIssuer("other", time.Hour).Parse(tok)
		assert.True(t, apperr.IsUnauthorized(err))
		assert.EqualError(t, err, "Invalid token")
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenIssuer("secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Parse(tok)
		assert.EqualError(t, err, "Token expired")
	})

	t.Run("empty", func(t *testing.T) {
		_, err := issuer.Parse("")
		assert.EqualError(t, err, "Missing credentials")
	})

	t.Run("other algorithm", func(t *testing.T) {
		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = issuer.Parse(none)
		assert.True(t, apperr.IsUnauthorized(err))
	})

	t.Run("non numeric subject", func(t *testing.T) {
		bad, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "ada@example.com",
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = issuer.Parse(bad)
		assert.EqualError(t, err, "Invalid token payload")
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}
