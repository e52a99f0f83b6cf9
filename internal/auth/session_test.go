package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_RoundTrip(t *testing.T) {
	iss := NewIssuer("test-secret", time.Hour)

	token, exp, err := iss.Issue("sess-1", "shop-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "shop-1", claims.ShopID)
}

func TestIssuer_Rejects(t *testing.T) {
	iss := NewIssuer("test-secret", time.Hour)

	t.Run("Expired", func(t *testing.T) {
		token, _, err := iss.Issue("sess-1", "shop-1")
		require.NoError(t, err)

		later := NewIssuer("test-secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		_, err = later.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, _, err := NewIssuer("other", time.Hour).Issue("sess-1", "shop-1")
		require.NoError(t, err)

		_, err = iss.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := iss.Parse("invalid-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Missing session id", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = iss.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("No expiry", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"session_id": "sess-1"})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = iss.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestIssuer_NoSecret(t *testing.T) {
	iss := NewIssuer("", time.Hour)

	_, _, err := iss.Issue("sess-1", "shop-1")
	assert.ErrorIs(t, err, ErrNoSecret)

	_, err = iss.Parse("x")
	assert.ErrorIs(t, err, ErrNoSecret)
}
