package token_test

import (
	"testing"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/jlasky/marquee/internal/domain"
	"github.com/jlasky/marquee/internal/token"
)

func signedToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestDecode(t *testing.T) {
	t.Run("maps backend claim names", func(t *testing.T) {
		bearer := signedToken(t, jwtlib.MapClaims{
			"UserId":    "u-42",
			"FirstName": "Ada",
			"Email":     "ada@example.com",
			"Role":      "ADMIN",
		})

		id, err := token.Decode(bearer)
		require.NoError(t, err)
		require.Equal(t, "u-42", id.ID)
		require.Equal(t, "Ada", id.DisplayName)
		require.Equal(t, "ada@example.com", id.Email)
		require.Equal(t, "ADMIN", id.Role)
		require.True(t, id.IsAdmin())
	})

	t.Run("accepts lowercase claim variants", func(t *testing.T) {
		bearer := signedToken(t, jwtlib.MapClaims{
			"id":    "u-7",
			"name":  "Grace",
			"email": "grace@example.com",
			"role":  "USER",
		})

		id, err := token.Decode(bearer)
		require.NoError(t, err)
		require.Equal(t, "u-7", id.ID)
		require.Equal(t, "Grace", id.DisplayName)
		require.False(t, id.IsAdmin())
	})

	t.Run("prefers backend names over aliases", func(t *testing.T) {
		bearer := signedToken(t, jwtlib.MapClaims{
			"UserId": "canonical",
			"id":     "alias",
		})

		id, err := token.Decode(bearer)
		require.NoError(t, err)
		require.Equal(t, "canonical", id.ID)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := token.Decode("not-a-jwt")
		require.ErrorIs(t, err, domain.ErrMalformedCredential)
	})

	t.Run("rejects empty string", func(t *testing.T) {
		_, err := token.Decode("")
		require.ErrorIs(t, err, domain.ErrMalformedCredential)
	})

	t.Run("rejects token without a user id claim", func(t *testing.T) {
		bearer := signedToken(t, jwtlib.MapClaims{"Email": "nobody@example.com"})

		_, err := token.Decode(bearer)
		require.ErrorIs(t, err, domain.ErrMalformedCredential)
	})
}
