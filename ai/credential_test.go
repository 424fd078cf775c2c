package ai

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCredential(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cred, err := ParseCredential("abc123.s3cr3t")
		require.NoError(t, err)
		assert.Equal(t, "abc123", cred.ID)
		assert.Equal(t, "s3cr3t", cred.Secret)
	})

	for _, key := range []string{"", "   ", "nodot", "a.b.c", ".secret", "id."} {
		t.Run("rejects "+key, func(t *testing.T) {
			_, err := ParseCredential(key)
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, "credential", cfgErr.Field)
		})
	}
}

func TestCredentialLogValue(t *testing.T) {
	cred := Credential{ID: "abc", Secret: "topsecret"}
	assert.Equal(t, "abc.***", cred.LogValue().String())
}

func TestSignToken(t *testing.T) {
	cred := Credential{ID: "key-id", Secret: "key-secret"}
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("deterministic for fixed inputs", func(t *testing.T) {
		a, err := SignToken(cred, now, time.Hour)
		require.NoError(t, err)
		b, err := SignToken(cred, now, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("changes with time", func(t *testing.T) {
		a, err := SignToken(cred, now, time.Hour)
		require.NoError(t, err)
		b, err := SignToken(cred, now.Add(time.Second), time.Hour)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("header and claims", func(t *testing.T) {
		signed, err := SignToken(cred, now, time.Hour)
		require.NoError(t, err)

		parser := jwt.NewParser(jwt.WithoutClaimsValidation())
		token, err := parser.Parse(signed, func(tok *jwt.Token) (any, error) {
			return []byte(cred.Secret), nil
		})
		require.NoError(t, err)
		require.True(t, token.Valid)

		assert.Equal(t, "HS256", token.Header["alg"])
		assert.Equal(t, "SIGN", token.Header["sign_type"])
		assert.NotContains(t, token.Header, "typ")

		claims, ok := token.Claims.(jwt.MapClaims)
		require.True(t, ok)
		assert.Equal(t, "key-id", claims["api_key"])
		assert.Equal(t, float64(now.Add(time.Hour).Unix()), claims["exp"])
		assert.Equal(t, float64(now.Unix()*1000), claims["timestamp"])
	})

	t.Run("wrong secret does not verify", func(t *testing.T) {
		signed, err := SignToken(cred, now, time.Hour)
		require.NoError(t, err)

		parser := jwt.NewParser(jwt.WithoutClaimsValidation())
		_, err = parser.Parse(signed, func(tok *jwt.Token) (any, error) {
			return []byte("other"), nil
		})
		assert.Error(t, err)
	})
}
