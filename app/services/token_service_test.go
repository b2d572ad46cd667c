package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenServiceRoundtrip(t *testing.T) {
	svc := NewTokenService("test-secret", 3600)

	token, err := svc.Issue("botA")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	botID, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "botA", botID)
}

func TestTokenServiceRejects(t *testing.T) {
	svc := NewTokenService("test-secret", 3600)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.Error(t, err)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		other := NewTokenService("other-secret", 3600)
		token, err := other.Issue("botA")
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewTokenService("test-secret", -60)
		token, err := expired.Issue("botA")
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.Error(t, err)
	})
}
