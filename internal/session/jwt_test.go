package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret")

	s := New()
	require.NotEmpty(t, s.ID)
	require.False(t, s.Verified)

	signed, err := tokens.Sign(s)
	require.NoError(t, err)

	got, err := tokens.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, s, got)
}

func TestTokensCarryVerifiedClaim(t *testing.T) {
	tokens := NewTokens("test-secret")

	signed, err := tokens.Sign(Session{ID: "abc", Verified: true})
	require.NoError(t, err)

	got, err := tokens.Verify(signed)
	require.NoError(t, err)
	require.True(t, got.Verified)
}

func TestTokensRejectGarbage(t *testing.T) {
	tokens := NewTokens("test-secret")

	_, err := tokens.Verify("not.a.token")
	require.Error(t, err)
}

func TestTokensRejectWrongSecret(t *testing.T) {
	signed, err := NewTokens("secret-a").Sign(New())
	require.NoError(t, err)

	_, err = NewTokens("secret-b").Verify(signed)
	require.Error(t, err)
}
