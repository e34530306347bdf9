package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("test-secret", "alex@campus.edu", "STUDENT", 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 5*time.Second)

	email, role, err := ParseAccessToken("test-secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "alex@campus.edu", email)
	assert.Equal(t, "STUDENT", role)
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("secret-a", "alex@campus.edu", "ADMIN", 15)
	require.NoError(t, err)

	_, _, err = ParseAccessToken("secret-b", tok.Token)
	assert.Error(t, err)
}

func TestParseAccessTokenExpired(t *testing.T) {
	tok, err := NewAccessToken("test-secret", "alex@campus.edu", "STUDENT", -1)
	require.NoError(t, err)

	_, _, err = ParseAccessToken("test-secret", tok.Token)
	assert.Error(t, err)
}

func TestParseAccessTokenGarbage(t *testing.T) {
	_, _, err := ParseAccessToken("test-secret", "not-a-token")
	assert.Error(t, err)
}
