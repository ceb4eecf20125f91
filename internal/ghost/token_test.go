package ghost

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "6489a1b2c3d4e5f6a7b8c9d0:" +
	"a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90"

func TestNewAdminToken_Claims(t *testing.T) {
	issued := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	tok, err := NewAdminToken(testAPIKey, issued)
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(tok, ".")), "token should have three segments")

	kid, claims, err := ParseAdminToken(tok, testAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "6489a1b2c3d4e5f6a7b8c9d0", kid)
	assert.Equal(t, TokenAudience, claims.Audience)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.IssuedAt.Time.Equal(issued))
	assert.Equal(t, 5*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestNewAdminToken_FreshPerCall(t *testing.T) {
	a, err := NewAdminToken(testAPIKey, time.Unix(1700000000, 0))
	require.NoError(t, err)
	b, err := NewAdminToken(testAPIKey, time.Unix(1700000060, 0))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewAdminToken_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want error
	}{
		{"no colon", "onlyid", ErrInvalidCredentialFormat},
		{"empty id", ":abcd", ErrInvalidCredentialFormat},
		{"empty secret", "id:", ErrInvalidCredentialFormat},
		{"too many parts", "a:b:c", ErrInvalidCredentialFormat},
		{"empty", "", ErrInvalidCredentialFormat},
		{"bad hex", "id:zz", ErrInvalidSecretEncoding},
		{"odd hex", "id:abc", ErrInvalidSecretEncoding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAdminToken(tt.key, time.Now())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseAdminToken_WrongSecret(t *testing.T) {
	tok, err := NewAdminToken(testAPIKey, time.Now())
	require.NoError(t, err)
	_, _, err = ParseAdminToken(tok, "6489a1b2c3d4e5f6a7b8c9d0:00ff")
	assert.Error(t, err)
}
