package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, "stay-booking")
	raw, issued, err := m.Issue("auth-1", "jane@example.com")
	require.NoError(t, err)

	got, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "auth-1", got.AuthID)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, issued.TokenID, got.TokenID)
	assert.True(t, got.Authenticated())
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", time.Minute, "stay-booking")
	start := time.Now()
	m.now = func() time.Time { return start }
	raw, _, err := m.Issue("auth-1", "jane@example.com")
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = m.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsOtherSecret(t *testing.T) {
	raw, _, err := NewTokenManager("one", time.Hour, "stay-booking").Issue("auth-1", "x@y.z")
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour, "stay-booking").Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIdentity_ZeroIsAnonymous(t *testing.T) {
	assert.False(t, Identity{}.Authenticated())
}
