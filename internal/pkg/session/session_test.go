package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevoker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryRevoker()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Revoke(ctx, "jti-1", now.Add(time.Hour)))
	require.NoError(t, m.Revoke(ctx, "jti-2", now.Add(time.Minute)))
	require.NoError(t, m.Revoke(ctx, "", now.Add(time.Hour)))

	revoked, err := m.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = m.IsRevoked(ctx, "other")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, m.Sweep())

	revoked, _ = m.IsRevoked(ctx, "jti-2")
	assert.False(t, revoked)
	revoked, _ = m.IsRevoked(ctx, "jti-1")
	assert.True(t, revoked)

	now = now.Add(time.Hour)
	revoked, _ = m.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked, "entry expires with the token")
	assert.Zero(t, m.Sweep())
}
