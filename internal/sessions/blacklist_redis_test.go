package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestBlacklistAccessToken_IsAccessTokenBlacklisted(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	SetBlacklistClient(client)
	defer SetBlacklistClient(nil)

	ctx := context.Background()
	token := "access-token-1"
	require.NoError(t, BlacklistAccessToken(ctx, token, 2*time.Second))

	black, err := IsAccessTokenBlacklisted(ctx, token)
	require.NoError(t, err)
	require.True(t, black)

	// a token that was never revoked
	black, err = IsAccessTokenBlacklisted(ctx, "some-other-token")
	require.NoError(t, err)
	require.False(t, black)

	// advance past TTL: the entry expires with the token itself
	m.FastForward(3 * time.Second)

	black, err = IsAccessTokenBlacklisted(ctx, token)
	require.NoError(t, err)
	require.False(t, black)
}

// Without a Redis client the blacklist degrades to a no-op instead of
// failing logins.
func TestBlacklist_NoClient_Noop(t *testing.T) {
	SetBlacklistClient(nil)
	ctx := context.Background()
	require.NoError(t, BlacklistAccessToken(ctx, "no-client-token", time.Second))
	black, err := IsAccessTokenBlacklisted(ctx, "no-client-token")
	require.NoError(t, err)
	require.False(t, black)
}
