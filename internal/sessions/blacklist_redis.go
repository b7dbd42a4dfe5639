package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// package-level Redis client used for the access-token blacklist (optional)
var blacklistClient *redis.Client

// SetBlacklistClient configures the Redis client used for blacklist
// operations. Passing nil disables the blacklist (logout then only removes
// the refresh session).
func SetBlacklistClient(c *redis.Client) {
	blacklistClient = c
}

// BlacklistAccessToken marks an access token revoked until its natural
// expiry. No-op when no Redis client is configured.
func BlacklistAccessToken(ctx context.Context, token string, ttl time.Duration) error {
	if blacklistClient == nil {
		return nil
	}
	return blacklistClient.Set(ctx, "blacklist:access:"+token, "1", ttl).Err()
}

// IsAccessTokenBlacklisted reports whether the token was revoked. Returns
// (false, nil) when no Redis client is configured.
func IsAccessTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if blacklistClient == nil {
		return false, nil
	}
	exists, err := blacklistClient.Exists(ctx, "blacklist:access:"+token).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
