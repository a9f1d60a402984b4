package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "jwtblock:"

// BlacklistToken marks a token ID as revoked until the token's own expiry.
// Logout uses this to give stateless JWTs real logout semantics.
func BlacklistToken(ctx context.Context, rdb *redis.Client, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil // Already expired, nothing to block
	}
	return rdb.Set(ctx, blacklistPrefix+tokenID, "1", ttl).Err()
}

// IsTokenBlacklisted reports whether a token ID has been revoked.
func IsTokenBlacklisted(ctx context.Context, rdb *redis.Client, tokenID string) (bool, error) {
	n, err := rdb.Exists(ctx, blacklistPrefix+tokenID).Result()
	return n > 0, err
}
