package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blocklist stores revoked token IDs in redis until the token would
// have expired anyway. Logout revokes; the auth middleware checks.
type Blocklist struct {
	client *redis.Client
}

func NewBlocklist(client *redis.Client) *Blocklist {
	return &Blocklist{client: client}
}

func blocklistKey(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

func (b *Blocklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired; nothing to block.
		return nil
	}
	return b.client.Set(ctx, blocklistKey(jti), "1", ttl).Err()
}

func (b *Blocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, blocklistKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
