package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates a new Redis client
func NewRedis(addr, password string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	log.Printf("Redis client created (addr: %s)\n", addr)
	return rdb
}

// Denylist tracks revoked JWT IDs until their natural expiry.
type Denylist struct {
	rdb *redis.Client
}

func NewDenylist(rdb *redis.Client) *Denylist {
	return &Denylist{rdb: rdb}
}

func (d *Denylist) key(jti string) string {
	return "revoked_token:" + jti
}

// Revoke marks a token ID as unusable. The TTL should cover whatever
// lifetime the token has left.
func (d *Denylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired, nothing to deny
	}
	return d.rdb.Set(ctx, d.key(jti), "1", ttl).Err()
}

// IsRevoked reports whether a token ID has been revoked. A nil Denylist
// always answers false, which keeps the middleware usable in tests.
func (d *Denylist) IsRevoked(ctx context.Context, jti string) bool {
	if d == nil || d.rdb == nil {
		return false
	}
	n, err := d.rdb.Exists(ctx, d.key(jti)).Result()
	if err != nil {
		// Redis being down must not lock every admin out.
		log.Printf("denylist check failed: %v", err)
		return false
	}
	return n > 0
}
