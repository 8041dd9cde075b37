package token

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "session:denylist:"

// Denylist tracks revoked session tokens in Redis until their natural
// expiry. A nil client disables revocation: logout is still audited, but the
// token simply ages out. All methods are safe on a nil receiver client.
type Denylist struct {
	rdb *redis.Client
}

// NewDenylist creates a denylist over the given Redis client. The client may
// be nil.
func NewDenylist(rdb *redis.Client) *Denylist {
	return &Denylist{rdb: rdb}
}

// Revoke marks the token (by its unique ID) revoked until expiresAt.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if d.rdb == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, denylistPrefix+tokenID, "1", ttl).Err()
}

// Revoked reports whether the token ID has been revoked. Lookup failures are
// treated as not revoked so a Redis outage degrades to unrevoked sessions
// rather than locking everyone out.
func (d *Denylist) Revoked(ctx context.Context, tokenID string) bool {
	if d.rdb == nil {
		return false
	}
	n, err := d.rdb.Exists(ctx, denylistPrefix+tokenID).Result()
	if err != nil {
		return false
	}
	return n > 0
}
