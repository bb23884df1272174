package dedup

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"lead-dispatcher/internal/common/errors"
)

// Guard remembers call IDs for a TTL so a report delivered twice is only
// dispatched once. A nil Guard lets everything through.
type Guard struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewGuard(client redis.Cmdable, ttl time.Duration, prefix string) *Guard {
	return &Guard{client: client, ttl: ttl, prefix: prefix}
}

// FirstDelivery marks callID as seen and reports whether this is the first
// time it was seen within the TTL. Redis failures fail open: the result is
// true and the error is returned for logging.
func (g *Guard) FirstDelivery(ctx context.Context, callID string) (bool, error) {
	if g == nil || g.client == nil || callID == "" {
		return true, nil
	}

	ok, err := g.client.SetNX(ctx, g.key(callID), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return true, errors.NewDedupCheckFailedError(err)
	}
	return ok, nil
}

// Forget drops the marker for callID so a later delivery is processed.
func (g *Guard) Forget(ctx context.Context, callID string) error {
	if g == nil || g.client == nil || callID == "" {
		return nil
	}
	if err := g.client.Del(ctx, g.key(callID)).Err(); err != nil {
		return errors.NewDedupCheckFailedError(err)
	}
	return nil
}

func (g *Guard) key(callID string) string {
	return g.prefix + callID
}
