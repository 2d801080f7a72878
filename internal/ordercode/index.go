package ordercode

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const indexTTL = 48 * time.Hour

// Index is the redis-backed code→order-id lookup used as the order matcher's
// primary path. It is strictly an optimization: every miss or redis error
// falls back to the database scan, and fallback hits are written back here.
type Index struct {
	client *redis.Client
	logger *slog.Logger
}

func NewIndex(client *redis.Client, logger *slog.Logger) *Index {
	return &Index{client: client, logger: logger}
}

func key(provider, code string) string {
	return fmt.Sprintf("ordercode:%s:%s", provider, code)
}

func (i *Index) Lookup(ctx context.Context, provider, code string) (int64, bool) {
	id, err := i.client.Get(ctx, key(provider, code)).Int64()
	if err != nil {
		if err != redis.Nil {
			i.logger.Warn("order code index lookup failed",
				"error", err,
				"provider", provider,
				"order_code", code)
		}
		return 0, false
	}
	return id, true
}

// Store backfills the index after a fallback scan hit. Best-effort: a failed
// write only costs the next lookup a scan.
func (i *Index) Store(ctx context.Context, provider, code string, orderID int64) {
	if err := i.client.Set(ctx, key(provider, code), orderID, indexTTL).Err(); err != nil {
		i.logger.Warn("order code index store failed",
			"error", err,
			"provider", provider,
			"order_code", code)
	}
}
