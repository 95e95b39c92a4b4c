package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const balanceTTL = 5 * time.Minute

// BalanceCache is a read-through redis cache for computed user balances.
// A nil client disables caching entirely, so the service works without
// redis configured.
type BalanceCache struct {
	client *redis.Client
}

// NewBalanceCache creates a balance cache backed by the given client
func NewBalanceCache(client *redis.Client) *BalanceCache {
	return &BalanceCache{client: client}
}

func balanceKey(userID string) string {
	return fmt.Sprintf("balance:%s", userID)
}

// Get returns the cached balance for a user, or nil on miss
func (c *BalanceCache) Get(ctx context.Context, userID string) *UserBalance {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, balanceKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Balance cache read failed", "user_id", userID, "error", err)
		}
		return nil
	}

	b := &UserBalance{}
	if err := json.Unmarshal(data, b); err != nil {
		slog.Warn("Balance cache entry corrupt", "user_id", userID, "error", err)
		return nil
	}

	return b
}

// Set stores a computed balance
func (c *BalanceCache) Set(ctx context.Context, b *UserBalance) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(b)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, balanceKey(b.UserID), data, balanceTTL).Err(); err != nil {
		slog.Warn("Balance cache write failed", "user_id", b.UserID, "error", err)
	}
}

// Invalidate drops the cached balances for the given users. Called on every
// transaction write so reads never serve a balance the ledger has moved past.
func (c *BalanceCache) Invalidate(ctx context.Context, userIDs ...string) {
	if c == nil || c.client == nil || len(userIDs) == 0 {
		return
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = balanceKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("Balance cache invalidation failed", "error", err)
	}
}
