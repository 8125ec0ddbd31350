package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"league-intel/internal/constants"
	"league-intel/internal/domain"
	"league-intel/internal/repository"

	"github.com/rs/zerolog"
)

// TransactionCache is the time-boxed persisted cache of a league's full-season
// transaction sweep. The namespace scopes invalidation between independent
// callers; the cached payload itself is the raw transaction list.
type TransactionCache struct {
	kv     *repository.KVStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewTransactionCache(kv *repository.KVStore, logger zerolog.Logger) *TransactionCache {
	return &TransactionCache{kv: kv, logger: logger, now: time.Now}
}

func transactionCacheKey(leagueID, namespace string) string {
	return fmt.Sprintf("%s:%s:%s", constants.TransactionCachePrefix, namespace, leagueID)
}

// GetOrFetch returns the cached sweep when fresh, otherwise runs fetch and
// persists the result. A corrupt or unparsable entry is a cache miss, never a
// hard error; a persist failure only costs the next caller a refetch.
func (c *TransactionCache) GetOrFetch(ctx context.Context, leagueID, namespace string, ttl time.Duration, fetch func(ctx context.Context) ([]domain.Transaction, error)) ([]domain.Transaction, error) {
	key := transactionCacheKey(leagueID, namespace)
	now := c.now().UnixMilli()

	cachedAtMs, payload, ok, err := c.kv.Get(ctx, key)
	if err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("transaction cache read failed, treating as miss")
	} else if ok && now-cachedAtMs <= ttl.Milliseconds() {
		var transactions []domain.Transaction
		if err := json.Unmarshal(payload, &transactions); err != nil {
			c.logger.Debug().Err(err).Str("key", key).Msg("transaction cache entry corrupt, treating as miss")
		} else {
			c.logger.Debug().Str("key", key).Int("count", len(transactions)).Msg("transaction cache hit")
			return transactions, nil
		}
	}

	transactions, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(transactions)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to encode transaction sweep for caching")
		return transactions, nil
	}
	if err := c.kv.Put(ctx, key, now, encoded); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to persist transaction sweep")
	}
	return transactions, nil
}

// Invalidate drops the cached sweep for one league and namespace.
func (c *TransactionCache) Invalidate(ctx context.Context, leagueID, namespace string) error {
	return c.kv.Delete(ctx, transactionCacheKey(leagueID, namespace))
}
