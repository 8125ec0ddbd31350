package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
)

// KVStore persists opaque JSON cache envelopes keyed by namespaced strings.
// It backs the transaction cache and the bulk catalog envelope.
type KVStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewKVStore(db *sql.DB, logger zerolog.Logger) *KVStore {
	return &KVStore{db: db, logger: logger}
}

// Get returns the stored payload and its write timestamp. A missing key is
// (0, nil, false, nil), never an error.
func (s *KVStore) Get(ctx context.Context, key string) (int64, []byte, bool, error) {
	var cachedAtMs int64
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT cached_at_ms, payload FROM kv_cache WHERE key = ?", key,
	).Scan(&cachedAtMs, &payload)
	if err == sql.ErrNoRows {
		return 0, nil, false, nil
	}
	if err != nil {
		return 0, nil, false, err
	}
	return cachedAtMs, payload, true, nil
}

// Put writes the whole envelope atomically, replacing any previous value.
func (s *KVStore) Put(ctx context.Context, key string, cachedAtMs int64, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_cache (key, cached_at_ms, payload) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET cached_at_ms = excluded.cached_at_ms, payload = excluded.payload`,
		key, cachedAtMs, payload,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to persist cache envelope")
	}
	return err
}

// Delete removes a key; missing keys are not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv_cache WHERE key = ?", key)
	return err
}
