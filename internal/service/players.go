package service

import (
	"context"
	"strings"
	"sync"

	"league-intel/internal/domain"
	"league-intel/internal/repository"

	"github.com/rs/zerolog"
)

// PlayerLookup is the batched subset lookup the resolver uses for ids it has
// never seen. The production implementation is CatalogService.
type PlayerLookup interface {
	LookupByIDs(ctx context.Context, ids []string) (map[string]domain.PlayerRecord, error)
}

// PlayerService resolves opaque player ids to catalog records. It layers a
// process-lifetime in-memory map over the persisted subset cache, and only
// goes to the batched lookup for ids neither layer knows.
type PlayerService struct {
	lookup PlayerLookup
	cache  *repository.PlayerCacheRepository
	logger zerolog.Logger

	mu      sync.Mutex
	players map[string]domain.PlayerRecord
}

func NewPlayerService(lookup PlayerLookup, cache *repository.PlayerCacheRepository, logger zerolog.Logger) *PlayerService {
	return &PlayerService{
		lookup:  lookup,
		cache:   cache,
		logger:  logger,
		players: make(map[string]domain.PlayerRecord),
	}
}

// Resolve maps the requested ids to player records. Ids that resolve nowhere
// are absent from the result; that is normal for retired or invalid ids and
// never fails the batch.
func (s *PlayerService) Resolve(ctx context.Context, requestedIDs []string) (map[string]domain.PlayerRecord, error) {
	requested := dedupeIDs(requestedIDs)
	resolved := make(map[string]domain.PlayerRecord, len(requested))
	if len(requested) == 0 {
		return resolved, nil
	}

	s.mu.Lock()
	var missing []string
	for _, id := range requested {
		if record, ok := s.players[id]; ok {
			resolved[id] = record
		} else {
			missing = append(missing, id)
		}
	}
	s.mu.Unlock()

	if len(missing) == 0 {
		return resolved, nil
	}

	// Persisted subset cache failures degrade to a larger lookup batch.
	cached, err := s.cache.GetByIDs(ctx, missing)
	if err != nil {
		s.logger.Warn().Err(err).Int("ids", len(missing)).Msg("player subset cache read failed")
		cached = nil
	}
	var unknown []string
	for _, id := range missing {
		if record, ok := cached[id]; ok {
			resolved[id] = record
		} else {
			unknown = append(unknown, id)
		}
	}

	var fetched map[string]domain.PlayerRecord
	if len(unknown) > 0 {
		fetched, err = s.lookup.LookupByIDs(ctx, unknown)
		if err != nil {
			return nil, err
		}
		for id, record := range fetched {
			resolved[id] = record
		}
	}

	s.mu.Lock()
	for _, id := range missing {
		if record, ok := resolved[id]; ok {
			s.players[id] = record
		}
	}
	s.mu.Unlock()

	if len(fetched) > 0 {
		records := make([]domain.PlayerRecord, 0, len(fetched))
		for _, record := range fetched {
			records = append(records, record)
		}
		if err := s.cache.PutBatch(ctx, records); err != nil {
			s.logger.Warn().Err(err).Int("records", len(records)).Msg("failed to persist player subset cache")
		}
	}

	s.logger.Debug().
		Int("requested", len(requested)).
		Int("from_memory", len(requested)-len(missing)).
		Int("from_cache", len(missing)-len(unknown)).
		Int("fetched", len(fetched)).
		Msg("player ids resolved")
	return resolved, nil
}

// Reset drops the in-memory layer. Tests and long-lived processes use it to
// start from a clean slate without touching the persisted cache.
func (s *PlayerService) Reset() {
	s.mu.Lock()
	s.players = make(map[string]domain.PlayerRecord)
	s.mu.Unlock()
}

func dedupeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
