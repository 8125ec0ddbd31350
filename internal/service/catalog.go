package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"league-intel/internal/config"
	"league-intel/internal/constants"
	"league-intel/internal/domain"
	"league-intel/internal/repository"

	"github.com/rs/zerolog"
)

// CatalogFetcher is the bulk catalog download the catalog service wraps.
type CatalogFetcher interface {
	GetPlayerCatalog(ctx context.Context, sport string) (map[string]domain.PlayerRecord, error)
}

// CatalogService holds the bulk player catalog behind a TTL envelope and
// answers batched by-id subset lookups, so nothing downstream ever walks the
// full catalog. It implements PlayerLookup for the identity resolver and
// backs the /players/by-ids endpoint.
type CatalogService struct {
	fetcher CatalogFetcher
	kv      *repository.KVStore
	sport   string
	logger  zerolog.Logger
	now     func() time.Time

	mu       sync.Mutex
	catalog  map[string]domain.PlayerRecord
	loadedAt time.Time
}

func NewCatalogService(fetcher CatalogFetcher, kv *repository.KVStore, cfg *config.Config, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		fetcher: fetcher,
		kv:      kv,
		sport:   cfg.Sport,
		logger:  logger,
		now:     time.Now,
	}
}

// LookupByIDs returns the catalog records for the requested ids, capped at
// MaxSubsetRequestIDs. Unknown ids are absent from the result, never an error.
func (s *CatalogService) LookupByIDs(ctx context.Context, ids []string) (map[string]domain.PlayerRecord, error) {
	catalog, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if len(ids) > constants.MaxSubsetRequestIDs {
		ids = ids[:constants.MaxSubsetRequestIDs]
	}

	subset := make(map[string]domain.PlayerRecord, len(ids))
	for _, id := range ids {
		record, ok := catalog[id]
		if !ok {
			continue
		}
		if record.PlayerID == "" {
			record.PlayerID = id
		}
		subset[id] = record
	}
	return subset, nil
}

func (s *CatalogService) load(ctx context.Context) (map[string]domain.PlayerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.catalog != nil && now.Sub(s.loadedAt) <= constants.CatalogCacheTTL {
		return s.catalog, nil
	}

	cachedAtMs, payload, ok, err := s.kv.Get(ctx, constants.CatalogCacheKey)
	if err != nil {
		s.logger.Debug().Err(err).Msg("catalog cache read failed, treating as miss")
	} else if ok && now.UnixMilli()-cachedAtMs <= constants.CatalogCacheTTL.Milliseconds() {
		var catalog map[string]domain.PlayerRecord
		if err := json.Unmarshal(payload, &catalog); err != nil {
			s.logger.Debug().Err(err).Msg("catalog cache entry corrupt, treating as miss")
		} else {
			s.catalog = catalog
			s.loadedAt = time.UnixMilli(cachedAtMs)
			s.logger.Info().Int("players", len(catalog)).Msg("player catalog loaded from cache")
			return s.catalog, nil
		}
	}

	catalog, err := s.fetcher.GetPlayerCatalog(ctx, s.sport)
	if err != nil {
		// A stale catalog still beats an empty one.
		if s.catalog != nil {
			s.logger.Warn().Err(err).Msg("catalog refresh failed, serving stale catalog")
			return s.catalog, nil
		}
		return nil, fmt.Errorf("fetch player catalog: %w", err)
	}

	encoded, err := json.Marshal(catalog)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode player catalog for caching")
	} else if err := s.kv.Put(ctx, constants.CatalogCacheKey, now.UnixMilli(), encoded); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist player catalog")
	}

	s.catalog = catalog
	s.loadedAt = now
	s.logger.Info().Int("players", len(catalog)).Msg("player catalog fetched")
	return s.catalog, nil
}
