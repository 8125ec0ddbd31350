package constants

import "time"

const (
	// TransactionCacheTTL bounds how long a league's full-season transaction
	// sweep is served from the persisted cache.
	TransactionCacheTTL = 10 * time.Minute
	CatalogCacheTTL     = 12 * time.Hour
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 60 * time.Second
)

const (
	// RegularSeasonWeeks is the number of weekly transaction pages swept per
	// league season.
	RegularSeasonWeeks = 18

	MinLookback = 1
	MaxLookback = 4
)

const (
	TransactionCachePrefix = "fdl_tx_cache_v2"
	CatalogCacheKey        = "sleeper_players_nfl"
)

const (
	// PlayerCacheMaxEntries caps the persisted player-subset cache; the
	// oldest-inserted rows are evicted first beyond it.
	PlayerCacheMaxEntries = 4000

	// MaxSubsetRequestIDs caps a single by-ids lookup.
	MaxSubsetRequestIDs = 8000
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)
