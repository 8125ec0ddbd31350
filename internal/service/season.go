package service

import (
	"context"
	"fmt"
	"time"

	"league-intel/internal/constants"
	"league-intel/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SeasonFetcher covers the per-league remote calls season loading needs.
type SeasonFetcher interface {
	GetLeagueUsers(ctx context.Context, leagueID string) ([]domain.User, error)
	GetLeagueRosters(ctx context.Context, leagueID string) ([]domain.Roster, error)
	GetLeagueTransactions(ctx context.Context, leagueID string, week int) ([]domain.Transaction, error)
}

type LoadOptions struct {
	CacheNamespace     string
	CacheTTL           time.Duration
	RegularSeasonWeeks int
	ForceRefresh       bool
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.CacheNamespace == "" {
		o.CacheNamespace = "intel"
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = constants.TransactionCacheTTL
	}
	if o.RegularSeasonWeeks <= 0 {
		o.RegularSeasonWeeks = constants.RegularSeasonWeeks
	}
	return o
}

// SeasonLoader fetches users, rosters and the full transaction log for each
// league of a chain.
type SeasonLoader struct {
	fetcher SeasonFetcher
	txCache *TransactionCache
	logger  zerolog.Logger
}

func NewSeasonLoader(fetcher SeasonFetcher, txCache *TransactionCache, logger zerolog.Logger) *SeasonLoader {
	return &SeasonLoader{fetcher: fetcher, txCache: txCache, logger: logger}
}

// LoadAll loads every league concurrently, preserving the input order in the
// result. A failed users or rosters fetch is a hard error: without ownership
// data the rest of the computation is meaningless.
func (l *SeasonLoader) LoadAll(ctx context.Context, leagues []domain.League, opts LoadOptions) ([]domain.SeasonData, error) {
	opts = opts.withDefaults()
	seasons := make([]domain.SeasonData, len(leagues))

	g, gCtx := errgroup.WithContext(ctx)
	for i, league := range leagues {
		g.Go(func() error {
			season, err := l.loadOne(gCtx, league, opts)
			if err != nil {
				return fmt.Errorf("load season %s (league %s): %w", league.Season, league.LeagueID, err)
			}
			seasons[i] = season
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return seasons, nil
}

func (l *SeasonLoader) loadOne(ctx context.Context, league domain.League, opts LoadOptions) (domain.SeasonData, error) {
	season := domain.SeasonData{League: league}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := l.fetcher.GetLeagueUsers(gCtx, league.LeagueID)
		if err != nil {
			return fmt.Errorf("fetch users: %w", err)
		}
		season.Users = users
		return nil
	})
	g.Go(func() error {
		rosters, err := l.fetcher.GetLeagueRosters(gCtx, league.LeagueID)
		if err != nil {
			return fmt.Errorf("fetch rosters: %w", err)
		}
		season.Rosters = rosters
		return nil
	})
	g.Go(func() error {
		if opts.ForceRefresh {
			if err := l.txCache.Invalidate(gCtx, league.LeagueID, opts.CacheNamespace); err != nil {
				l.logger.Warn().Err(err).Str("league_id", league.LeagueID).Msg("failed to invalidate transaction cache")
			}
		}
		transactions, err := l.txCache.GetOrFetch(gCtx, league.LeagueID, opts.CacheNamespace, opts.CacheTTL, func(ctx context.Context) ([]domain.Transaction, error) {
			return l.sweepTransactions(ctx, league.LeagueID, opts.RegularSeasonWeeks)
		})
		if err != nil {
			return fmt.Errorf("fetch transactions: %w", err)
		}
		season.Transactions = transactions
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.SeasonData{}, err
	}

	l.logger.Info().
		Str("league_id", league.LeagueID).
		Str("season", league.Season).
		Int("users", len(season.Users)).
		Int("rosters", len(season.Rosters)).
		Int("transactions", len(season.Transactions)).
		Msg("season loaded")
	return season, nil
}

// sweepTransactions queries every regular-season week concurrently and
// concatenates the results in week order, tagging each transaction with its
// source week. A failed week contributes zero transactions; a single bad week
// must never fail the whole season load.
func (l *SeasonLoader) sweepTransactions(ctx context.Context, leagueID string, weeks int) ([]domain.Transaction, error) {
	perWeek := make([][]domain.Transaction, weeks)

	var g errgroup.Group
	for week := 1; week <= weeks; week++ {
		g.Go(func() error {
			transactions, err := l.fetcher.GetLeagueTransactions(ctx, leagueID, week)
			if err != nil {
				l.logger.Debug().Err(err).Str("league_id", leagueID).Int("week", week).Msg("week transaction fetch failed, skipping")
				return nil
			}
			for i := range transactions {
				transactions[i].Week = week
			}
			perWeek[week-1] = transactions
			return nil
		})
	}
	// Week failures are swallowed above, so Wait cannot fail.
	_ = g.Wait()

	var all []domain.Transaction
	for _, transactions := range perWeek {
		all = append(all, transactions...)
	}
	return all, nil
}
