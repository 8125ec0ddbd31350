package service

import (
	"context"

	"league-intel/internal/constants"
	"league-intel/internal/domain"

	"github.com/rs/zerolog"
)

// LeagueFetcher is the single remote call history walking needs.
type LeagueFetcher interface {
	GetLeague(ctx context.Context, leagueID string) (*domain.League, error)
}

// HistoryWalker follows a league's previous_league_id back-links to collect
// the multi-season chain.
type HistoryWalker struct {
	leagues LeagueFetcher
	logger  zerolog.Logger
}

func NewHistoryWalker(leagues LeagueFetcher, logger zerolog.Logger) *HistoryWalker {
	return &HistoryWalker{leagues: leagues, logger: logger}
}

// Walk collects up to maxDepth leagues newest-to-oldest starting at leagueID.
// The chain truncates silently when a back-link is missing, a referenced
// league fails to resolve, or a league id repeats (malformed upstream data can
// form cycles); a best-effort partial history beats a hard failure.
func (w *HistoryWalker) Walk(ctx context.Context, leagueID string, maxDepth int) ([]domain.League, error) {
	return w.walk(ctx, leagueID, nil, maxDepth)
}

// WalkFrom behaves like Walk but starts from an already-fetched league,
// skipping the first remote lookup.
func (w *HistoryWalker) WalkFrom(ctx context.Context, start domain.League, maxDepth int) ([]domain.League, error) {
	if start.LeagueID == "" {
		return nil, nil
	}
	return w.walk(ctx, start.LeagueID, &start, maxDepth)
}

func (w *HistoryWalker) walk(ctx context.Context, leagueID string, start *domain.League, maxDepth int) ([]domain.League, error) {
	if maxDepth < constants.MinLookback {
		maxDepth = constants.MinLookback
	}
	if leagueID == "" {
		return nil, nil
	}

	var chain []domain.League
	seen := make(map[string]struct{})
	cursor := start
	currentID := leagueID

	for currentID != "" && len(chain) < maxDepth {
		if _, dup := seen[currentID]; dup {
			w.logger.Warn().Str("league_id", currentID).Msg("league history chain cycle, truncating")
			break
		}
		seen[currentID] = struct{}{}

		if cursor == nil {
			league, err := w.leagues.GetLeague(ctx, currentID)
			if err != nil {
				w.logger.Debug().Err(err).Str("league_id", currentID).Msg("league chain link failed to resolve, truncating")
				break
			}
			cursor = league
		}
		if cursor == nil || cursor.LeagueID == "" {
			break
		}

		chain = append(chain, *cursor)
		currentID = cursor.PreviousLeagueID
		cursor = nil
	}

	w.logger.Debug().Str("league_id", leagueID).Int("depth", len(chain)).Msg("league history chain walked")
	return chain, nil
}
