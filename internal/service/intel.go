package service

import (
	"context"
	"fmt"
	"time"

	"league-intel/internal/constants"
	"league-intel/internal/intel"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// IntelService orchestrates the full report build: walk the history chain,
// load every season, resolve referenced players, aggregate, and overlay the
// latest roster context.
type IntelService struct {
	walker  *HistoryWalker
	loader  *SeasonLoader
	players *PlayerService
	logger  zerolog.Logger
}

func NewIntelService(walker *HistoryWalker, loader *SeasonLoader, players *PlayerService, logger zerolog.Logger) *IntelService {
	return &IntelService{walker: walker, loader: loader, players: players, logger: logger}
}

// ReportEnvelope wraps the report with build metadata for the UI layer.
type ReportEnvelope struct {
	BuildID     string        `json:"build_id"`
	LeagueID    string        `json:"league_id"`
	Lookback    int           `json:"lookback"`
	GeneratedAt time.Time     `json:"generated_at"`
	Report      *intel.Report `json:"report"`
}

// BuildReport produces the adversarial intelligence report for a league. The
// lookback is clamped to the supported range; refresh bypasses the
// transaction cache for every league in the chain.
func (s *IntelService) BuildReport(ctx context.Context, leagueID, myUserID string, lookback int, refresh bool) (*ReportEnvelope, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if lookback < constants.MinLookback {
		lookback = constants.MinLookback
	}
	if lookback > constants.MaxLookback {
		lookback = constants.MaxLookback
	}

	start := time.Now()
	s.logger.Info().
		Str("league_id", leagueID).
		Int("lookback", lookback).
		Bool("refresh", refresh).
		Msg("building intel report")

	chain, err := s.walker.Walk(ctx, leagueID, lookback)
	if err != nil {
		return nil, fmt.Errorf("walk league history: %w", err)
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("league %s: %w", leagueID, ErrLeagueUnavailable)
	}

	seasons, err := s.loader.LoadAll(ctx, chain, LoadOptions{
		CacheNamespace: "league_intel",
		ForceRefresh:   refresh,
	})
	if err != nil {
		return nil, fmt.Errorf("load seasons: %w", err)
	}

	playerIDs := intel.CollectPlayerIDs(seasons)
	playersByID, err := s.players.Resolve(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve players: %w", err)
	}

	report := intel.BuildReport(seasons, myUserID, playersByID, intel.DefaultOptions())
	intel.MergeRosterContext(report, &seasons[0], playersByID)

	buildID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate build id: %w", err)
	}

	s.logger.Info().
		Str("league_id", leagueID).
		Int("seasons", report.Summary.SeasonsAnalyzed).
		Int("managers", report.Summary.ManagersAnalyzed).
		Int("transactions", report.Summary.TotalTransactions).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("intel report built")

	return &ReportEnvelope{
		BuildID:     buildID,
		LeagueID:    leagueID,
		Lookback:    lookback,
		GeneratedAt: time.Now().UTC(),
		Report:      report,
	}, nil
}
