package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"league-intel/internal/config"
	"league-intel/internal/domain"

	"github.com/rs/zerolog"
)

// UserFetcher covers the remote calls session connect needs.
type UserFetcher interface {
	GetUser(ctx context.Context, username string) (*domain.User, error)
	GetUserLeagues(ctx context.Context, userID, sport, season string) ([]domain.League, error)
}

// ConnectService resolves a username into a session: the user plus their
// leagues for a season.
type ConnectService struct {
	fetcher UserFetcher
	sport   string
	logger  zerolog.Logger
}

func NewConnectService(fetcher UserFetcher, cfg *config.Config, logger zerolog.Logger) *ConnectService {
	return &ConnectService{fetcher: fetcher, sport: cfg.Sport, logger: logger}
}

type Session struct {
	User    domain.User     `json:"user"`
	Season  string          `json:"season"`
	Leagues []domain.League `json:"leagues"`
}

// Connect looks up the user and their leagues for the season, defaulting to
// the current one. Leagues sort by size so the primary league lists first.
func (s *ConnectService) Connect(ctx context.Context, username, season string) (*Session, error) {
	if season == "" {
		season = CurrentSeason(time.Now())
	}

	user, err := s.fetcher.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("resolve user %q: %w", username, err)
	}
	if user.UserID == "" {
		return nil, fmt.Errorf("resolve user %q: empty user id", username)
	}

	leagues, err := s.fetcher.GetUserLeagues(ctx, user.UserID, s.sport, season)
	if err != nil {
		return nil, fmt.Errorf("list leagues for user %s season %s: %w", user.UserID, season, err)
	}
	sort.SliceStable(leagues, func(i, j int) bool {
		return leagues[i].TotalRosters > leagues[j].TotalRosters
	})

	s.logger.Info().
		Str("username", username).
		Str("user_id", user.UserID).
		Str("season", season).
		Int("leagues", len(leagues)).
		Msg("session connected")
	return &Session{User: *user, Season: season, Leagues: leagues}, nil
}

// CurrentSeason infers the active fantasy season: August onward the new season
// is underway, before that the previous year's is still the reference.
func CurrentSeason(now time.Time) string {
	year := now.Year()
	if now.Month() < time.August {
		year--
	}
	return strconv.Itoa(year)
}
