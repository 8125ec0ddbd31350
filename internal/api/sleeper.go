package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"league-intel/internal/config"
	"league-intel/internal/domain"

	"github.com/valyala/fasthttp"
)

// ErrNotFound distinguishes a 404 from other upstream failures. Callers decide
// whether a missing resource is fatal (user/league lookups) or an endpoint of
// a best-effort sweep (weekly transactions).
var ErrNotFound = errors.New("sleeper resource not found")

type SleeperClient struct {
	baseURL string
	client  *fasthttp.Client
}

func NewSleeperClient(cfg *config.Config) *SleeperClient {
	return &SleeperClient{
		baseURL: cfg.SleeperAPIBase,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *SleeperClient) GetUser(ctx context.Context, username string) (*domain.User, error) {
	return doRequest[domain.User](ctx, c, fmt.Sprintf("%s/user/%s", c.baseURL, username))
}

func (c *SleeperClient) GetUserLeagues(ctx context.Context, userID, sport, season string) ([]domain.League, error) {
	return doSliceRequest[domain.League](ctx, c, fmt.Sprintf("%s/user/%s/leagues/%s/%s", c.baseURL, userID, sport, season))
}

func (c *SleeperClient) GetLeague(ctx context.Context, leagueID string) (*domain.League, error) {
	return doRequest[domain.League](ctx, c, fmt.Sprintf("%s/league/%s", c.baseURL, leagueID))
}

func (c *SleeperClient) GetLeagueUsers(ctx context.Context, leagueID string) ([]domain.User, error) {
	return doSliceRequest[domain.User](ctx, c, fmt.Sprintf("%s/league/%s/users", c.baseURL, leagueID))
}

func (c *SleeperClient) GetLeagueRosters(ctx context.Context, leagueID string) ([]domain.Roster, error) {
	return doSliceRequest[domain.Roster](ctx, c, fmt.Sprintf("%s/league/%s/rosters", c.baseURL, leagueID))
}

func (c *SleeperClient) GetLeagueTransactions(ctx context.Context, leagueID string, week int) ([]domain.Transaction, error) {
	return doSliceRequest[domain.Transaction](ctx, c, fmt.Sprintf("%s/league/%s/transactions/%d", c.baseURL, leagueID, week))
}

// GetPlayerCatalog downloads the bulk player catalog. The payload is tens of
// thousands of entries; callers cache it behind a TTL and serve id subsets.
func (c *SleeperClient) GetPlayerCatalog(ctx context.Context, sport string) (map[string]domain.PlayerRecord, error) {
	body, err := c.fetch(ctx, fmt.Sprintf("%s/players/%s", c.baseURL, sport))
	if err != nil {
		return nil, err
	}
	var catalog map[string]domain.PlayerRecord
	if err := json.Unmarshal(body, &catalog); err != nil {
		return nil, fmt.Errorf("decode player catalog: %w", err)
	}
	return catalog, nil
}

func (c *SleeperClient) fetch(ctx context.Context, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	switch {
	case resp.StatusCode() == fasthttp.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode() != fasthttp.StatusOK:
		return nil, fmt.Errorf("sleeper API error: %d", resp.StatusCode())
	}

	// The response body is reused once resp is released.
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

func doRequest[T any](ctx context.Context, client *SleeperClient, url string) (*T, error) {
	body, err := client.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func doSliceRequest[T any](ctx context.Context, client *SleeperClient, url string) ([]T, error) {
	body, err := client.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	var result []T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return result, nil
}
