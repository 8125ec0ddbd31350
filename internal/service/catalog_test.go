package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"league-intel/internal/config"
	"league-intel/internal/domain"

	"github.com/rs/zerolog"
)

type fakeCatalogFetcher struct {
	catalog map[string]domain.PlayerRecord
	err     error
	calls   int
}

func (f *fakeCatalogFetcher) GetPlayerCatalog(context.Context, string) (map[string]domain.PlayerRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.catalog, nil
}

func testConfig() *config.Config {
	return &config.Config{Sport: "nfl"}
}

func TestCatalogService_LookupSubset(t *testing.T) {
	fetcher := &fakeCatalogFetcher{catalog: map[string]domain.PlayerRecord{
		"p1": {FullName: "Amari Vance", Position: "WR"},
		"p2": {PlayerID: "p2", Position: "RB"},
	}}
	svc := NewCatalogService(fetcher, newTestKV(t), testConfig(), zerolog.Nop())

	got, err := svc.LookupByIDs(context.Background(), []string{"p1", "p2", "absent"})
	if err != nil {
		t.Fatalf("LookupByIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("subset = %d records, want 2", len(got))
	}
	// Catalog entries are keyed by id upstream; the id is backfilled when the
	// record body omits it.
	if got["p1"].PlayerID != "p1" {
		t.Errorf("p1.PlayerID = %q, want backfilled id", got["p1"].PlayerID)
	}
}

func TestCatalogService_BulkFetchHappensOnce(t *testing.T) {
	fetcher := &fakeCatalogFetcher{catalog: map[string]domain.PlayerRecord{"p1": {PlayerID: "p1"}}}
	svc := NewCatalogService(fetcher, newTestKV(t), testConfig(), zerolog.Nop())
	ctx := context.Background()

	for range 3 {
		if _, err := svc.LookupByIDs(ctx, []string{"p1"}); err != nil {
			t.Fatalf("LookupByIDs: %v", err)
		}
	}
	if fetcher.calls != 1 {
		t.Errorf("bulk fetches = %d, want 1 within the TTL", fetcher.calls)
	}
}

func TestCatalogService_PersistedEnvelopeServesNewInstance(t *testing.T) {
	kv := newTestKV(t)
	fetcher := &fakeCatalogFetcher{catalog: map[string]domain.PlayerRecord{"p1": {PlayerID: "p1"}}}
	first := NewCatalogService(fetcher, kv, testConfig(), zerolog.Nop())
	ctx := context.Background()

	if _, err := first.LookupByIDs(ctx, []string{"p1"}); err != nil {
		t.Fatalf("LookupByIDs: %v", err)
	}

	// A fresh instance sharing the store reads the envelope instead of
	// re-downloading the catalog.
	second := NewCatalogService(fetcher, kv, testConfig(), zerolog.Nop())
	got, err := second.LookupByIDs(ctx, []string{"p1"})
	if err != nil {
		t.Fatalf("LookupByIDs: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("bulk fetches = %d, want 1", fetcher.calls)
	}
	if _, ok := got["p1"]; !ok {
		t.Error("p1 missing from cached catalog")
	}
}

func TestCatalogService_StaleCatalogBeatsFetchFailure(t *testing.T) {
	fetcher := &fakeCatalogFetcher{catalog: map[string]domain.PlayerRecord{"p1": {PlayerID: "p1"}}}
	svc := NewCatalogService(fetcher, newTestKV(t), testConfig(), zerolog.Nop())
	ctx := context.Background()

	base := time.Now()
	svc.now = func() time.Time { return base }
	if _, err := svc.LookupByIDs(ctx, []string{"p1"}); err != nil {
		t.Fatalf("LookupByIDs: %v", err)
	}

	// Push past the TTL and make the refresh fail; the stale copy still serves.
	svc.now = func() time.Time { return base.Add(48 * time.Hour) }
	fetcher.err = errors.New("upstream down")
	got, err := svc.LookupByIDs(ctx, []string{"p1"})
	if err != nil {
		t.Fatalf("LookupByIDs: %v, want stale catalog fallback", err)
	}
	if _, ok := got["p1"]; !ok {
		t.Error("p1 missing from stale catalog")
	}
}

func TestCatalogService_FetchFailureWithNoCatalogIsFatal(t *testing.T) {
	svc := NewCatalogService(&fakeCatalogFetcher{err: errors.New("upstream down")}, newTestKV(t), testConfig(), zerolog.Nop())

	if _, err := svc.LookupByIDs(context.Background(), []string{"p1"}); err == nil {
		t.Fatal("LookupByIDs = nil error, want failure with nothing to fall back to")
	}
}
