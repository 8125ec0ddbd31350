package repository

import (
	"context"
	"fmt"
	"testing"

	"league-intel/internal/domain"

	"github.com/rs/zerolog"
)

func intPtr(v int) *int { return &v }

func TestPlayerCache_RoundTrip(t *testing.T) {
	repo := NewPlayerCacheRepository(openTestDB(t), zerolog.Nop())
	ctx := context.Background()

	records := []domain.PlayerRecord{
		{PlayerID: "p1", FullName: "Amari Vance", Position: "WR", Age: intPtr(24), Team: "DAL"},
		{PlayerID: "p2", FullName: "Cole Brandt", Position: "QB", YearsExp: intPtr(2)},
	}
	if err := repo.PutBatch(ctx, records); err != nil {
		t.Fatalf("PutBatch: %v", err)
	}

	got, err := repo.GetByIDs(ctx, []string{"p1", "p2", "absent"})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}

	p1 := got["p1"]
	if p1.FullName != "Amari Vance" || p1.Position != "WR" || p1.Team != "DAL" {
		t.Errorf("p1 = %+v", p1)
	}
	if p1.Age == nil || *p1.Age != 24 {
		t.Errorf("p1.Age = %v, want 24", p1.Age)
	}
	if p1.YearsExp != nil {
		t.Errorf("p1.YearsExp = %v, want nil", p1.YearsExp)
	}

	p2 := got["p2"]
	if p2.Age != nil {
		t.Errorf("p2.Age = %v, want nil", p2.Age)
	}
	if p2.YearsExp == nil || *p2.YearsExp != 2 {
		t.Errorf("p2.YearsExp = %v, want 2", p2.YearsExp)
	}
}

func TestPlayerCache_UpsertKeepsInsertionOrder(t *testing.T) {
	repo := &PlayerCacheRepository{db: openTestDB(t), maxEntries: 2, logger: zerolog.Nop()}
	ctx := context.Background()

	if err := repo.PutBatch(ctx, []domain.PlayerRecord{
		{PlayerID: "oldest", Position: "RB"},
		{PlayerID: "middle", Position: "WR"},
	}); err != nil {
		t.Fatalf("PutBatch: %v", err)
	}

	// Rewriting "oldest" updates its fields but not its eviction priority.
	if err := repo.PutBatch(ctx, []domain.PlayerRecord{
		{PlayerID: "oldest", Position: "TE"},
		{PlayerID: "newest", Position: "QB"},
	}); err != nil {
		t.Fatalf("PutBatch: %v", err)
	}

	got, err := repo.GetByIDs(ctx, []string{"oldest", "middle", "newest"})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if _, ok := got["oldest"]; ok {
		t.Error("oldest survived eviction despite being re-upserted")
	}
	if _, ok := got["middle"]; !ok {
		t.Error("middle evicted, want kept")
	}
	if got["newest"].Position != "QB" {
		t.Errorf("newest = %+v, want present with position QB", got["newest"])
	}
}

func TestPlayerCache_EvictsOldestBeyondCap(t *testing.T) {
	repo := &PlayerCacheRepository{db: openTestDB(t), maxEntries: 3, logger: zerolog.Nop()}
	ctx := context.Background()

	var records []domain.PlayerRecord
	for i := range 5 {
		records = append(records, domain.PlayerRecord{PlayerID: fmt.Sprintf("p%d", i), Position: "WR"})
	}
	if err := repo.PutBatch(ctx, records); err != nil {
		t.Fatalf("PutBatch: %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want cap of 3", count)
	}

	got, err := repo.GetByIDs(ctx, []string{"p0", "p1", "p2", "p3", "p4"})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	for _, id := range []string{"p0", "p1"} {
		if _, ok := got[id]; ok {
			t.Errorf("%s survived, want oldest evicted", id)
		}
	}
	for _, id := range []string{"p2", "p3", "p4"} {
		if _, ok := got[id]; !ok {
			t.Errorf("%s evicted, want newest kept", id)
		}
	}
}

func TestPlayerCache_EmptyBatchAndEmptyQuery(t *testing.T) {
	repo := NewPlayerCacheRepository(openTestDB(t), zerolog.Nop())
	ctx := context.Background()

	if err := repo.PutBatch(ctx, nil); err != nil {
		t.Errorf("PutBatch(nil) = %v, want nil", err)
	}
	got, err := repo.GetByIDs(ctx, nil)
	if err != nil {
		t.Errorf("GetByIDs(nil) = %v, want nil", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records, want 0", len(got))
	}

	// Records without an id are skipped, not persisted as blank rows.
	if err := repo.PutBatch(ctx, []domain.PlayerRecord{{Position: "WR"}}); err != nil {
		t.Fatalf("PutBatch: %v", err)
	}
	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}
