package intel

import (
	"strings"
	"testing"
)

func TestClassifyProfile(t *testing.T) {
	cases := []struct {
		name       string
		trades     int
		avgBidPct  float64
		totalMoves int
		wantIntel  string
		wantTerm   string
	}{
		{"heavy trader and bidder", 8, 0.18, 0, "Trade Addict", "Hyper-aggressive"},
		{"high trades alone falls through", 8, 0.17, 0, "Active Market Maker", "Active market maker"},
		{"churner", 0, 0, 35, "Active Market Maker", "Active market maker"},
		{"big bidder", 0, 0.22, 11, "FAAB Sniper", "Waiver sniper"},
		{"dormant", 1, 0, 10, "The Hoarder", "Risk-averse"},
		{"middle of the road", 3, 0.1, 20, "Silent Contender", "Balanced"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyProfile(tc.trades, tc.avgBidPct, tc.totalMoves, ToneIntel); got != tc.wantIntel {
				t.Errorf("intel tone = %q, want %q", got, tc.wantIntel)
			}
			if got := classifyProfile(tc.trades, tc.avgBidPct, tc.totalMoves, ToneTerminal); got != tc.wantTerm {
				t.Errorf("terminal tone = %q, want %q", got, tc.wantTerm)
			}
		})
	}
}

func TestFinalizeProfile_Scores(t *testing.T) {
	acc := newAccumulator("U1", "Uno")
	acc.TradeCount = 4
	acc.Counterparties = map[string]int{"A": 3, "B": 1}
	acc.FaabBidSum = 60
	acc.FaabBidCount = 2
	acc.FaabBudgetObserved = 100
	acc.AddCount = 12
	acc.DropCount = 8

	profile := finalizeProfile(acc, "U1", ToneIntel)

	// (4*1.7 + 2*2.4) / 3 = 3.866... -> 3.9
	if profile.TradeFriendlinessScore != 3.9 {
		t.Errorf("TradeFriendlinessScore = %v, want 3.9", profile.TradeFriendlinessScore)
	}
	// 0.3*50 + 4*0.8 + 20*0.04 = 19.0, clamped to 10
	if profile.RiskToleranceScore != 10 {
		t.Errorf("RiskToleranceScore = %v, want 10 (clamped)", profile.RiskToleranceScore)
	}
	if !profile.IsYou {
		t.Error("IsYou = false, want true for matching user id")
	}
	if profile.AvgFaabBid != 30 {
		t.Errorf("AvgFaabBid = %v, want 30", profile.AvgFaabBid)
	}
	if profile.FaabBidPct != 30.0 {
		t.Errorf("FaabBidPct = %v, want 30.0", profile.FaabBidPct)
	}
}

func TestFinalizeProfile_ScoresClampToFloor(t *testing.T) {
	profile := finalizeProfile(newAccumulator("U2", "Dos"), "", ToneIntel)

	if profile.TradeFriendlinessScore != 1 {
		t.Errorf("TradeFriendlinessScore = %v, want floor 1", profile.TradeFriendlinessScore)
	}
	if profile.RiskToleranceScore != 1 {
		t.Errorf("RiskToleranceScore = %v, want floor 1", profile.RiskToleranceScore)
	}
	if profile.TopPositionAdds != "N/A" {
		t.Errorf("TopPositionAdds = %q, want N/A with no adds", profile.TopPositionAdds)
	}
}

func TestFinalizeProfile_TimelineTruncatedNewestFirst(t *testing.T) {
	acc := newAccumulator("U3", "Tres")
	for i := int64(1); i <= 12; i++ {
		acc.TradeTimeline = append(acc.TradeTimeline, TimelineEvent{Timestamp: i})
	}

	profile := finalizeProfile(acc, "", ToneIntel)

	if len(profile.TradeTimeline) != 8 {
		t.Fatalf("timeline len = %d, want 8", len(profile.TradeTimeline))
	}
	if profile.TradeTimeline[0].Timestamp != 12 {
		t.Errorf("first entry timestamp = %d, want newest (12)", profile.TradeTimeline[0].Timestamp)
	}
	for i := 1; i < len(profile.TradeTimeline); i++ {
		if profile.TradeTimeline[i].Timestamp > profile.TradeTimeline[i-1].Timestamp {
			t.Fatal("timeline not sorted newest-first")
		}
	}
	// The accumulator's own slice must not be reordered.
	if acc.TradeTimeline[0].Timestamp != 1 {
		t.Error("finalize mutated the accumulator's timeline")
	}
}

func TestTopPositionKey_TieBreaksByFixedOrder(t *testing.T) {
	tally := map[string]int{"WR": 3, "RB": 3, "TE": 1}
	if got := topPositionKey(tally); got != "RB" {
		t.Errorf("topPositionKey = %q, want RB (earlier in QB/RB/WR/TE order)", got)
	}
	if got := topPositionKey(map[string]int{}); got != "" {
		t.Errorf("topPositionKey(empty) = %q, want empty", got)
	}
}

func TestTopCounterparty_TieBreaksLexicographically(t *testing.T) {
	id, count := topCounterparty(map[string]int{"zed": 2, "abe": 2, "mid": 1})
	if id != "abe" || count != 2 {
		t.Errorf("topCounterparty = (%q, %d), want (abe, 2)", id, count)
	}
}

func TestBuildInsight_MentionsLabelAndPartners(t *testing.T) {
	acc := newAccumulator("U4", "Quatro")
	acc.FaabBidSum = 44
	acc.FaabBidCount = 2

	insight := buildInsight(acc, "FAAB Sniper", "WR", 3)

	for _, fragment := range []string{"Quatro", "FAAB Sniper", "WR", "22%", "3 unique managers"} {
		if !strings.Contains(insight, fragment) {
			t.Errorf("insight %q missing %q", insight, fragment)
		}
	}
}
