package intel

import (
	"fmt"
	"math"
	"sort"
)

// positionOrder is the tie-break order for the top-position tally. Ties go to
// the earlier position in this fixed order.
var positionOrder = []string{"QB", "RB", "WR", "TE"}

// ManagerProfile is the finalized, read-only output per manager. The roster
// context fields are populated only after MergeRosterContext runs.
type ManagerProfile struct {
	UserID            string  `json:"user_id"`
	DisplayName       string  `json:"display_name"`
	IsYou             bool    `json:"is_you"`
	SeasonsCovered    int     `json:"seasons_covered"`
	TotalTransactions int     `json:"total_transactions"`
	WaiverCount       int     `json:"waiver_count"`
	TradeCount        int     `json:"trade_count"`
	AvgFaabBid        float64 `json:"avg_faab_bid"`
	MaxFaabBid        int     `json:"max_faab_bid"`
	FaabBidPct        float64 `json:"faab_bid_pct"`
	DraftPickMoves    int     `json:"draft_pick_moves"`
	AddCount          int     `json:"add_count"`
	DropCount         int     `json:"drop_count"`
	TopPositionAdds   string  `json:"top_position_adds"`
	ProfileLabel      string  `json:"profile_label"`

	AggressionRaw          float64 `json:"aggression_raw"`
	AggressionScore        float64 `json:"aggression_score"`
	TradeFriendlinessScore float64 `json:"trade_friendliness_score"`
	RiskToleranceScore     float64 `json:"risk_tolerance_score"`

	TargetingCue string `json:"targeting_cue"`
	Insight      string `json:"insight"`

	CounterpartyCount     int    `json:"counterparty_count"`
	TopCounterpartyUserID string `json:"top_counterparty_user_id"`
	TopCounterpartyTrades int    `json:"top_counterparty_trades"`

	TradeTimeline []TimelineEvent `json:"trade_timeline"`

	// Merged roster context (latest season snapshot).
	WindowTag         string                      `json:"window_tag,omitempty"`
	WeakPositions     []string                    `json:"weak_positions,omitempty"`
	PositionStrengths map[string]PositionStrength `json:"position_strengths,omitempty"`
	AvgRosterAge      float64                     `json:"avg_roster_age,omitempty"`
	StarterValue      float64                     `json:"starter_value,omitempty"`
	FaabRemaining     int                         `json:"faab_remaining,omitempty"`
	TradePattern      *TradePattern               `json:"trade_pattern,omitempty"`
	FaabPredictor     *FaabPredictor              `json:"faab_predictor,omitempty"`
}

// finalizeProfile converts a raw accumulator into an immutable profile. The
// cohort-relative aggression score is filled in by BuildReport afterwards.
func finalizeProfile(acc *ManagerAccumulator, myUserID string, tone Tone) *ManagerProfile {
	var avgBid float64
	if acc.FaabBidCount > 0 {
		avgBid = acc.FaabBidSum / float64(acc.FaabBidCount)
	}
	maxBudget := acc.FaabBudgetObserved
	if maxBudget == 0 {
		maxBudget = 100
	}
	avgBidPct := avgBid / float64(maxBudget)
	totalMoves := acc.AddCount + acc.DropCount

	topCounterpartyID, topCounterpartyTrades := topCounterparty(acc.Counterparties)

	aggressionRaw := float64(acc.TradeCount)*weightTradeCount +
		float64(acc.WaiverCount)*weightWaiverCount +
		float64(acc.DraftPickMoves)*weightDraftPickMoves +
		avgBidPct*weightAvgBidPct +
		float64(totalMoves)*weightChurnMoves

	topPosition := topPositionKey(acc.PositionAdds)
	if topPosition == "" {
		topPosition = "N/A"
	}
	counterpartyCount := len(acc.Counterparties)
	profileLabel := classifyProfile(acc.TradeCount, avgBidPct, totalMoves, tone)

	timeline := append([]TimelineEvent(nil), acc.TradeTimeline...)
	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Timestamp > timeline[j].Timestamp
	})
	if len(timeline) > 8 {
		timeline = timeline[:8]
	}

	return &ManagerProfile{
		UserID:                 acc.UserID,
		DisplayName:            acc.DisplayName,
		IsYou:                  acc.UserID == myUserID,
		SeasonsCovered:         len(acc.Seasons),
		TotalTransactions:      acc.TotalTransactions,
		WaiverCount:            acc.WaiverCount,
		TradeCount:             acc.TradeCount,
		AvgFaabBid:             roundTo(avgBid, 1),
		MaxFaabBid:             acc.FaabMaxBid,
		FaabBidPct:             roundTo(avgBidPct*100, 1),
		DraftPickMoves:         acc.DraftPickMoves,
		AddCount:               acc.AddCount,
		DropCount:              acc.DropCount,
		TopPositionAdds:        topPosition,
		ProfileLabel:           profileLabel,
		AggressionRaw:          aggressionRaw,
		TradeFriendlinessScore: roundTo(clampFloat((float64(acc.TradeCount)*1.7+float64(counterpartyCount)*2.4)/3, 1, 10), 1),
		RiskToleranceScore:     roundTo(clampFloat(avgBidPct*50+float64(acc.TradeCount)*0.8+float64(totalMoves)*0.04, 1, 10), 1),
		TargetingCue:           buildTargetingCue(profileLabel, topPosition, acc.TradeCount),
		Insight:                buildInsight(acc, profileLabel, topPosition, counterpartyCount),
		CounterpartyCount:      counterpartyCount,
		TopCounterpartyUserID:  topCounterpartyID,
		TopCounterpartyTrades:  topCounterpartyTrades,
		TradeTimeline:          timeline,
	}
}

// classifyProfile is the label decision tree, evaluated in descending
// priority. Both tones share thresholds and differ only in wording.
func classifyProfile(tradeCount int, avgBidPct float64, totalMoves int, tone Tone) string {
	if tone == ToneTerminal {
		switch {
		case tradeCount >= 8 && avgBidPct >= 0.18:
			return "Hyper-aggressive"
		case tradeCount >= 5 || totalMoves >= 35:
			return "Active market maker"
		case avgBidPct >= 0.22:
			return "Waiver sniper"
		case tradeCount <= 1 && totalMoves <= 10:
			return "Risk-averse"
		}
		return "Balanced"
	}
	switch {
	case tradeCount >= 8 && avgBidPct >= 0.18:
		return "Trade Addict"
	case tradeCount >= 5 || totalMoves >= 35:
		return "Active Market Maker"
	case avgBidPct >= 0.22:
		return "FAAB Sniper"
	case tradeCount <= 1 && totalMoves <= 10:
		return "The Hoarder"
	}
	return "Silent Contender"
}

func buildTargetingCue(profileLabel, topPosition string, tradeCount int) string {
	switch profileLabel {
	case "Hyper-aggressive", "Trade Addict":
		return "Lead with a complete package and anchor negotiations early."
	case "Waiver sniper", "FAAB Sniper":
		return fmt.Sprintf("Pitch %s depth before waivers run to increase response rate.", topPosition)
	case "Risk-averse", "The Hoarder":
		return "Offer stable floor assets; avoid volatile upside framing."
	}
	if tradeCount >= 5 {
		return "Run a two-step offer sequence: fair opener, then targeted sweetener."
	}
	return "Use roster-fit framing and weekly points gain to open talks."
}

func buildInsight(acc *ManagerAccumulator, profileLabel, topPosition string, counterpartyCount int) string {
	var avgBid float64
	if acc.FaabBidCount > 0 {
		avgBid = acc.FaabBidSum / float64(acc.FaabBidCount)
	}
	maxBudget := acc.FaabBudgetObserved
	if maxBudget == 0 {
		maxBudget = 100
	}
	bidPct := int(math.Round(avgBid / float64(maxBudget) * 100))
	return fmt.Sprintf(
		"%s profiles as %s. They bias toward %s adds, average %d%% of budget per FAAB win, and have traded with %d unique managers.",
		acc.DisplayName, profileLabel, topPosition, bidPct, counterpartyCount,
	)
}

// topPositionKey returns the position with the highest add tally; ties break
// toward the earlier entry of the fixed QB/RB/WR/TE order.
func topPositionKey(tally map[string]int) string {
	best := ""
	bestCount := 0
	for _, position := range positionOrder {
		if count := tally[position]; count > bestCount {
			best = position
			bestCount = count
		}
	}
	return best
}

// topCounterparty picks the most frequent trade partner; count ties break by
// lexicographic user id for stable output.
func topCounterparty(counterparties map[string]int) (string, int) {
	best := ""
	bestCount := 0
	for _, userID := range sortedKeys(counterparties) {
		if count := counterparties[userID]; count > bestCount {
			best = userID
			bestCount = count
		}
	}
	return best, bestCount
}
