package intel

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"league-intel/internal/domain"
)

// expectedStarterDepth is the roster depth a competitive team carries per
// position; ratios against it drive the strength labels.
var expectedStarterDepth = map[string]int{"QB": 3, "RB": 6, "WR": 7, "TE": 3}

type PositionStrength struct {
	Count int     `json:"count"`
	Ratio float64 `json:"ratio"`
	Label string  `json:"label"`
}

type TradePattern struct {
	Buys   string `json:"buys"`
	Sells  string `json:"sells"`
	Avoids string `json:"avoids"`
}

// RosterContext is the latest-season overlay for one owner.
type RosterContext struct {
	PositionStrengths map[string]PositionStrength
	WeakPositions     []string
	AvgRosterAge      float64
	StarterValue      float64
	FaabRemaining     int
	WindowTag         string
}

// MergeRosterContext overlays current-season roster composition onto each
// profile. It reads only the most recent season's snapshot; the multi-season
// transaction fold never feeds it. Managers without a roster in that season
// get a neutral default context.
func MergeRosterContext(report *Report, latest *domain.SeasonData, playersByID map[string]domain.PlayerRecord) {
	contexts := buildRosterContexts(latest, playersByID)
	for _, manager := range report.Managers {
		ctx, ok := contexts[manager.UserID]
		if !ok {
			ctx = defaultRosterContext()
		}
		manager.WindowTag = ctx.WindowTag
		manager.WeakPositions = ctx.WeakPositions
		manager.PositionStrengths = ctx.PositionStrengths
		manager.AvgRosterAge = ctx.AvgRosterAge
		manager.StarterValue = ctx.StarterValue
		manager.FaabRemaining = ctx.FaabRemaining
		manager.TradePattern = deriveTradePattern(manager)
		manager.FaabPredictor = BuildFaabPredictor(manager)
	}
}

func buildRosterContexts(latest *domain.SeasonData, playersByID map[string]domain.PlayerRecord) map[string]RosterContext {
	contexts := make(map[string]RosterContext)
	if latest == nil {
		return contexts
	}
	leagueBudget := latest.League.WaiverBudget()

	for _, roster := range latest.Rosters {
		if roster.OwnerID == "" {
			continue
		}

		grouped := map[string][]domain.PlayerRecord{"QB": nil, "RB": nil, "WR": nil, "TE": nil}
		var ageSum float64
		var ageCount int
		seen := make(map[string]struct{})
		for _, playerID := range roster.AllPlayerIDs() {
			if playerID == "" {
				continue
			}
			if _, dup := seen[playerID]; dup {
				continue
			}
			seen[playerID] = struct{}{}

			player, ok := playersByID[playerID]
			if !ok {
				continue
			}
			if position := NormalizePosition(player.Position); position != "" {
				grouped[position] = append(grouped[position], player)
			}
			if age, resolvable := player.InferredAge(); resolvable {
				ageSum += age
				ageCount++
			}
		}

		strengths := make(map[string]PositionStrength, len(expectedStarterDepth))
		type ratioEntry struct {
			position string
			ratio    float64
		}
		ratios := make([]ratioEntry, 0, len(expectedStarterDepth))
		for _, position := range positionOrder {
			expected := expectedStarterDepth[position]
			count := len(grouped[position])
			ratio := float64(count) / float64(expected)
			strengths[position] = PositionStrength{
				Count: count,
				Ratio: roundTo(ratio, 2),
				Label: strengthLabel(ratio),
			}
			ratios = append(ratios, ratioEntry{position, ratio})
		}
		sort.SliceStable(ratios, func(i, j int) bool { return ratios[i].ratio < ratios[j].ratio })
		weakest := []string{ratios[0].position, ratios[1].position}

		starterValue := roundTo(
			topPositionValue(grouped["QB"], 1)+
				topPositionValue(grouped["RB"], 2)+
				topPositionValue(grouped["WR"], 2)+
				topPositionValue(grouped["TE"], 1), 0)

		// Portfolio-level fallback only; individual players never get a
		// guessed age.
		avgAge := 26.0
		if ageCount > 0 {
			avgAge = roundTo(ageSum/float64(ageCount), 1)
		}

		remaining := leagueBudget - roster.Settings.WaiverBudgetUsed
		if remaining < 0 {
			remaining = 0
		}
		if remaining > leagueBudget {
			remaining = leagueBudget
		}

		contexts[roster.OwnerID] = RosterContext{
			PositionStrengths: strengths,
			WeakPositions:     weakest,
			AvgRosterAge:      avgAge,
			StarterValue:      starterValue,
			FaabRemaining:     remaining,
			WindowTag:         deriveWindowTag(avgAge, starterValue),
		}
	}

	return contexts
}

func strengthLabel(ratio float64) string {
	switch {
	case ratio >= 1.2:
		return "Elite"
	case ratio >= 0.95:
		return "Strong"
	case ratio >= 0.75:
		return "Average"
	}
	return "WEAK"
}

func defaultRosterContext() RosterContext {
	neutral := func() PositionStrength { return PositionStrength{Label: "Average"} }
	return RosterContext{
		PositionStrengths: map[string]PositionStrength{
			"QB": neutral(), "RB": neutral(), "WR": neutral(), "TE": neutral(),
		},
		WeakPositions: []string{"RB", "TE"},
		AvgRosterAge:  26.0,
		StarterValue:  30000,
		FaabRemaining: 50,
		WindowTag:     "Competitive",
	}
}

// deriveWindowTag classifies a roster's competitive phase from its age and
// starter value.
func deriveWindowTag(avgAge, starterValue float64) string {
	if starterValue >= 36000 && avgAge >= 24.5 && avgAge <= 28.0 {
		return "Contender"
	}
	if avgAge < 24.8 {
		return "Rebuilder"
	}
	if starterValue < 28000 && avgAge > 27.5 {
		return "Tanking"
	}
	return "Competitive"
}

func deriveTradePattern(manager *ManagerProfile) *TradePattern {
	topPosition := manager.TopPositionAdds
	if topPosition == "" || topPosition == "N/A" {
		topPosition = "WR"
	}
	pattern := &TradePattern{
		Buys:   "young WRs, draft picks",
		Sells:  "bench depth, aging pieces",
		Avoids: "1-for-1 QB swaps",
	}
	if topPosition == "RB" {
		pattern.Buys = "RB depth, immediate starters"
	}
	if topPosition == "WR" {
		pattern.Sells = "aging RBs, fringe veterans"
	}
	if manager.TradeFriendlinessScore <= 3 {
		pattern.Avoids = "high-variance packages"
	}
	return pattern
}

// FaabPredictor is the projected bid range for a manager's next waiver claim.
type FaabPredictor struct {
	Low        int    `json:"low"`
	High       int    `json:"high"`
	Confidence string `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}

// BuildFaabPredictor projects a bid range from historical bids and aggression;
// confidence tracks how much waiver history backs the estimate.
func BuildFaabPredictor(manager *ManagerProfile) *FaabPredictor {
	base := manager.AvgFaabBid
	if base == 0 {
		base = 8
	}
	spread := math.Max(2, math.Round(base*(0.2+manager.AggressionScore/180)))
	low := int(math.Max(1, math.Round(base-spread*0.5)))
	high := int(math.Max(float64(low+1), math.Round(base+spread)))

	confidence := "Low"
	switch {
	case manager.WaiverCount >= 18:
		confidence = "High"
	case manager.WaiverCount >= 8:
		confidence = "Medium"
	}

	reasoning := fmt.Sprintf(
		"Needs at %s, style %q, and aggression %.1f/10 suggest a %s confidence bid range.",
		strings.Join(manager.WeakPositions, ", "), manager.ProfileLabel,
		roundTo(manager.AggressionScore/10, 1), strings.ToLower(confidence),
	)
	return &FaabPredictor{Low: low, High: high, Confidence: confidence, Reasoning: reasoning}
}
