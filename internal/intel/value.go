// Package intel derives adversarial manager profiles from multi-season league
// transaction history. Everything in this package is pure computation over
// already-fetched season data; fetching and caching live in internal/service.
package intel

import (
	"math"
	"sort"

	"league-intel/internal/domain"
)

var valueBaseByPosition = map[string]float64{
	"QB": 5200,
	"RB": 3600,
	"WR": 3800,
	"TE": 2600,
}

// NormalizePosition maps a raw position token onto the four positions the
// engine tracks. Anything else (K, DEF, empty, unknown) normalizes to "".
func NormalizePosition(position string) string {
	switch position {
	case "QB", "RB", "WR", "TE":
		return position
	}
	return ""
}

// EstimateValue is the deterministic position+age trade-value heuristic. An
// unresolvable position is priced as WR; an unresolvable age keeps the base
// value unscaled.
func EstimateValue(player domain.PlayerRecord) float64 {
	position := NormalizePosition(player.Position)
	if position == "" {
		position = "WR"
	}
	base := valueBaseByPosition[position]

	age, ok := player.InferredAge()
	if !ok {
		return base
	}

	var adjustment float64
	switch {
	case age <= 23:
		adjustment = 1.22
	case age <= 26:
		adjustment = 1.08
	case age <= 29:
		adjustment = 0.92
	default:
		adjustment = 0.74
	}
	return base * adjustment
}

// topPositionValue sums the highest-estimated values among players, capped at
// the number of starter slots for the position.
func topPositionValue(players []domain.PlayerRecord, starters int) float64 {
	values := make([]float64, 0, len(players))
	for _, player := range players {
		values = append(values, EstimateValue(player))
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	if starters > len(values) {
		starters = len(values)
	}
	var sum float64
	for _, value := range values[:starters] {
		sum += value
	}
	return sum
}

func roundTo(value float64, digits int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	factor := math.Pow(10, float64(digits))
	return math.Round(value*factor) / factor
}

func clampFloat(value, min, max float64) float64 {
	return math.Min(math.Max(value, min), max)
}
