package intel

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"league-intel/internal/domain"
)

// Weights for the aggression composite. Trade and draft-pick activity are the
// stronger signals; waiver churn counts but at a discount.
const (
	weightTradeCount     = 2.4
	weightWaiverCount    = 1.1
	weightDraftPickMoves = 1.6
	weightAvgBidPct      = 35.0
	weightChurnMoves     = 0.08
)

// Tone selects the wording set for profile labels.
type Tone string

const (
	ToneIntel    Tone = "intel"
	ToneTerminal Tone = "terminal"
)

type Options struct {
	ProfileTone          Tone
	IncludeTradeTimeline bool
}

func DefaultOptions() Options {
	return Options{ProfileTone: ToneIntel, IncludeTradeTimeline: true}
}

// ManagerAccumulator is the mutable per-manager aggregation unit. One exists
// for every distinct user id observed anywhere in the processed season set;
// accumulators are created lazily, mutated additively, and never deleted.
type ManagerAccumulator struct {
	UserID             string
	DisplayName        string
	Seasons            map[string]struct{}
	TotalTransactions  int
	WaiverCount        int
	TradeCount         int
	FaabBidSum         float64
	FaabBidCount       int
	FaabMaxBid         int
	FaabBudgetObserved int
	DraftPickMoves     int
	AddCount           int
	DropCount          int
	PositionAdds       map[string]int
	PositionDrops      map[string]int
	Counterparties     map[string]int
	TradeTimeline      []TimelineEvent
}

// TimelineEvent is one signed value-delta entry of a manager's trade history.
// Timestamp comes from the source transaction, never from the wall clock.
type TimelineEvent struct {
	Timestamp int64   `json:"timestamp"`
	DateLabel string  `json:"date_label"`
	Summary   string  `json:"summary"`
	Delta     float64 `json:"delta"`
}

// accumulatorSet keeps accumulators in first-seen order so that repeated runs
// over the same input produce identical output.
type accumulatorSet struct {
	byID  map[string]*ManagerAccumulator
	order []string
}

func newAccumulatorSet() *accumulatorSet {
	return &accumulatorSet{byID: make(map[string]*ManagerAccumulator)}
}

// ensure returns the accumulator for userID, creating a zeroed one on first
// reference. A non-empty display name overwrites the stored one, so with
// newest-first season order the most recent non-empty name wins.
func (s *accumulatorSet) ensure(userID, displayName string) *ManagerAccumulator {
	if userID == "" {
		// Throwaway unit for unresolvable ids; never registered.
		return newAccumulator("", "Unknown")
	}
	acc, ok := s.byID[userID]
	if !ok {
		name := displayName
		if name == "" {
			tag := userID
			if len(tag) > 4 {
				tag = tag[:4]
			}
			name = "Manager " + tag
		}
		acc = newAccumulator(userID, name)
		s.byID[userID] = acc
		s.order = append(s.order, userID)
		return acc
	}
	if displayName != "" {
		acc.DisplayName = displayName
	}
	return acc
}

func newAccumulator(userID, displayName string) *ManagerAccumulator {
	return &ManagerAccumulator{
		UserID:             userID,
		DisplayName:        displayName,
		Seasons:            make(map[string]struct{}),
		FaabBudgetObserved: 100,
		PositionAdds:       make(map[string]int),
		PositionDrops:      make(map[string]int),
		Counterparties:     make(map[string]int),
	}
}

// seasonIndex is the per-season resolution context. Roster ids are
// season-scoped, so the index is rebuilt for every season and never shared.
type seasonIndex struct {
	ownerByRosterID  map[string]string
	rosterIDsByOwner map[string][]string
	displayByUserID  map[string]string
	waiverBudget     int
}

func indexSeason(season domain.SeasonData) *seasonIndex {
	idx := &seasonIndex{
		ownerByRosterID:  make(map[string]string),
		rosterIDsByOwner: make(map[string][]string),
		displayByUserID:  make(map[string]string),
		waiverBudget:     season.League.WaiverBudget(),
	}
	for _, user := range season.Users {
		if user.UserID == "" {
			continue
		}
		idx.displayByUserID[user.UserID] = user.Name()
	}
	for _, roster := range season.Rosters {
		if roster.RosterID == 0 || roster.OwnerID == "" {
			continue
		}
		rosterID := strconv.Itoa(roster.RosterID)
		idx.ownerByRosterID[rosterID] = roster.OwnerID
		idx.rosterIDsByOwner[roster.OwnerID] = append(idx.rosterIDsByOwner[roster.OwnerID], rosterID)
	}
	return idx
}

// resolveParticipants builds the deduplicated participant user-id set from
// roster_ids, consenter_ids and the creator, each resolved through the
// season's owner map. Unresolved ids fall back to the raw token so drafted or
// virtual rosters do not silently vanish.
func resolveParticipants(tx domain.Transaction, idx *seasonIndex) []string {
	var ids []string
	seen := make(map[string]struct{})
	push := func(candidate string) {
		if candidate == "" {
			return
		}
		resolved := candidate
		if owner, ok := idx.ownerByRosterID[candidate]; ok {
			resolved = owner
		}
		if _, dup := seen[resolved]; dup {
			return
		}
		seen[resolved] = struct{}{}
		ids = append(ids, resolved)
	}

	for _, rosterID := range tx.RosterIDs {
		push(strconv.Itoa(rosterID))
	}
	for _, rosterID := range tx.ConsenterIDs {
		push(strconv.Itoa(rosterID))
	}
	push(tx.Creator)
	return ids
}

// Summary is the league-wide roll-up across every processed season.
type Summary struct {
	SeasonsAnalyzed   int     `json:"seasons_analyzed"`
	LeaguesTraversed  int     `json:"leagues_traversed"`
	TotalTransactions int     `json:"total_transactions"`
	TotalWaivers      int     `json:"total_waivers"`
	TotalTrades       int     `json:"total_trades"`
	TotalFaabBid      float64 `json:"total_faab_bid"`
	ManagersAnalyzed  int     `json:"managers_analyzed"`
}

// Report is the finalized output consumed by the UI layer.
type Report struct {
	Summary  Summary           `json:"summary"`
	Managers []*ManagerProfile `json:"managers"`
}

// BuildReport folds all completed transactions across the supplied seasons
// into per-manager profiles. Seasons are processed in the order supplied, so
// the caller controls display-name precedence; transactions keep source order.
func BuildReport(seasons []domain.SeasonData, myUserID string, playersByID map[string]domain.PlayerRecord, opts Options) *Report {
	accs := newAccumulatorSet()
	var totalTransactions, totalWaivers, totalTrades int
	var totalFaabBid float64

	for _, season := range seasons {
		idx := indexSeason(season)
		seasonLabel := season.League.Season

		// Zero-activity managers still appear in the final report.
		for _, roster := range season.Rosters {
			if roster.RosterID == 0 || roster.OwnerID == "" {
				continue
			}
			accs.ensure(roster.OwnerID, idx.displayByUserID[roster.OwnerID])
		}

		for _, tx := range season.Transactions {
			if !tx.IsCompleted() {
				continue
			}
			totalTransactions++
			txType := strings.ToLower(tx.Type)
			if txType == "" {
				txType = "unknown"
			}
			if txType == "waiver" {
				totalWaivers++
			}
			if txType == "trade" {
				totalTrades++
			}

			participants := resolveParticipants(tx, idx)
			if len(participants) == 0 {
				continue
			}

			for _, userID := range participants {
				acc := accs.ensure(userID, idx.displayByUserID[userID])
				acc.Seasons[seasonLabel] = struct{}{}
				acc.TotalTransactions++
			}

			if txType == "waiver" || txType == "free_agent" {
				// FAAB stats apply identically to every resolved participant.
				// Waiver claims are manager-scoped upstream, so this set is a
				// singleton in practice; the code does not enforce it.
				bid := tx.WaiverBid()
				if bid > 0 {
					totalFaabBid += float64(bid)
				}
				for _, userID := range participants {
					acc := accs.ensure(userID, idx.displayByUserID[userID])
					acc.WaiverCount++
					if bid > 0 {
						acc.FaabBidSum += float64(bid)
						acc.FaabBidCount++
						if bid > acc.FaabMaxBid {
							acc.FaabMaxBid = bid
						}
						if idx.waiverBudget > acc.FaabBudgetObserved {
							acc.FaabBudgetObserved = idx.waiverBudget
						}
					}
				}
			}

			if txType == "trade" {
				for _, userID := range participants {
					acc := accs.ensure(userID, idx.displayByUserID[userID])
					acc.TradeCount++
					// Full pairwise adjacency, deliberately not deduplicated
					// for multi-party trades; downstream scores are calibrated
					// against this counting.
					for _, counterpart := range participants {
						if counterpart == userID {
							continue
						}
						acc.Counterparties[counterpart]++
					}
				}

				for _, pick := range tx.DraftPicks {
					if pick.OwnerID == 0 {
						continue
					}
					ownerID := strconv.Itoa(pick.OwnerID)
					if resolved, ok := idx.ownerByRosterID[ownerID]; ok {
						ownerID = resolved
					}
					acc := accs.ensure(ownerID, idx.displayByUserID[ownerID])
					acc.DraftPickMoves++
				}

				if opts.IncludeTradeTimeline {
					appendTradeTimeline(tx, season.League, participants, idx, accs, playersByID)
				}
			}

			walkAddDrop(tx.Adds, idx, accs, playersByID, func(acc *ManagerAccumulator, position string) {
				acc.AddCount++
				if position != "" {
					acc.PositionAdds[position]++
				}
			})
			walkAddDrop(tx.Drops, idx, accs, playersByID, func(acc *ManagerAccumulator, position string) {
				acc.DropCount++
				if position != "" {
					acc.PositionDrops[position]++
				}
			})
		}
	}

	managers := make([]*ManagerProfile, 0, len(accs.order))
	for _, userID := range accs.order {
		managers = append(managers, finalizeProfile(accs.byID[userID], myUserID, opts.ProfileTone))
	}

	// Cohort-relative rescaling: recomputed once over the whole cohort, with a
	// floor of 1 so an all-zero cohort yields 0 rather than NaN.
	maxRaw := 1.0
	for _, manager := range managers {
		if manager.AggressionRaw > maxRaw {
			maxRaw = manager.AggressionRaw
		}
	}
	for _, manager := range managers {
		manager.AggressionScore = roundTo(manager.AggressionRaw/maxRaw*100, 1)
	}

	sort.SliceStable(managers, func(i, j int) bool {
		return managers[i].AggressionScore > managers[j].AggressionScore
	})

	return &Report{
		Summary: Summary{
			SeasonsAnalyzed:   len(seasons),
			LeaguesTraversed:  len(seasons),
			TotalTransactions: totalTransactions,
			TotalWaivers:      totalWaivers,
			TotalTrades:       totalTrades,
			TotalFaabBid:      roundTo(totalFaabBid, 0),
			ManagersAnalyzed:  len(managers),
		},
		Managers: managers,
	}
}

func walkAddDrop(moves map[string]int, idx *seasonIndex, accs *accumulatorSet, playersByID map[string]domain.PlayerRecord, apply func(*ManagerAccumulator, string)) {
	for _, playerID := range sortedKeys(moves) {
		rosterID := strconv.Itoa(moves[playerID])
		ownerID, ok := idx.ownerByRosterID[rosterID]
		if !ok {
			continue
		}
		acc := accs.ensure(ownerID, idx.displayByUserID[ownerID])
		apply(acc, NormalizePosition(playersByID[playerID].Position))
	}
}

func appendTradeTimeline(tx domain.Transaction, league domain.League, participants []string, idx *seasonIndex, accs *accumulatorSet, playersByID map[string]domain.PlayerRecord) {
	seasonYear := league.SeasonYear()

	for _, userID := range participants {
		acc := accs.ensure(userID, idx.displayByUserID[userID])
		ownRosters := make(map[string]struct{})
		for _, rosterID := range idx.rosterIDsByOwner[userID] {
			ownRosters[rosterID] = struct{}{}
		}

		var received, sent []string
		for _, playerID := range sortedKeys(tx.Adds) {
			if _, ok := ownRosters[strconv.Itoa(tx.Adds[playerID])]; ok {
				received = append(received, playerID)
			}
		}
		for _, playerID := range sortedKeys(tx.Drops) {
			if _, ok := ownRosters[strconv.Itoa(tx.Drops[playerID])]; ok {
				sent = append(sent, playerID)
			}
		}

		var receivedValue, sentValue float64
		for _, playerID := range received {
			receivedValue += EstimateValue(playersByID[playerID])
		}
		for _, playerID := range sent {
			sentValue += EstimateValue(playersByID[playerID])
		}

		var counterparts []string
		for _, other := range participants {
			if other == userID {
				continue
			}
			name := idx.displayByUserID[other]
			if name == "" {
				name = "user-" + other
			}
			counterparts = append(counterparts, name)
		}
		versus := strings.Join(counterparts, ", ")
		if versus == "" {
			versus = "league"
		}

		dateLabel := "Trade"
		if seasonYear != 0 {
			dateLabel = fmt.Sprintf("%d W%d", seasonYear, tx.Week)
		}

		acc.TradeTimeline = append(acc.TradeTimeline, TimelineEvent{
			Timestamp: tx.Timestamp(),
			DateLabel: dateLabel,
			Summary:   fmt.Sprintf("Sent %d · Received %d vs %s", len(sent), len(received), versus),
			Delta:     roundTo(receivedValue-sentValue, 0),
		})
	}
}

// sortedKeys gives map walks a fixed order; adds/drops maps have no inherent
// order and the report must be deterministic over identical input.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
