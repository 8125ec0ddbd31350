package domain

import "strconv"

// League is one season's competitive instance. Leagues form a singly linked
// list backward through seasons via PreviousLeagueID.
type League struct {
	LeagueID         string         `json:"league_id"`
	Name             string         `json:"name"`
	Season           string         `json:"season"`
	PreviousLeagueID string         `json:"previous_league_id"`
	TotalRosters     int            `json:"total_rosters"`
	Settings         LeagueSettings `json:"settings"`
}

type LeagueSettings struct {
	WaiverBudget int `json:"waiver_budget"`
}

// WaiverBudget returns the configured FAAB budget, defaulting to 100 when the
// league never reported one.
func (l League) WaiverBudget() int {
	if l.Settings.WaiverBudget > 0 {
		return l.Settings.WaiverBudget
	}
	return 100
}

// SeasonYear parses the season label, 0 when unparsable.
func (l League) SeasonYear() int {
	year, err := strconv.Atoi(l.Season)
	if err != nil {
		return 0
	}
	return year
}

type User struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
}

// Name prefers display_name, falls back to username, then a derived tag.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Username != "" {
		return u.Username
	}
	return "user-" + u.UserID
}

// Roster is a per-season ownership record. RosterID is season-scoped, never
// globally unique; it must be resolved together with its owning league.
type Roster struct {
	RosterID int            `json:"roster_id"`
	OwnerID  string         `json:"owner_id"`
	CoOwners []string       `json:"co_owners"`
	Players  []string       `json:"players"`
	Reserve  []string       `json:"reserve"`
	Taxi     []string       `json:"taxi"`
	Settings RosterSettings `json:"settings"`
}

type RosterSettings struct {
	WaiverBudgetUsed int `json:"waiver_budget_used"`
}

// AllPlayerIDs returns active, reserve and taxi slots concatenated.
func (r Roster) AllPlayerIDs() []string {
	out := make([]string, 0, len(r.Players)+len(r.Reserve)+len(r.Taxi))
	out = append(out, r.Players...)
	out = append(out, r.Reserve...)
	out = append(out, r.Taxi...)
	return out
}

// Transaction is an immutable historical event from the league transaction log.
// Adds and Drops map player id to the roster id the player moved onto / off of.
type Transaction struct {
	Type          string               `json:"type"`
	Status        string               `json:"status"`
	RosterIDs     []int                `json:"roster_ids"`
	ConsenterIDs  []int                `json:"consenter_ids"`
	Creator       string               `json:"creator"`
	Adds          map[string]int       `json:"adds"`
	Drops         map[string]int       `json:"drops"`
	DraftPicks    []DraftPick          `json:"draft_picks"`
	Settings      *TransactionSettings `json:"settings"`
	StatusUpdated int64                `json:"status_updated"`
	Created       int64                `json:"created"`

	// Week is the regular-season week the transaction was fetched from,
	// tagged by the season loader.
	Week int `json:"_week"`
}

type DraftPick struct {
	Season  string `json:"season"`
	Round   int    `json:"round"`
	OwnerID int    `json:"owner_id"`
}

type TransactionSettings struct {
	WaiverBid int `json:"waiver_bid"`
}

// WaiverBid returns the FAAB bid attached to a waiver/free-agent claim, 0 when
// settings are absent.
func (t Transaction) WaiverBid() int {
	if t.Settings == nil {
		return 0
	}
	return t.Settings.WaiverBid
}

// Timestamp prefers status_updated over created, matching how the source feed
// reports completion time.
func (t Transaction) Timestamp() int64 {
	if t.StatusUpdated != 0 {
		return t.StatusUpdated
	}
	return t.Created
}

// IsCompleted reports whether the transaction counts for aggregation. A missing
// status is treated as completed; pending/vetoed entries are excluded.
func (t Transaction) IsCompleted() bool {
	switch t.Status {
	case "", "complete", "completed", "accepted":
		return true
	}
	return false
}

// PlayerRecord is the subset of the player catalog the engine needs. Age and
// YearsExp are optional in the upstream catalog.
type PlayerRecord struct {
	PlayerID  string `json:"player_id"`
	FullName  string `json:"full_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	Age       *int   `json:"age"`
	YearsExp  *int   `json:"years_exp"`
	Team      string `json:"team"`
	Status    string `json:"status"`
}

// InferredAge resolves a player's age from the explicit field, else 21 plus
// years of experience. The second return is false when neither is available;
// callers must not substitute a guessed per-player age.
func (p PlayerRecord) InferredAge() (float64, bool) {
	if p.Age != nil {
		return float64(*p.Age), true
	}
	if p.YearsExp != nil {
		return float64(21 + *p.YearsExp), true
	}
	return 0, false
}

// SeasonData bundles everything the engine needs for one league season.
type SeasonData struct {
	League       League        `json:"league"`
	Users        []User        `json:"users"`
	Rosters      []Roster      `json:"rosters"`
	Transactions []Transaction `json:"transactions"`
}
