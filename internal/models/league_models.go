package models

import (
	"fmt"
	"time"
)

type Division string

const (
	NFC Division = "NFC"
	AFC Division = "AFC"
)

// Divisions lists both conferences in display order.
var Divisions = []Division{NFC, AFC}

func (d Division) Valid() bool {
	return d == NFC || d == AFC
}

type Member struct {
	ID          string
	DisplayName string
}

// Roster carries the authoritative season aggregates for one team.
type Roster struct {
	RosterID      int
	OwnerID       string
	Wins          int
	Losses        int
	PointsFor     float64
	PointsAgainst float64
}

// LeagueContext is one season's league: its label, members and rosters.
type LeagueContext struct {
	LeagueID string
	Season   string
	Members  []Member
	Rosters  []Roster
}

// OwnerName resolves a roster to its owner's display name, or "Roster N" when
// the roster or its owner is unknown.
func (c LeagueContext) OwnerName(rosterID int) string {
	if m, ok := c.Owner(rosterID); ok && m.DisplayName != "" {
		return m.DisplayName
	}
	return fmt.Sprintf("Roster %d", rosterID)
}

func (c LeagueContext) Owner(rosterID int) (Member, bool) {
	for _, r := range c.Rosters {
		if r.RosterID != rosterID {
			continue
		}
		if r.OwnerID == "" {
			return Member{}, false
		}
		return c.Member(r.OwnerID)
	}
	return Member{}, false
}

func (c LeagueContext) Member(id string) (Member, bool) {
	for _, m := range c.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// MatchupRecord is one roster's score for one week. HasMatchup is false when
// the record carries no grouping key.
type MatchupRecord struct {
	RosterID   int
	MatchupID  int
	HasMatchup bool
	Points     float64
}

type WeekMatchups struct {
	LeagueID string
	Season   string
	Week     int
	Matchups []MatchupRecord
}

// Game pairs the two sides of one matchup group. TeamA is the higher scorer.
type Game struct {
	LeagueID string
	Season   string
	Week     int
	RosterA  int
	RosterB  int
	TeamA    string
	TeamB    string
	PointsA  float64
	PointsB  float64
	Margin   float64
	Total    float64
}

type PowerScore struct {
	Team          string
	Score         float64
	Wins          int
	Losses        int
	PointsFor     float64
	PointsAgainst float64
	AvgPerWeek    float64
	Division      Division
}

// Differential is wins minus losses, the primary standings key.
func (p PowerScore) Differential() int {
	return p.Wins - p.Losses
}

type DivisionStandings struct {
	Division Division
	Teams    []PowerScore
}

// ConferenceBracket holds up to three seeds for one division. Seed 1 has the
// bye; seeds 2 and 3 meet in the wildcard round.
type ConferenceBracket struct {
	Division Division
	Seeds    []PowerScore
}

func (b ConferenceBracket) Seed(n int) (PowerScore, bool) {
	if n < 1 || n > len(b.Seeds) {
		return PowerScore{}, false
	}
	return b.Seeds[n-1], true
}

type RivalryRecord struct {
	TeamA      string
	TeamB      string
	Alias      string
	WinsA      int
	WinsB      int
	Ties       int
	TotalGames int
	AvgPointsA float64
	AvgPointsB float64
}

type SeasonTotal struct {
	Team   string
	Season string
	Points float64
	Games  int
}

// PastRecord is a per-season honour: Record is a W-L string or a final score.
type PastRecord struct {
	Season string
	Team   string
	Record string
}

type LeagueRecords struct {
	SeasonHighs        []SeasonTotal
	SeasonLows         []SeasonTotal
	Blowouts           []Game
	HighestCombined    []Game
	BestRegularSeasons []PastRecord
	Champions          []PastRecord
}

const (
	TransactionWaiver    = "waiver"
	TransactionFreeAgent = "free_agent"
	TransactionTrade     = "trade"
	StatusComplete       = "complete"
)

type Transaction struct {
	Type         string
	Status       string
	UpdatedAt    time.Time
	AddRosterIDs []int
	RosterIDs    []int
}

type LedgerEntry struct {
	Owner  string
	Adds   int
	Trades int
	Total  int
}

// Snapshot is the current league's members and rosters plus any warning
// explaining why either list is stale or demo data.
type Snapshot struct {
	Members        []Member
	Rosters        []Roster
	MembersWarning string
	RostersWarning string
}

// Warning returns the first non-empty warning.
func (s Snapshot) Warning() string {
	if s.MembersWarning != "" {
		return s.MembersWarning
	}
	return s.RostersWarning
}

type CollectionStatus string

const (
	CollectionIdle             CollectionStatus = "idle"
	CollectionFetchingContexts CollectionStatus = "fetching_contexts"
	CollectionFetchingMatchups CollectionStatus = "fetching_matchups"
	CollectionDone             CollectionStatus = "done"
)

// History is everything the historical collector gathered. Error is set only
// for collection-level failures; partial data stays usable.
type History struct {
	Status          CollectionStatus
	Error           string
	CurrentLeagueID string
	Contexts        []LeagueContext
	Weeks           []WeekMatchups
}

// Ledger is one all-or-nothing transaction sync.
type Ledger struct {
	From     time.Time
	To       time.Time
	Entries  []LedgerEntry
	Error    string
	SyncedAt time.Time
}
