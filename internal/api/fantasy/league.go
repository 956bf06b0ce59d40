package fantasy

import (
	"context"
	"sort"
	"time"

	"github.com/omarshaarawi/leaguehub/internal/api/sleeper"
	"github.com/omarshaarawi/leaguehub/internal/models"
)

// API maps Sleeper wire records onto league entities. A false ok means the
// underlying fetch failed.
type API struct {
	sleeperAPI *sleeper.API
}

func NewAPI(sleeperAPI *sleeper.API) *API {
	return &API{sleeperAPI: sleeperAPI}
}

func (a *API) Season(ctx context.Context, leagueID string) (string, bool) {
	league, ok := a.sleeperAPI.League(ctx, leagueID)
	if !ok {
		return "", false
	}
	return SeasonOf(league), true
}

func (a *API) Members(ctx context.Context, leagueID string) ([]models.Member, bool) {
	users, ok := a.sleeperAPI.Users(ctx, leagueID)
	if !ok {
		return nil, false
	}
	members := make([]models.Member, len(users))
	for i, u := range users {
		members[i] = ToMember(u)
	}
	return members, true
}

func (a *API) Rosters(ctx context.Context, leagueID string) ([]models.Roster, bool) {
	raw, ok := a.sleeperAPI.Rosters(ctx, leagueID)
	if !ok {
		return nil, false
	}
	rosters := make([]models.Roster, len(raw))
	for i, r := range raw {
		rosters[i] = ToRoster(r)
	}
	return rosters, true
}

// CurrentWeek reports the league-wide week. Zero is never a valid week, so a
// zero or missing value is reported as unknown.
func (a *API) CurrentWeek(ctx context.Context) (int, bool) {
	state, ok := a.sleeperAPI.State(ctx)
	if !ok {
		return 0, false
	}
	week := WeekOf(state)
	return week, week > 0
}

func (a *API) Matchups(ctx context.Context, leagueID string, week int) ([]models.MatchupRecord, bool) {
	raw, ok := a.sleeperAPI.Matchups(ctx, leagueID, week)
	if !ok {
		return nil, false
	}
	records := make([]models.MatchupRecord, len(raw))
	for i, m := range raw {
		records[i] = ToMatchupRecord(m)
	}
	return records, true
}

func (a *API) Transactions(ctx context.Context, leagueID string, week int) ([]models.Transaction, bool) {
	raw, ok := a.sleeperAPI.Transactions(ctx, leagueID, week)
	if !ok {
		return nil, false
	}
	txns := make([]models.Transaction, len(raw))
	for i, t := range raw {
		txns[i] = ToTransaction(t)
	}
	return txns, true
}

func SeasonOf(league *models.SleeperLeague) string {
	if league == nil {
		return ""
	}
	if league.Season != "" {
		return league.Season
	}
	if league.Metadata != nil {
		return league.Metadata.Season
	}
	return ""
}

// WeekOf prefers week over display_week.
func WeekOf(state *models.SleeperState) int {
	if state == nil {
		return 0
	}
	if state.Week > 0 {
		return state.Week
	}
	if state.DisplayWeek > 0 {
		return state.DisplayWeek
	}
	return 0
}

func ToMember(u models.SleeperUser) models.Member {
	return models.Member{ID: u.UserID, DisplayName: u.DisplayName}
}

func ToRoster(r models.SleeperRoster) models.Roster {
	roster := models.Roster{RosterID: r.RosterID, OwnerID: r.OwnerID}
	if s := r.Settings; s != nil {
		roster.Wins = s.Wins
		roster.Losses = s.Losses
		roster.PointsFor = s.Fpts + s.FptsDecimal/100
		roster.PointsAgainst = s.FptsAgainst + s.FptsAgainstDecimal/100
	}
	return roster
}

func ToMatchupRecord(m models.SleeperMatchup) models.MatchupRecord {
	rec := models.MatchupRecord{RosterID: m.RosterID}
	if m.MatchupID != nil {
		rec.MatchupID = *m.MatchupID
		rec.HasMatchup = true
	}
	if m.Points != nil {
		rec.Points = *m.Points
	}
	return rec
}

func ToTransaction(t models.SleeperTransaction) models.Transaction {
	txn := models.Transaction{
		Type:      t.Type,
		Status:    t.Status,
		RosterIDs: append([]int(nil), t.RosterIDs...),
	}
	if t.StatusUpdated > 0 {
		txn.UpdatedAt = time.UnixMilli(t.StatusUpdated)
	}

	players := make([]string, 0, len(t.Adds))
	for player := range t.Adds {
		players = append(players, player)
	}
	sort.Strings(players)
	for _, player := range players {
		txn.AddRosterIDs = append(txn.AddRosterIDs, t.Adds[player])
	}
	return txn
}
