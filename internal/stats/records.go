package stats

import (
	"fmt"
	"slices"
	"sort"

	"github.com/omarshaarawi/leaguehub/internal/models"
)

// SeasonTotals sums points and games per team per season, in first-seen order.
func SeasonTotals(games []models.Game) []models.SeasonTotal {
	type key struct{ season, team string }

	var order []key
	totals := make(map[key]*models.SeasonTotal)
	add := func(season, team string, pts float64) {
		k := key{season, team}
		t, ok := totals[k]
		if !ok {
			t = &models.SeasonTotal{Team: team, Season: season}
			totals[k] = t
			order = append(order, k)
		}
		t.Points += pts
		t.Games++
	}
	for _, g := range games {
		add(g.Season, g.TeamA, g.PointsA)
		add(g.Season, g.TeamB, g.PointsB)
	}

	out := make([]models.SeasonTotal, 0, len(order))
	for _, k := range order {
		out = append(out, *totals[k])
	}
	return out
}

func (e *Engine) SeasonHighs(games []models.Game) []models.SeasonTotal {
	totals := SeasonTotals(games)
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Points > totals[j].Points })
	return topN(totals, e.league.TopN)
}

func (e *Engine) SeasonLows(games []models.Game) []models.SeasonTotal {
	totals := SeasonTotals(games)
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Points < totals[j].Points })
	return topN(totals, e.league.TopN)
}

func (e *Engine) Blowouts(games []models.Game) []models.Game {
	sorted := slices.Clone(games)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Margin > sorted[j].Margin })
	return topN(sorted, e.league.TopN)
}

func (e *Engine) HighestCombined(games []models.Game) []models.Game {
	sorted := slices.Clone(games)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Total > sorted[j].Total })
	return topN(sorted, e.league.TopN)
}

// BestRegularSeasons picks the top roster of every completed season by wins,
// then points-for. The current league is excluded.
func (e *Engine) BestRegularSeasons(contexts []models.LeagueContext, currentLeagueID string) []models.PastRecord {
	out := []models.PastRecord{}
	for _, lc := range contexts {
		if lc.Season == "" || lc.LeagueID == currentLeagueID || len(lc.Rosters) == 0 {
			continue
		}
		rosters := slices.Clone(lc.Rosters)
		sort.SliceStable(rosters, func(i, j int) bool {
			if rosters[i].Wins != rosters[j].Wins {
				return rosters[i].Wins > rosters[j].Wins
			}
			return rosters[i].PointsFor > rosters[j].PointsFor
		})
		best := rosters[0]
		if best.OwnerID == "" {
			continue
		}
		m, ok := lc.Member(best.OwnerID)
		if !ok {
			continue
		}
		out = append(out, models.PastRecord{
			Season: lc.Season,
			Team:   m.DisplayName,
			Record: fmt.Sprintf("%d-%d", best.Wins, best.Losses),
		})
	}
	sortBySeasonDesc(out)
	return out
}

// Champions merges the configured champions with winners inferred from the
// championship matchup of each completed season. Configured entries win.
func (e *Engine) Champions(contexts []models.LeagueContext, weeks []models.WeekMatchups, currentLeagueID string) []models.PastRecord {
	currentSeason, cutoff := seasonCutoff(contexts, currentLeagueID)

	bySeason := make(map[string]models.PastRecord)
	for season, c := range e.league.Champions {
		if currentSeason != "" && season == currentSeason {
			continue
		}
		if cutoff > 0 && SeasonNumber(season) >= cutoff {
			continue
		}
		score := c.Score
		if score == "" {
			score = "N/A"
		}
		bySeason[season] = models.PastRecord{Season: season, Team: c.Team, Record: score}
	}

	for _, lc := range contexts {
		if lc.Season == "" || lc.LeagueID == currentLeagueID {
			continue
		}
		if _, ok := bySeason[lc.Season]; ok {
			continue
		}
		if rec, ok := e.inferChampion(lc, weeks); ok {
			bySeason[lc.Season] = rec
		}
	}

	out := make([]models.PastRecord, 0, len(bySeason))
	for _, rec := range bySeason {
		out = append(out, rec)
	}
	sortBySeasonDesc(out)
	return out
}

// seasonCutoff returns the current league's season label and the first
// season number that cannot have a champion yet. When the current league's
// metadata is missing the cutoff is one past the latest prior season.
func seasonCutoff(contexts []models.LeagueContext, currentLeagueID string) (string, int) {
	latest := 0
	for _, lc := range contexts {
		if lc.LeagueID == currentLeagueID {
			if lc.Season != "" {
				return lc.Season, SeasonNumber(lc.Season)
			}
			continue
		}
		latest = max(latest, SeasonNumber(lc.Season))
	}
	if latest == 0 {
		return "", 0
	}
	return "", latest + 1
}

func (e *Engine) inferChampion(lc models.LeagueContext, weeks []models.WeekMatchups) (models.PastRecord, bool) {
	idx := slices.IndexFunc(weeks, func(w models.WeekMatchups) bool {
		return w.LeagueID == lc.LeagueID && w.Week == e.league.Championship.Week
	})
	if idx < 0 {
		return models.PastRecord{}, false
	}

	var finalists []models.MatchupRecord
	for _, m := range weeks[idx].Matchups {
		if m.HasMatchup && m.MatchupID == e.league.Championship.MatchupID {
			finalists = append(finalists, m)
		}
	}
	if len(finalists) == 0 {
		return models.PastRecord{}, false
	}
	sort.SliceStable(finalists, func(i, j int) bool {
		return finalists[i].Points > finalists[j].Points
	})

	winner, ok := lc.Owner(finalists[0].RosterID)
	if !ok {
		return models.PastRecord{}, false
	}
	score := "N/A"
	if finalists[0].Points != 0 {
		score = FormatPoints(finalists[0].Points)
	}
	return models.PastRecord{Season: lc.Season, Team: winner.DisplayName, Record: score}, true
}

// Records computes every all-time table from collected history.
func (e *Engine) Records(h models.History) models.LeagueRecords {
	games := e.Games(h.Contexts, h.Weeks)
	return models.LeagueRecords{
		SeasonHighs:        e.SeasonHighs(games),
		SeasonLows:         e.SeasonLows(games),
		Blowouts:           e.Blowouts(games),
		HighestCombined:    e.HighestCombined(games),
		BestRegularSeasons: e.BestRegularSeasons(h.Contexts, h.CurrentLeagueID),
		Champions:          e.Champions(h.Contexts, h.Weeks, h.CurrentLeagueID),
	}
}

func sortBySeasonDesc(records []models.PastRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := SeasonNumber(records[i].Season), SeasonNumber(records[j].Season)
		if a != b {
			return a > b
		}
		return records[i].Season > records[j].Season
	})
}
