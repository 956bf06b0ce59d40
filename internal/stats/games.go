package stats

import (
	"math"
	"sort"

	"github.com/omarshaarawi/leaguehub/internal/models"
)

// Games pairs matchup records sharing a matchup id within each league-week.
// The two highest scorers of a group form the game; records without a
// matchup id never pair.
func (e *Engine) Games(contexts []models.LeagueContext, weeks []models.WeekMatchups) []models.Game {
	byLeague := make(map[string]models.LeagueContext, len(contexts))
	for _, lc := range contexts {
		if _, ok := byLeague[lc.LeagueID]; !ok {
			byLeague[lc.LeagueID] = lc
		}
	}

	games := []models.Game{}
	for _, row := range weeks {
		lc, ok := byLeague[row.LeagueID]
		if !ok {
			lc = models.LeagueContext{LeagueID: row.LeagueID}
		}

		var order []int
		groups := make(map[int][]models.MatchupRecord)
		for _, m := range row.Matchups {
			if !m.HasMatchup {
				continue
			}
			if _, seen := groups[m.MatchupID]; !seen {
				order = append(order, m.MatchupID)
			}
			groups[m.MatchupID] = append(groups[m.MatchupID], m)
		}

		for _, id := range order {
			group := groups[id]
			if len(group) < 2 {
				continue
			}
			sort.SliceStable(group, func(i, j int) bool {
				return group[i].Points > group[j].Points
			})
			a, b := group[0], group[1]
			games = append(games, models.Game{
				LeagueID: row.LeagueID,
				Season:   row.Season,
				Week:     row.Week,
				RosterA:  a.RosterID,
				RosterB:  b.RosterID,
				TeamA:    lc.OwnerName(a.RosterID),
				TeamB:    lc.OwnerName(b.RosterID),
				PointsA:  a.Points,
				PointsB:  b.Points,
				Margin:   math.Abs(a.Points - b.Points),
				Total:    a.Points + b.Points,
			})
		}
	}
	return games
}
