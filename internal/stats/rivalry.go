package stats

import (
	"github.com/omarshaarawi/leaguehub/internal/models"
)

// Rivalries tallies the all-time head-to-head for each configured pairing,
// regardless of which side of a game each team landed on. Pairings that never
// met are dropped.
func (e *Engine) Rivalries(games []models.Game) []models.RivalryRecord {
	out := []models.RivalryRecord{}
	for _, rv := range e.league.Rivalries {
		if len(rv.Teams) != 2 {
			continue
		}
		rec := models.RivalryRecord{TeamA: rv.Teams[0], TeamB: rv.Teams[1], Alias: rv.Alias}

		var totalA, totalB float64
		for _, g := range games {
			var ptsA, ptsB float64
			switch {
			case g.TeamA == rec.TeamA && g.TeamB == rec.TeamB:
				ptsA, ptsB = g.PointsA, g.PointsB
			case g.TeamA == rec.TeamB && g.TeamB == rec.TeamA:
				ptsA, ptsB = g.PointsB, g.PointsA
			default:
				continue
			}

			rec.TotalGames++
			totalA += ptsA
			totalB += ptsB
			switch {
			case ptsA > ptsB:
				rec.WinsA++
			case ptsB > ptsA:
				rec.WinsB++
			default:
				rec.Ties++
			}
		}

		if rec.TotalGames == 0 {
			continue
		}
		rec.AvgPointsA = totalA / float64(rec.TotalGames)
		rec.AvgPointsB = totalB / float64(rec.TotalGames)
		out = append(out, rec)
	}
	return out
}
