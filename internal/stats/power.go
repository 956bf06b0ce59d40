package stats

import (
	"sort"

	"github.com/omarshaarawi/leaguehub/internal/models"
)

const (
	pointsWeight = 0.7
	winsWeight   = 0.3
	neutralWin   = 50.0
)

// PowerScores ranks every member by 0.7*pfPct + 0.3*winPct, highest first.
// A member without a roster scores as an empty record.
func (e *Engine) PowerScores(members []models.Member, rosters []models.Roster) []models.PowerScore {
	if len(members) == 0 {
		return []models.PowerScore{}
	}

	byOwner := make(map[string]models.Roster, len(rosters))
	maxPF := 1.0
	for _, r := range rosters {
		if r.OwnerID != "" {
			byOwner[r.OwnerID] = r
		}
		maxPF = max(maxPF, r.PointsFor)
	}

	scores := make([]models.PowerScore, 0, len(members))
	for _, m := range members {
		r := byOwner[m.ID]
		scores = append(scores, models.PowerScore{
			Team:          m.DisplayName,
			Score:         PowerScore(r.PointsFor, maxPF, r.Wins, r.Losses),
			Wins:          r.Wins,
			Losses:        r.Losses,
			PointsFor:     r.PointsFor,
			PointsAgainst: r.PointsAgainst,
			AvgPerWeek:    AvgPerWeek(r.PointsFor, r.Wins, r.Losses),
			Division:      e.Division(m.DisplayName),
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores
}

func PowerScore(pointsFor, maxPF float64, wins, losses int) float64 {
	return pointsWeight*PointsPct(pointsFor, maxPF) + winsWeight*WinPct(wins, losses)
}

func PointsPct(pointsFor, maxPF float64) float64 {
	return pointsFor / max(1, maxPF) * 100
}

// WinPct defaults to a neutral 50 before any game is decided.
func WinPct(wins, losses int) float64 {
	if wins+losses <= 0 {
		return neutralWin
	}
	return float64(wins) / float64(wins+losses) * 100
}

func AvgPerWeek(pointsFor float64, wins, losses int) float64 {
	return pointsFor / float64(max(1, wins+losses))
}
