package stats

import (
	"slices"
	"sort"
	"strings"

	"github.com/omarshaarawi/leaguehub/internal/models"
)

type SortKey string

const (
	SortRank          SortKey = "rank"
	SortTeam          SortKey = "team"
	SortRecord        SortKey = "record"
	SortPointsFor     SortKey = "pf"
	SortPointsAgainst SortKey = "pa"
	SortAverage       SortKey = "avg"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortRank, SortTeam, SortRecord, SortPointsFor, SortPointsAgainst, SortAverage:
		return k, true
	}
	return "", false
}

func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Asc, Desc:
		return d, true
	}
	return "", false
}

// DefaultDirection is the order a key sorts in when first selected: names
// alphabetically, the default rank as ranked, numbers largest first.
func DefaultDirection(key SortKey) Direction {
	if key == SortTeam || key == SortRank {
		return Asc
	}
	return Desc
}

// RankLess orders by wins minus losses, then points-for, both descending.
func RankLess(a, b models.PowerScore) bool {
	if a.Differential() != b.Differential() {
		return a.Differential() > b.Differential()
	}
	return a.PointsFor > b.PointsFor
}

// Standings groups teams by division in default rank order.
func (e *Engine) Standings(scores []models.PowerScore) []models.DivisionStandings {
	return SortStandings(scores, SortRank, Asc)
}

// SortStandings groups teams by division, ordered by key. Desc is the exact
// reverse of Asc.
func SortStandings(scores []models.PowerScore, key SortKey, dir Direction) []models.DivisionStandings {
	sorted := slices.Clone(scores)
	less := ascending(key)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	if dir == Desc {
		slices.Reverse(sorted)
	}

	out := make([]models.DivisionStandings, 0, len(models.Divisions))
	for _, d := range models.Divisions {
		ds := models.DivisionStandings{Division: d, Teams: []models.PowerScore{}}
		for _, s := range sorted {
			if s.Division == d {
				ds.Teams = append(ds.Teams, s)
			}
		}
		out = append(out, ds)
	}
	return out
}

func ascending(key SortKey) func(a, b models.PowerScore) bool {
	switch key {
	case SortTeam:
		return func(a, b models.PowerScore) bool {
			return strings.ToLower(a.Team) < strings.ToLower(b.Team)
		}
	case SortRecord:
		return func(a, b models.PowerScore) bool { return a.Differential() < b.Differential() }
	case SortPointsFor:
		return func(a, b models.PowerScore) bool { return a.PointsFor < b.PointsFor }
	case SortPointsAgainst:
		return func(a, b models.PowerScore) bool { return a.PointsAgainst < b.PointsAgainst }
	case SortAverage:
		return func(a, b models.PowerScore) bool { return a.AvgPerWeek < b.AvgPerWeek }
	default:
		return RankLess
	}
}

// Playoffs seeds the top three of each division.
func (e *Engine) Playoffs(scores []models.PowerScore) []models.ConferenceBracket {
	brackets := make([]models.ConferenceBracket, 0, len(models.Divisions))
	for _, ds := range e.Standings(scores) {
		brackets = append(brackets, models.ConferenceBracket{
			Division: ds.Division,
			Seeds:    topN(ds.Teams, PlayoffTeams),
		})
	}
	return brackets
}

// PlayoffTeams qualify per division; the first seed has a bye.
const PlayoffTeams = 3
