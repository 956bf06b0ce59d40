// Package stats derives rankings, standings and all-time records from league
// snapshots and weekly matchup history. Every function here is pure: inputs
// are never modified and missing data produces partial or empty output.
package stats

import (
	"hash/fnv"
	"math"
	"strconv"
	"strings"

	"github.com/omarshaarawi/leaguehub/internal/config"
	"github.com/omarshaarawi/leaguehub/internal/models"
)

type Engine struct {
	league config.League
}

func New(league config.League) *Engine {
	if league.TopN <= 0 {
		league.TopN = 5
	}
	return &Engine{league: league}
}

// Division resolves a team's conference: manual override, then the fallback
// table, then a stable hash of the display name.
func (e *Engine) Division(displayName string) models.Division {
	if d, ok := e.league.Divisions[displayName]; ok {
		return d
	}
	if d, ok := e.league.FallbackDivisions[displayName]; ok {
		return d
	}
	return hashedDivision(displayName)
}

func hashedDivision(name string) models.Division {
	h := fnv.New32a()
	h.Write([]byte(name))
	if h.Sum32()%2 == 0 {
		return models.NFC
	}
	return models.AFC
}

// SeasonNumber parses a season label for ordering; unparseable labels are 0.
func SeasonNumber(season string) int {
	n, err := strconv.Atoi(strings.TrimSpace(season))
	if err != nil {
		return 0
	}
	return n
}

// FormatPoints renders a score with at most two decimals and thousands
// separators, e.g. 1,234.5.
func FormatPoints(v float64) string {
	v = math.Round(v*100) / 100
	s := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)

	intPart, frac, hasFrac := strings.Cut(s, ".")
	var sb strings.Builder
	if v < 0 {
		sb.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if hasFrac {
		sb.WriteByte('.')
		sb.WriteString(frac)
	}
	return sb.String()
}

func topN[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[:n]
	}
	return items
}
