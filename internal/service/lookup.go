package service

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/omarshaarawi/leaguehub/internal/models"
)

const teamMatchThreshold = 0.6

// FindTeam returns the power score whose team name is closest to name, by
// normalized Levenshtein similarity.
func (s *LeagueService) FindTeam(name string) (models.PowerScore, int, bool) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return models.PowerScore{}, 0, false
	}

	bestIdx := -1
	bestScore := 0.0
	scores := s.PowerScores()
	for i, p := range scores {
		team := strings.ToLower(p.Team)
		if team == query {
			return p, i + 1, true
		}
		distance := fuzzy.LevenshteinDistance(query, team)
		maxLen := float64(max(len(query), len(team)))
		similarity := 1 - float64(distance)/maxLen
		if similarity > teamMatchThreshold && similarity > bestScore {
			bestScore = similarity
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		for i, p := range scores {
			if fuzzy.MatchFold(query, p.Team) {
				return p, i + 1, true
			}
		}
		return models.PowerScore{}, 0, false
	}
	return scores[bestIdx], bestIdx + 1, true
}

func (s *LeagueService) TeamReport(name string) (string, error) {
	p, rank, ok := s.FindTeam(name)
	if !ok {
		return "", fmt.Errorf("team not found: %s", name)
	}

	var sb strings.Builder
	sb.WriteString(s.Warnings())
	sb.WriteString(fmt.Sprintf("📋 *%s* (%s)\n", esc(p.Team), p.Division))
	sb.WriteString(fmt.Sprintf("Power rank #%d · score %.1f\n", rank, p.Score))
	sb.WriteString(fmt.Sprintf("Record %d-%d\n", p.Wins, p.Losses))
	sb.WriteString(fmt.Sprintf("PF %s · PA %s · Avg %s\n", pts(p.PointsFor), pts(p.PointsAgainst), pts(p.AvgPerWeek)))

	for _, r := range s.derived().rivalries {
		var them string
		var won, lost int
		switch p.Team {
		case r.TeamA:
			them, won, lost = r.TeamB, r.WinsA, r.WinsB
		case r.TeamB:
			them, won, lost = r.TeamA, r.WinsB, r.WinsA
		default:
			continue
		}
		sb.WriteString(fmt.Sprintf("\n⚔️ vs %s: %d-%d", esc(them), won, lost))
		if r.Ties > 0 {
			sb.WriteString(fmt.Sprintf("-%d", r.Ties))
		}
		sb.WriteString(fmt.Sprintf(" in %d games", r.TotalGames))
	}
	return sb.String(), nil
}
