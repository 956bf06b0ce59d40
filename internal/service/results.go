package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/omarshaarawi/leaguehub/internal/models"
)

type Trophy struct {
	Category string
	Team     string
	Value    float64
}

type WeekResults struct {
	Week     int
	Games    []models.Game
	Trophies []Trophy
}

// LatestResults is the most recent completed week of the current season.
func (s *LeagueService) LatestResults() (WeekResults, bool) {
	var latest int
	var games []models.Game
	for _, g := range s.derived().games {
		if g.LeagueID != s.league.LeagueID {
			continue
		}
		switch {
		case g.Week > latest:
			latest = g.Week
			games = []models.Game{g}
		case g.Week == latest:
			games = append(games, g)
		}
	}
	if len(games) == 0 {
		return WeekResults{}, false
	}
	return processGames(latest, games), true
}

func processGames(week int, games []models.Game) WeekResults {
	report := WeekResults{Week: week, Games: append([]models.Game(nil), games...)}

	highScore, lowScore := -math.MaxFloat64, math.MaxFloat64
	biggestWin, closestWin := -math.MaxFloat64, math.MaxFloat64
	var highScoreTeam, lowScoreTeam, biggestWinTeam, closestWinTeam string

	for _, g := range games {
		if g.PointsA > highScore {
			highScore, highScoreTeam = g.PointsA, g.TeamA
		}
		if g.PointsB < lowScore {
			lowScore, lowScoreTeam = g.PointsB, g.TeamB
		}
		if g.Margin > biggestWin {
			biggestWin, biggestWinTeam = g.Margin, g.TeamA
		}
		if g.Margin < closestWin {
			closestWin, closestWinTeam = g.Margin, g.TeamA
		}
	}

	report.Trophies = []Trophy{
		{Category: "High Score", Team: highScoreTeam, Value: highScore},
		{Category: "Low Score", Team: lowScoreTeam, Value: lowScore},
		{Category: "Biggest Win", Team: biggestWinTeam, Value: biggestWin},
		{Category: "Closest Win", Team: closestWinTeam, Value: closestWin},
	}
	return report
}

func (s *LeagueService) Results() string {
	report, ok := s.LatestResults()
	if !ok {
		if msg := s.historyNotice("weekly", true); msg != "" {
			return "📊 " + msg
		}
		return "📊 No results yet."
	}
	return formatResults(report)
}

func formatResults(report WeekResults) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *Week %d Final Scores:*\n\n", report.Week))

	sort.Slice(report.Games, func(i, j int) bool {
		return report.Games[i].Total > report.Games[j].Total
	})
	for _, g := range report.Games {
		sb.WriteString(fmt.Sprintf("%s %.2f - %.2f %s\n", esc(g.TeamA), g.PointsA, g.PointsB, esc(g.TeamB)))
	}

	sb.WriteString("\n🏆 *Trophies:*\n")
	for _, t := range report.Trophies {
		switch t.Category {
		case "High Score":
			sb.WriteString(fmt.Sprintf("Highest Score: %s (%.2f)\n", esc(t.Team), t.Value))
		case "Low Score":
			sb.WriteString(fmt.Sprintf("Lowest Score: %s (%.2f)\n", esc(t.Team), t.Value))
		case "Biggest Win":
			sb.WriteString(fmt.Sprintf("Biggest Win: %s (Margin: %.2f)\n", esc(t.Team), t.Value))
		case "Closest Win":
			sb.WriteString(fmt.Sprintf("Closest Win: %s (Margin: %.2f)\n", esc(t.Team), t.Value))
		}
	}
	return sb.String()
}
