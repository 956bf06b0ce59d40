package history

import (
	"slices"

	"github.com/omarshaarawi/leaguehub/internal/models"
)

// Merge replaces, in base, every league that update carries: its context and
// all of its weeks. Other leagues, the status and the error flag are kept.
// Leagues new to base are appended.
func Merge(base, update models.History) models.History {
	replaced := make(map[string]bool, len(update.Contexts))
	for _, lc := range update.Contexts {
		replaced[lc.LeagueID] = true
	}

	out := base
	out.Contexts = make([]models.LeagueContext, 0, len(base.Contexts)+len(update.Contexts))
	seen := make(map[string]bool, len(replaced))
	for _, lc := range base.Contexts {
		if !replaced[lc.LeagueID] {
			out.Contexts = append(out.Contexts, lc)
			continue
		}
		i := slices.IndexFunc(update.Contexts, func(u models.LeagueContext) bool { return u.LeagueID == lc.LeagueID })
		out.Contexts = append(out.Contexts, update.Contexts[i])
		seen[lc.LeagueID] = true
	}
	for _, lc := range update.Contexts {
		if !seen[lc.LeagueID] {
			out.Contexts = append(out.Contexts, lc)
		}
	}

	// Updated weeks take the slot of the league's first stored week so the
	// overall league order survives.
	out.Weeks = make([]models.WeekMatchups, 0, len(base.Weeks)+len(update.Weeks))
	placed := make(map[string]bool, len(replaced))
	for _, w := range base.Weeks {
		if !replaced[w.LeagueID] {
			out.Weeks = append(out.Weeks, w)
			continue
		}
		if placed[w.LeagueID] {
			continue
		}
		out.Weeks = append(out.Weeks, weeksOf(update.Weeks, w.LeagueID)...)
		placed[w.LeagueID] = true
	}
	for _, w := range update.Weeks {
		if !placed[w.LeagueID] {
			out.Weeks = append(out.Weeks, w)
		}
	}
	return out
}

func weeksOf(weeks []models.WeekMatchups, leagueID string) []models.WeekMatchups {
	var out []models.WeekMatchups
	for _, w := range weeks {
		if w.LeagueID == leagueID {
			out = append(out, w)
		}
	}
	return out
}
