package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/omarshaarawi/leaguehub/internal/ledger"
	"github.com/omarshaarawi/leaguehub/internal/loader"
	"github.com/omarshaarawi/leaguehub/internal/models"
	"github.com/omarshaarawi/leaguehub/internal/stats"
)

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// esc makes user-supplied text safe inside Telegram Markdown.
func esc(s string) string {
	return markdownEscaper.Replace(s)
}

func pts(v float64) string {
	return stats.FormatPoints(v)
}

// Warnings is the data banner shown above league reports, or "".
func (s *LeagueService) Warnings() string {
	var lines []string
	snap := s.repo.Snapshot()
	if w := snap.MembersWarning; w != "" {
		lines = append(lines, "⚠️ "+w)
	}
	if w := snap.RostersWarning; w != "" {
		lines = append(lines, "⚠️ "+w)
	}
	if w := s.repo.History().Error; w != "" {
		lines = append(lines, "⚠️ "+w)
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n\n"
}

func (s *LeagueService) PowerRankings(limit int) string {
	scores := s.PowerScores()
	var sb strings.Builder
	sb.WriteString(s.Warnings())
	sb.WriteString("⚡ *Power Rankings*\n")
	sb.WriteString("_70% points-for, 30% win rate_\n\n")

	if len(scores) == 0 {
		sb.WriteString("No teams loaded yet.")
		return sb.String()
	}
	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	for i, p := range scores {
		sb.WriteString(fmt.Sprintf("%d. *%s* %.1f\n", i+1, esc(p.Team), p.Score))
		sb.WriteString(fmt.Sprintf("   %d-%d · PF %s · PA %s · %s\n", p.Wins, p.Losses, pts(p.PointsFor), pts(p.PointsAgainst), p.Division))
	}
	return sb.String()
}

func (s *LeagueService) Standings(key stats.SortKey, dir stats.Direction) string {
	var sb strings.Builder
	sb.WriteString(s.Warnings())
	sb.WriteString("🏆 *Standings*\n")
	sb.WriteString(fmt.Sprintf("_sorted by %s %s_\n", key, dir))

	for _, ds := range stats.SortStandings(s.PowerScores(), key, dir) {
		sb.WriteString(fmt.Sprintf("\n*%s*\n", ds.Division))
		if len(ds.Teams) == 0 {
			sb.WriteString("No teams\n")
			continue
		}
		for i, t := range ds.Teams {
			sb.WriteString(fmt.Sprintf("%d. %s %d-%d · PF %s · PA %s · Avg %s\n",
				i+1, esc(t.Team), t.Wins, t.Losses, pts(t.PointsFor), pts(t.PointsAgainst), pts(t.AvgPerWeek)))
		}
	}
	return sb.String()
}

func seedLine(b models.ConferenceBracket, n int) string {
	t, ok := b.Seed(n)
	if !ok {
		return "TBD"
	}
	return fmt.Sprintf("%s (%d-%d)", esc(t.Team), t.Wins, t.Losses)
}

func (s *LeagueService) Playoffs() string {
	var sb strings.Builder
	sb.WriteString(s.Warnings())
	sb.WriteString("🏈 *Playoff Picture*\n")
	sb.WriteString("_Top 3 per conference make it · #1 seed gets a bye_\n")

	for _, b := range s.engine.Playoffs(s.PowerScores()) {
		sb.WriteString(fmt.Sprintf("\n*%s Bracket*\n", b.Division))
		sb.WriteString(fmt.Sprintf("Wildcard: #2 %s vs #3 %s\n", seedLine(b, 2), seedLine(b, 3)))
		sb.WriteString(fmt.Sprintf("Conference final: #1 %s (bye) vs Wildcard winner\n", seedLine(b, 1)))
	}
	sb.WriteString("\n*League Championship*\nNFC Champion vs AFC Champion: TBD\n")
	return sb.String()
}

// historyNotice explains why history-backed reports are empty, or "".
func (s *LeagueService) historyNotice(subject string, empty bool) string {
	h := s.repo.History()
	switch {
	case h.Status != models.CollectionDone && h.Status != models.CollectionIdle:
		return fmt.Sprintf("Loading historical %s data...", subject)
	case h.Error != "":
		return "Could not load historical records."
	case h.Status == models.CollectionIdle:
		return "Historical data has not been collected yet."
	case empty:
		return fmt.Sprintf("No completed %s matchups found.", subject)
	}
	return ""
}

func (s *LeagueService) Rivalries() string {
	rivalries := s.derived().rivalries
	var sb strings.Builder
	sb.WriteString("⚔️ *Rivalry Tracker*\n_All-time head-to-head across every season_\n\n")
	if msg := s.historyNotice("rivalry", len(rivalries) == 0); msg != "" {
		sb.WriteString(msg)
		return sb.String()
	}

	for i, r := range rivalries {
		title := r.Alias
		if title == "" {
			title = fmt.Sprintf("Rivalry %d: %s vs %s", i+1, r.TeamA, r.TeamB)
		}
		sb.WriteString(fmt.Sprintf("*%s*\n", esc(title)))
		sb.WriteString(fmt.Sprintf("%s %d · %s %d", esc(r.TeamA), r.WinsA, esc(r.TeamB), r.WinsB))
		if r.Ties > 0 {
			sb.WriteString(fmt.Sprintf(" · Ties %d", r.Ties))
		}
		sb.WriteString(fmt.Sprintf("\n%d games · Avg %s - %s\n\n", r.TotalGames, pts(r.AvgPointsA), pts(r.AvgPointsB)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func seasonSuffix(season string) string {
	if season == "" {
		return ""
	}
	return " (" + season + ")"
}

func (s *LeagueService) Records() string {
	r := s.derived().records
	var sb strings.Builder
	sb.WriteString("📚 *League Records*\n\n")
	if msg := s.historyNotice("league", len(r.Blowouts) == 0); msg != "" {
		sb.WriteString(msg)
		return sb.String()
	}

	sb.WriteString("*Highest Season Points*\n")
	for i, t := range r.SeasonHighs {
		sb.WriteString(fmt.Sprintf("%d. %s%s %s\n", i+1, esc(t.Team), seasonSuffix(t.Season), pts(t.Points)))
	}
	sb.WriteString("\n*Biggest Blowouts*\n")
	for i, g := range r.Blowouts {
		sb.WriteString(fmt.Sprintf("%d. %s defeats %s by %s\n   Wk %d%s · %s - %s\n",
			i+1, esc(g.TeamA), esc(g.TeamB), pts(g.Margin), g.Week, seasonSuffix(g.Season), pts(g.PointsA), pts(g.PointsB)))
	}
	sb.WriteString("\n*Highest Combined Score*\n")
	for i, g := range r.HighestCombined {
		sb.WriteString(fmt.Sprintf("%d. %s vs %s %s\n   Wk %d%s\n",
			i+1, esc(g.TeamA), esc(g.TeamB), pts(g.Total), g.Week, seasonSuffix(g.Season)))
	}
	sb.WriteString("\n*Lowest Season Points*\n")
	for i, t := range r.SeasonLows {
		sb.WriteString(fmt.Sprintf("%d. %s%s %s\n", i+1, esc(t.Team), seasonSuffix(t.Season), pts(t.Points)))
	}
	return sb.String()
}

func writePastRecords(sb *strings.Builder, title string, records []models.PastRecord) {
	sb.WriteString(fmt.Sprintf("*%s*\n", title))
	if len(records) == 0 {
		sb.WriteString("No historical record data found.\n")
		return
	}
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("%s: %s (%s)\n", r.Season, esc(r.Team), r.Record))
	}
}

func (s *LeagueService) Champions() string {
	r := s.derived().records
	var sb strings.Builder
	sb.WriteString("👑 *Hall of Champions*\n\n")
	writePastRecords(&sb, "League Champions", r.Champions)
	sb.WriteString("\n")
	writePastRecords(&sb, "Best Regular Season", r.BestRegularSeasons)
	return sb.String()
}

func money(v float64) string {
	return "$" + stats.FormatPoints(v)
}

func (s *LeagueService) Ledger() string {
	l := s.repo.Ledger()
	var sb strings.Builder
	sb.WriteString("💸 *Owner Transaction Totals*\n")
	sb.WriteString(fmt.Sprintf("_Waiver adds = %s each · Trades = %s per participant · Drops = $0_\n",
		money(s.fees.PerAdd), money(s.fees.PerTrade)))

	switch {
	case l.Error != "":
		sb.WriteString("\n" + l.Error + " (network or API failure).")
		return sb.String()
	case l.SyncedAt.IsZero():
		sb.WriteString("\nLedger has not been synced yet.")
		return sb.String()
	}

	r := ledger.Range{From: l.From, To: l.To}
	sb.WriteString(fmt.Sprintf("%s\n\n", r.String()))
	if len(l.Entries) == 0 {
		sb.WriteString("No transactions in range.")
		return sb.String()
	}

	var total float64
	for i, e := range l.Entries {
		fee := ledger.Fee(e, s.fees.PerAdd, s.fees.PerTrade)
		total += fee
		sb.WriteString(fmt.Sprintf("%d. %s: %d adds, %d trades = *%s*\n", i+1, esc(e.Owner), e.Adds, e.Trades, money(fee)))
	}
	sb.WriteString(fmt.Sprintf("\nLeague total: *%s*", money(total)))
	return sb.String()
}

func shortDate(t time.Time) string {
	return t.Format("Jan 2")
}

func isDemo(snap models.Snapshot) bool {
	return snap.MembersWarning == loader.DemoMembersWarning || snap.RostersWarning == loader.DemoRostersWarning ||
		len(snap.Members) == 0 || len(snap.Rosters) == 0
}

// Recap is the auto-generated weekly summary.
func (s *LeagueService) Recap() string {
	snap := s.repo.Snapshot()
	if isDemo(snap) {
		return "Demo mode: Cannot generate weekly recap without live league data. " +
			"*Check the warning at the top to confirm data is loading.*"
	}

	lc := models.LeagueContext{Members: snap.Members, Rosters: snap.Rosters}
	leader := snap.Rosters[0]
	for _, r := range snap.Rosters[1:] {
		if r.PointsFor > leader.PointsFor {
			leader = r
		}
	}

	weekLabel := "a few early weeks"
	if w, ok := s.repo.CurrentWeek(); ok {
		weekLabel = fmt.Sprintf("Week %d", w)
	}

	m := s.league.Milestones
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("The league is heating up after *%s* of action!\n\n", weekLabel))
	sb.WriteString(fmt.Sprintf("The current overall points leader is *%s* with a dominant %s total points.\n\n",
		esc(lc.OwnerName(leader.RosterID)), pts(leader.PointsFor)))
	sb.WriteString("*Key Upcoming Dates:*\n")
	sb.WriteString(fmt.Sprintf("- *Trade Deadline:* %s\n", shortDate(m.TradeDeadline.In(s.loc))))
	sb.WriteString(fmt.Sprintf("- *Playoffs:* %s\n\n", shortDate(m.PlayoffsStart.In(s.loc))))
	sb.WriteString("Managers: finalize those crucial deals to secure a playoff spot!")
	return sb.String()
}

// TimeLeft is the whole days, hours and minutes until target, never negative.
type TimeLeft struct {
	Days    int
	Hours   int
	Minutes int
}

func Until(now, target time.Time) TimeLeft {
	d := max(0, target.Sub(now))
	return TimeLeft{
		Days:    int(d / (24 * time.Hour)),
		Hours:   int(d/time.Hour) % 24,
		Minutes: int(d/time.Minute) % 60,
	}
}

func (t TimeLeft) String() string {
	return fmt.Sprintf("%dd %dh %dm", t.Days, t.Hours, t.Minutes)
}

func (s *LeagueService) Dates() string {
	now := s.now()
	m := s.league.Milestones
	var sb strings.Builder
	sb.WriteString("📅 *Key Dates*\n\n")
	for _, d := range []struct {
		label string
		at    time.Time
	}{
		{"Draft Day", m.DraftDay},
		{"Trade Deadline", m.TradeDeadline},
		{"Playoffs Start", m.PlayoffsStart},
	} {
		sb.WriteString(fmt.Sprintf("*%s:* %s · %s left\n", d.label, shortDate(d.at.In(s.loc)), Until(now, d.at)))
	}
	return sb.String()
}

func (s *LeagueService) Week() string {
	if w, ok := s.repo.CurrentWeek(); ok {
		return fmt.Sprintf("🗓 Current NFL week: *%d*", w)
	}
	return "🗓 Current NFL week is unknown right now."
}

func (s *LeagueService) News() string {
	items := s.feed.Visible()
	var sb strings.Builder
	sb.WriteString("📰 *League News*\n\n")
	if len(items) == 0 {
		sb.WriteString("No league news yet.\n")
	}
	for _, it := range items {
		sb.WriteString(fmt.Sprintf("*%s* · #%d\n%s\n\n", shortDate(it.Posted().In(s.loc)), it.ID, esc(it.Content)))
	}
	if n := s.feed.ArchivedCount(); n > 0 {
		sb.WriteString(fmt.Sprintf("_%d archived_", n))
	}
	return strings.TrimRight(sb.String(), "\n")
}
