package stats

import (
	"testing"

	"github.com/omarshaarawi/leaguehub/internal/config"
	"github.com/omarshaarawi/leaguehub/internal/models"
)

var testMembers = []models.Member{
	{ID: "u1", DisplayName: "Obi"},
	{ID: "u2", DisplayName: "Ram"},
}

func testContexts() []models.LeagueContext {
	return []models.LeagueContext{
		{
			LeagueID: "cur", Season: "2025", Members: testMembers,
			Rosters: []models.Roster{
				{RosterID: 1, OwnerID: "u1", Wins: 14, Losses: 0, PointsFor: 2000},
				{RosterID: 2, OwnerID: "u2"},
			},
		},
		{
			LeagueID: "p1", Season: "2024", Members: testMembers,
			Rosters: []models.Roster{
				{RosterID: 1, OwnerID: "u1", Wins: 10, Losses: 3, PointsFor: 1500},
				{RosterID: 2, OwnerID: "u2", Wins: 10, Losses: 3, PointsFor: 1600},
			},
		},
		{
			LeagueID: "p2", Season: "2023", Members: testMembers,
			Rosters: []models.Roster{
				{RosterID: 1, OwnerID: "u1", Wins: 9, Losses: 4, PointsFor: 1400},
				{RosterID: 2, OwnerID: "u2", Wins: 4, Losses: 9, PointsFor: 1450},
			},
		},
	}
}

func rec(roster, matchup int, pts float64) models.MatchupRecord {
	return models.MatchupRecord{RosterID: roster, MatchupID: matchup, HasMatchup: true, Points: pts}
}

func game(season, teamA, teamB string, ptsA, ptsB float64) models.Game {
	return models.Game{Season: season, TeamA: teamA, TeamB: teamB, PointsA: ptsA, PointsB: ptsB}
}

func TestGamesPairsByMatchup(t *testing.T) {
	e := New(testLeague())
	weeks := []models.WeekMatchups{{
		LeagueID: "p1", Season: "2024", Week: 1,
		Matchups: []models.MatchupRecord{
			rec(2, 1, 98.2),
			rec(1, 1, 101.5),
			rec(3, 2, 90),
			{RosterID: 4, Points: 80},
			{RosterID: 5, Points: 70},
		},
	}}

	games := e.Games(testContexts(), weeks)
	if len(games) != 1 {
		t.Fatalf("len(games) = %d, want 1", len(games))
	}
	g := games[0]
	if g.TeamA != "Obi" || g.TeamB != "Ram" {
		t.Errorf("teams = %q vs %q, want Obi vs Ram", g.TeamA, g.TeamB)
	}
	if g.Season != "2024" || g.Week != 1 {
		t.Errorf("season/week = %s/%d, want 2024/1", g.Season, g.Week)
	}
	if !approx(g.Margin, 3.3) || !approx(g.Total, 199.7) {
		t.Errorf("margin/total = %v/%v, want 3.3/199.7", g.Margin, g.Total)
	}
}

func TestGamesTopTwoOfLargerGroup(t *testing.T) {
	e := New(testLeague())
	weeks := []models.WeekMatchups{{
		LeagueID: "unknown", Week: 3,
		Matchups: []models.MatchupRecord{rec(7, 4, 90), rec(8, 4, 120), rec(9, 4, 100)},
	}}

	games := e.Games(nil, weeks)
	if len(games) != 1 {
		t.Fatalf("len(games) = %d, want 1", len(games))
	}
	g := games[0]
	if g.TeamA != "Roster 8" || g.TeamB != "Roster 9" {
		t.Errorf("teams = %q vs %q, want Roster 8 vs Roster 9", g.TeamA, g.TeamB)
	}
	if g.PointsA != 120 || g.PointsB != 100 {
		t.Errorf("points = %v-%v, want 120-100", g.PointsA, g.PointsB)
	}
}

func TestRivalries(t *testing.T) {
	e := New(testLeague())
	games := []models.Game{
		game("2024", "Obi", "Ram", 110, 100),
		game("2024", "Ram", "Obi", 120, 90),
		game("2023", "Obi", "Ram", 100, 100),
		game("2023", "Obi", "Boom", 130, 60),
	}

	records := e.Rivalries(games)
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1 (pairings without games dropped)", len(records))
	}
	r := records[0]
	if r.Alias != "The Classic" || r.TeamA != "Obi" || r.TeamB != "Ram" {
		t.Errorf("record = %+v", r)
	}
	if r.WinsA != 1 || r.WinsB != 1 || r.Ties != 1 || r.TotalGames != 3 {
		t.Errorf("W/L/T/G = %d/%d/%d/%d, want 1/1/1/3", r.WinsA, r.WinsB, r.Ties, r.TotalGames)
	}
	if r.WinsA+r.WinsB+r.Ties != r.TotalGames {
		t.Error("wins and ties do not add up to total games")
	}
	if !approx(r.AvgPointsA, 100) || !approx(r.AvgPointsB, 320.0/3) {
		t.Errorf("averages = %v/%v, want 100/%v", r.AvgPointsA, r.AvgPointsB, 320.0/3)
	}
}

func TestSeasonTotals(t *testing.T) {
	games := []models.Game{
		game("2024", "Obi", "Ram", 100, 90),
		game("2024", "Ram", "Obi", 120, 110),
		game("2024", "Obi", "Ram", 120, 80),
		game("2023", "Obi", "Ram", 50, 40),
	}

	totals := SeasonTotals(games)
	if len(totals) != 4 {
		t.Fatalf("len(totals) = %d, want 4", len(totals))
	}
	obi := totals[0]
	if obi.Team != "Obi" || obi.Season != "2024" || obi.Points != 330 || obi.Games != 3 {
		t.Errorf("totals[0] = %+v, want Obi 2024 330 over 3", obi)
	}

	var sum float64
	for _, tt := range totals {
		sum += tt.Points
	}
	if sum != 100+90+120+110+120+80+50+40 {
		t.Errorf("sum of totals = %v, points double counted or lost", sum)
	}
}

func TestRecordTables(t *testing.T) {
	league := testLeague()
	league.TopN = 2
	e := New(league)
	games := []models.Game{
		{Season: "2024", TeamA: "A", TeamB: "B", PointsA: 150, PointsB: 100, Margin: 50, Total: 250},
		{Season: "2024", TeamA: "C", TeamB: "D", PointsA: 120, PointsB: 119, Margin: 1, Total: 239},
		{Season: "2024", TeamA: "E", TeamB: "F", PointsA: 160, PointsB: 60, Margin: 100, Total: 220},
	}

	if got := e.Blowouts(games); len(got) != 2 || got[0].TeamA != "E" || got[1].TeamA != "A" {
		t.Errorf("Blowouts = %+v", got)
	}
	if got := e.HighestCombined(games); len(got) != 2 || got[0].TeamA != "A" || got[1].TeamA != "C" {
		t.Errorf("HighestCombined = %+v", got)
	}
	if got := e.SeasonHighs(games); got[0].Team != "E" || got[1].Team != "A" {
		t.Errorf("SeasonHighs = %+v", got)
	}
	if got := e.SeasonLows(games); got[0].Team != "F" || got[1].Team != "B" {
		t.Errorf("SeasonLows = %+v", got)
	}
	if games[0].TeamA != "A" {
		t.Error("input games reordered")
	}
}

func TestBestRegularSeasons(t *testing.T) {
	e := New(testLeague())
	got := e.BestRegularSeasons(testContexts(), "cur")

	want := []models.PastRecord{
		{Season: "2024", Team: "Ram", Record: "10-3"},
		{Season: "2023", Team: "Obi", Record: "9-4"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("records[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestChampions(t *testing.T) {
	league := testLeague()
	league.Champions = map[string]config.Champion{
		"2023": {Team: "Manual", Score: "205.38"},
		"2025": {Team: "TooEarly"},
		"2021": {Team: "Founder"},
	}
	e := New(league)
	weeks := []models.WeekMatchups{
		{LeagueID: "p1", Season: "2024", Week: 17, Matchups: []models.MatchupRecord{
			rec(1, 1, 140), rec(2, 1, 150.456), rec(3, 2, 200),
		}},
		{LeagueID: "p2", Season: "2023", Week: 17, Matchups: []models.MatchupRecord{
			rec(1, 1, 180), rec(2, 1, 100),
		}},
	}

	got := e.Champions(testContexts(), weeks, "cur")
	want := []models.PastRecord{
		{Season: "2024", Team: "Ram", Record: "150.46"},
		{Season: "2023", Team: "Manual", Record: "205.38"},
		{Season: "2021", Team: "Founder", Record: "N/A"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("champions[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestChampionsWithoutCurrentSeason(t *testing.T) {
	league := testLeague()
	league.Champions = map[string]config.Champion{
		"2025": {Team: "TooEarly"},
		"2023": {Team: "Manual", Score: "205.38"},
	}
	e := New(league)
	contexts := testContexts()
	contexts[0].Season = ""

	got := e.Champions(contexts, nil, "cur")
	want := []models.PastRecord{{Season: "2023", Team: "Manual", Record: "205.38"}}
	if len(got) != len(want) || got[0] != want[0] {
		t.Errorf("Champions = %+v, want %+v", got, want)
	}
}

func TestChampionZeroPoints(t *testing.T) {
	league := testLeague()
	league.Champions = nil
	e := New(league)
	weeks := []models.WeekMatchups{
		{LeagueID: "p1", Season: "2024", Week: 17, Matchups: []models.MatchupRecord{rec(1, 1, 0), rec(2, 1, 0)}},
	}

	got := e.Champions(testContexts(), weeks, "cur")
	if len(got) != 1 || got[0].Team != "Obi" || got[0].Record != "N/A" {
		t.Errorf("Champions = %+v, want Obi N/A", got)
	}
}

func TestRecordsFromHistory(t *testing.T) {
	e := New(testLeague())
	h := models.History{
		CurrentLeagueID: "cur",
		Contexts:        testContexts(),
		Weeks: []models.WeekMatchups{
			{LeagueID: "p1", Season: "2024", Week: 1, Matchups: []models.MatchupRecord{rec(1, 1, 110), rec(2, 1, 100)}},
		},
	}

	r := e.Records(h)
	if len(r.Blowouts) != 1 || len(r.SeasonHighs) != 2 {
		t.Errorf("Records = %+v", r)
	}
	if len(r.BestRegularSeasons) != 2 {
		t.Errorf("BestRegularSeasons = %+v", r.BestRegularSeasons)
	}
}
