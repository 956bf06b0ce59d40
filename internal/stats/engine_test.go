package stats

import (
	"math"
	"testing"

	"github.com/omarshaarawi/leaguehub/internal/config"
	"github.com/omarshaarawi/leaguehub/internal/models"
)

func testLeague() config.League {
	return config.League{
		LeagueID:       "cur",
		PriorLeagueIDs: []string{"p1", "p2"},
		Divisions: map[string]models.Division{
			"Obi": models.NFC,
			"Ram": models.AFC,
		},
		FallbackDivisions: map[string]models.Division{
			"Ram":  models.NFC,
			"Boom": models.AFC,
		},
		Rivalries: []config.Rivalry{
			{Teams: []string{"Obi", "Ram"}, Alias: "The Classic"},
			{Teams: []string{"Boom", "Huck"}},
		},
		Champions: map[string]config.Champion{
			"2023": {Team: "Manual", Score: "205.38"},
		},
		Championship: config.Championship{Week: 17, MatchupID: 1},
		MaxWeek:      18,
		TopN:         5,
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDivisionPrecedence(t *testing.T) {
	e := New(testLeague())

	tests := []struct {
		name string
		want models.Division
	}{
		{"Obi", models.NFC},
		{"Ram", models.AFC}, // manual beats fallback
		{"Boom", models.AFC},
	}
	for _, tt := range tests {
		if got := e.Division(tt.name); got != tt.want {
			t.Errorf("Division(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestDivisionHashIsStable(t *testing.T) {
	e := New(testLeague())
	first := e.Division("Unlisted Team")
	if !first.Valid() {
		t.Fatalf("Division returned invalid %q", first)
	}
	for range 10 {
		if got := e.Division("Unlisted Team"); got != first {
			t.Fatalf("Division changed between calls: %s then %s", first, got)
		}
	}
}

func TestSeasonNumber(t *testing.T) {
	tests := map[string]int{"2024": 2024, " 2023 ": 2023, "": 0, "abc": 0}
	for in, want := range tests {
		if got := SeasonNumber(in); got != want {
			t.Errorf("SeasonNumber(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestFormatPoints(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{205.38, "205.38"},
		{214.0, "214"},
		{99.999, "100"},
		{1234.5, "1,234.5"},
		{1234567.891, "1,234,567.89"},
		{-12.5, "-12.5"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := FormatPoints(tt.in); got != tt.want {
			t.Errorf("FormatPoints(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
