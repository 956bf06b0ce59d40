package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/omarshaarawi/leaguehub/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed league.yaml
var defaultLeague []byte

// League is the static, per-league configuration handed to the loaders and
// the statistics engine. Treat it as immutable once loaded.
type League struct {
	LeagueID          string                     `yaml:"league_id"`
	PriorLeagueIDs    []string                   `yaml:"prior_league_ids"`
	Milestones        Milestones                 `yaml:"milestones"`
	Divisions         map[string]models.Division `yaml:"divisions"`
	FallbackDivisions map[string]models.Division `yaml:"fallback_divisions"`
	Rivalries         []Rivalry                  `yaml:"rivalries"`
	Champions         map[string]Champion        `yaml:"champions"`
	Championship      Championship               `yaml:"championship"`
	MaxWeek           int                        `yaml:"max_week"`
	LedgerWeeks       int                        `yaml:"ledger_weeks"`
	TopN              int                        `yaml:"top_n"`
}

type Milestones struct {
	DraftDay      time.Time `yaml:"draft_day"`
	TradeDeadline time.Time `yaml:"trade_deadline"`
	PlayoffsStart time.Time `yaml:"playoffs_start"`
}

type Rivalry struct {
	Teams []string `yaml:"teams"`
	Alias string   `yaml:"alias"`
}

type Champion struct {
	Team  string `yaml:"team"`
	Score string `yaml:"score"`
}

// Championship locates the title game: the matchup group in the given week.
type Championship struct {
	Week      int `yaml:"week"`
	MatchupID int `yaml:"matchup_id"`
}

// LoadLeague reads the league file at path, or the embedded default when path
// is empty.
func LoadLeague(path string) (League, error) {
	data := defaultLeague
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return League{}, fmt.Errorf("failed to read league config: %w", err)
		}
		data = b
	}
	return ParseLeague(data)
}

func ParseLeague(data []byte) (League, error) {
	var l League
	if err := yaml.Unmarshal(data, &l); err != nil {
		return League{}, fmt.Errorf("failed to parse league config: %w", err)
	}
	l.applyDefaults()
	if err := l.Validate(); err != nil {
		return League{}, err
	}
	return l, nil
}

func (l *League) applyDefaults() {
	if l.MaxWeek == 0 {
		l.MaxWeek = 18
	}
	if l.LedgerWeeks == 0 {
		l.LedgerWeeks = 18
	}
	if l.TopN == 0 {
		l.TopN = 5
	}
	if l.Championship.Week == 0 {
		l.Championship.Week = 17
	}
	if l.Championship.MatchupID == 0 {
		l.Championship.MatchupID = 1
	}
}

func (l League) Validate() error {
	if l.LeagueID == "" {
		return fmt.Errorf("league_id is required")
	}
	for name, d := range l.Divisions {
		if !d.Valid() {
			return fmt.Errorf("division for %s must be NFC or AFC, got %q", name, d)
		}
	}
	for name, d := range l.FallbackDivisions {
		if !d.Valid() {
			return fmt.Errorf("fallback division for %s must be NFC or AFC, got %q", name, d)
		}
	}
	for i, r := range l.Rivalries {
		if len(r.Teams) != 2 {
			return fmt.Errorf("rivalry %d must name exactly two teams, got %d", i+1, len(r.Teams))
		}
	}
	return nil
}

// LeagueIDs returns the current league followed by every prior season.
func (l League) LeagueIDs() []string {
	ids := make([]string, 0, 1+len(l.PriorLeagueIDs))
	ids = append(ids, l.LeagueID)
	return append(ids, l.PriorLeagueIDs...)
}
