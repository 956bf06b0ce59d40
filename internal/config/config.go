package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

type Config struct {
	TelegramBot TelegramBot
	SleeperAPI  SleeperAPI
	Polling     Polling
	Admin       Admin
	Storage     Storage
	HTTP        HTTP
	Fees        Fees
	LeagueFile  string `envconfig:"LEAGUE_CONFIG"`
	Timezone    string `envconfig:"TIMEZONE" default:"America/Chicago"`
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	ChatID int64  `envconfig:"CHAT_ID" required:"true"`
}

type SleeperAPI struct {
	BaseURL string        `envconfig:"SLEEPER_BASE_URL" default:"https://api.sleeper.app/v1"`
	Sport   string        `envconfig:"SLEEPER_SPORT" default:"nfl"`
	Timeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

type Polling struct {
	Interval           time.Duration `envconfig:"POLL_INTERVAL" default:"5m"`
	MatchupConcurrency int           `envconfig:"MATCHUP_CONCURRENCY" default:"1"`
	LedgerSchedule     string        `envconfig:"LEDGER_SCHEDULE" default:"0 8 * * 2"`
}

type Admin struct {
	PasswordHash string `envconfig:"ADMIN_PASSWORD_HASH"`
}

type Storage struct {
	NewsDBPath string `envconfig:"NEWS_DB_PATH" default:"leaguehub.db"`
}

type HTTP struct {
	Addr string `envconfig:"HTTP_ADDR" default:":8080"`
}

// Fees are presentation-only amounts, in dollars, charged per ledger unit.
type Fees struct {
	PerAdd   float64 `envconfig:"FEE_PER_ADD" default:"1"`
	PerTrade float64 `envconfig:"FEE_PER_TRADE" default:"1"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.Polling.Interval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.Polling.Interval)
	}
	if c.Polling.MatchupConcurrency < 1 {
		return fmt.Errorf("MATCHUP_CONCURRENCY must be at least 1, got %d", c.Polling.MatchupConcurrency)
	}
	if _, err := cron.ParseStandard(c.Polling.LedgerSchedule); err != nil {
		return fmt.Errorf("invalid LEDGER_SCHEDULE %q: %w", c.Polling.LedgerSchedule, err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves Timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
