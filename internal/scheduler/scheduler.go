package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/omarshaarawi/leaguehub/internal/service"
	"github.com/omarshaarawi/leaguehub/internal/stats"
)

const (
	JobRefreshLeague  = "refresh-league"
	JobRefreshWeek    = "refresh-week"
	JobCollectHistory = "collect-history"
	JobPostPower      = "post-power"
	JobPostResults    = "post-results"
	JobPostStandings  = "post-standings"
	JobPostLedger     = "post-ledger"
)

type Config struct {
	PollInterval   time.Duration
	LedgerSchedule string
	Location       *time.Location
	Clock          clockwork.Clock
}

type Scheduler struct {
	s             gocron.Scheduler
	cfg           Config
	leagueService *service.LeagueService
	sendMessage   func(string) error
}

func NewScheduler(leagueService *service.LeagueService, sendMessage func(string) error, cfg Config) (*Scheduler, error) {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	opts := []gocron.SchedulerOption{gocron.WithLocation(cfg.Location)}
	if cfg.Clock != nil {
		opts = append(opts, gocron.WithClock(cfg.Clock))
	}

	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:             s,
		cfg:           cfg,
		leagueService: leagueService,
		sendMessage:   sendMessage,
	}, nil
}

// Start registers every job and starts the scheduler. Jobs stop doing work
// once ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	jobs := []struct {
		name       string
		definition gocron.JobDefinition
		task       func()
		options    []gocron.JobOption
	}{
		// League snapshot and NFL week every poll interval, first run now
		{
			name:       JobRefreshLeague,
			definition: gocron.DurationJob(s.cfg.PollInterval),
			task:       func() { s.refreshLeague(ctx) },
			options:    pollOptions(),
		},
		{
			name:       JobRefreshWeek,
			definition: gocron.DurationJob(s.cfg.PollInterval),
			task:       func() { s.leagueService.RefreshWeek(ctx) },
			options:    pollOptions(),
		},
		// History - once at startup
		{
			name:       JobCollectHistory,
			definition: gocron.OneTimeJob(gocron.OneTimeJobStartImmediately()),
			task:       func() { s.collectHistory(ctx) },
		},
		// Power rankings and trophies - Tuesday 7:30
		{
			name:       JobPostPower,
			definition: gocron.WeeklyJob(1, gocron.NewWeekdays(time.Tuesday), gocron.NewAtTimes(gocron.NewAtTime(7, 30, 0))),
			task:       func() { s.send(s.leagueService.PowerRankings(0)) },
		},
		{
			name:       JobPostResults,
			definition: gocron.WeeklyJob(1, gocron.NewWeekdays(time.Tuesday), gocron.NewAtTimes(gocron.NewAtTime(7, 30, 0))),
			task:       func() { s.sendResults(ctx) },
		},
		// Current standings - Wednesday 7:30
		{
			name:       JobPostStandings,
			definition: gocron.WeeklyJob(1, gocron.NewWeekdays(time.Wednesday), gocron.NewAtTimes(gocron.NewAtTime(7, 30, 0))),
			task:       s.sendStandings,
		},
		{
			name:       JobPostLedger,
			definition: gocron.CronJob(s.cfg.LedgerSchedule, false),
			task:       func() { s.sendLedger(ctx) },
		},
	}

	for _, j := range jobs {
		opts := append([]gocron.JobOption{gocron.WithName(j.name)}, j.options...)
		if _, err := s.s.NewJob(j.definition, gocron.NewTask(j.task), opts...); err != nil {
			return fmt.Errorf("failed to create %s job: %w", j.name, err)
		}
	}

	s.s.Start()
	return nil
}

func pollOptions() []gocron.JobOption {
	return []gocron.JobOption{
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

// JobNames lists registered jobs, for diagnostics.
func (s *Scheduler) JobNames() []string {
	var names []string
	for _, j := range s.s.Jobs() {
		names = append(names, j.Name())
	}
	return names
}

func (s *Scheduler) send(text string) {
	if err := s.sendMessage(text); err != nil {
		slog.Error("Failed to send scheduled message", "error", err)
	}
}

func (s *Scheduler) refreshLeague(ctx context.Context) {
	if err := s.leagueService.RefreshLeague(ctx); err != nil {
		slog.Info("League refresh abandoned", "error", err)
	}
}

func (s *Scheduler) collectHistory(ctx context.Context) {
	if err := s.leagueService.CollectHistory(ctx); err != nil {
		slog.Error("Failed to collect history", "error", err)
	}
}

func (s *Scheduler) sendResults(ctx context.Context) {
	if err := s.leagueService.RefreshCurrentSeason(ctx); err != nil {
		slog.Error("Failed to refresh current season", "error", err)
		return
	}
	if _, ok := s.leagueService.LatestResults(); !ok {
		slog.Info("No results to post")
		return
	}
	s.send(s.leagueService.Results())
}

func (s *Scheduler) sendStandings() {
	s.send(s.leagueService.Standings(stats.SortRank, stats.Asc))
}

func (s *Scheduler) sendLedger(ctx context.Context) {
	if _, err := s.leagueService.SyncLedger(ctx, s.leagueService.DefaultLedgerRange()); err != nil {
		slog.Error("Failed to sync ledger", "error", err)
		return
	}
	s.send(s.leagueService.Ledger())
}
