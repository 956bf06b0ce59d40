package scheduler

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/omarshaarawi/leaguehub/internal/config"
	"github.com/omarshaarawi/leaguehub/internal/loader"
	"github.com/omarshaarawi/leaguehub/internal/models"
	"github.com/omarshaarawi/leaguehub/internal/news"
	"github.com/omarshaarawi/leaguehub/internal/repository/memory"
	"github.com/omarshaarawi/leaguehub/internal/service"
)

type offline struct{}

func (offline) Season(context.Context, string) (string, bool) { return "", false }
func (offline) Members(context.Context, string) ([]models.Member, bool) { return nil, false }
func (offline) Rosters(context.Context, string) ([]models.Roster, bool) { return nil, false }
func (offline) CurrentWeek(context.Context) (int, bool) { return 0, false }
func (offline) Matchups(context.Context, string, int) ([]models.MatchupRecord, bool) {
	return nil, false
}
func (offline) Transactions(context.Context, string, int) ([]models.Transaction, bool) {
	return nil, false
}

// countingSource serves one live member and week 5, counting the calls the
// refresh jobs make.
type countingSource struct {
	offline
	members atomic.Int32
	weeks   atomic.Int32
}

func (c *countingSource) Members(context.Context, string) ([]models.Member, bool) {
	c.members.Add(1)
	return []models.Member{{ID: "u1", DisplayName: "Obi"}}, true
}

func (c *countingSource) CurrentWeek(context.Context) (int, bool) {
	c.weeks.Add(1)
	return 5, true
}

type outbox struct {
	mu    sync.Mutex
	texts []string
}

func (o *outbox) send(text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.texts = append(o.texts, text)
	return nil
}

func (o *outbox) contains(sub string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.ContainsFunc(o.texts, func(text string) bool { return strings.Contains(text, sub) })
}

func newScheduler(t *testing.T, source service.Source, clock clockwork.Clock, ledgerSchedule string, send func(string) error) (*Scheduler, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	demo := loader.NewDemo(rand.New(rand.NewPCG(1, 2)))
	ls := service.NewLeagueService(config.League{LeagueID: "cur"}, source, repo,
		news.NewFeed(memory.NewNewsStore(), clock),
		service.Options{Demo: &demo, Clock: clock, Location: time.UTC})

	s, err := NewScheduler(ls, send, Config{
		PollInterval:   time.Minute,
		LedgerSchedule: ledgerSchedule,
		Location:       time.UTC,
		Clock:          clock,
	})
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	return s, repo
}

func newTestScheduler(t *testing.T, ledgerSchedule string) (*Scheduler, *memory.Repository) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC))
	return newScheduler(t, offline{}, clock, ledgerSchedule, func(string) error { return nil })
}

// waitFor calls step until cond holds, failing after two seconds of real time.
func waitFor(t *testing.T, what string, step func(), cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		step()
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStartRegistersJobs(t *testing.T) {
	s, repo := newTestScheduler(t, "0 9 * * 1")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	got := s.JobNames()
	slices.Sort(got)
	want := []string{
		JobCollectHistory, JobPostLedger, JobPostPower, JobPostResults,
		JobPostStandings, JobRefreshLeague, JobRefreshWeek,
	}
	if !slices.Equal(got, want) {
		t.Errorf("JobNames = %v, want %v", got, want)
	}

	// the refresh job starts immediately and falls back to demo data
	waitFor(t, "league refresh at start", func() {}, func() bool { return len(repo.Snapshot().Members) > 0 })
	if w := repo.Snapshot().MembersWarning; w != loader.DemoMembersWarning {
		t.Errorf("MembersWarning = %q, want demo warning", w)
	}
}

func TestStartRejectsBadLedgerSchedule(t *testing.T) {
	s, _ := newTestScheduler(t, "every tuesday")
	defer s.Stop()

	if err := s.Start(context.Background()); err == nil {
		t.Error("Start with invalid cron expression should fail")
	}
}

func TestPollJobsRerunEachInterval(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC))
	src := &countingSource{}
	s, repo := newScheduler(t, src, clock, "0 9 * * 1", func(string) error { return nil })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	waitFor(t, "first refresh", func() {}, func() bool {
		_, weekKnown := repo.CurrentWeek()
		return weekKnown && len(repo.Snapshot().Members) == 1 && repo.History().Status == models.CollectionDone
	})
	members, weeks := src.members.Load(), src.weeks.Load()

	waitFor(t, "second refresh", func() { clock.Advance(time.Minute) }, func() bool {
		return src.weeks.Load() > weeks && src.members.Load() > members
	})
}

func TestPostsPowerRankingsTuesdayMorning(t *testing.T) {
	// Tuesday, one minute before the weekly posts
	clock := clockwork.NewFakeClockAt(time.Date(2025, 10, 14, 7, 29, 0, 0, time.UTC))
	out := &outbox{}
	s, _ := newScheduler(t, offline{}, clock, "0 9 * * 1", out.send)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if out.contains("*Power Rankings*") {
		t.Fatal("power rankings posted before 07:30")
	}
	waitFor(t, "power rankings post", func() { clock.Advance(time.Minute) }, func() bool {
		return out.contains("*Power Rankings*")
	})
	if now := clock.Now(); now.Weekday() != time.Tuesday {
		t.Errorf("posted at %v, want Tuesday", now)
	}
	if out.contains("Final Scores") {
		t.Error("results posted with no completed week")
	}
}
