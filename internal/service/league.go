package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/omarshaarawi/leaguehub/internal/config"
	"github.com/omarshaarawi/leaguehub/internal/history"
	"github.com/omarshaarawi/leaguehub/internal/ledger"
	"github.com/omarshaarawi/leaguehub/internal/loader"
	"github.com/omarshaarawi/leaguehub/internal/models"
	"github.com/omarshaarawi/leaguehub/internal/news"
	"github.com/omarshaarawi/leaguehub/internal/repository/memory"
	"github.com/omarshaarawi/leaguehub/internal/stats"
)

// Source is everything the service reads from the league API.
type Source interface {
	Season(ctx context.Context, leagueID string) (string, bool)
	Members(ctx context.Context, leagueID string) ([]models.Member, bool)
	Rosters(ctx context.Context, leagueID string) ([]models.Roster, bool)
	CurrentWeek(ctx context.Context) (int, bool)
	Matchups(ctx context.Context, leagueID string, week int) ([]models.MatchupRecord, bool)
	Transactions(ctx context.Context, leagueID string, week int) ([]models.Transaction, bool)
}

type Options struct {
	Fees     config.Fees
	Policy   history.Policy
	Demo     *loader.Demo
	Clock    clockwork.Clock
	Location *time.Location
}

type LeagueService struct {
	league    config.League
	engine    *stats.Engine
	repo      *memory.Repository
	feed      *news.Feed
	snapshots *loader.SnapshotLoader
	state     *loader.StateLoader
	collector *history.Collector
	current   *history.Collector
	ledger    *ledger.Aggregator
	fees      config.Fees
	clock     clockwork.Clock
	loc       *time.Location

	mu      sync.Mutex
	cached  *derived
	version uint64
}

// derived is every engine output for one repository version.
type derived struct {
	scores    []models.PowerScore
	games     []models.Game
	records   models.LeagueRecords
	rivalries []models.RivalryRecord
}

func NewLeagueService(league config.League, source Source, repo *memory.Repository, feed *news.Feed, opts Options) *LeagueService {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Policy.MaxWeek == 0 {
		opts.Policy.MaxWeek = league.MaxWeek
	}
	demo := opts.Demo
	if demo == nil {
		d := loader.NewDemo(rand.New(rand.NewPCG(uint64(opts.Clock.Now().UnixNano()), 0)))
		demo = &d
	}

	return &LeagueService{
		league:    league,
		engine:    stats.New(league),
		repo:      repo,
		feed:      feed,
		snapshots: loader.NewSnapshotLoader(source, repo, *demo),
		state:     loader.NewStateLoader(source, repo),
		collector: history.NewCollector(source, opts.Policy, repo.SetHistoryStatus),
		current:   history.NewCollector(source, opts.Policy, nil),
		ledger:    ledger.NewAggregator(source, league.LedgerWeeks, opts.Clock),
		fees:      opts.Fees,
		clock:     opts.Clock,
		loc:       opts.Location,
	}
}

func (s *LeagueService) RefreshLeague(ctx context.Context) error {
	return s.snapshots.Load(ctx, s.league.LeagueID)
}

// RefreshWeek reloads the season state. When the week has moved on, the
// current league's completed weeks are re-collected as well.
func (s *LeagueService) RefreshWeek(ctx context.Context) {
	prev, _ := s.repo.CurrentWeek()
	week, ok := s.state.Load(ctx)
	if !ok || week == prev {
		return
	}
	if err := s.RefreshCurrentSeason(ctx); err != nil {
		slog.Info("Current season refresh abandoned", "week", week, "error", err)
	}
}

// CollectHistory runs the historical collector once. A cancelled run leaves
// the previous history in place.
func (s *LeagueService) CollectHistory(ctx context.Context) error {
	week, _ := s.repo.CurrentWeek()
	h, err := s.collector.Collect(ctx, history.Request{
		LeagueIDs:       s.league.LeagueIDs(),
		CurrentLeagueID: s.league.LeagueID,
		CurrentWeek:     week,
	})
	if err != nil {
		s.repo.SetHistoryStatus(models.CollectionIdle)
		return fmt.Errorf("collecting history: %w", err)
	}
	s.repo.SaveHistory(h)
	return nil
}

// RefreshCurrentSeason re-collects the current league's context and completed
// weeks and merges them into the stored history. It does nothing until a full
// collection has finished.
func (s *LeagueService) RefreshCurrentSeason(ctx context.Context) error {
	week, ok := s.repo.CurrentWeek()
	if !ok || s.repo.History().Status != models.CollectionDone {
		return nil
	}
	update, err := s.current.Collect(ctx, history.Request{
		LeagueIDs:       []string{s.league.LeagueID},
		CurrentLeagueID: s.league.LeagueID,
		CurrentWeek:     week,
	})
	if err != nil {
		return fmt.Errorf("refreshing current season: %w", err)
	}
	s.repo.UpdateHistory(func(h models.History) (models.History, bool) {
		if h.Status != models.CollectionDone {
			return h, false
		}
		return history.Merge(h, update), true
	})
	slog.Info("Current season refreshed", "league_id", s.league.LeagueID, "completed_weeks", history.CompletedWeeks(week, s.league.MaxWeek))
	return nil
}

// SyncLedger replaces the stored ledger with a fresh sync over r, including
// a failed sync's empty result.
func (s *LeagueService) SyncLedger(ctx context.Context, r ledger.Range) (models.Ledger, error) {
	l, err := s.ledger.Sync(ctx, s.league.LeagueID, r)
	if ctx.Err() != nil {
		return l, err
	}
	s.repo.SaveLedger(l)
	return l, err
}

func (s *LeagueService) DefaultLedgerRange() ledger.Range {
	return ledger.DefaultRange(s.now())
}

// ParseLedgerRange reads YYYY-MM-DD dates in the league's time zone. Missing
// dates fall back to the default range's ends.
func (s *LeagueService) ParseLedgerRange(from, to string) (ledger.Range, error) {
	def := s.DefaultLedgerRange()
	if from == "" {
		from = def.From.Format(time.DateOnly)
	}
	if to == "" {
		to = def.To.Format(time.DateOnly)
	}
	return ledger.ParseRange(from, to, s.loc)
}

func (s *LeagueService) AddNews(ctx context.Context, content string) (news.Item, error) {
	return s.feed.Add(ctx, content)
}

func (s *LeagueService) ArchiveNews(ctx context.Context, id int64) error {
	return s.feed.Archive(ctx, id)
}

func (s *LeagueService) ClearArchivedNews(ctx context.Context) (int, error) {
	return s.feed.ClearArchived(ctx)
}

func (s *LeagueService) PowerScores() []models.PowerScore {
	return s.derived().scores
}

func (s *LeagueService) now() time.Time {
	return s.clock.Now().In(s.loc)
}

func (s *LeagueService) derived() *derived {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.repo.Version()
	if s.cached != nil && s.version == v {
		return s.cached
	}

	snap := s.repo.Snapshot()
	h := s.repo.History()
	games := s.engine.Games(h.Contexts, h.Weeks)
	d := &derived{
		scores:    s.engine.PowerScores(snap.Members, snap.Rosters),
		games:     games,
		records:   s.engine.Records(h),
		rivalries: s.engine.Rivalries(games),
	}
	s.cached, s.version = d, v
	slog.Debug("Recomputed league stats", "version", v, "teams", len(d.scores), "games", len(games))
	return d
}
