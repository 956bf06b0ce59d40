package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/omarshaarawi/leaguehub/internal/models"
	"golang.org/x/sync/errgroup"
)

const StateUnavailable = "Historical data unavailable: season state could not be loaded"

type Source interface {
	Season(ctx context.Context, leagueID string) (string, bool)
	Members(ctx context.Context, leagueID string) ([]models.Member, bool)
	Rosters(ctx context.Context, leagueID string) ([]models.Roster, bool)
	CurrentWeek(ctx context.Context) (int, bool)
	Matchups(ctx context.Context, leagueID string, week int) ([]models.MatchupRecord, bool)
}

// Policy bounds how hard the collector leans on the upstream API. MaxInFlight
// caps concurrent matchup requests within one league; 1 means strictly
// week-by-week.
type Policy struct {
	MaxInFlight int
	MaxWeek     int
}

func DefaultPolicy() Policy {
	return Policy{MaxInFlight: 1, MaxWeek: 18}
}

type Request struct {
	LeagueIDs       []string
	CurrentLeagueID string
	// CurrentWeek is the live week; zero makes the collector look it up.
	CurrentWeek int
}

type Collector struct {
	source   Source
	policy   Policy
	progress func(models.CollectionStatus)
}

// NewCollector builds a collector. progress, if non-nil, is told about each
// phase change as it happens.
func NewCollector(source Source, policy Policy, progress func(models.CollectionStatus)) *Collector {
	if policy.MaxInFlight < 1 {
		policy.MaxInFlight = 1
	}
	if policy.MaxWeek < 1 {
		policy.MaxWeek = 18
	}
	if progress == nil {
		progress = func(models.CollectionStatus) {}
	}
	return &Collector{source: source, policy: policy, progress: progress}
}

// Collect gathers league contexts and weekly matchups for every league in
// req. Individual fetch failures become empty data. The error is non-nil only
// when ctx ends mid-run, in which case the partial result is discarded.
func (c *Collector) Collect(ctx context.Context, req Request) (models.History, error) {
	runID := uuid.NewString()
	start := time.Now()
	logger := slog.With("run_id", runID)

	h := models.History{CurrentLeagueID: req.CurrentLeagueID}

	c.progress(models.CollectionFetchingContexts)
	logger.Info("Collecting league contexts", "leagues", len(req.LeagueIDs))
	for _, id := range req.LeagueIDs {
		h.Contexts = append(h.Contexts, c.fetchContext(ctx, id))
	}
	if err := ctx.Err(); err != nil {
		return models.History{}, err
	}

	c.progress(models.CollectionFetchingMatchups)
	week := req.CurrentWeek
	if week <= 0 {
		w, ok := c.source.CurrentWeek(ctx)
		if !ok {
			logger.Error("Season state unavailable for history")
			h.Error = StateUnavailable
			w = 1
		}
		week = w
	}

	for _, lc := range h.Contexts {
		bound := c.policy.MaxWeek
		if lc.LeagueID == req.CurrentLeagueID {
			bound = CompletedWeeks(week, c.policy.MaxWeek)
		}
		weeks, err := c.fetchWeeks(ctx, lc, bound)
		if err != nil {
			return models.History{}, err
		}
		h.Weeks = append(h.Weeks, weeks...)
	}

	h.Status = models.CollectionDone
	c.progress(models.CollectionDone)
	logger.Info("History collected", "weeks", len(h.Weeks), "duration", time.Since(start))
	return h, nil
}

// CompletedWeeks is clamp(currentWeek-1, 1, maxWeek).
func CompletedWeeks(currentWeek, maxWeek int) int {
	return max(1, min(maxWeek, currentWeek-1))
}

func (c *Collector) fetchContext(ctx context.Context, leagueID string) models.LeagueContext {
	lc := models.LeagueContext{LeagueID: leagueID}

	var g errgroup.Group
	g.Go(func() error {
		if season, ok := c.source.Season(ctx, leagueID); ok {
			lc.Season = season
		}
		return nil
	})
	var members []models.Member
	g.Go(func() error {
		members, _ = c.source.Members(ctx, leagueID)
		return nil
	})
	var rosters []models.Roster
	g.Go(func() error {
		rosters, _ = c.source.Rosters(ctx, leagueID)
		return nil
	})
	_ = g.Wait()

	lc.Members = members
	lc.Rosters = rosters
	return lc
}

func (c *Collector) fetchWeeks(ctx context.Context, lc models.LeagueContext, bound int) ([]models.WeekMatchups, error) {
	out := make([]models.WeekMatchups, bound)

	var g errgroup.Group
	g.SetLimit(c.policy.MaxInFlight)
	for week := 1; week <= bound; week++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			matchups, ok := c.source.Matchups(ctx, lc.LeagueID, week)
			if !ok {
				matchups = []models.MatchupRecord{}
			}
			out[week-1] = models.WeekMatchups{
				LeagueID: lc.LeagueID,
				Season:   lc.Season,
				Week:     week,
				Matchups: matchups,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
