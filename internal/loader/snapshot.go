package loader

import (
	"context"
	"log/slog"
	"sync"

	"github.com/omarshaarawi/leaguehub/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	DemoMembersWarning  = "Using demo users (network blocked or API failed)"
	DemoRostersWarning  = "Using demo rosters (network blocked or API failed)"
	StaleMembersWarning = "Users refresh failed; showing the last successful load"
	StaleRostersWarning = "Rosters refresh failed; showing the last successful load"
)

type LeagueSource interface {
	Season(ctx context.Context, leagueID string) (string, bool)
	Members(ctx context.Context, leagueID string) ([]models.Member, bool)
	Rosters(ctx context.Context, leagueID string) ([]models.Roster, bool)
}

type SnapshotStore interface {
	Snapshot() models.Snapshot
	SaveMembers(members []models.Member, warning string)
	SaveRosters(rosters []models.Roster, warning string)
	SaveSeason(season string)
}

// SnapshotLoader refreshes the current league's members and rosters. A field
// that fails to load keeps its previous live value, or falls back to demo data,
// and always carries a warning.
type SnapshotLoader struct {
	source LeagueSource
	store  SnapshotStore
	demo   Demo

	mu          sync.Mutex
	liveMembers bool
	liveRosters bool
}

func NewSnapshotLoader(source LeagueSource, store SnapshotStore, demo Demo) *SnapshotLoader {
	return &SnapshotLoader{source: source, store: store, demo: demo}
}

// Load fetches season, users and rosters concurrently. Nothing is committed
// if ctx is done by the time the fetches return.
func (l *SnapshotLoader) Load(ctx context.Context, leagueID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var (
		season    string
		members   []models.Member
		rosters   []models.Roster
		seasonOK  bool
		membersOK bool
		rostersOK bool
	)

	var g errgroup.Group
	g.Go(func() error {
		season, seasonOK = l.source.Season(ctx, leagueID)
		return nil
	})
	g.Go(func() error {
		members, membersOK = l.source.Members(ctx, leagueID)
		return nil
	})
	g.Go(func() error {
		rosters, rostersOK = l.source.Rosters(ctx, leagueID)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		slog.Info("Discarding league snapshot", "league_id", leagueID, "error", err)
		return err
	}

	prev := l.store.Snapshot()

	if seasonOK && season != "" {
		l.store.SaveSeason(season)
	}

	switch {
	case membersOK:
		l.store.SaveMembers(members, "")
		l.liveMembers = true
	case l.liveMembers:
		slog.Warn("Keeping previous users", "league_id", leagueID)
		l.store.SaveMembers(prev.Members, StaleMembersWarning)
	default:
		slog.Warn("Falling back to demo users", "league_id", leagueID)
		l.store.SaveMembers(l.demo.Members, DemoMembersWarning)
	}

	switch {
	case rostersOK:
		l.store.SaveRosters(rosters, "")
		l.liveRosters = true
	case l.liveRosters:
		slog.Warn("Keeping previous rosters", "league_id", leagueID)
		l.store.SaveRosters(prev.Rosters, StaleRostersWarning)
	default:
		slog.Warn("Falling back to demo rosters", "league_id", leagueID)
		l.store.SaveRosters(l.demo.Rosters, DemoRostersWarning)
	}

	slog.Info("League snapshot loaded", "league_id", leagueID, "members", membersOK, "rosters", rostersOK)
	return nil
}
