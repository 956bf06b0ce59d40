package history

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/omarshaarawi/leaguehub/internal/models"
)

type fakeSource struct {
	week     int
	inFlight atomic.Int32
	peak     atomic.Int32
	cancelAt int
	cancel   context.CancelFunc

	mu    sync.Mutex
	calls map[string][]int
}

func (f *fakeSource) Season(_ context.Context, id string) (string, bool) {
	return map[string]string{"cur": "2025", "old": "2024"}[id], id != "gone"
}

func (f *fakeSource) Members(_ context.Context, id string) ([]models.Member, bool) {
	if id == "gone" {
		return nil, false
	}
	return []models.Member{{ID: "u1", DisplayName: "Obi"}}, true
}

func (f *fakeSource) Rosters(_ context.Context, id string) ([]models.Roster, bool) {
	if id == "gone" {
		return nil, false
	}
	return []models.Roster{{RosterID: 1, OwnerID: "u1"}}, true
}

func (f *fakeSource) CurrentWeek(context.Context) (int, bool) {
	return f.week, f.week > 0
}

func (f *fakeSource) Matchups(_ context.Context, id string, week int) ([]models.MatchupRecord, bool) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string][]int{}
	}
	f.calls[id] = append(f.calls[id], week)
	f.mu.Unlock()

	if f.cancel != nil && week == f.cancelAt {
		f.cancel()
	}
	if week%2 == 0 {
		return nil, false
	}
	return []models.MatchupRecord{{RosterID: 1, MatchupID: 1, HasMatchup: true, Points: float64(week)}}, true
}

func TestCompletedWeeks(t *testing.T) {
	tests := []struct {
		current, max, want int
	}{
		{0, 18, 1},
		{1, 18, 1},
		{2, 18, 1},
		{7, 18, 6},
		{19, 18, 18},
		{30, 17, 17},
	}
	for _, tt := range tests {
		if got := CompletedWeeks(tt.current, tt.max); got != tt.want {
			t.Errorf("CompletedWeeks(%d, %d) = %d, want %d", tt.current, tt.max, got, tt.want)
		}
	}
}

func TestCollect(t *testing.T) {
	src := &fakeSource{}
	var mu sync.Mutex
	var phases []models.CollectionStatus
	c := NewCollector(src, Policy{MaxInFlight: 3, MaxWeek: 5}, func(s models.CollectionStatus) {
		mu.Lock()
		phases = append(phases, s)
		mu.Unlock()
	})

	h, err := c.Collect(context.Background(), Request{
		LeagueIDs:       []string{"cur", "old", "gone"},
		CurrentLeagueID: "cur",
		CurrentWeek:     4,
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if h.Status != models.CollectionDone || h.Error != "" {
		t.Errorf("Status = %s, Error = %q", h.Status, h.Error)
	}
	wantPhases := []models.CollectionStatus{models.CollectionFetchingContexts, models.CollectionFetchingMatchups, models.CollectionDone}
	if !slices.Equal(phases, wantPhases) {
		t.Errorf("phases = %v, want %v", phases, wantPhases)
	}

	if len(h.Contexts) != 3 || h.Contexts[2].Season != "" || len(h.Contexts[2].Members) != 0 {
		t.Errorf("contexts = %+v", h.Contexts)
	}
	// current league: weeks 1-3; each prior league: weeks 1-5
	if len(h.Weeks) != 3+5+5 {
		t.Fatalf("weeks = %d, want 13", len(h.Weeks))
	}
	for i, w := range h.Weeks[:3] {
		if w.LeagueID != "cur" || w.Season != "2025" || w.Week != i+1 {
			t.Errorf("week %d = %+v", i, w)
		}
	}
	if wk2 := h.Weeks[1]; wk2.Matchups == nil || len(wk2.Matchups) != 0 {
		t.Errorf("failed week = %#v, want empty non-nil", wk2.Matchups)
	}
	if p := src.peak.Load(); p > 3 {
		t.Errorf("peak in-flight = %d, want <= 3", p)
	}
}

func TestCollectStateUnavailable(t *testing.T) {
	src := &fakeSource{}
	c := NewCollector(src, DefaultPolicy(), nil)

	h, err := c.Collect(context.Background(), Request{LeagueIDs: []string{"cur"}, CurrentLeagueID: "cur"})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if h.Error != StateUnavailable {
		t.Errorf("Error = %q, want %q", h.Error, StateUnavailable)
	}
	if len(h.Weeks) != 1 {
		t.Errorf("weeks = %d, want 1", len(h.Weeks))
	}
	if src.peak.Load() != 1 {
		t.Errorf("peak in-flight = %d, want sequential", src.peak.Load())
	}
}

func TestCollectLooksUpWeek(t *testing.T) {
	src := &fakeSource{week: 3}
	c := NewCollector(src, DefaultPolicy(), nil)

	h, err := c.Collect(context.Background(), Request{LeagueIDs: []string{"cur"}, CurrentLeagueID: "cur"})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(h.Weeks) != 2 || h.Error != "" {
		t.Errorf("weeks = %d, error = %q; want 2 weeks", len(h.Weeks), h.Error)
	}
}

func TestCollectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := &fakeSource{cancelAt: 3, cancel: cancel}
	c := NewCollector(src, DefaultPolicy(), nil)

	h, err := c.Collect(ctx, Request{LeagueIDs: []string{"old"}, CurrentLeagueID: "cur", CurrentWeek: 10})
	if err == nil {
		t.Fatal("Collect should report cancellation")
	}
	if len(h.Weeks) != 0 || len(h.Contexts) != 0 {
		t.Errorf("partial history leaked: %+v", h)
	}
	if calls := src.calls["old"]; len(calls) != 3 {
		t.Errorf("matchup calls = %v, want weeks 1-3 only", calls)
	}
}
