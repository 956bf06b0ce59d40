package memory

import (
	"slices"
	"sync"

	"github.com/omarshaarawi/leaguehub/internal/models"
)

// Repository holds the settled output of every loader. Each loader owns its
// own slice of state; readers get copies.
type Repository struct {
	snapshot models.Snapshot
	season   string
	week     int
	history  models.History
	ledger   models.Ledger
	version  uint64
	mu       sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{history: models.History{Status: models.CollectionIdle}}
}

func (r *Repository) SaveMembers(members []models.Member, warning string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot.Members = slices.Clone(members)
	r.snapshot.MembersWarning = warning
	r.version++
}

func (r *Repository) SaveRosters(rosters []models.Roster, warning string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot.Rosters = slices.Clone(rosters)
	r.snapshot.RostersWarning = warning
	r.version++
}

func (r *Repository) Snapshot() models.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.snapshot
	s.Members = slices.Clone(s.Members)
	s.Rosters = slices.Clone(s.Rosters)
	return s
}

func (r *Repository) SaveSeason(season string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.season = season
	r.version++
}

func (r *Repository) Season() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.season
}

// SaveWeek stores the current week; a non-positive week clears it.
func (r *Repository) SaveWeek(week int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if week < 0 {
		week = 0
	}
	r.week = week
	r.version++
}

func (r *Repository) CurrentWeek() (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.week, r.week > 0
}

func (r *Repository) SaveHistory(h models.History) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = h
	r.version++
}

// SetHistoryStatus records collector progress without touching its data.
func (r *Repository) SetHistoryStatus(status models.CollectionStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history.Status = status
	r.version++
}

// UpdateHistory applies fn to the stored history under the write lock. The
// result is stored only when fn reports a change.
func (r *Repository) UpdateHistory(fn func(models.History) (models.History, bool)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := fn(r.history)
	if !ok {
		return false
	}
	r.history = h
	r.version++
	return true
}

func (r *Repository) History() models.History {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.history
}

func (r *Repository) SaveLedger(l models.Ledger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ledger = l
	r.version++
}

func (r *Repository) Ledger() models.Ledger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ledger
}

// Version increases on every write; derived views key their caches on it.
func (r *Repository) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}
