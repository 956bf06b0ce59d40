package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/omarshaarawi/leaguehub/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	dateLayout = "2006-01-02"

	SyncFailed = "Could not sync transactions"
)

var ErrInvalidRange = errors.New("invalid date range")

type Source interface {
	Members(ctx context.Context, leagueID string) ([]models.Member, bool)
	Rosters(ctx context.Context, leagueID string) ([]models.Roster, bool)
	Transactions(ctx context.Context, leagueID string, week int) ([]models.Transaction, bool)
}

// Range is an inclusive window from the first second of From's day to the
// last second of To's day.
type Range struct {
	From time.Time
	To   time.Time
}

// NewRange spans whole days in from's location.
func NewRange(from, to time.Time) Range {
	loc := from.Location()
	to = to.In(loc)
	return Range{
		From: time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc),
		To:   time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, loc),
	}
}

// ParseRange reads two YYYY-MM-DD dates in loc.
func ParseRange(from, to string, loc *time.Location) (Range, error) {
	f, err := time.ParseInLocation(dateLayout, strings.TrimSpace(from), loc)
	if err != nil {
		return Range{}, fmt.Errorf("%w: from date %q: %w", ErrInvalidRange, from, err)
	}
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(to), loc)
	if err != nil {
		return Range{}, fmt.Errorf("%w: to date %q: %w", ErrInvalidRange, to, err)
	}
	r := NewRange(f, t)
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// DefaultRange runs from August 1 of now's year through now's day.
func DefaultRange(now time.Time) Range {
	return NewRange(time.Date(now.Year(), time.August, 1, 0, 0, 0, 0, now.Location()), now)
}

func (r Range) Validate() error {
	if r.To.Before(r.From) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidRange, r.From.Format(dateLayout), r.To.Format(dateLayout))
	}
	return nil
}

// Contains treats an unknown timestamp as in range.
func (r Range) Contains(t time.Time) bool {
	if t.IsZero() {
		return true
	}
	return !t.Before(r.From) && !t.After(r.To)
}

func (r Range) String() string {
	return r.From.Format(dateLayout) + " to " + r.To.Format(dateLayout)
}

type Aggregator struct {
	source Source
	weeks  int
	clock  clockwork.Clock
}

func NewAggregator(source Source, weeks int, clock clockwork.Clock) *Aggregator {
	if weeks < 1 {
		weeks = 18
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Aggregator{source: source, weeks: weeks, clock: clock}
}

// Sync rebuilds the ledger for leagueID over r. It is all-or-nothing: on any
// error the returned ledger has no entries and carries SyncFailed.
func (a *Aggregator) Sync(ctx context.Context, leagueID string, r Range) (models.Ledger, error) {
	failed := func(err error) (models.Ledger, error) {
		slog.Error("Ledger sync failed", "league_id", leagueID, "error", err)
		return models.Ledger{From: r.From, To: r.To, Entries: []models.LedgerEntry{}, Error: SyncFailed}, err
	}

	if err := r.Validate(); err != nil {
		return failed(err)
	}

	lc := models.LeagueContext{LeagueID: leagueID}
	var g errgroup.Group
	g.Go(func() error {
		lc.Members, _ = a.source.Members(ctx, leagueID)
		return nil
	})
	var rosters []models.Roster
	g.Go(func() error {
		rosters, _ = a.source.Rosters(ctx, leagueID)
		return nil
	})
	_ = g.Wait()
	lc.Rosters = rosters

	var txns []models.Transaction
	for week := 1; week <= a.weeks; week++ {
		if err := ctx.Err(); err != nil {
			return failed(err)
		}
		weekTxns, ok := a.source.Transactions(ctx, leagueID, week)
		if !ok {
			continue
		}
		txns = append(txns, weekTxns...)
	}
	if err := ctx.Err(); err != nil {
		return failed(err)
	}

	entries := Aggregate(txns, lc.OwnerName, r)
	slog.Info("Ledger synced", "league_id", leagueID, "range", r.String(), "transactions", len(txns), "owners", len(entries))
	return models.Ledger{
		From:     r.From,
		To:       r.To,
		Entries:  entries,
		SyncedAt: a.clock.Now(),
	}, nil
}

// Aggregate credits one add per player added on a completed waiver or free
// agent move and one trade per participating roster of a completed trade.
// Drops are free. Entries are ordered by total, adds, trades (all descending)
// then owner name.
func Aggregate(txns []models.Transaction, ownerName func(rosterID int) string, r Range) []models.LedgerEntry {
	byOwner := make(map[string]*models.LedgerEntry)
	entry := func(rosterID int) *models.LedgerEntry {
		name := ownerName(rosterID)
		e, ok := byOwner[name]
		if !ok {
			e = &models.LedgerEntry{Owner: name}
			byOwner[name] = e
		}
		return e
	}

	for _, t := range txns {
		if t.Status != models.StatusComplete || !r.Contains(t.UpdatedAt) {
			continue
		}
		switch t.Type {
		case models.TransactionWaiver, models.TransactionFreeAgent:
			for _, rid := range t.AddRosterIDs {
				entry(rid).Adds++
			}
		case models.TransactionTrade:
			for _, rid := range t.RosterIDs {
				entry(rid).Trades++
			}
		}
	}

	out := make([]models.LedgerEntry, 0, len(byOwner))
	for _, e := range byOwner {
		e.Total = e.Adds + e.Trades
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if a.Adds != b.Adds {
			return a.Adds > b.Adds
		}
		if a.Trades != b.Trades {
			return a.Trades > b.Trades
		}
		if la, lb := strings.ToLower(a.Owner), strings.ToLower(b.Owner); la != lb {
			return la < lb
		}
		return a.Owner < b.Owner
	})
	return out
}

// Fee prices an entry; amounts are never stored on the ledger itself.
func Fee(e models.LedgerEntry, perAdd, perTrade float64) float64 {
	return float64(e.Adds)*perAdd + float64(e.Trades)*perTrade
}
