package loader

import (
	"context"
	"log/slog"
)

type WeekSource interface {
	CurrentWeek(ctx context.Context) (int, bool)
}

type WeekStore interface {
	SaveWeek(week int)
}

// StateLoader tracks the league-wide current week.
type StateLoader struct {
	source WeekSource
	store  WeekStore
}

func NewStateLoader(source WeekSource, store WeekStore) *StateLoader {
	return &StateLoader{source: source, store: store}
}

// Load stores the current week, or clears it when the week is unknown.
func (l *StateLoader) Load(ctx context.Context) (int, bool) {
	week, ok := l.source.CurrentWeek(ctx)
	if ctx.Err() != nil {
		return 0, false
	}
	if !ok || week <= 0 {
		slog.Warn("Current week unknown")
		l.store.SaveWeek(0)
		return 0, false
	}

	slog.Info("Current week", "week", week)
	l.store.SaveWeek(week)
	return week, true
}
