// Package dashboard aggregates an owner's collections into one snapshot.
package dashboard

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lifemirror/lifemirror/internal/clock"
	"github.com/lifemirror/lifemirror/internal/models"
)

// Lister returns all of an owner's records of one kind, already ordered.
type Lister[T any] interface {
	List(ctx context.Context, owner string) ([]T, error)
}

// Snapshot is the composite dashboard payload.
type Snapshot struct {
	Tasks       []models.Task       `json:"tasks"`
	Bills       []models.Bill       `json:"bills"`
	Assets      []models.Asset      `json:"assets"`
	FitnessLogs []models.FitnessLog `json:"fitnessLogs"`
	MoodLogs    []models.MoodLog    `json:"moodLogs"`

	// Date is the "today" the snapshot was built for.
	Date string `json:"-"`
}

// Sources are the five collections the dashboard reads.
type Sources struct {
	Tasks       Lister[models.Task]
	Bills       Lister[models.Bill]
	Assets      Lister[models.Asset]
	FitnessLogs Lister[models.FitnessLog]
	MoodLogs    Lister[models.MoodLog]
}

// Observer is told how long each Snapshot call took and how it ended.
type Observer interface {
	ObserveAggregation(d time.Duration, err error)
}

// Aggregator builds snapshots.
type Aggregator struct {
	src      Sources
	clock    clock.Clock
	observer Observer
}

// New returns an Aggregator reading from src. A nil clk means the system clock.
func New(src Sources, clk clock.Clock) *Aggregator {
	if clk == nil {
		clk = clock.System{}
	}
	return &Aggregator{src: src, clock: clk}
}

// SetObserver installs o. It must be called before the aggregator is used.
func (a *Aggregator) SetObserver(o Observer) {
	a.observer = o
}

// Today is the calendar date the aggregator considers current.
func (a *Aggregator) Today() string {
	return clock.Today(a.clock)
}

// Snapshot fetches the five collections concurrently. The first failure
// cancels the remaining fetches and is returned; no partial snapshot is ever
// returned. When the owner has no mood log for today, a non-persisted
// placeholder is put at the front of MoodLogs.
func (a *Aggregator) Snapshot(ctx context.Context, owner string) (*Snapshot, error) {
	return a.SnapshotAt(ctx, owner, a.Today())
}

// SnapshotAt is Snapshot with today fixed by the caller. The date is recorded
// in Snapshot.Date so scoring uses the same day as the placeholder.
func (a *Aggregator) SnapshotAt(ctx context.Context, owner, today string) (*Snapshot, error) {
	start := time.Now()
	snap, err := a.snapshot(ctx, owner, today)
	if a.observer != nil {
		a.observer.ObserveAggregation(time.Since(start), err)
	}
	return snap, err
}

func (a *Aggregator) snapshot(ctx context.Context, owner, today string) (*Snapshot, error) {
	snap := Snapshot{Date: today}
	g, gCtx := errgroup.WithContext(ctx)

	fetch(g, gCtx, owner, "tasks", a.src.Tasks, &snap.Tasks)
	fetch(g, gCtx, owner, "bills", a.src.Bills, &snap.Bills)
	fetch(g, gCtx, owner, "assets", a.src.Assets, &snap.Assets)
	fetch(g, gCtx, owner, "fitness logs", a.src.FitnessLogs, &snap.FitnessLogs)
	fetch(g, gCtx, owner, "mood logs", a.src.MoodLogs, &snap.MoodLogs)

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.MoodLogs = withTodayMood(snap.MoodLogs, today)
	return &snap, nil
}

func fetch[T any](g *errgroup.Group, ctx context.Context, owner, name string, src Lister[T], dst *[]T) {
	g.Go(func() error {
		items, err := src.List(ctx, owner)
		if err != nil {
			return fmt.Errorf("dashboard: fetch %s: %w", name, err)
		}
		if items == nil {
			items = []T{}
		}
		*dst = items
		return nil
	})
}

// withTodayMood prepends a placeholder for today unless a log dated today
// exists. Future-dated logs are refused on write, so this matches checking the
// newest log; for legacy future-dated rows today's own log still counts.
func withTodayMood(logs []models.MoodLog, today string) []models.MoodLog {
	if slices.ContainsFunc(logs, func(m models.MoodLog) bool { return m.Date == today }) {
		return logs
	}
	return append([]models.MoodLog{models.NewPlaceholderMood(today)}, logs...)
}
