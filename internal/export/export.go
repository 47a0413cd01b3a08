// Package export writes a YAML snapshot of one owner's data to a directory.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lifemirror/lifemirror/internal/checksum"
	"github.com/lifemirror/lifemirror/internal/dashboard"
	"github.com/lifemirror/lifemirror/internal/lifescore"
	"github.com/lifemirror/lifemirror/internal/models"
)

// ManifestFile lists every exported file with its checksum.
const ManifestFile = "manifest.yaml"

// Sources are the collections exported beyond the dashboard snapshot.
type Sources struct {
	Habits       dashboard.Lister[models.Habit]
	SavingsGoals dashboard.Lister[models.SavingsGoal]
}

// Exporter builds and writes snapshots.
type Exporter struct {
	agg *dashboard.Aggregator
	src Sources
	now func() time.Time
}

// New creates an Exporter.
func New(agg *dashboard.Aggregator, src Sources) *Exporter {
	return &Exporter{agg: agg, src: src, now: time.Now}
}

// Manifest describes one export run.
type Manifest struct {
	Owner      string            `yaml:"owner"`
	Date       string            `yaml:"date"`
	ExportedAt time.Time         `yaml:"exported_at"`
	Files      map[string]string `yaml:"files"`
}

// Export writes tasks, bills, assets, fitness logs, mood logs, habits,
// savings goals and the life score as separate YAML files, then the
// manifest. The synthesized placeholder mood is not exported.
func (e *Exporter) Export(ctx context.Context, owner string, out *Dir) (*Manifest, error) {
	snap, err := e.agg.Snapshot(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("export: snapshot: %w", err)
	}
	habits, err := e.src.Habits.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("export: habits: %w", err)
	}
	goals, err := e.src.SavingsGoals.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("export: savings goals: %w", err)
	}

	today := snap.Date
	moods := make([]models.MoodLog, 0, len(snap.MoodLogs))
	for _, m := range snap.MoodLogs {
		if !m.Placeholder() {
			moods = append(moods, m)
		}
	}

	files := []struct {
		name string
		v    any
	}{
		{"tasks.yaml", snap.Tasks},
		{"bills.yaml", snap.Bills},
		{"assets.yaml", snap.Assets},
		{"fitness_logs.yaml", snap.FitnessLogs},
		{"mood_logs.yaml", moods},
		{"habits.yaml", habits},
		{"savings_goals.yaml", goals},
		{"score.yaml", lifescore.Compute(snap, today)},
	}

	m := &Manifest{
		Owner:      owner,
		Date:       today,
		ExportedAt: e.now().UTC().Truncate(time.Second),
		Files:      make(map[string]string, len(files)),
	}
	for _, f := range files {
		data, err := toYAML(f.v)
		if err != nil {
			return nil, fmt.Errorf("export: encode %s: %w", f.name, err)
		}
		if err := out.Write(f.name, data); err != nil {
			return nil, err
		}
		m.Files[f.name] = checksum.Sum(data)
		slog.Debug("export file written", slog.String("file", f.name), slog.Int("bytes", len(data)))
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("export: encode manifest: %w", err)
	}
	if err := out.Write(ManifestFile, data); err != nil {
		return nil, err
	}
	return m, nil
}

// toYAML renders v with the same field names as the JSON API.
func toYAML(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return yaml.Marshal(generic)
}
