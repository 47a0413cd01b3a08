package service

import (
	"github.com/lifemirror/lifemirror/internal/clock"
	"github.com/lifemirror/lifemirror/internal/store"
)

// Services bundles one service per resource.
type Services struct {
	Tasks   *TaskService
	Bills   *BillService
	Assets  *AssetService
	Fitness *FitnessService
	Moods   *MoodService
	Habits  *HabitService
	Savings *SavingsService
}

// New wires every resource service to db. n may be nil.
func New(db *store.DB, clk clock.Clock, n Notifier) *Services {
	if clk == nil {
		clk = clock.System{}
	}
	return &Services{
		Tasks:   &TaskService{Resource: newResource("task", db.Tasks(), n)},
		Bills:   &BillService{Resource: newResource("bill", db.Bills(), n)},
		Assets:  &AssetService{Resource: newResource("asset", db.Assets(), n)},
		Fitness: &FitnessService{Resource: newResource("fitness_log", db.FitnessLogs(), n)},
		Moods:   &MoodService{Resource: newResource("mood_log", db.MoodLogs(), n), clock: clk},
		Habits:  &HabitService{Resource: newResource("habit", db.Habits(), n), clock: clk},
		Savings: &SavingsService{Resource: newResource("savings_goal", db.SavingsGoals(), n)},
	}
}
