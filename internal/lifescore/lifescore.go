// Package lifescore derives the dashboard life score from a snapshot.
//
// Every sub-score is an integer in [0,10]; the composite is the weighted sum
//
//	task×2.5 + finance×2.0 + fitness×2.0 + mood×2.0 + digital×1.5
//
// rounded to an integer in [0,100].
package lifescore

import (
	"math"

	"github.com/lifemirror/lifemirror/internal/dashboard"
	"github.com/lifemirror/lifemirror/internal/models"
)

// Weights of each sub-score in the composite.
const (
	TaskWeight    = 2.5
	FinanceWeight = 2.0
	FitnessWeight = 2.0
	MoodWeight    = 2.0
	DigitalWeight = 1.5
)

const (
	neutralScore      = 5
	fitnessActive     = 8
	fitnessInactive   = 4
	unpaidBillPenalty = 2
	maxSubScore       = 10
)

// Score is the life score of one snapshot.
type Score struct {
	Total   int `json:"total"`
	Task    int `json:"task"`
	Finance int `json:"finance"`
	Fitness int `json:"fitness"`
	Mood    int `json:"mood"`
	Digital int `json:"digital"`
}

// Compute scores snap as of the calendar date today (YYYY-MM-DD).
// It is a pure function of its arguments.
func Compute(snap *dashboard.Snapshot, today string) Score {
	if snap == nil {
		snap = &dashboard.Snapshot{}
	}
	s := Score{
		Task:    taskScore(snap.Tasks),
		Finance: financeScore(snap.Bills),
		Fitness: fitnessScore(snap.FitnessLogs, today),
		Mood:    moodScore(snap.MoodLogs, today),
		Digital: min(maxSubScore, len(snap.Assets)),
	}
	s.Total = int(math.Round(
		float64(s.Task)*TaskWeight +
			float64(s.Finance)*FinanceWeight +
			float64(s.Fitness)*FitnessWeight +
			float64(s.Mood)*MoodWeight +
			float64(s.Digital)*DigitalWeight))
	return s
}

func taskScore(tasks []models.Task) int {
	if len(tasks) == 0 {
		return neutralScore
	}
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(tasks)) * maxSubScore))
}

func financeScore(bills []models.Bill) int {
	unpaid := 0
	for _, b := range bills {
		if !b.Paid {
			unpaid++
		}
	}
	return max(0, maxSubScore-unpaidBillPenalty*unpaid)
}

func fitnessScore(logs []models.FitnessLog, today string) int {
	for _, l := range logs {
		if l.Date == today {
			return fitnessActive
		}
	}
	return fitnessInactive
}

// moodScore uses the first log dated today; callers pass logs final-first.
func moodScore(logs []models.MoodLog, today string) int {
	for _, m := range logs {
		if m.Date == today {
			mood := min(max(m.Mood, 0), models.MaxMood)
			return int(math.Round(float64(mood) / models.MaxMood * maxSubScore))
		}
	}
	return neutralScore
}
