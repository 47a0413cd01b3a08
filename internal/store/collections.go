package store

import "github.com/lifemirror/lifemirror/internal/models"

type (
	Tasks        = Collection[models.Task, *models.Task]
	Bills        = Collection[models.Bill, *models.Bill]
	Assets       = Collection[models.Asset, *models.Asset]
	FitnessLogs  = Collection[models.FitnessLog, *models.FitnessLog]
	MoodLogs     = Collection[models.MoodLog, *models.MoodLog]
	Habits       = Collection[models.Habit, *models.Habit]
	SavingsGoals = Collection[models.SavingsGoal, *models.SavingsGoal]
)

// Tasks are ordered by date ascending.
func (db *DB) Tasks() *Tasks {
	return NewCollection[models.Task](db, TasksTable,
		`json_extract(doc, '$.date') ASC`)
}

// Bills are ordered by due date ascending.
func (db *DB) Bills() *Bills {
	return NewCollection[models.Bill](db, BillsTable,
		`json_extract(doc, '$.dueDate') ASC`)
}

// Assets are ordered by type, then name.
func (db *DB) Assets() *Assets {
	return NewCollection[models.Asset](db, AssetsTable,
		`json_extract(doc, '$.type') ASC, json_extract(doc, '$.name') COLLATE NOCASE ASC`)
}

// FitnessLogs are ordered newest first by date, then time.
func (db *DB) FitnessLogs() *FitnessLogs {
	return NewCollection[models.FitnessLog](db, FitnessLogsTable,
		`json_extract(doc, '$.date') DESC, json_extract(doc, '$.time') DESC`)
}

// MoodLogs are ordered newest date first; within a date the final log leads.
func (db *DB) MoodLogs() *MoodLogs {
	return NewCollection[models.MoodLog](db, MoodLogsTable,
		`json_extract(doc, '$.date') DESC, json_extract(doc, '$.isFinal') DESC, updated_at DESC`)
}

// Habits are ordered by name.
func (db *DB) Habits() *Habits {
	return NewCollection[models.Habit](db, HabitsTable,
		`json_extract(doc, '$.name') COLLATE NOCASE ASC`)
}

// SavingsGoals are ordered by deadline with undated goals last, then name.
func (db *DB) SavingsGoals() *SavingsGoals {
	return NewCollection[models.SavingsGoal](db, SavingsGoalsTable,
		`json_extract(doc, '$.deadline') IS NULL, json_extract(doc, '$.deadline') ASC, json_extract(doc, '$.name') COLLATE NOCASE ASC`)
}
