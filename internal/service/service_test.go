package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifemirror/lifemirror/internal/apperr"
	"github.com/lifemirror/lifemirror/internal/clock"
	"github.com/lifemirror/lifemirror/internal/models"
	"github.com/lifemirror/lifemirror/internal/testutil"
)

func newTestServices(t *testing.T) (*Services, *testutil.Recorder) {
	t.Helper()
	rec := &testutil.Recorder{}
	return New(testutil.TestDB(t), clock.FixedDate("2024-06-15"), rec), rec
}

func ptr[T any](v T) *T { return &v }

func TestTaskLifecycle(t *testing.T) {
	svc, rec := newTestServices(t)
	ctx := context.Background()

	task, err := svc.Tasks.Create(ctx, "alice", models.TaskInput{Text: "write report", Date: "2024-06-15"})
	require.NoError(t, err)
	assert.False(t, task.Completed)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, models.TaskTypeTask, task.Type)

	toggled, err := svc.Tasks.Update(ctx, "alice", task.ID, models.TaskPatch{Completed: ptr(true)})
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.Equal(t, "write report", toggled.Text)

	require.NoError(t, svc.Tasks.Delete(ctx, "alice", task.ID))
	assert.ErrorIs(t, svc.Tasks.Delete(ctx, "alice", task.ID), apperr.ErrNotFound)

	events := rec.Events()
	require.Len(t, events, 3)
	assert.Equal(t, testutil.Event{Owner: "alice", Resource: "task", Action: ActionCreated, ID: task.ID}, events[0])
	assert.Equal(t, ActionUpdated, events[1].Action)
	assert.Equal(t, ActionDeleted, events[2].Action)
}

func TestCreate_InvalidPersistsNothing(t *testing.T) {
	svc, rec := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Tasks.Create(ctx, "alice", models.TaskInput{Text: "x", Date: "15/06/2024", Priority: "urgent"})
	require.ErrorIs(t, err, apperr.ErrInvalid)

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "date")
	assert.Contains(t, verrs, "priority")

	_, err = svc.Bills.Create(ctx, "alice", models.BillInput{Name: "rent", Amount: 0, DueDate: "2024-07-01"})
	assert.ErrorIs(t, err, apperr.ErrInvalid)
	_, err = svc.Bills.Create(ctx, "alice", models.BillInput{Name: "rent", Amount: -5, DueDate: "2024-07-01"})
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	tasks, err := svc.Tasks.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, tasks)
	bills, err := svc.Bills.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, bills)
	assert.Empty(t, rec.Events())
}

func TestOwnershipIsolation(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	bill, err := svc.Bills.Create(ctx, "alice", models.BillInput{Name: "rent", Amount: 900, DueDate: "2024-07-01"})
	require.NoError(t, err)

	_, err = svc.Bills.Get(ctx, "bob", bill.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.Bills.Update(ctx, "bob", bill.ID, models.BillPatch{Paid: ptr(true)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, svc.Bills.Delete(ctx, "bob", bill.ID), apperr.ErrNotFound)

	// Same error as a missing id.
	_, err = svc.Bills.Update(ctx, "bob", "does-not-exist", models.BillPatch{Paid: ptr(true)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	got, err := svc.Bills.Get(ctx, "alice", bill.ID)
	require.NoError(t, err)
	assert.False(t, got.Paid)
}

func TestBillPaidToggleKeepsAmount(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	bill, err := svc.Bills.Create(ctx, "alice", models.BillInput{Name: "power", Amount: 42.5, DueDate: "2024-07-01"})
	require.NoError(t, err)
	assert.Equal(t, models.FrequencyMonthly, bill.Frequency)

	paid, err := svc.Bills.Update(ctx, "alice", bill.ID, models.BillPatch{Paid: ptr(true)})
	require.NoError(t, err)
	assert.True(t, paid.Paid)
	assert.Equal(t, 42.5, paid.Amount)
}

func TestAssetPlaintextPassword(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	a, err := svc.Assets.Create(ctx, "alice", models.AssetInput{Name: "mail", Type: models.AssetPassword, Username: "a", Password: "hunter2"})
	require.NoError(t, err)

	got, err := svc.Assets.Get(ctx, "alice", a.ID)
	require.NoError(t, err)
	// Vault secrets are not encrypted at rest.
	assert.Equal(t, "hunter2", got.Password)
}

func TestAssetLinkRequiresURL(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Assets.Create(ctx, "alice", models.AssetInput{Name: "docs", Type: models.AssetLink})
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	_, err = svc.Assets.Create(ctx, "alice", models.AssetInput{Name: "docs", Type: models.AssetLink, URL: "not a url"})
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	note, err := svc.Assets.Create(ctx, "alice", models.AssetInput{Name: "wifi", Type: models.AssetNote})
	require.NoError(t, err)
	assert.Equal(t, "general", note.Category)

	_, err = svc.Assets.Update(ctx, "alice", note.ID, models.AssetPatch{Type: ptr(models.AssetLink)})
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	link, err := svc.Assets.Update(ctx, "alice", note.ID, models.AssetPatch{Type: ptr(models.AssetLink), URL: ptr("https://example.com")})
	require.NoError(t, err)
	assert.Equal(t, models.AssetLink, link.Type)
}

func TestFitnessDefaultUnit(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	l, err := svc.Fitness.Create(ctx, "alice", models.FitnessLogInput{Date: "2024-06-15", Time: "07:30", Type: models.FitnessSteps, Value: ptr(8000.0)})
	require.NoError(t, err)
	assert.Equal(t, "steps", l.Unit)

	_, err = svc.Fitness.Create(ctx, "alice", models.FitnessLogInput{Date: "2024-06-15", Time: "25:00", Type: models.FitnessSteps, Value: ptr(1.0)})
	assert.ErrorIs(t, err, apperr.ErrInvalid)
	_, err = svc.Fitness.Create(ctx, "alice", models.FitnessLogInput{Date: "2024-06-15", Time: "07:00", Type: models.FitnessSteps})
	assert.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestMoodUpsert_UpdatesDraftInPlace(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	first, created, err := svc.Moods.Upsert(ctx, "alice", models.MoodLogInput{Date: "2024-06-15", Mood: ptr(1)})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.DefaultStress, first.Stress)

	second, created, err := svc.Moods.Upsert(ctx, "alice", models.MoodLogInput{Date: "2024-06-15", Mood: ptr(3), Stress: ptr(20)})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Mood)
	assert.Equal(t, 20, second.Stress)

	logs, err := svc.Moods.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestMoodUpsert_FinalizeThenConflict(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	_, _, err := svc.Moods.Upsert(ctx, "alice", models.MoodLogInput{Date: "2024-06-15", Mood: ptr(2)})
	require.NoError(t, err)

	final, created, err := svc.Moods.Upsert(ctx, "alice", models.MoodLogInput{Date: "2024-06-15", Mood: ptr(4), IsFinal: true})
	require.NoError(t, err)
	assert.False(t, created, "the draft is finalized in place")
	assert.True(t, final.IsFinal)

	_, _, err = svc.Moods.Upsert(ctx, "alice", models.MoodLogInput{Date: "2024-06-15", Mood: ptr(0), IsFinal: true})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	logs, err := svc.Moods.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 4, logs[0].Mood)
}

func TestMoodUpdate_FinalLogIsImmutable(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	final, _, err := svc.Moods.Upsert(ctx, "alice", models.MoodLogInput{Date: "2024-06-15", Mood: ptr(4), IsFinal: true})
	require.NoError(t, err)

	_, err = svc.Moods.Update(ctx, "alice", final.ID, models.MoodLogPatch{Mood: ptr(0), IsFinal: ptr(false)})
	require.ErrorIs(t, err, apperr.ErrConflict)
	var ce *apperr.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "mood log for 2024-06-15 is already finalized", ce.Msg)

	// The date cannot be finalized a second time through a new draft.
	_, created, err := svc.Moods.Upsert(ctx, "alice", models.MoodLogInput{Date: "2024-06-15", Mood: ptr(1), IsFinal: true})
	assert.False(t, created)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	got, err := svc.Moods.Get(ctx, "alice", final.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFinal)
	assert.Equal(t, 4, got.Mood)
}

func TestMoodUpdate_DraftCanBeFinalized(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	draft, _, err := svc.Moods.Upsert(ctx, "alice", models.MoodLogInput{Date: "2024-06-15", Note: ptr("tired")})
	require.NoError(t, err)

	m, err := svc.Moods.Update(ctx, "alice", draft.ID, models.MoodLogPatch{Note: ptr(""), IsFinal: ptr(true)})
	require.NoError(t, err)
	assert.True(t, m.IsFinal)
	assert.Empty(t, m.Note)
}

func TestMoodUpsert_ConcurrentFinal(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		errs [2]error
	)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.Moods.Upsert(ctx, "alice", models.MoodLogInput{Date: "2024-06-15", Mood: ptr(i), IsFinal: true})
		}(i)
	}
	wg.Wait()

	succeeded, conflicted := 0, 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if errors.Is(err, apperr.ErrConflict) {
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
}

func TestMoodUpsert_Invalid(t *testing.T) {
	svc, _ := newTestServices(t)
	_, _, err := svc.Moods.Upsert(context.Background(), "alice", models.MoodLogInput{Date: "2024-06-15", Mood: ptr(5)})
	assert.ErrorIs(t, err, apperr.ErrInvalid)
	_, _, err = svc.Moods.Upsert(context.Background(), "alice", models.MoodLogInput{Date: "2024-06-15", Stress: ptr(101)})
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	_, _, err = svc.Moods.Upsert(context.Background(), "alice", models.MoodLogInput{Date: "2024-06-16", Mood: ptr(2)})
	require.ErrorIs(t, err, apperr.ErrInvalid)
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "date")
}

func TestHabitCheck_TogglePairIsNoop(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	h, err := svc.Habits.Create(ctx, "alice", models.HabitInput{Name: "stretch"})
	require.NoError(t, err)
	assert.Equal(t, 0, h.Streak)
	assert.Equal(t, []string{}, h.CompletedDates)

	on, err := svc.Habits.Check(ctx, "alice", h.ID, models.HabitCheck{Date: "2024-06-10"})
	require.NoError(t, err)
	assert.Equal(t, 1, on.Streak)
	assert.Equal(t, []string{"2024-06-10"}, on.CompletedDates)

	off, err := svc.Habits.Check(ctx, "alice", h.ID, models.HabitCheck{Date: "2024-06-10"})
	require.NoError(t, err)
	assert.Equal(t, 0, off.Streak)
	assert.Equal(t, []string{}, off.CompletedDates)
}

func TestHabitCheck_DefaultsToToday(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	h, err := svc.Habits.Create(ctx, "alice", models.HabitInput{Name: "walk"})
	require.NoError(t, err)
	h, err = svc.Habits.Check(ctx, "alice", h.ID, models.HabitCheck{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-15"}, h.CompletedDates)

	_, err = svc.Habits.Check(ctx, "alice", h.ID, models.HabitCheck{Date: "yesterday"})
	assert.ErrorIs(t, err, apperr.ErrInvalid)
	_, err = svc.Habits.Check(ctx, "bob", h.ID, models.HabitCheck{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSavingsAddFunds(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	g, err := svc.Savings.Create(ctx, "alice", models.SavingsGoalInput{Name: "bike", TargetAmount: 500})
	require.NoError(t, err)
	assert.Zero(t, g.CurrentAmount)

	g, err = svc.Savings.AddFunds(ctx, "alice", g.ID, models.FundsInput{Amount: 120})
	require.NoError(t, err)
	assert.Equal(t, 120.0, g.CurrentAmount)

	for _, amount := range []float64{0, -50} {
		_, err = svc.Savings.AddFunds(ctx, "alice", g.ID, models.FundsInput{Amount: amount})
		assert.ErrorIs(t, err, apperr.ErrInvalid)
	}

	_, err = svc.Savings.AddFunds(ctx, "alice", g.ID, models.FundsInput{Amount: 1e308})
	assert.ErrorIs(t, err, apperr.ErrInvalid)
	_, err = svc.Savings.AddFunds(ctx, "alice", g.ID, models.FundsInput{Amount: models.MaxAmount})
	assert.ErrorIs(t, err, apperr.ErrInvalid, "the total would exceed the cap")

	got, err := svc.Savings.Get(ctx, "alice", g.ID)
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.CurrentAmount)

	// Editing the goal never touches the current amount.
	got, err = svc.Savings.Update(ctx, "alice", g.ID, models.SavingsGoalPatch{TargetAmount: ptr(800.0)})
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.CurrentAmount)
	assert.Equal(t, 800.0, got.TargetAmount)
}
