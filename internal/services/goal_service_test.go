package services

import (
	"context"
	"math"
	"testing"
	"time"

	"fintrack/internal/docstore"
	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

// stepClock is a manually advanced clock.
type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time { return c.t }

func (c *stepClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestGoalService(t *testing.T, store docstore.Store, clock *stepClock) *goalService {
	t.Helper()
	svc := NewGoalService(store, 0, 0).(*goalService)
	svc.now = clock.Now
	return svc
}

func newClock() *stepClock {
	return &stepClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func mustCreateGoal(t *testing.T, svc *goalService, in CreateGoalInput) *models.Goal {
	t.Helper()
	id, err := svc.CreateGoal(context.Background(), in)
	testutil.AssertNoError(t, err)
	goal, err := svc.GetGoal(context.Background(), id)
	testutil.AssertNoError(t, err)
	return goal
}

func assertDerived(t *testing.T, g *models.Goal) {
	t.Helper()
	want := 0.0
	if g.TargetAmount > 0 {
		want = g.CurrentAmount / g.TargetAmount * 100
	}
	if g.ProgressPercentage != want {
		t.Errorf("expected progress %v, got %v", want, g.ProgressPercentage)
	}
	if g.Completed != (g.CurrentAmount >= g.TargetAmount) {
		t.Errorf("completed=%v does not match amounts %v/%v", g.Completed, g.CurrentAmount, g.TargetAmount)
	}
	if g.Completed != (g.CompletedAt != nil) {
		t.Errorf("completed=%v but completed_at=%v", g.Completed, g.CompletedAt)
	}
}

func TestCreateGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("emergency_fund", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())

		goal := mustCreateGoal(t, svc, CreateGoalInput{
			UserID:        "user-1",
			Name:          "Emergency Fund",
			TargetAmount:  10000,
			CurrentAmount: 6500,
			Deadline:      "2023-12-31",
		})

		if goal.ProgressPercentage != 65.0 {
			t.Errorf("expected progress 65, got %v", goal.ProgressPercentage)
		}
		if goal.Completed || goal.CompletedAt != nil {
			t.Errorf("expected pending goal, got completed=%v completed_at=%v", goal.Completed, goal.CompletedAt)
		}
		if goal.Deadline != "2023-12-31" {
			t.Errorf("expected deadline 2023-12-31, got %s", goal.Deadline)
		}
		assertDerived(t, goal)
	})

	t.Run("defaults", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())

		goal := mustCreateGoal(t, svc, CreateGoalInput{UserID: "user-1", Name: "  Car  ", TargetAmount: 500})

		if goal.Name != "Car" {
			t.Errorf("expected trimmed name, got %q", goal.Name)
		}
		if goal.Category != models.DefaultGoalCategory {
			t.Errorf("expected category %s, got %s", models.DefaultGoalCategory, goal.Category)
		}
		if goal.Priority != models.GoalPriorityMedium {
			t.Errorf("expected medium priority, got %s", goal.Priority)
		}
		if goal.Icon != models.DefaultGoalIcon || goal.Color != models.DefaultGoalColor {
			t.Errorf("expected default icon/color, got %s/%s", goal.Icon, goal.Color)
		}
		if !goal.CreatedAt.Equal(goal.UpdatedAt) {
			t.Errorf("expected created_at == updated_at on create")
		}
	})

	t.Run("timestamp_deadline_normalized", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())

		goal := mustCreateGoal(t, svc, CreateGoalInput{UserID: "user-1", Name: "Trip", TargetAmount: 1, Deadline: "2024-06-30T18:00:00Z"})
		if goal.Deadline != "2024-06-30" {
			t.Errorf("expected 2024-06-30, got %s", goal.Deadline)
		}
	})

	t.Run("already_complete_stamps_completed_at", func(t *testing.T) {
		clock := newClock()
		svc := newTestGoalService(t, testutil.SetupTestStore(t), clock)

		goal := mustCreateGoal(t, svc, CreateGoalInput{UserID: "user-1", Name: "Done", TargetAmount: 100, CurrentAmount: 150})
		if !goal.Completed || goal.CompletedAt == nil || !goal.CompletedAt.Equal(clock.Now()) {
			t.Errorf("expected completion stamped at %v, got %v", clock.Now(), goal.CompletedAt)
		}
		assertDerived(t, goal)
	})

	t.Run("zero_target", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())

		goal := mustCreateGoal(t, svc, CreateGoalInput{UserID: "user-1", Name: "Nothing", TargetAmount: 0, CurrentAmount: 0})
		if goal.ProgressPercentage != 0 {
			t.Errorf("expected progress 0, got %v", goal.ProgressPercentage)
		}
		if !goal.Completed {
			t.Error("expected zero-target goal to be completed")
		}
	})

	invalid := []struct {
		name string
		in   CreateGoalInput
	}{
		{"missing_user", CreateGoalInput{Name: "x", TargetAmount: 1}},
		{"empty_name", CreateGoalInput{UserID: "u", Name: "", TargetAmount: 1}},
		{"blank_name", CreateGoalInput{UserID: "u", Name: "   ", TargetAmount: 1}},
		{"negative_target", CreateGoalInput{UserID: "u", Name: "x", TargetAmount: -1}},
		{"negative_current", CreateGoalInput{UserID: "u", Name: "x", TargetAmount: 1, CurrentAmount: -5}},
		{"nan_target", CreateGoalInput{UserID: "u", Name: "x", TargetAmount: math.NaN()}},
		{"bad_priority", CreateGoalInput{UserID: "u", Name: "x", TargetAmount: 1, Priority: "urgent"}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())
			id, err := svc.CreateGoal(ctx, tt.in)
			testutil.AssertAppError(t, err, "INVALID_INPUT")
			if id != "" {
				t.Errorf("expected no id, got %s", id)
			}
		})
	}

	t.Run("persistence_failure", func(t *testing.T) {
		store := &testutil.FailingStore{Store: testutil.SetupTestStore(t), FailAdd: true}
		svc := newTestGoalService(t, store, newClock())

		id, err := svc.CreateGoal(ctx, CreateGoalInput{UserID: "u", Name: "x", TargetAmount: 1})
		testutil.AssertAppError(t, err, "PERSISTENCE_FAILURE")
		if id != "" {
			t.Errorf("expected no id, got %s", id)
		}
	})
}

func TestGetGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("not_found", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())
		_, err := svc.GetGoal(ctx, "missing")
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})

	t.Run("store_failure", func(t *testing.T) {
		store := &testutil.FailingStore{Store: testutil.SetupTestStore(t), FailGet: true}
		svc := newTestGoalService(t, store, newClock())
		_, err := svc.GetGoal(ctx, "any")
		testutil.AssertAppError(t, err, "PERSISTENCE_FAILURE")
	})
}

func TestUpdateGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("partial_update_keeps_other_fields", func(t *testing.T) {
		clock := newClock()
		svc := newTestGoalService(t, testutil.SetupTestStore(t), clock)
		goal := mustCreateGoal(t, svc, CreateGoalInput{UserID: "u", Name: "House", TargetAmount: 1000, CurrentAmount: 100, Category: "Home", Deadline: "2025-01-01"})

		clock.Advance(time.Hour)
		desc := "down payment"
		testutil.AssertNoError(t, svc.UpdateGoal(ctx, goal.ID, models.GoalUpdate{Description: &desc}))

		got, err := svc.GetGoal(ctx, goal.ID)
		testutil.AssertNoError(t, err)
		if got.Description != desc {
			t.Errorf("expected description %q, got %q", desc, got.Description)
		}
		if got.Name != "House" || got.Category != "Home" || got.Deadline != "2025-01-01" || got.CurrentAmount != 100 {
			t.Errorf("untouched fields changed: %+v", got)
		}
		if got.UserID != "u" || got.ID != goal.ID {
			t.Errorf("identity changed: %+v", got)
		}
		if !got.UpdatedAt.Equal(clock.Now()) {
			t.Errorf("expected updated_at %v, got %v", clock.Now(), got.UpdatedAt)
		}
		if !got.CreatedAt.Equal(goal.CreatedAt) {
			t.Errorf("created_at should not change")
		}
	})

	t.Run("target_change_recomputes_progress", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())
		goal := mustCreateGoal(t, svc, CreateGoalInput{UserID: "u", Name: "Bike", TargetAmount: 1000, CurrentAmount: 250})

		target := 500.0
		testutil.AssertNoError(t, svc.UpdateGoal(ctx, goal.ID, models.GoalUpdate{TargetAmount: &target}))

		got, err := svc.GetGoal(ctx, goal.ID)
		testutil.AssertNoError(t, err)
		if got.ProgressPercentage != 50 {
			t.Errorf("expected progress 50, got %v", got.ProgressPercentage)
		}
		assertDerived(t, got)
	})

	t.Run("lowering_target_completes", func(t *testing.T) {
		clock := newClock()
		svc := newTestGoalService(t, testutil.SetupTestStore(t), clock)
		goal := mustCreateGoal(t, svc, CreateGoalInput{UserID: "u", Name: "Phone", TargetAmount: 1000, CurrentAmount: 400})

		clock.Advance(24 * time.Hour)
		target := 400.0
		testutil.AssertNoError(t, svc.UpdateGoal(ctx, goal.ID, models.GoalUpdate{TargetAmount: &target}))

		got, err := svc.GetGoal(ctx, goal.ID)
		testutil.AssertNoError(t, err)
		if !got.Completed || got.CompletedAt == nil || !got.CompletedAt.Equal(clock.Now()) {
			t.Errorf("expected completion at %v, got %v / %v", clock.Now(), got.Completed, got.CompletedAt)
		}
	})

	t.Run("reopen_clears_completed_at", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())
		goal := mustCreateGoal(t, svc, CreateGoalInput{UserID: "u", Name: "Done", TargetAmount: 100, CurrentAmount: 100})
		if !goal.Completed {
			t.Fatal("precondition: goal should be completed")
		}

		current := 40.0
		testutil.AssertNoError(t, svc.UpdateGoal(ctx, goal.ID, models.GoalUpdate{CurrentAmount: &current}))

		got, err := svc.GetGoal(ctx, goal.ID)
		testutil.AssertNoError(t, err)
		if got.Completed || got.CompletedAt != nil {
			t.Errorf("expected reopened goal, got completed=%v completed_at=%v", got.Completed, got.CompletedAt)
		}
		assertDerived(t, got)
	})

	t.Run("completed_at_not_overwritten", func(t *testing.T) {
		clock := newClock()
		svc := newTestGoalService(t, testutil.SetupTestStore(t), clock)
		goal := mustCreateGoal(t, svc, CreateGoalInput{UserID: "u", Name: "Done", TargetAmount: 100, CurrentAmount: 100})
		stamped := *goal.CompletedAt

		clock.Advance(48 * time.Hour)
		current := 180.0
		testutil.AssertNoError(t, svc.UpdateGoal(ctx, goal.ID, models.GoalUpdate{CurrentAmount: &current}))

		got, err := svc.GetGoal(ctx, goal.ID)
		testutil.AssertNoError(t, err)
		if got.CompletedAt == nil || !got.CompletedAt.Equal(stamped) {
			t.Errorf("expected completed_at to stay %v, got %v", stamped, got.CompletedAt)
		}
	})

	t.Run("invalid_fields_write_nothing", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())
		goal := mustCreateGoal(t, svc, CreateGoalInput{UserID: "u", Name: "Boat", TargetAmount: 100, CurrentAmount: 10})

		negative := -1.0
		blank := " "
		bad := models.GoalPriority("someday")
		for _, update := range []models.GoalUpdate{
			{CurrentAmount: &negative},
			{TargetAmount: &negative},
			{Name: &blank},
			{Priority: &bad},
		} {
			err := svc.UpdateGoal(ctx, goal.ID, update)
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		}

		got, err := svc.GetGoal(ctx, goal.ID)
		testutil.AssertNoError(t, err)
		if got.Name != "Boat" || got.CurrentAmount != 10 || got.TargetAmount != 100 || got.Priority != models.GoalPriorityMedium {
			t.Errorf("goal should be unchanged, got %+v", got)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())
		name := "x"
		err := svc.UpdateGoal(ctx, "missing", models.GoalUpdate{Name: &name})
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})

	t.Run("write_failure", func(t *testing.T) {
		store := &testutil.FailingStore{Store: testutil.SetupTestStore(t)}
		svc := newTestGoalService(t, store, newClock())
		goal := mustCreateGoal(t, svc, CreateGoalInput{UserID: "u", Name: "Boat", TargetAmount: 100})

		store.FailUpdate = true
		current := 50.0
		err := svc.UpdateGoal(ctx, goal.ID, models.GoalUpdate{CurrentAmount: &current})
		testutil.AssertAppError(t, err, "PERSISTENCE_FAILURE")

		store.FailUpdate = false
		got, err := svc.GetGoal(ctx, goal.ID)
		testutil.AssertNoError(t, err)
		if got.CurrentAmount != 0 {
			t.Errorf("expected stored amount unchanged, got %v", got.CurrentAmount)
		}
	})
}

func TestUpdateGoalProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("emergency_fund_completes", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())
		goal := mustCreateGoal(t, svc, CreateGoalInput{UserID: "u", Name: "Emergency Fund", TargetAmount: 10000, CurrentAmount: 6500, Deadline: "2023-12-31"})

		testutil.AssertNoError(t, svc.UpdateGoalProgress(ctx, goal.ID, 3500))

		got, err := svc.GetGoal(ctx, goal.ID)
		testutil.AssertNoError(t, err)
		if got.CurrentAmount != 10000 {
			t.Errorf("expected current 10000, got %v", got.CurrentAmount)
		}
		if !got.Completed || got.CompletedAt == nil {
			t.Errorf("expected completed goal with completed_at, got %v / %v", got.Completed, got.CompletedAt)
		}
		assertDerived(t, got)
	})

	t.Run("completion_fires_once", func(t *testing.T) {
		clock := newClock()
		svc := newTestGoalService(t, testutil.SetupTestStore(t), clock)
		goal := mustCreateGoal(t, svc, CreateGoalInput{UserID: "u", Name: "Laptop", TargetAmount: 100})

		clock.Advance(time.Minute)
		testutil.AssertNoError(t, svc.UpdateGoalProgress(ctx, goal.ID, 60))
		got, err := svc.GetGoal(ctx, goal.ID)
		testutil.AssertNoError(t, err)
		if got.Completed {
			t.Fatal("goal should not be complete at 60/100")
		}

		clock.Advance(time.Minute)
		completedAt := clock.Now()
		testutil.AssertNoError(t, svc.UpdateGoalProgress(ctx, goal.ID, 50))

		clock.Advance(time.Minute)
		testutil.AssertNoError(t, svc.UpdateGoalProgress(ctx, goal.ID, 25))

		got, err = svc.GetGoal(ctx, goal.ID)
		testutil.AssertNoError(t, err)
		if !got.Completed {
			t.Fatal("goal should be complete")
		}
		if got.CompletedAt == nil || !got.CompletedAt.Equal(completedAt) {
			t.Errorf("expected completed_at %v, got %v", completedAt, got.CompletedAt)
		}
		if got.CurrentAmount != 135 {
			t.Errorf("expected current 135, got %v", got.CurrentAmount)
		}
	})

	t.Run("zero_increment_only_touches_updated_at", func(t *testing.T) {
		clock := newClock()
		svc := newTestGoalService(t, testutil.SetupTestStore(t), clock)
		for _, in := range []CreateGoalInput{
			{UserID: "u", Name: "Pending", TargetAmount: 300, CurrentAmount: 100},
			{UserID: "u", Name: "Done", TargetAmount: 300, CurrentAmount: 300},
		} {
			before := mustCreateGoal(t, svc, in)

			clock.Advance(time.Hour)
			testutil.AssertNoError(t, svc.UpdateGoalProgress(ctx, before.ID, 0))

			after, err := svc.GetGoal(ctx, before.ID)
			testutil.AssertNoError(t, err)
			if after.CurrentAmount != before.CurrentAmount || after.ProgressPercentage != before.ProgressPercentage || after.Completed != before.Completed {
				t.Errorf("%s: amounts changed: before %+v after %+v", in.Name, before, after)
			}
			if (before.CompletedAt == nil) != (after.CompletedAt == nil) ||
				(before.CompletedAt != nil && !before.CompletedAt.Equal(*after.CompletedAt)) {
				t.Errorf("%s: completed_at changed: %v -> %v", in.Name, before.CompletedAt, after.CompletedAt)
			}
			if !after.UpdatedAt.Equal(clock.Now()) {
				t.Errorf("%s: expected updated_at %v, got %v", in.Name, clock.Now(), after.UpdatedAt)
			}
		}
	})

	t.Run("fractional_amounts_sum_exactly", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())
		goal := mustCreateGoal(t, svc, CreateGoalInput{UserID: "u", Name: "Coins", TargetAmount: 0.3, CurrentAmount: 0.1})

		testutil.AssertNoError(t, svc.UpdateGoalProgress(ctx, goal.ID, 0.2))

		got, err := svc.GetGoal(ctx, goal.ID)
		testutil.AssertNoError(t, err)
		if got.CurrentAmount != 0.3 || !got.Completed {
			t.Errorf("expected 0.3 and completed, got %v / %v", got.CurrentAmount, got.Completed)
		}
	})

	t.Run("negative_total_rejected", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())
		goal := mustCreateGoal(t, svc, CreateGoalInput{UserID: "u", Name: "Gift", TargetAmount: 100, CurrentAmount: 20})

		err := svc.UpdateGoalProgress(ctx, goal.ID, -30)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		testutil.AssertNoError(t, svc.UpdateGoalProgress(ctx, goal.ID, -20))
		got, err := svc.GetGoal(ctx, goal.ID)
		testutil.AssertNoError(t, err)
		if got.CurrentAmount != 0 {
			t.Errorf("expected current 0, got %v", got.CurrentAmount)
		}
	})

	t.Run("not_finite", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())
		err := svc.UpdateGoalProgress(ctx, "any", math.Inf(1))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())
		err := svc.UpdateGoalProgress(ctx, "missing", 10)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}

func TestDeleteGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("then_get_is_not_found", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())
		goal := mustCreateGoal(t, svc, CreateGoalInput{UserID: "u", Name: "Temp", TargetAmount: 1})

		testutil.AssertNoError(t, svc.DeleteGoal(ctx, goal.ID))

		_, err := svc.GetGoal(ctx, goal.ID)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})

	t.Run("missing", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())
		err := svc.DeleteGoal(ctx, "missing")
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})

	t.Run("store_failure", func(t *testing.T) {
		store := &testutil.FailingStore{Store: testutil.SetupTestStore(t), FailDelete: true}
		svc := newTestGoalService(t, store, newClock())
		err := svc.DeleteGoal(ctx, "any")
		testutil.AssertAppError(t, err, "PERSISTENCE_FAILURE")
	})
}

func TestListGoals(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) *goalService {
		t.Helper()
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())
		for _, in := range []CreateGoalInput{
			{UserID: "u", Name: "A", TargetAmount: 100, CurrentAmount: 50, Deadline: "2024-01-10", Category: "Savings", Priority: models.GoalPriorityHigh},
			{UserID: "u", Name: "B", TargetAmount: 100, CurrentAmount: 80, Deadline: "2024-01-10", Category: "Savings"},
			{UserID: "u", Name: "C", TargetAmount: 100, CurrentAmount: 10, Deadline: "2024-01-05", Category: "Travel", Priority: models.GoalPriorityLow},
			{UserID: "u", Name: "D", TargetAmount: 100, CurrentAmount: 100, Deadline: "2023-12-01", Category: "Savings"},
			{UserID: "other", Name: "E", TargetAmount: 100, CurrentAmount: 0, Deadline: "2024-01-01", Category: "Savings"},
		} {
			_, err := svc.CreateGoal(ctx, in)
			testutil.AssertNoError(t, err)
		}
		return svc
	}

	names := func(goals []models.Goal) []string {
		out := make([]string, len(goals))
		for i, g := range goals {
			out[i] = g.Name
		}
		return out
	}

	equal := func(a, b []string) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}

	savings := "Savings"
	high := models.GoalPriorityHigh

	tests := []struct {
		name   string
		filter GoalFilter
		want   []string
	}{
		{"default_excludes_completed", GoalFilter{}, []string{"C", "B", "A"}},
		{"include_completed", GoalFilter{IncludeCompleted: true}, []string{"D", "C", "B", "A"}},
		{"category", GoalFilter{Category: &savings}, []string{"B", "A"}},
		{"category_with_completed", GoalFilter{IncludeCompleted: true, Category: &savings}, []string{"D", "B", "A"}},
		{"priority", GoalFilter{Priority: &high}, []string{"A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := seed(t)
			goals, err := svc.ListGoals(ctx, "u", tt.filter)
			testutil.AssertNoError(t, err)
			if got := names(goals); !equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			for _, g := range goals {
				if g.Completed && !tt.filter.IncludeCompleted {
					t.Errorf("completed goal %s returned", g.Name)
				}
				if g.UserID != "u" {
					t.Errorf("goal %s belongs to %s", g.Name, g.UserID)
				}
			}
		})
	}

	t.Run("empty", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())
		goals, err := svc.ListGoals(ctx, "nobody", GoalFilter{})
		testutil.AssertNoError(t, err)
		if goals == nil || len(goals) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", goals)
		}
	})

	t.Run("store_failure", func(t *testing.T) {
		store := &testutil.FailingStore{Store: testutil.SetupTestStore(t), FailQuery: true}
		svc := newTestGoalService(t, store, newClock())
		_, err := svc.ListGoals(ctx, "u", GoalFilter{})
		testutil.AssertAppError(t, err, "PERSISTENCE_FAILURE")
	})
}

func TestGetGoalsSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("totals_cover_pending_only", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())
		for _, in := range []CreateGoalInput{
			{UserID: "u", Name: "P1", TargetAmount: 1000, CurrentAmount: 250},
			{UserID: "u", Name: "P2", TargetAmount: 500.5, CurrentAmount: 0.25},
			{UserID: "u", Name: "Done", TargetAmount: 200, CurrentAmount: 200},
			{UserID: "other", Name: "X", TargetAmount: 999, CurrentAmount: 1},
		} {
			_, err := svc.CreateGoal(ctx, in)
			testutil.AssertNoError(t, err)
		}

		summary, err := svc.GetGoalsSummary(ctx, "u")
		testutil.AssertNoError(t, err)

		if summary.TotalGoals != 3 || summary.CompletedGoals != 1 || summary.PendingGoals != 2 {
			t.Errorf("unexpected counts: %+v", summary)
		}
		if summary.TotalTargetAmount != 1500.5 {
			t.Errorf("expected target total 1500.5, got %v", summary.TotalTargetAmount)
		}
		if summary.TotalCurrentAmount != 250.25 {
			t.Errorf("expected current total 250.25, got %v", summary.TotalCurrentAmount)
		}
		current, target := 250.25, 1500.5
		want := current / target * 100
		if summary.OverallProgress != want {
			t.Errorf("expected overall progress %v, got %v", want, summary.OverallProgress)
		}
	})

	t.Run("no_pending_goals", func(t *testing.T) {
		svc := newTestGoalService(t, testutil.SetupTestStore(t), newClock())
		_, err := svc.CreateGoal(ctx, CreateGoalInput{UserID: "u", Name: "Done", TargetAmount: 10, CurrentAmount: 10})
		testutil.AssertNoError(t, err)

		summary, err := svc.GetGoalsSummary(ctx, "u")
		testutil.AssertNoError(t, err)
		if summary.OverallProgress != 0 || summary.TotalTargetAmount != 0 {
			t.Errorf("expected zero totals, got %+v", summary)
		}
		if summary.ApproachingDeadline == nil {
			t.Error("approaching deadline should be an empty list, not nil")
		}
	})

	t.Run("approaching_deadline_window", func(t *testing.T) {
		clock := newClock()
		svc := newTestGoalService(t, testutil.SetupTestStore(t), clock)
		today := clock.Now()
		day := func(offset int) string { return today.AddDate(0, 0, offset).Format("2006-01-02") }

		for _, in := range []CreateGoalInput{
			{UserID: "u", Name: "today", TargetAmount: 100, Deadline: day(0)},
			{UserID: "u", Name: "edge", TargetAmount: 100, Deadline: day(30)},
			{UserID: "u", Name: "soon", TargetAmount: 100, Deadline: day(3)},
			{UserID: "u", Name: "far", TargetAmount: 100, Deadline: day(31)},
			{UserID: "u", Name: "overdue", TargetAmount: 100, Deadline: day(-1)},
			{UserID: "u", Name: "vague", TargetAmount: 100, Deadline: "next summer"},
			{UserID: "u", Name: "done", TargetAmount: 100, CurrentAmount: 100, Deadline: day(1)},
		} {
			_, err := svc.CreateGoal(ctx, in)
			testutil.AssertNoError(t, err)
		}

		summary, err := svc.GetGoalsSummary(ctx, "u")
		testutil.AssertNoError(t, err)

		want := []struct {
			name string
			days int
		}{{"today", 0}, {"soon", 3}, {"edge", 30}}
		if len(summary.ApproachingDeadline) != len(want) {
			t.Fatalf("expected %d approaching goals, got %+v", len(want), summary.ApproachingDeadline)
		}
		for i, w := range want {
			got := summary.ApproachingDeadline[i]
			if got.Name != w.name || got.DaysRemaining != w.days {
				t.Errorf("position %d: expected %s/%d, got %s/%d", i, w.name, w.days, got.Name, got.DaysRemaining)
			}
		}
		if summary.PendingGoals != 6 {
			t.Errorf("unparsable deadlines still count as pending, expected 6 got %d", summary.PendingGoals)
		}
	})

	t.Run("approaching_deadline_limit", func(t *testing.T) {
		clock := newClock()
		svc := newTestGoalService(t, testutil.SetupTestStore(t), clock)
		for offset := 10; offset >= 1; offset-- {
			_, err := svc.CreateGoal(ctx, CreateGoalInput{
				UserID:       "u",
				Name:         "g",
				TargetAmount: 100,
				Deadline:     clock.Now().AddDate(0, 0, offset).Format("2006-01-02"),
			})
			testutil.AssertNoError(t, err)
		}

		summary, err := svc.GetGoalsSummary(ctx, "u")
		testutil.AssertNoError(t, err)
		if len(summary.ApproachingDeadline) != DefaultApproachingDeadlineLimit {
			t.Fatalf("expected %d entries, got %d", DefaultApproachingDeadlineLimit, len(summary.ApproachingDeadline))
		}
		for i, g := range summary.ApproachingDeadline {
			if g.DaysRemaining != i+1 {
				t.Errorf("position %d: expected %d days, got %d", i, i+1, g.DaysRemaining)
			}
		}
	})

	t.Run("custom_window", func(t *testing.T) {
		clock := newClock()
		svc := NewGoalService(testutil.SetupTestStore(t), 7, 1).(*goalService)
		svc.now = clock.Now
		for _, offset := range []int{2, 5, 8} {
			_, err := svc.CreateGoal(ctx, CreateGoalInput{
				UserID:       "u",
				Name:         "g",
				TargetAmount: 100,
				Deadline:     clock.Now().AddDate(0, 0, offset).Format("2006-01-02"),
			})
			testutil.AssertNoError(t, err)
		}

		summary, err := svc.GetGoalsSummary(ctx, "u")
		testutil.AssertNoError(t, err)
		if len(summary.ApproachingDeadline) != 1 || summary.ApproachingDeadline[0].DaysRemaining != 2 {
			t.Errorf("expected single entry at 2 days, got %+v", summary.ApproachingDeadline)
		}
	})
}
