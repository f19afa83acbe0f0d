package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fintrack/internal/dates"
	"fintrack/internal/docstore"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// Defaults for the approaching-deadline section of the goals summary.
const (
	DefaultApproachingDeadlineDays  = 30
	DefaultApproachingDeadlineLimit = 5
)

// goalService handles goal tracking and aggregation.
type goalService struct {
	store         docstore.Store
	log           *zap.SugaredLogger
	now           func() time.Time
	deadlineDays  int
	deadlineLimit int
}

// NewGoalService creates a new GoalServicer. Goals due within deadlineDays
// are reported as approaching, at most deadlineLimit of them; non-positive
// values fall back to the defaults.
func NewGoalService(store docstore.Store, deadlineDays, deadlineLimit int) GoalServicer {
	if deadlineDays <= 0 {
		deadlineDays = DefaultApproachingDeadlineDays
	}
	if deadlineLimit <= 0 {
		deadlineLimit = DefaultApproachingDeadlineLimit
	}
	return &goalService{
		store:         store,
		log:           logger.Named("goals"),
		now:           time.Now,
		deadlineDays:  deadlineDays,
		deadlineLimit: deadlineLimit,
	}
}

// progressPercentage is current/target*100, or 0 when there is no target.
func progressPercentage(target, current float64) float64 {
	if target <= 0 {
		return 0
	}
	return current / target * 100
}

// CreateGoal validates and stores a new goal and returns its id.
func (s *goalService) CreateGoal(ctx context.Context, in CreateGoalInput) (string, error) {
	if in.UserID == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "user id is required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if !validAmount(in.TargetAmount) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be a non-negative number")
	}
	if !validAmount(in.CurrentAmount) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "current amount must be a non-negative number")
	}

	priority := in.Priority
	if priority == "" {
		priority = models.GoalPriorityMedium
	}
	if !priority.Valid() {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "priority must be low, medium or high")
	}

	deadline, _ := dates.Normalize(in.Deadline)
	now := s.now().UTC()

	goal := models.Goal{
		UserID:             in.UserID,
		Name:               name,
		TargetAmount:       in.TargetAmount,
		CurrentAmount:      in.CurrentAmount,
		ProgressPercentage: progressPercentage(in.TargetAmount, in.CurrentAmount),
		Deadline:           deadline,
		Category:           orDefault(in.Category, models.DefaultGoalCategory),
		Description:        in.Description,
		Priority:           priority,
		Icon:               orDefault(in.Icon, models.DefaultGoalIcon),
		Color:              orDefault(in.Color, models.DefaultGoalColor),
		Completed:          in.CurrentAmount >= in.TargetAmount,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if goal.Completed {
		goal.CompletedAt = &now
	}

	doc, err := docstore.Encode(goal)
	if err != nil {
		return "", storeError(s.log, "encode goal", err, nil)
	}
	id, err := s.store.Add(ctx, models.CollectionGoals, doc)
	if err != nil {
		return "", storeError(s.log, "add goal", err, nil)
	}
	return id, nil
}

// GetGoal retrieves a goal by id.
func (s *goalService) GetGoal(ctx context.Context, goalID string) (*models.Goal, error) {
	return load[models.Goal](ctx, s.store, s.log, models.CollectionGoals, goalID, apperrors.ErrGoalNotFound)
}

// UpdateGoal applies a partial update and re-derives progress and completion
// when either amount changes.
func (s *goalService) UpdateGoal(ctx context.Context, goalID string, update models.GoalUpdate) error {
	goal, err := s.GetGoal(ctx, goalID)
	if err != nil {
		return err
	}
	return s.write(ctx, goal, update)
}

// UpdateGoalProgress adds amount (which may be negative) to the goal's
// current amount.
func (s *goalService) UpdateGoalProgress(ctx context.Context, goalID string, amount float64) error {
	if !finite(amount) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be a finite number")
	}

	goal, err := s.GetGoal(ctx, goalID)
	if err != nil {
		return err
	}

	total := decimal.NewFromFloat(goal.CurrentAmount).Add(decimal.NewFromFloat(amount)).InexactFloat64()
	return s.write(ctx, goal, models.GoalUpdate{CurrentAmount: &total})
}

// write validates update against the stored goal and persists only the
// changed fields plus the derived ones.
func (s *goalService) write(ctx context.Context, goal *models.Goal, update models.GoalUpdate) error {
	fields := docstore.Document{}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
		}
		fields["name"] = name
	}
	if update.Priority != nil {
		if !update.Priority.Valid() {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "priority must be low, medium or high")
		}
		fields["priority"] = *update.Priority
	}
	if update.Deadline != nil {
		deadline, _ := dates.Normalize(*update.Deadline)
		fields["deadline"] = deadline
	}
	if update.Category != nil {
		fields["category"] = *update.Category
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.Icon != nil {
		fields["icon"] = *update.Icon
	}
	if update.Color != nil {
		fields["color"] = *update.Color
	}

	now := s.now().UTC()

	if update.TouchesAmounts() {
		target, current := goal.TargetAmount, goal.CurrentAmount
		if update.TargetAmount != nil {
			target = *update.TargetAmount
		}
		if update.CurrentAmount != nil {
			current = *update.CurrentAmount
		}
		if !validAmount(target) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be a non-negative number")
		}
		if !validAmount(current) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "current amount must be a non-negative number")
		}

		fields["target_amount"] = target
		fields["current_amount"] = current
		fields["progress_percentage"] = progressPercentage(target, current)

		completed := current >= target
		switch {
		case completed && !goal.Completed:
			fields["completed"] = true
			fields["completed_at"] = now
		case !completed && goal.Completed:
			fields["completed"] = false
			fields["completed_at"] = nil
		}
	}

	fields["updated_at"] = now

	if err := s.store.Update(ctx, models.CollectionGoals, goal.ID, fields); err != nil {
		return storeError(s.log, "update goal", err, apperrors.ErrGoalNotFound)
	}
	return nil
}

// DeleteGoal permanently removes a goal.
func (s *goalService) DeleteGoal(ctx context.Context, goalID string) error {
	if goalID == "" {
		return apperrors.ErrGoalNotFound
	}
	if err := s.store.Delete(ctx, models.CollectionGoals, goalID); err != nil {
		return storeError(s.log, "delete goal", err, apperrors.ErrGoalNotFound)
	}
	return nil
}

// ListGoals returns the user's goals ordered by deadline, soonest first, with
// more advanced goals first among equal deadlines.
func (s *goalService) ListGoals(ctx context.Context, userID string, filter GoalFilter) ([]models.Goal, error) {
	all, err := loadAll[models.Goal](ctx, s.store, s.log, models.CollectionGoals, docstore.Eq("user_id", userID))
	if err != nil {
		return nil, err
	}

	goals := make([]models.Goal, 0, len(all))
	for _, g := range all {
		if g.Completed && !filter.IncludeCompleted {
			continue
		}
		if filter.Category != nil && g.Category != *filter.Category {
			continue
		}
		if filter.Priority != nil && g.Priority != *filter.Priority {
			continue
		}
		goals = append(goals, g)
	}

	sort.SliceStable(goals, func(i, j int) bool {
		if goals[i].Deadline != goals[j].Deadline {
			return goals[i].Deadline < goals[j].Deadline
		}
		return goals[i].ProgressPercentage > goals[j].ProgressPercentage
	})
	return goals, nil
}

// GetGoalsSummary aggregates counts, pending totals and the goals whose
// deadline is near.
func (s *goalService) GetGoalsSummary(ctx context.Context, userID string) (*GoalsSummary, error) {
	goals, err := loadAll[models.Goal](ctx, s.store, s.log, models.CollectionGoals, docstore.Eq("user_id", userID))
	if err != nil {
		return nil, err
	}

	today := dates.Day(s.now())
	summary := &GoalsSummary{
		TotalGoals:          len(goals),
		ApproachingDeadline: []ApproachingGoal{},
	}
	target, current := decimal.Zero, decimal.Zero

	for _, g := range goals {
		if g.Completed {
			summary.CompletedGoals++
			continue
		}
		summary.PendingGoals++
		target = target.Add(decimal.NewFromFloat(g.TargetAmount))
		current = current.Add(decimal.NewFromFloat(g.CurrentAmount))

		deadline, err := dates.Parse(g.Deadline)
		if err != nil {
			continue
		}
		days := dates.DaysBetween(today, deadline)
		if days >= 0 && days <= s.deadlineDays {
			summary.ApproachingDeadline = append(summary.ApproachingDeadline, ApproachingGoal{Goal: g, DaysRemaining: days})
		}
	}

	summary.TotalTargetAmount = target.InexactFloat64()
	summary.TotalCurrentAmount = current.InexactFloat64()
	summary.OverallProgress = progressPercentage(summary.TotalTargetAmount, summary.TotalCurrentAmount)

	sort.SliceStable(summary.ApproachingDeadline, func(i, j int) bool {
		return summary.ApproachingDeadline[i].DaysRemaining < summary.ApproachingDeadline[j].DaysRemaining
	})
	if len(summary.ApproachingDeadline) > s.deadlineLimit {
		summary.ApproachingDeadline = summary.ApproachingDeadline[:s.deadlineLimit]
	}
	return summary, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
