package models

import "time"

// GoalPriority ranks a goal for the user.
type GoalPriority string

const (
	GoalPriorityLow    GoalPriority = "low"
	GoalPriorityMedium GoalPriority = "medium"
	GoalPriorityHigh   GoalPriority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p GoalPriority) Valid() bool {
	switch p {
	case GoalPriorityLow, GoalPriorityMedium, GoalPriorityHigh:
		return true
	}
	return false
}

// Goal defaults applied on creation.
const (
	DefaultGoalCategory = "Other"
	DefaultGoalIcon     = "flag"
	DefaultGoalColor    = "#3358FF"
)

// Goal is a savings or spending target. ProgressPercentage, Completed and
// CompletedAt are derived from the amounts and are never set by callers.
type Goal struct {
	ID                 string       `json:"id,omitempty"`
	UserID             string       `json:"user_id"`
	Name               string       `json:"name"`
	TargetAmount       float64      `json:"target_amount"`
	CurrentAmount      float64      `json:"current_amount"`
	ProgressPercentage float64      `json:"progress_percentage"`
	Deadline           string       `json:"deadline"`
	Category           string       `json:"category"`
	Description        string       `json:"description"`
	Priority           GoalPriority `json:"priority"`
	Icon               string       `json:"icon"`
	Color              string       `json:"color"`
	Completed          bool         `json:"completed"`
	CompletedAt        *time.Time   `json:"completed_at"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// GoalUpdate carries a partial goal update. A nil field is left untouched;
// a non-nil pointer to a zero value clears the field.
type GoalUpdate struct {
	Name          *string
	TargetAmount  *float64
	CurrentAmount *float64
	Deadline      *string
	Category      *string
	Description   *string
	Priority      *GoalPriority
	Icon          *string
	Color         *string
}

// TouchesAmounts reports whether the update changes either amount.
func (u GoalUpdate) TouchesAmounts() bool {
	return u.TargetAmount != nil || u.CurrentAmount != nil
}
