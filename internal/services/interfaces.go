package services

import (
	"context"
	"time"

	"fintrack/internal/models"
)

// CreateGoalInput holds the fields accepted when creating a goal. Empty
// optional fields receive the goal defaults.
type CreateGoalInput struct {
	UserID        string
	Name          string
	TargetAmount  float64
	CurrentAmount float64
	Deadline      string
	Category      string
	Description   string
	Priority      models.GoalPriority
	Icon          string
	Color         string
}

// GoalFilter holds optional filter parameters for listing goals.
type GoalFilter struct {
	IncludeCompleted bool
	Category         *string
	Priority         *models.GoalPriority
}

// ApproachingGoal is a pending goal annotated with the days left until its deadline.
type ApproachingGoal struct {
	models.Goal
	DaysRemaining int `json:"days_remaining"`
}

// GoalsSummary aggregates a user's goals. Amount totals and OverallProgress
// cover pending goals only.
type GoalsSummary struct {
	TotalGoals          int               `json:"total_goals"`
	CompletedGoals      int               `json:"completed_goals"`
	PendingGoals        int               `json:"pending_goals"`
	TotalTargetAmount   float64           `json:"total_target_amount"`
	TotalCurrentAmount  float64           `json:"total_current_amount"`
	OverallProgress     float64           `json:"overall_progress"`
	ApproachingDeadline []ApproachingGoal `json:"approaching_deadline"`
}

// GoalServicer defines the contract for goal tracking and aggregation.
type GoalServicer interface {
	CreateGoal(ctx context.Context, in CreateGoalInput) (string, error)
	GetGoal(ctx context.Context, goalID string) (*models.Goal, error)
	UpdateGoal(ctx context.Context, goalID string, update models.GoalUpdate) error
	UpdateGoalProgress(ctx context.Context, goalID string, amount float64) error
	DeleteGoal(ctx context.Context, goalID string) error
	ListGoals(ctx context.Context, userID string, filter GoalFilter) ([]models.Goal, error)
	GetGoalsSummary(ctx context.Context, userID string) (*GoalsSummary, error)
}

// CreateTransactionInput holds the fields accepted when recording a transaction.
type CreateTransactionInput struct {
	UserID        string
	Description   string
	Type          models.TransactionType
	Category      string
	Amount        float64
	Date          string
	Notes         string
	PaymentMethod string
}

// TransactionFilter holds optional filter parameters for listing transactions.
// Date bounds are inclusive calendar dates.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *models.TransactionType
	Category *string
	Limit    int
}

// TransactionSummary totals income and expenses over a period.
type TransactionSummary struct {
	TotalIncome       float64 `json:"total_income"`
	TotalExpenses     float64 `json:"total_expenses"`
	Balance           float64 `json:"balance"`
	SavingsPercentage float64 `json:"savings_percentage"`
}

// CategoryTotal is the amount spent or earned in one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// MonthlySummary is a TransactionSummary for one calendar month.
type MonthlySummary struct {
	Month     string `json:"month"`
	MonthYear string `json:"month_year"`
	TransactionSummary
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, in CreateTransactionInput) (*models.Transaction, error)
	GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, transactionID string, update models.TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID string) error
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, error)
	GetSummary(ctx context.Context, userID string, from, to *time.Time) (*TransactionSummary, error)
	GetCategorySummary(ctx context.Context, userID string, txType models.TransactionType, from, to *time.Time) ([]CategoryTotal, error)
	GetMonthlySummary(ctx context.Context, userID string, months int) ([]MonthlySummary, error)
}

// CreateCategoryInput holds the fields accepted when creating a category.
type CreateCategoryInput struct {
	UserID      string
	Name        string
	Type        models.CategoryType
	Color       string
	Icon        string
	Description string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error)
	GetCategory(ctx context.Context, categoryID string) (*models.Category, error)
	UpdateCategory(ctx context.Context, categoryID string, update models.CategoryUpdate) (*models.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error
	ListCategories(ctx context.Context, userID string, categoryType *models.CategoryType, includeDefault bool) ([]models.Category, error)
	CreateDefaultCategories(ctx context.Context, userID string) ([]string, error)
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(ctx context.Context, email, password, name string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(ctx context.Context, email, password string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, name, profileImage *string) (*models.User, error)
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
	DeleteUser(ctx context.Context, id, password string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}

// Dashboard bundles the figures shown on the landing page.
type Dashboard struct {
	MonthSummary       TransactionSummary   `json:"month_summary"`
	ExpensesByCategory []CategoryTotal      `json:"expenses_by_category"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
	Goals              GoalsSummary         `json:"goals"`
}

// DashboardServicer defines the contract for the dashboard aggregation.
type DashboardServicer interface {
	GetDashboard(ctx context.Context, userID string) (*Dashboard, error)
}
