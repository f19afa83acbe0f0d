package handlers

import (
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// MessageResponse is returned by endpoints that have nothing else to report.
type MessageResponse struct {
	Message string `json:"message"`
}

// ProfileResponse wraps the current user's profile.
type ProfileResponse struct {
	User UserResponse `json:"user"`
}

// GoalResponse wraps a single goal.
type GoalResponse struct {
	Goal *models.Goal `json:"goal"`
}

// GoalListResponse wraps a list of goals.
type GoalListResponse struct {
	Goals []models.Goal `json:"goals"`
}

// GoalsSummaryResponse wraps the goals summary.
type GoalsSummaryResponse struct {
	Summary *services.GoalsSummary `json:"summary"`
}

// TransactionResponse wraps a single transaction.
type TransactionResponse struct {
	Transaction *models.Transaction `json:"transaction"`
}

// TransactionSummaryResponse wraps income and expense totals.
type TransactionSummaryResponse struct {
	Summary *services.TransactionSummary `json:"summary"`
}

// CategoryTotalsResponse wraps per-category totals.
type CategoryTotalsResponse struct {
	Categories []services.CategoryTotal `json:"categories"`
}

// MonthlySummaryResponse wraps the month-by-month report.
type MonthlySummaryResponse struct {
	Months []services.MonthlySummary `json:"months"`
}

// CategoryResponse wraps a single category.
type CategoryResponse struct {
	Category *models.Category `json:"category"`
}

// CategoryListResponse wraps a list of categories.
type CategoryListResponse struct {
	Categories []models.Category `json:"categories"`
}

// DashboardResponse wraps the dashboard.
type DashboardResponse struct {
	Dashboard *services.Dashboard `json:"dashboard"`
}
