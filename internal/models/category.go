package models

import "time"

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category labels transactions. System defaults (IsDefault) are shared by
// every user and are read-only.
type Category struct {
	ID          string       `json:"id,omitempty"`
	UserID      string       `json:"user_id"`
	Name        string       `json:"name"`
	Type        CategoryType `json:"type"`
	Color       string       `json:"color"`
	Icon        string       `json:"icon"`
	Description string       `json:"description"`
	IsDefault   bool         `json:"is_default"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CategoryUpdate carries a partial category update.
type CategoryUpdate struct {
	Name        *string
	Color       *string
	Icon        *string
	Description *string
}
