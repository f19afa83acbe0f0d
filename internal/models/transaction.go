package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// DefaultTransactionCategory groups transactions recorded without a category.
const DefaultTransactionCategory = "Other"

// Transaction represents an income or expense entry. Date is an ISO-8601
// calendar date (YYYY-MM-DD).
type Transaction struct {
	ID            string          `json:"id,omitempty"`
	UserID        string          `json:"user_id"`
	Description   string          `json:"description"`
	Type          TransactionType `json:"type"`
	Category      string          `json:"category"`
	Amount        float64         `json:"amount"`
	Date          string          `json:"date"`
	Notes         string          `json:"notes"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TransactionUpdate carries a partial transaction update.
type TransactionUpdate struct {
	Description   *string
	Type          *TransactionType
	Category      *string
	Amount        *float64
	Date          *string
	Notes         *string
	PaymentMethod *string
}
