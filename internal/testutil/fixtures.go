package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/docstore"
	"fintrack/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

func insert(t *testing.T, store docstore.Store, collection string, v any) string {
	t.Helper()

	doc, err := docstore.Encode(v)
	if err != nil {
		t.Fatalf("failed to encode %s fixture: %v", collection, err)
	}
	id, err := store.Add(context.Background(), collection, doc)
	if err != nil {
		t.Fatalf("failed to create %s fixture: %v", collection, err)
	}
	return id
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, store docstore.Store) *models.User {
	t.Helper()
	return CreateTestUserWithEmail(t, store, fmt.Sprintf("user%d@test.com", nextID()))
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, store docstore.Store, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Test User",
		Preferences:  models.DefaultUserPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	user.ID = insert(t, store, models.CollectionUsers, user)
	return user
}

// CreateTestGoal stores g as-is, filling in the owner and timestamps. Derived
// fields are the caller's responsibility.
func CreateTestGoal(t *testing.T, store docstore.Store, userID string, g models.Goal) *models.Goal {
	t.Helper()

	now := time.Now().UTC()
	g.UserID = userID
	if g.Name == "" {
		g.Name = fmt.Sprintf("Goal %d", nextID())
	}
	if g.Priority == "" {
		g.Priority = models.GoalPriorityMedium
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = g.CreatedAt
	g.ID = insert(t, store, models.CollectionGoals, g)
	return &g
}

// CreateTestTransaction creates a transaction dated date (YYYY-MM-DD).
func CreateTestTransaction(t *testing.T, store docstore.Store, userID string, txType models.TransactionType, category string, amount float64, date string) *models.Transaction {
	t.Helper()

	now := time.Now().UTC()
	tx := &models.Transaction{
		UserID:      userID,
		Description: fmt.Sprintf("Transaction %d", nextID()),
		Type:        txType,
		Category:    category,
		Amount:      amount,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	tx.ID = insert(t, store, models.CollectionTransactions, tx)
	return tx
}

// CreateTestCategory creates a user-owned category.
func CreateTestCategory(t *testing.T, store docstore.Store, userID, name string, catType models.CategoryType) *models.Category {
	t.Helper()

	now := time.Now().UTC()
	cat := &models.Category{
		UserID:    userID,
		Name:      name,
		Type:      catType,
		Color:     "#AAAAAA",
		Icon:      "tag",
		CreatedAt: now,
		UpdatedAt: now,
	}
	cat.ID = insert(t, store, models.CollectionCategories, cat)
	return cat
}

// CreateTestDefaultCategory creates a system default category visible to
// every user.
func CreateTestDefaultCategory(t *testing.T, store docstore.Store, name string, catType models.CategoryType) *models.Category {
	t.Helper()

	now := time.Now().UTC()
	cat := &models.Category{
		Name:      name,
		Type:      catType,
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	cat.ID = insert(t, store, models.CollectionCategories, cat)
	return cat
}
