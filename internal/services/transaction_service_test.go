package services

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/docstore"
	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func newTestTransactionService(t *testing.T, store docstore.Store, now time.Time) *transactionService {
	t.Helper()
	svc := NewTransactionService(store).(*transactionService)
	svc.now = func() time.Time { return now }
	return svc
}

func ptr[T any](v T) *T { return &v }

func TestCreateTransaction(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		svc := newTestTransactionService(t, testutil.SetupTestStore(t), now)

		tx, err := svc.CreateTransaction(ctx, CreateTransactionInput{
			UserID:      "u",
			Description: " Salary ",
			Type:        models.TransactionTypeIncome,
			Category:    "Salário",
			Amount:      5000,
			Date:        "2024-05-05T12:00:00Z",
		})
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected transaction ID")
		}
		if tx.Description != "Salary" || tx.Date != "2024-05-05" {
			t.Errorf("unexpected transaction: %+v", tx)
		}

		stored, err := svc.GetTransaction(ctx, tx.ID)
		testutil.AssertNoError(t, err)
		if stored.Amount != 5000 || stored.Category != "Salário" || !stored.CreatedAt.Equal(now) {
			t.Errorf("unexpected stored transaction: %+v", stored)
		}
	})

	t.Run("default_category", func(t *testing.T) {
		svc := newTestTransactionService(t, testutil.SetupTestStore(t), now)
		tx, err := svc.CreateTransaction(ctx, CreateTransactionInput{UserID: "u", Type: models.TransactionTypeExpense, Amount: 1, Date: "2024-05-01"})
		testutil.AssertNoError(t, err)
		if tx.Category != models.DefaultTransactionCategory {
			t.Errorf("expected category %s, got %s", models.DefaultTransactionCategory, tx.Category)
		}
	})

	invalid := []struct {
		name string
		in   CreateTransactionInput
		code string
	}{
		{"missing_user", CreateTransactionInput{Type: models.TransactionTypeIncome, Amount: 1, Date: "2024-05-01"}, "INVALID_INPUT"},
		{"bad_type", CreateTransactionInput{UserID: "u", Type: "transfer", Amount: 1, Date: "2024-05-01"}, "INVALID_TRANSACTION_TYPE"},
		{"zero_amount", CreateTransactionInput{UserID: "u", Type: models.TransactionTypeIncome, Amount: 0, Date: "2024-05-01"}, "INVALID_INPUT"},
		{"negative_amount", CreateTransactionInput{UserID: "u", Type: models.TransactionTypeIncome, Amount: -3, Date: "2024-05-01"}, "INVALID_INPUT"},
		{"bad_date", CreateTransactionInput{UserID: "u", Type: models.TransactionTypeIncome, Amount: 1, Date: "05/01/2024"}, "INVALID_INPUT"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestTransactionService(t, testutil.SetupTestStore(t), now)
			_, err := svc.CreateTransaction(ctx, tt.in)
			testutil.AssertAppError(t, err, tt.code)
		})
	}

	t.Run("persistence_failure", func(t *testing.T) {
		store := &testutil.FailingStore{Store: testutil.SetupTestStore(t), FailAdd: true}
		svc := newTestTransactionService(t, store, now)
		_, err := svc.CreateTransaction(ctx, CreateTransactionInput{UserID: "u", Type: models.TransactionTypeIncome, Amount: 1, Date: "2024-05-01"})
		testutil.AssertAppError(t, err, "PERSISTENCE_FAILURE")
	})
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

	t.Run("partial", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := newTestTransactionService(t, store, now)
		tx := testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeExpense, "Food", 30, "2024-05-01")

		updated, err := svc.UpdateTransaction(ctx, tx.ID, models.TransactionUpdate{Amount: ptr(45.5), Notes: ptr("dinner")})
		testutil.AssertNoError(t, err)

		if updated.Amount != 45.5 || updated.Notes != "dinner" {
			t.Errorf("update not applied: %+v", updated)
		}
		if updated.Category != "Food" || updated.Date != "2024-05-01" || updated.Type != models.TransactionTypeExpense {
			t.Errorf("untouched fields changed: %+v", updated)
		}
		if !updated.UpdatedAt.Equal(now) {
			t.Errorf("expected updated_at %v, got %v", now, updated.UpdatedAt)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := newTestTransactionService(t, store, now)
		tx := testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeExpense, "Food", 30, "2024-05-01")

		_, err := svc.UpdateTransaction(ctx, tx.ID, models.TransactionUpdate{Type: ptr(models.TransactionType("gift"))})
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")

		_, err = svc.UpdateTransaction(ctx, tx.ID, models.TransactionUpdate{Amount: ptr(0.0)})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.UpdateTransaction(ctx, tx.ID, models.TransactionUpdate{Date: ptr("yesterday")})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		svc := newTestTransactionService(t, testutil.SetupTestStore(t), now)
		_, err := svc.UpdateTransaction(ctx, "missing", models.TransactionUpdate{Notes: ptr("x")})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	svc := newTestTransactionService(t, store, time.Now())
	tx := testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeExpense, "Food", 30, "2024-05-01")

	testutil.AssertNoError(t, svc.DeleteTransaction(ctx, tx.ID))

	_, err := svc.GetTransaction(ctx, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

	err = svc.DeleteTransaction(ctx, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}

func TestListTransactions(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	svc := newTestTransactionService(t, store, time.Now())

	testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeExpense, "Food", 10, "2024-03-10")
	testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeIncome, "Salary", 1000, "2024-03-01")
	testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeExpense, "Rent", 500, "2024-04-01")
	testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeExpense, "Food", 20, "2024-02-15")
	testutil.CreateTestTransaction(t, store, "other", models.TransactionTypeExpense, "Food", 99, "2024-03-05")

	march1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	march31 := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		f     TransactionFilter
		dates []string
	}{
		{"all_newest_first", TransactionFilter{}, []string{"2024-04-01", "2024-03-10", "2024-03-01", "2024-02-15"}},
		{"type", TransactionFilter{Type: ptr(models.TransactionTypeIncome)}, []string{"2024-03-01"}},
		{"category", TransactionFilter{Category: ptr("Food")}, []string{"2024-03-10", "2024-02-15"}},
		{"inclusive_range", TransactionFilter{FromDate: &march1, ToDate: &march31}, []string{"2024-03-10", "2024-03-01"}},
		{"limit", TransactionFilter{Limit: 2}, []string{"2024-04-01", "2024-03-10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := svc.ListTransactions(ctx, "u", tt.f)
			testutil.AssertNoError(t, err)
			if len(txs) != len(tt.dates) {
				t.Fatalf("expected %d transactions, got %d", len(tt.dates), len(txs))
			}
			for i, d := range tt.dates {
				if txs[i].Date != d {
					t.Errorf("position %d: expected %s, got %s", i, d, txs[i].Date)
				}
			}
		})
	}
}

func TestGetSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("savings", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := newTestTransactionService(t, store, time.Now())
		testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeIncome, "Salary", 4000, "2024-03-01")
		testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeExpense, "Rent", 1000, "2024-03-02")
		testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeExpense, "Food", 0.1, "2024-03-03")
		testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeExpense, "Food", 0.2, "2024-03-04")

		summary, err := svc.GetSummary(ctx, "u", nil, nil)
		testutil.AssertNoError(t, err)

		if summary.TotalIncome != 4000 || summary.TotalExpenses != 1000.3 || summary.Balance != 2999.7 {
			t.Errorf("unexpected totals: %+v", summary)
		}
		if summary.SavingsPercentage != 74.9925 {
			t.Errorf("expected savings 74.9925, got %v", summary.SavingsPercentage)
		}
	})

	t.Run("overspent_clamps_to_zero", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := newTestTransactionService(t, store, time.Now())
		testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeIncome, "Salary", 100, "2024-03-01")
		testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeExpense, "Rent", 300, "2024-03-02")

		summary, err := svc.GetSummary(ctx, "u", nil, nil)
		testutil.AssertNoError(t, err)
		if summary.Balance != -200 || summary.SavingsPercentage != 0 {
			t.Errorf("unexpected summary: %+v", summary)
		}
	})

	t.Run("no_income", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := newTestTransactionService(t, store, time.Now())
		testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeExpense, "Rent", 300, "2024-03-02")

		summary, err := svc.GetSummary(ctx, "u", nil, nil)
		testutil.AssertNoError(t, err)
		if summary.SavingsPercentage != 0 {
			t.Errorf("expected 0 savings, got %v", summary.SavingsPercentage)
		}
	})
}

func TestGetCategorySummary(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	svc := newTestTransactionService(t, store, time.Now())

	testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeExpense, "Food", 10, "2024-03-01")
	testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeExpense, "Rent", 500, "2024-03-01")
	testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeExpense, "Food", 15, "2024-03-02")
	testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeExpense, "", 7, "2024-03-02")
	testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeIncome, "Salary", 1000, "2024-03-01")

	totals, err := svc.GetCategorySummary(ctx, "u", models.TransactionTypeExpense, nil, nil)
	testutil.AssertNoError(t, err)

	want := []CategoryTotal{{"Rent", 500}, {"Food", 25}, {"Other", 7}}
	if len(totals) != len(want) {
		t.Fatalf("expected %d categories, got %+v", len(want), totals)
	}
	for i := range want {
		if totals[i] != want[i] {
			t.Errorf("position %d: expected %+v, got %+v", i, want[i], totals[i])
		}
	}

	_, err = svc.GetCategorySummary(ctx, "u", "savings", nil, nil)
	testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
}

func TestGetMonthlySummary(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	svc := newTestTransactionService(t, store, time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC))

	testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeIncome, "Salary", 1000, "2023-12-05")
	testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeExpense, "Food", 250, "2023-12-20")
	testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeExpense, "Food", 40, "2024-02-01")
	testutil.CreateTestTransaction(t, store, "u", models.TransactionTypeIncome, "Salary", 777, "2023-11-30")

	months, err := svc.GetMonthlySummary(ctx, "u", 3)
	testutil.AssertNoError(t, err)

	if len(months) != 3 {
		t.Fatalf("expected 3 months, got %d", len(months))
	}
	expected := []struct {
		month, monthYear string
		income, expenses float64
	}{
		{"December", "12/2023", 1000, 250},
		{"January", "01/2024", 0, 0},
		{"February", "02/2024", 0, 40},
	}
	for i, e := range expected {
		m := months[i]
		if m.Month != e.month || m.MonthYear != e.monthYear {
			t.Errorf("position %d: expected %s %s, got %s %s", i, e.month, e.monthYear, m.Month, m.MonthYear)
		}
		if m.TotalIncome != e.income || m.TotalExpenses != e.expenses {
			t.Errorf("%s: expected %v/%v, got %v/%v", e.month, e.income, e.expenses, m.TotalIncome, m.TotalExpenses)
		}
	}
	if months[0].SavingsPercentage != 75 {
		t.Errorf("expected December savings 75, got %v", months[0].SavingsPercentage)
	}

	defaults, err := svc.GetMonthlySummary(ctx, "u", 0)
	testutil.AssertNoError(t, err)
	if len(defaults) != DefaultSummaryMonths {
		t.Errorf("expected %d months by default, got %d", DefaultSummaryMonths, len(defaults))
	}
}
