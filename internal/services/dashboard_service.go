package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/dates"
	"fintrack/internal/models"
)

// RecentTransactionsLimit is the number of transactions shown on the dashboard.
const RecentTransactionsLimit = 5

// dashboardService assembles the dashboard from the transaction and goal services.
type dashboardService struct {
	transactions TransactionServicer
	goals        GoalServicer
	now          func() time.Time
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(transactions TransactionServicer, goals GoalServicer) DashboardServicer {
	return &dashboardService{transactions: transactions, goals: goals, now: time.Now}
}

// GetDashboard loads the current month's figures, the latest transactions and
// the goals summary concurrently. The first failure cancels the other reads.
func (s *dashboardService) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	from, to := dates.MonthRange(s.now())
	d := &Dashboard{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.transactions.GetSummary(ctx, userID, &from, &to)
		if err != nil {
			return err
		}
		d.MonthSummary = *summary
		return nil
	})
	g.Go(func() error {
		totals, err := s.transactions.GetCategorySummary(ctx, userID, models.TransactionTypeExpense, &from, &to)
		if err != nil {
			return err
		}
		d.ExpensesByCategory = totals
		return nil
	})
	g.Go(func() error {
		recent, err := s.transactions.ListTransactions(ctx, userID, TransactionFilter{Limit: RecentTransactionsLimit})
		if err != nil {
			return err
		}
		d.RecentTransactions = recent
		return nil
	})
	g.Go(func() error {
		goals, err := s.goals.GetGoalsSummary(ctx, userID)
		if err != nil {
			return err
		}
		d.Goals = *goals
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}
