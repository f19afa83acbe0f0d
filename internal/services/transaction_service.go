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

// DefaultSummaryMonths is the number of months covered by GetMonthlySummary
// when the caller does not ask for a specific count.
const DefaultSummaryMonths = 6

// transactionService handles transaction-related business logic.
type transactionService struct {
	store docstore.Store
	log   *zap.SugaredLogger
	now   func() time.Time
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(store docstore.Store) TransactionServicer {
	return &transactionService{store: store, log: logger.Named("transactions"), now: time.Now}
}

// CreateTransaction records a new income or expense entry.
func (s *transactionService) CreateTransaction(ctx context.Context, in CreateTransactionInput) (*models.Transaction, error) {
	if in.UserID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user id is required")
	}
	if !in.Type.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if !validAmount(in.Amount) || in.Amount == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	date, ok := dates.Normalize(in.Date)
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD")
	}

	now := s.now().UTC()
	tx := &models.Transaction{
		UserID:        in.UserID,
		Description:   strings.TrimSpace(in.Description),
		Type:          in.Type,
		Category:      orDefault(in.Category, models.DefaultTransactionCategory),
		Amount:        in.Amount,
		Date:          date,
		Notes:         in.Notes,
		PaymentMethod: in.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	doc, err := docstore.Encode(tx)
	if err != nil {
		return nil, storeError(s.log, "encode transaction", err, nil)
	}
	id, err := s.store.Add(ctx, models.CollectionTransactions, doc)
	if err != nil {
		return nil, storeError(s.log, "add transaction", err, nil)
	}
	tx.ID = id
	return tx, nil
}

// GetTransaction retrieves a transaction by id.
func (s *transactionService) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	return load[models.Transaction](ctx, s.store, s.log, models.CollectionTransactions, transactionID, apperrors.ErrTransactionNotFound)
}

// UpdateTransaction applies a partial update and returns the stored result.
func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID string, update models.TransactionUpdate) (*models.Transaction, error) {
	if _, err := s.GetTransaction(ctx, transactionID); err != nil {
		return nil, err
	}

	fields := docstore.Document{}
	if update.Description != nil {
		fields["description"] = strings.TrimSpace(*update.Description)
	}
	if update.Type != nil {
		if !update.Type.Valid() {
			return nil, apperrors.ErrInvalidTransactionType
		}
		fields["type"] = *update.Type
	}
	if update.Category != nil {
		fields["category"] = orDefault(*update.Category, models.DefaultTransactionCategory)
	}
	if update.Amount != nil {
		if !validAmount(*update.Amount) || *update.Amount == 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		fields["amount"] = *update.Amount
	}
	if update.Date != nil {
		date, ok := dates.Normalize(*update.Date)
		if !ok {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD")
		}
		fields["date"] = date
	}
	if update.Notes != nil {
		fields["notes"] = *update.Notes
	}
	if update.PaymentMethod != nil {
		fields["payment_method"] = *update.PaymentMethod
	}
	fields["updated_at"] = s.now().UTC()

	if err := s.store.Update(ctx, models.CollectionTransactions, transactionID, fields); err != nil {
		return nil, storeError(s.log, "update transaction", err, apperrors.ErrTransactionNotFound)
	}
	return s.GetTransaction(ctx, transactionID)
}

// DeleteTransaction permanently removes a transaction.
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string) error {
	if transactionID == "" {
		return apperrors.ErrTransactionNotFound
	}
	if err := s.store.Delete(ctx, models.CollectionTransactions, transactionID); err != nil {
		return storeError(s.log, "delete transaction", err, apperrors.ErrTransactionNotFound)
	}
	return nil
}

// ListTransactions returns the user's transactions matching filter, newest first.
func (s *transactionService) ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, error) {
	filters := []docstore.Filter{docstore.Eq("user_id", userID)}
	if filter.Type != nil {
		filters = append(filters, docstore.Eq("type", *filter.Type))
	}
	if filter.Category != nil {
		filters = append(filters, docstore.Eq("category", *filter.Category))
	}

	all, err := loadAll[models.Transaction](ctx, s.store, s.log, models.CollectionTransactions, filters...)
	if err != nil {
		return nil, err
	}

	from, to := "", ""
	if filter.FromDate != nil {
		from = dates.Format(*filter.FromDate)
	}
	if filter.ToDate != nil {
		to = dates.Format(*filter.ToDate)
	}

	txs := make([]models.Transaction, 0, len(all))
	for _, tx := range all {
		if from != "" && tx.Date < from {
			continue
		}
		if to != "" && tx.Date > to {
			continue
		}
		txs = append(txs, tx)
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date > txs[j].Date
	})
	if filter.Limit > 0 && len(txs) > filter.Limit {
		txs = txs[:filter.Limit]
	}
	return txs, nil
}

// GetSummary totals income and expenses between from and to (both optional).
func (s *transactionService) GetSummary(ctx context.Context, userID string, from, to *time.Time) (*TransactionSummary, error) {
	txs, err := s.ListTransactions(ctx, userID, TransactionFilter{FromDate: from, ToDate: to})
	if err != nil {
		return nil, err
	}
	summary := summarize(txs)
	return &summary, nil
}

// GetCategorySummary totals transactions of txType per category, largest first.
func (s *transactionService) GetCategorySummary(ctx context.Context, userID string, txType models.TransactionType, from, to *time.Time) ([]CategoryTotal, error) {
	if !txType.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	txs, err := s.ListTransactions(ctx, userID, TransactionFilter{FromDate: from, ToDate: to, Type: &txType})
	if err != nil {
		return nil, err
	}

	totals := map[string]decimal.Decimal{}
	order := []string{}
	for _, tx := range txs {
		category := orDefault(tx.Category, models.DefaultTransactionCategory)
		if _, seen := totals[category]; !seen {
			order = append(order, category)
		}
		totals[category] = totals[category].Add(decimal.NewFromFloat(tx.Amount))
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, category := range order {
		out = append(out, CategoryTotal{Category: category, Amount: totals[category].InexactFloat64()})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out, nil
}

// GetMonthlySummary returns one summary per calendar month for the last
// months months including the current one, oldest first.
func (s *transactionService) GetMonthlySummary(ctx context.Context, userID string, months int) ([]MonthlySummary, error) {
	if months <= 0 {
		months = DefaultSummaryMonths
	}

	current, _ := dates.MonthRange(s.now())
	first := current.AddDate(0, -(months - 1), 0)
	_, last := dates.MonthRange(current)

	txs, err := s.ListTransactions(ctx, userID, TransactionFilter{FromDate: &first, ToDate: &last})
	if err != nil {
		return nil, err
	}

	buckets := make(map[string][]models.Transaction, months)
	for _, tx := range txs {
		if len(tx.Date) >= 7 {
			buckets[tx.Date[:7]] = append(buckets[tx.Date[:7]], tx)
		}
	}

	out := make([]MonthlySummary, 0, months)
	for i := 0; i < months; i++ {
		month := first.AddDate(0, i, 0)
		out = append(out, MonthlySummary{
			Month:              month.Month().String(),
			MonthYear:          month.Format("01/2006"),
			TransactionSummary: summarize(buckets[month.Format("2006-01")]),
		})
	}
	return out, nil
}

// summarize totals income and expenses. SavingsPercentage is the share of
// income not spent, never negative.
func summarize(txs []models.Transaction) TransactionSummary {
	income, expenses := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionTypeIncome:
			income = income.Add(decimal.NewFromFloat(tx.Amount))
		case models.TransactionTypeExpense:
			expenses = expenses.Add(decimal.NewFromFloat(tx.Amount))
		}
	}

	summary := TransactionSummary{
		TotalIncome:   income.InexactFloat64(),
		TotalExpenses: expenses.InexactFloat64(),
		Balance:       income.Sub(expenses).InexactFloat64(),
	}
	if income.IsPositive() {
		pct := income.Sub(expenses).Div(income).Mul(decimal.NewFromInt(100))
		summary.SavingsPercentage = decimal.Max(decimal.Zero, pct).InexactFloat64()
	}
	return summary
}
