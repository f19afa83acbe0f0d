package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/dates"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	Description   string                 `json:"description" binding:"max=500"`
	Type          models.TransactionType `json:"type" binding:"required,transaction_type"`
	Category      string                 `json:"category" binding:"max=100"`
	Amount        float64                `json:"amount" binding:"required,gt=0"`
	Date          string                 `json:"date" binding:"omitempty,iso_date"`
	Notes         string                 `json:"notes" binding:"max=1000"`
	PaymentMethod string                 `json:"payment_method" binding:"max=50"`
}

// UpdateTransactionRequest represents the request payload for a partial update
type UpdateTransactionRequest struct {
	Description   *string                 `json:"description" binding:"omitempty,max=500"`
	Type          *models.TransactionType `json:"type" binding:"omitempty,transaction_type"`
	Category      *string                 `json:"category" binding:"omitempty,max=100"`
	Amount        *float64                `json:"amount" binding:"omitempty,gt=0"`
	Date          *string                 `json:"date" binding:"omitempty,iso_date"`
	Notes         *string                 `json:"notes" binding:"omitempty,max=1000"`
	PaymentMethod *string                 `json:"payment_method" binding:"omitempty,max=50"`
}

// TransactionListQuery holds the list filters and page parameters.
type TransactionListQuery struct {
	pagination.PageRequest
	FromDate string                 `form:"from_date" binding:"omitempty,iso_date"`
	ToDate   string                 `form:"to_date" binding:"omitempty,iso_date"`
	Type     models.TransactionType `form:"type" binding:"omitempty,transaction_type"`
	Category string                 `form:"category"`
}

// SummaryQuery holds an optional inclusive date range. A named period takes
// precedence over from_date and to_date.
type SummaryQuery struct {
	FromDate string                 `form:"from_date" binding:"omitempty,iso_date"`
	ToDate   string                 `form:"to_date" binding:"omitempty,iso_date"`
	Period   string                 `form:"period"`
	Type     models.TransactionType `form:"type" binding:"omitempty,transaction_type"`
}

func (q SummaryQuery) bounds() (*time.Time, *time.Time, error) {
	if q.Period == "" {
		from, to := dateRange(q.FromDate, q.ToDate)
		return from, to, nil
	}
	from, to, err := dates.PeriodRange(q.Period, time.Now())
	if err != nil {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return &from, &to, nil
}

// MonthlySummaryQuery selects how many months to report.
type MonthlySummaryQuery struct {
	Months int `form:"months" binding:"omitempty,min=1,max=24"`
}

// dateRange converts the optional query bounds into times. Both were
// validated by the iso_date binding.
func dateRange(from, to string) (*time.Time, *time.Time) {
	var fromDate, toDate *time.Time
	if from != "" {
		if t, err := dates.Parse(from); err == nil {
			fromDate = &t
		}
	}
	if to != "" {
		if t, err := dates.Parse(to); err == nil {
			toDate = &t
		}
	}
	return fromDate, toDate
}

func (h *TransactionHandler) ownedTransaction(c *gin.Context, userID, transactionID string) (*models.Transaction, error) {
	tx, err := h.transactionService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, apperrors.ErrTransactionNotFound
	}
	return tx, nil
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record an income or expense. The date defaults to today.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} TransactionResponse "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	date := req.Date
	if date == "" {
		date = dates.Format(time.Now())
	}

	ctx := c.Request.Context()
	transaction, err := h.transactionService.CreateTransaction(ctx, services.CreateTransactionInput{
		UserID:        userID,
		Description:   req.Description,
		Type:          req.Type,
		Category:      req.Category,
		Amount:        req.Amount,
		Date:          date,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ctx, userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]any{"type": req.Type, "amount": req.Amount, "category": transaction.Category})

	c.JSON(http.StatusCreated, TransactionResponse{Transaction: transaction})
}

// ListTransactions handles the retrieval of the user's transactions
// @Summary     List transactions
// @Description Paginated transactions, newest first, with optional filters
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       from_date query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       to_date   query string false "Inclusive end date (YYYY-MM-DD)"
// @Param       type      query string false "Filter by transaction type (income, expense)"
// @Param       category  query string false "Filter by category"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q TransactionListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingError(c, err)
		return
	}

	filter := services.TransactionFilter{}
	filter.FromDate, filter.ToDate = dateRange(q.FromDate, q.ToDate)
	if q.Type != "" {
		filter.Type = &q.Type
	}
	if q.Category != "" {
		filter.Category = &q.Category
	}

	txs, err := h.transactionService.ListTransactions(c.Request.Context(), userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Paginate(txs, q.PageRequest))
}

// GetSummary handles the income/expense summary
// @Summary     Transaction summary
// @Description Total income, expenses, balance and savings percentage
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       from_date query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       to_date   query string false "Inclusive end date (YYYY-MM-DD)"
// @Param       period    query string false "Named period (today, this_week, this_month, last_month, this_quarter, this_year, last_30_days, last_90_days)"
// @Success     200 {object} TransactionSummaryResponse "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/summary [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingError(c, err)
		return
	}

	from, to, err := q.bounds()
	if err != nil {
		respondWithError(c, err)
		return
	}
	summary, err := h.transactionService.GetSummary(c.Request.Context(), userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionSummaryResponse{Summary: summary})
}

// GetCategorySummary handles the per-category breakdown
// @Summary     Totals by category
// @Description Per-category totals for one transaction type, largest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       type      query string false "income or expense (default expense)"
// @Param       from_date query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       to_date   query string false "Inclusive end date (YYYY-MM-DD)"
// @Param       period    query string false "Named period, overrides the dates"
// @Success     200 {object} CategoryTotalsResponse "Category totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/summary/categories [get]
func (h *TransactionHandler) GetCategorySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingError(c, err)
		return
	}
	if q.Type == "" {
		q.Type = models.TransactionTypeExpense
	}

	from, to, err := q.bounds()
	if err != nil {
		respondWithError(c, err)
		return
	}
	totals, err := h.transactionService.GetCategorySummary(c.Request.Context(), userID, q.Type, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if totals == nil {
		totals = []services.CategoryTotal{}
	}

	c.JSON(http.StatusOK, CategoryTotalsResponse{Categories: totals})
}

// GetMonthlySummary handles the month-by-month report
// @Summary     Monthly summary
// @Description One summary per calendar month, oldest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       months query int false "Number of months including the current one (default 6, max 24)"
// @Success     200 {object} MonthlySummaryResponse "Monthly summaries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/summary/monthly [get]
func (h *TransactionHandler) GetMonthlySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q MonthlySummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingError(c, err)
		return
	}

	months, err := h.transactionService.GetMonthlySummary(c.Request.Context(), userID, q.Months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthlySummaryResponse{Months: months})
}

// GetTransaction handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} TransactionResponse "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.ownedTransaction(c, userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Transaction: tx})
}

// UpdateTransaction handles a partial transaction update
// @Summary     Update a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to change"
// @Success     200 {object} TransactionResponse "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [patch]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	if _, err := h.ownedTransaction(c, userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	tx, err := h.transactionService.UpdateTransaction(ctx, transactionID, models.TransactionUpdate{
		Description:   req.Description,
		Type:          req.Type,
		Category:      req.Category,
		Amount:        req.Amount,
		Date:          req.Date,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ctx, userID, "UPDATE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, TransactionResponse{Transaction: tx})
}

// DeleteTransaction handles the deletion of a transaction
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if _, err := h.ownedTransaction(c, userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.transactionService.DeleteTransaction(ctx, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ctx, userID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}
