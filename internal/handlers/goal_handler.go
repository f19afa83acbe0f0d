package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// GoalHandler handles goal-related requests
type GoalHandler struct {
	goalService  services.GoalServicer
	auditService services.AuditServicer
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService services.GoalServicer, auditService services.AuditServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService, auditService: auditService}
}

// CreateGoalRequest represents the request payload for creating a goal
type CreateGoalRequest struct {
	Name          string              `json:"name" binding:"required,max=200"`
	TargetAmount  *float64            `json:"target_amount" binding:"required,gte=0"`
	CurrentAmount float64             `json:"current_amount" binding:"gte=0"`
	Deadline      string              `json:"deadline" binding:"max=64"`
	Category      string              `json:"category" binding:"max=100"`
	Description   string              `json:"description" binding:"max=1000"`
	Priority      models.GoalPriority `json:"priority" binding:"omitempty,goal_priority"`
	Icon          string              `json:"icon" binding:"max=50"`
	Color         string              `json:"color" binding:"omitempty,hex_color"`
}

// UpdateGoalRequest represents the request payload for a partial goal update.
// Omitted fields are left untouched.
type UpdateGoalRequest struct {
	Name          *string              `json:"name" binding:"omitempty,max=200"`
	TargetAmount  *float64             `json:"target_amount" binding:"omitempty,gte=0"`
	CurrentAmount *float64             `json:"current_amount" binding:"omitempty,gte=0"`
	Deadline      *string              `json:"deadline" binding:"omitempty,max=64"`
	Category      *string              `json:"category" binding:"omitempty,max=100"`
	Description   *string              `json:"description" binding:"omitempty,max=1000"`
	Priority      *models.GoalPriority `json:"priority" binding:"omitempty,goal_priority"`
	Icon          *string              `json:"icon" binding:"omitempty,max=50"`
	Color         *string              `json:"color" binding:"omitempty,hex_color"`
}

func (r UpdateGoalRequest) toUpdate() models.GoalUpdate {
	return models.GoalUpdate{
		Name:          r.Name,
		TargetAmount:  r.TargetAmount,
		CurrentAmount: r.CurrentAmount,
		Deadline:      r.Deadline,
		Category:      r.Category,
		Description:   r.Description,
		Priority:      r.Priority,
		Icon:          r.Icon,
		Color:         r.Color,
	}
}

// GoalProgressRequest carries a signed amount to add to a goal.
type GoalProgressRequest struct {
	Amount *float64 `json:"amount" binding:"required"`
}

// ListGoalsQuery holds the optional filters for listing goals.
type ListGoalsQuery struct {
	IncludeCompleted bool                `form:"include_completed"`
	Category         string              `form:"category"`
	Priority         models.GoalPriority `form:"priority" binding:"omitempty,goal_priority"`
}

// ownedGoal loads a goal and hides goals that belong to someone else.
func (h *GoalHandler) ownedGoal(c *gin.Context, userID, goalID string) (*models.Goal, error) {
	goal, err := h.goalService.GetGoal(c.Request.Context(), goalID)
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, apperrors.ErrGoalNotFound
	}
	return goal, nil
}

// CreateGoal handles the creation of a new goal
// @Summary     Create a goal
// @Description Create a savings goal for the authenticated user
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} GoalResponse "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	ctx := c.Request.Context()
	goalID, err := h.goalService.CreateGoal(ctx, services.CreateGoalInput{
		UserID:        userID,
		Name:          req.Name,
		TargetAmount:  *req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      req.Deadline,
		Category:      req.Category,
		Description:   req.Description,
		Priority:      req.Priority,
		Icon:          req.Icon,
		Color:         req.Color,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoal(ctx, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ctx, userID, "CREATE_GOAL", "goal", goalID, c.ClientIP(),
		map[string]any{"name": goal.Name, "target_amount": goal.TargetAmount})

	c.JSON(http.StatusCreated, GoalResponse{Goal: goal})
}

// ListGoals handles the retrieval of the user's goals
// @Summary     List goals
// @Description List goals ordered by deadline, then by progress
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       include_completed query bool false "Include completed goals"
// @Param       category query string false "Filter by category"
// @Param       priority query string false "Filter by priority (low/medium/high)"
// @Success     200 {object} GoalListResponse "List of goals"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [get]
func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ListGoalsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingError(c, err)
		return
	}

	filter := services.GoalFilter{IncludeCompleted: q.IncludeCompleted}
	if q.Category != "" {
		filter.Category = &q.Category
	}
	if q.Priority != "" {
		filter.Priority = &q.Priority
	}

	goals, err := h.goalService.ListGoals(c.Request.Context(), userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if goals == nil {
		goals = []models.Goal{}
	}

	c.JSON(http.StatusOK, GoalListResponse{Goals: goals})
}

// GetGoalsSummary handles the goals summary report
// @Summary     Goals summary
// @Description Counts, pending totals, overall progress and goals with approaching deadlines
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} GoalsSummaryResponse "Goals summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/summary [get]
func (h *GoalHandler) GetGoalsSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.goalService.GetGoalsSummary(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, GoalsSummaryResponse{Summary: summary})
}

// GetGoal handles the retrieval of a single goal
// @Summary     Get goal by ID
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} GoalResponse "Goal details"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [get]
func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.ownedGoal(c, userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, GoalResponse{Goal: goal})
}

// UpdateGoal handles a partial goal update
// @Summary     Update a goal
// @Description Change any subset of a goal's fields; progress and completion are recomputed
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Param       request body UpdateGoalRequest true "Fields to change"
// @Success     200 {object} GoalResponse "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [patch]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	if _, err := h.ownedGoal(c, userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.goalService.UpdateGoal(ctx, goalID, req.toUpdate()); err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoal(ctx, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ctx, userID, "UPDATE_GOAL", "goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, GoalResponse{Goal: goal})
}

// UpdateGoalProgress handles adding an amount to a goal
// @Summary     Add progress to a goal
// @Description Add a signed amount to the goal's current amount
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Param       request body GoalProgressRequest true "Amount to add"
// @Success     200 {object} GoalResponse "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/progress [post]
func (h *GoalHandler) UpdateGoalProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req GoalProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	if _, err := h.ownedGoal(c, userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.goalService.UpdateGoalProgress(ctx, goalID, *req.Amount); err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoal(ctx, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ctx, userID, "UPDATE_GOAL_PROGRESS", "goal", goalID, c.ClientIP(),
		map[string]any{"amount": *req.Amount, "current_amount": goal.CurrentAmount})

	c.JSON(http.StatusOK, GoalResponse{Goal: goal})
}

// DeleteGoal handles the deletion of a goal
// @Summary     Delete a goal
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} MessageResponse "Goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if _, err := h.ownedGoal(c, userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.goalService.DeleteGoal(ctx, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ctx, userID, "DELETE_GOAL", "goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Goal deleted successfully"})
}
