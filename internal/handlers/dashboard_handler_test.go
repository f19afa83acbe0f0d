package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

type mockDashboardService struct {
	getDashboardFn func(userID string) (*services.Dashboard, error)
}

func (m *mockDashboardService) GetDashboard(_ context.Context, userID string) (*services.Dashboard, error) {
	if m.getDashboardFn != nil {
		return m.getDashboardFn(userID)
	}
	return &services.Dashboard{}, nil
}

var _ services.DashboardServicer = (*mockDashboardService)(nil)

func TestDashboardHandler_GetDashboard(t *testing.T) {
	t.Run("returns 200 with the dashboard", func(t *testing.T) {
		svc := &mockDashboardService{
			getDashboardFn: func(userID string) (*services.Dashboard, error) {
				if userID != testUserID {
					t.Errorf("expected user %s, got %s", testUserID, userID)
				}
				return &services.Dashboard{
					MonthSummary: services.TransactionSummary{TotalIncome: 500},
					Goals:        services.GoalsSummary{TotalGoals: 2},
				}, nil
			},
		}
		r := gin.New()
		r.GET("/dashboard", injectUserID(testUserID), NewDashboardHandler(svc).GetDashboard)

		rec := doRequest(r, "GET", "/dashboard", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		dashboard := parseJSON(t, rec)["dashboard"].(map[string]interface{})
		month := dashboard["month_summary"].(map[string]interface{})
		if month["total_income"] != float64(500) {
			t.Errorf("unexpected month summary: %v", month)
		}
		goals := dashboard["goals"].(map[string]interface{})
		if goals["total_goals"] != float64(2) {
			t.Errorf("unexpected goals summary: %v", goals)
		}
	})

	t.Run("returns 500 on failure", func(t *testing.T) {
		svc := &mockDashboardService{
			getDashboardFn: func(string) (*services.Dashboard, error) { return nil, apperrors.ErrPersistence },
		}
		r := gin.New()
		r.GET("/dashboard", injectUserID(testUserID), NewDashboardHandler(svc).GetDashboard)

		rec := doRequest(r, "GET", "/dashboard", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PERSISTENCE_FAILURE")
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		r := gin.New()
		r.GET("/dashboard", NewDashboardHandler(&mockDashboardService{}).GetDashboard)

		rec := doRequest(r, "GET", "/dashboard", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
