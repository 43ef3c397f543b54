package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"centavo/internal/dates"
	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/pagination"
	"centavo/internal/services"
)

// --- mock budget service ---

type mockBudgetService struct {
	createBudgetFn     func(userID, name, description string, startingBudget float64, startDate string, kind dates.BudgetKind, allowance float64) (*models.Budget, error)
	getUserBudgetsFn   func(userID string, page pagination.PageRequest, name string) (*pagination.PageResponse[models.Budget], error)
	getBudgetByIDFn    func(userID, budgetID string) (*models.Budget, error)
	updateBudgetFn     func(userID, budgetID, name, description string) (*models.Budget, error)
	deleteBudgetFn     func(userID, budgetID string) error
	createAdjustmentFn func(userID, budgetID string, amount float64, date, description string) (*models.BudgetAdjustment, error)
	getAdjustmentsFn   func(userID, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetAdjustment], error)
	deleteAdjustmentFn func(userID, adjustmentID string) error
}

func (m *mockBudgetService) CreateBudget(userID, name, description string, startingBudget float64, startDate string, kind dates.BudgetKind, allowance float64) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(userID, name, description, startingBudget, startDate, kind, allowance)
	}
	return &models.Budget{Base: models.Base{ID: testBudgetID}, Name: name}, nil
}

func (m *mockBudgetService) GetUserBudgets(userID string, page pagination.PageRequest, name string) (*pagination.PageResponse[models.Budget], error) {
	if m.getUserBudgetsFn != nil {
		return m.getUserBudgetsFn(userID, page, name)
	}
	resp := pagination.NewPageResponse([]models.Budget{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBudgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	if m.getBudgetByIDFn != nil {
		return m.getBudgetByIDFn(userID, budgetID)
	}
	return &models.Budget{Base: models.Base{ID: budgetID}}, nil
}

func (m *mockBudgetService) UpdateBudget(userID, budgetID, name, description string) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(userID, budgetID, name, description)
	}
	return &models.Budget{Base: models.Base{ID: budgetID}, Name: name}, nil
}

func (m *mockBudgetService) DeleteBudget(userID, budgetID string) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(userID, budgetID)
	}
	return nil
}

func (m *mockBudgetService) CreateAdjustment(userID, budgetID string, amount float64, date, description string) (*models.BudgetAdjustment, error) {
	if m.createAdjustmentFn != nil {
		return m.createAdjustmentFn(userID, budgetID, amount, date, description)
	}
	return &models.BudgetAdjustment{BudgetID: budgetID, Amount: amount, Date: date}, nil
}

func (m *mockBudgetService) GetBudgetAdjustments(userID, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetAdjustment], error) {
	if m.getAdjustmentsFn != nil {
		return m.getAdjustmentsFn(userID, budgetID, page)
	}
	resp := pagination.NewPageResponse([]models.BudgetAdjustment{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBudgetService) DeleteAdjustment(userID, adjustmentID string) error {
	if m.deleteAdjustmentFn != nil {
		return m.deleteAdjustmentFn(userID, adjustmentID)
	}
	return nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/budgets", handler.CreateBudget)
	auth.GET("/budgets", handler.GetBudgets)
	auth.GET("/budgets/:id", handler.GetBudget)
	auth.PUT("/budgets/:id", handler.UpdateBudget)
	auth.DELETE("/budgets/:id", handler.DeleteBudget)
	auth.POST("/budgets/:id/adjustments", handler.CreateAdjustment)
	auth.GET("/budgets/:id/adjustments", handler.GetAdjustments)
	auth.DELETE("/adjustments/:id", handler.DeleteAdjustment)
	return r
}

func TestBudgetHandler_CreateBudget(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(_, name, _ string, starting float64, startDate string, kind dates.BudgetKind, allowance float64) (*models.Budget, error) {
				if kind != dates.BudgetKindDaily {
					t.Errorf("expected kind daily, got %s", kind)
				}
				return &models.Budget{
					Base:           models.Base{ID: testBudgetID},
					Name:           name,
					StartingBudget: starting,
					StartDate:      startDate,
				}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"name":"Trip","starting_budget":1000,"start_date":"2024-01-01","allowance_kind":"daily","allowance_amount":10}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		budget := result["budget"].(map[string]interface{})
		if budget["name"] != "Trip" {
			t.Errorf("expected Trip, got %v", budget["name"])
		}
	})

	t.Run("returns 400 on bad date format", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"name":"Trip","starting_budget":1000,"start_date":"01/01/2024","allowance_kind":"daily","allowance_amount":10}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on unknown allowance kind", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"name":"Trip","starting_budget":1000,"start_date":"2024-01-01","allowance_kind":"weekly","allowance_amount":10}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_GetBudget(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetByIDFn: func(_, _ string) (*models.Budget, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/"+testBudgetID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		errObj := result["error"].(map[string]interface{})
		if errObj["code"] != "BUDGET_NOT_FOUND" {
			t.Errorf("expected BUDGET_NOT_FOUND, got %v", errObj["code"])
		}
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/not-a-uuid", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_CreateAdjustment(t *testing.T) {
	t.Run("accepts negative amounts", func(t *testing.T) {
		svc := &mockBudgetService{
			createAdjustmentFn: func(_, budgetID string, amount float64, date, _ string) (*models.BudgetAdjustment, error) {
				if amount != -12.5 {
					t.Errorf("expected -12.5, got %v", amount)
				}
				return &models.BudgetAdjustment{BudgetID: budgetID, Amount: amount, Date: date}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets/"+testBudgetID+"/adjustments",
			`{"amount":-12.5,"date":"2024-01-10","description":"correction"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on missing date", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets/"+testBudgetID+"/adjustments", `{"amount":5}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
