package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"centavo/internal/config"
	"centavo/internal/handlers"
	"centavo/internal/logger"
	"centavo/internal/middleware"
	"centavo/internal/models"
	"centavo/internal/services"
	"centavo/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	os.Setenv("JWT_SECRET", "integration-test-secret-key-0123456789")
	if _, err := config.Load(); err != nil {
		panic(err)
	}
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Budget{},
		&models.BudgetPeriod{},
		&models.BudgetAdjustment{},
		&models.Expense{},
		&models.Category{},
		&models.SharedActivity{},
		&models.ActivityMember{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services. The metrics service doubles as the cache invalidator for
	// every service that mutates budget data.
	metricsService := services.NewMetricsService(db, 64, time.Minute)
	userService := services.NewUserService(db)
	budgetService := services.NewBudgetService(db, metricsService)
	periodService := services.NewPeriodService(db, metricsService)
	expenseService := services.NewExpenseService(db, metricsService)
	categoryService := services.NewCategoryService(db)
	activityService := services.NewActivityService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	periodHandler := handlers.NewPeriodHandler(periodService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	activityHandler := handlers.NewActivityHandler(activityService, auditService)
	metricsHandler := handlers.NewMetricsHandler(metricsService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/periods", periodHandler.GetPeriods)
	budgets.POST("/:id/periods", periodHandler.ChangeAllowance)
	budgets.POST("/:id/adjustments", budgetHandler.CreateAdjustment)
	budgets.GET("/:id/adjustments", budgetHandler.GetAdjustments)
	protected.DELETE("/adjustments/:id", budgetHandler.DeleteAdjustment)
	budgets.POST("/:id/expenses", expenseHandler.CreateBudgetExpense)
	budgets.GET("/:id/expenses", expenseHandler.GetBudgetExpenses)
	budgets.GET("/:id/metrics/burndown", metricsHandler.GetBurnDown)
	budgets.GET("/:id/metrics/monthly", metricsHandler.GetMonthlyBudget)
	budgets.GET("/:id/metrics/total", metricsHandler.GetTotalBudget)
	budgets.GET("/:id/metrics/categories", metricsHandler.GetExpensesByCategory)

	expenses := protected.Group("/expenses")
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	activities := protected.Group("/activities")
	activities.POST("", activityHandler.CreateActivity)
	activities.GET("", activityHandler.GetActivities)
	activities.GET("/:id", activityHandler.GetActivity)
	activities.DELETE("/:id", activityHandler.DeleteActivity)
	activities.POST("/:id/members", activityHandler.AddMember)
	activities.GET("/:id/members", activityHandler.GetMembers)
	activities.DELETE("/:id/members/:member_id", activityHandler.RemoveMember)
	activities.POST("/:id/expenses", expenseHandler.CreateActivityExpense)
	activities.GET("/:id/expenses", expenseHandler.GetActivityExpenses)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createBudget creates a budget with a daily allowance and returns its ID.
func (app *testApp) createBudget(t *testing.T, token, name string, starting float64, startDate string, dailyAllowance float64) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"starting_budget":%g,"start_date":%q,"allowance_kind":"daily","allowance_amount":%g}`,
		name, starting, startDate, dailyAllowance)
	rec := app.request("POST", "/api/v1/budgets", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget failed: %d %s", rec.Code, rec.Body.String())
	}
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	return budget["id"].(string)
}
