package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"centavo/internal/config"
	"centavo/internal/database"
	"centavo/internal/handlers"
	"centavo/internal/logger"
	"centavo/internal/middleware"
	"centavo/internal/services"
	"centavo/internal/validator"

	_ "centavo/internal/docs" // Import swagger docs
)

// @title           Centavo API
// @version         1.0
// @description     Centavo is a budget tracker built around fixed starting budgets, evolving daily/monthly allowances, shared activities, and computed burn-down metrics.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services. The metrics service doubles as the cache
	// invalidator for every service that mutates budget data.
	db := dbManager.DB()
	metricsService := services.NewMetricsService(db, appConfig.MetricsCacheSize, appConfig.MetricsCacheTTL)
	userService := services.NewUserService(db)
	budgetService := services.NewBudgetService(db, metricsService)
	periodService := services.NewPeriodService(db, metricsService)
	expenseService := services.NewExpenseService(db, metricsService)
	categoryService := services.NewCategoryService(db)
	activityService := services.NewActivityService(db)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	periodHandler := handlers.NewPeriodHandler(periodService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	activityHandler := handlers.NewActivityHandler(activityService, auditService)
	metricsHandler := handlers.NewMetricsHandler(metricsService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Allowance periods
	budgets.GET("/:id/periods", periodHandler.GetPeriods)
	budgets.POST("/:id/periods", periodHandler.ChangeAllowance)

	// Budget adjustments
	budgets.POST("/:id/adjustments", budgetHandler.CreateAdjustment)
	budgets.GET("/:id/adjustments", budgetHandler.GetAdjustments)
	protected.DELETE("/adjustments/:id", budgetHandler.DeleteAdjustment)

	// Budget expenses
	budgets.POST("/:id/expenses", expenseHandler.CreateBudgetExpense)
	budgets.GET("/:id/expenses", expenseHandler.GetBudgetExpenses)

	// Budget metrics
	budgets.GET("/:id/metrics/burndown", metricsHandler.GetBurnDown)
	budgets.GET("/:id/metrics/monthly", metricsHandler.GetMonthlyBudget)
	budgets.GET("/:id/metrics/total", metricsHandler.GetTotalBudget)
	budgets.GET("/:id/metrics/categories", metricsHandler.GetExpensesByCategory)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Shared activity routes
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

	log.Infof("Starting Centavo backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
