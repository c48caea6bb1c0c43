package main

import (
	"fmt"
	"net/http"
	"os"

	"chartkeep/internal/config"
	"chartkeep/internal/database"
	"chartkeep/internal/handlers"
	"chartkeep/internal/logger"
	"chartkeep/internal/middleware"
	"chartkeep/internal/repository"
	"chartkeep/internal/services"
	"chartkeep/internal/validator"

	"github.com/gin-gonic/gin"
)

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
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Load the account snapshot the repository serves all reads from
	db := dbManager.DB()
	repo, err := repository.New(repository.NewGormStore(db))
	if err != nil {
		return fmt.Errorf("failed to load account snapshot: %w", err)
	}
	log.Infow("account snapshot loaded", "accounts", len(repo.List()))

	// Initialize services
	accountService := services.NewAccountService(repo)
	healthService := services.NewHealthService(repo)
	mergeService := services.NewMergeService(repo)
	bulkService := services.NewBulkEditService(repo)
	templateService := services.NewTemplateService(repo)
	csvService := services.NewCSVService(repo)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	healthHandler := handlers.NewHealthHandler(healthService)
	mergeHandler := handlers.NewMergeHandler(mergeService, auditService)
	bulkHandler := handlers.NewBulkHandler(bulkService, auditService)
	templateHandler := handlers.NewTemplateHandler(templateService, auditService)
	csvHandler := handlers.NewCSVHandler(csvService, auditService)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	accounts := v1.Group("/accounts")
	accounts.GET("", accountHandler.ListAccounts)
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("/tree", accountHandler.GetAccountTree)
	accounts.GET("/health", healthHandler.GetAccountHealth)
	accounts.GET("/insights", healthHandler.GetInsights)
	accounts.POST("/default/create", accountHandler.BootstrapDefaults)
	accounts.POST("/merge/validate", mergeHandler.ValidateMerge)
	accounts.POST("/merge", mergeHandler.Merge)
	accounts.POST("/bulk", bulkHandler.BulkEdit)
	accounts.GET("/templates", templateHandler.ListTemplates)
	accounts.POST("/templates/provision", templateHandler.ProvisionTemplates)
	accounts.GET("/export", csvHandler.ExportAccounts)
	accounts.POST("/import", csvHandler.ImportAccounts)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.PATCH("/:id/active", accountHandler.SetAccountActive)

	v1.GET("/audit", auditHandler.ListAuditLogs)

	log.Infof("Starting chartkeep server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
