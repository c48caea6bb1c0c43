package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"chartkeep/internal/handlers"
	"chartkeep/internal/logger"
	"chartkeep/internal/middleware"
	"chartkeep/internal/models"
	"chartkeep/internal/repository"
	"chartkeep/internal/services"
	"chartkeep/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Repo   *repository.AccountRepository
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
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
		&models.Account{},
		&models.AccountActivity{},
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

	repo, err := repository.New(repository.NewGormStore(db))
	if err != nil {
		t.Fatalf("failed to load account snapshot: %v", err)
	}

	// Services
	accountService := services.NewAccountService(repo)
	healthService := services.NewHealthService(repo)
	mergeService := services.NewMergeService(repo)
	bulkService := services.NewBulkEditService(repo)
	templateService := services.NewTemplateService(repo)
	csvService := services.NewCSVService(repo)
	auditService := services.NewAuditService(db)

	// Handlers
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	healthHandler := handlers.NewHealthHandler(healthService)
	mergeHandler := handlers.NewMergeHandler(mergeService, auditService)
	bulkHandler := handlers.NewBulkHandler(bulkService, auditService)
	templateHandler := handlers.NewTemplateHandler(templateService, auditService)
	csvHandler := handlers.NewCSVHandler(csvService, auditService)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

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

	return &testApp{DB: db, Repo: repo, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
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

// createAccount creates an account through the API and returns its id.
func (app *testApp) createAccount(t *testing.T, body string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/accounts", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account failed: %d %s", rec.Code, rec.Body.String())
	}
	account := parseJSON(t, rec)["account"].(map[string]interface{})
	return account["id"].(string)
}

// setBalance writes an account balance directly, standing in for the external
// ledger service that owns balances in production.
func (app *testApp) setBalance(t *testing.T, id string, balance float64) {
	t.Helper()
	if err := app.DB.Model(&models.Account{}).Where("id = ?", id).
		Update("balance", balance).Error; err != nil {
		t.Fatalf("failed to set balance: %v", err)
	}
	if err := app.Repo.Reload(); err != nil {
		t.Fatalf("failed to reload snapshot: %v", err)
	}
}
