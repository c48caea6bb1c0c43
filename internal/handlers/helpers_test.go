package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"chartkeep/internal/models"
	"chartkeep/internal/pagination"
	"chartkeep/internal/services"
	"chartkeep/internal/validator"
)

// --- mock services ---

type mockAccountService struct {
	listFn           func(q services.AccountQuery) []models.Account
	treeFn           func() *services.TreeView
	getFn            func(id string) (*models.Account, error)
	createFn         func(input services.CreateAccountInput) (*models.Account, error)
	updateFn         func(id string, input services.UpdateAccountInput) (*models.Account, error)
	deleteFn         func(id string) error
	setActiveFn      func(id string, active bool) (*models.Account, error)
	ensureDefaultsFn func() (*services.BootstrapResult, error)
}

func (m *mockAccountService) List(q services.AccountQuery) []models.Account {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return []models.Account{}
}

func (m *mockAccountService) Tree() *services.TreeView {
	if m.treeFn != nil {
		return m.treeFn()
	}
	return &services.TreeView{}
}

func (m *mockAccountService) Get(id string) (*models.Account, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) Create(input services.CreateAccountInput) (*models.Account, error) {
	if m.createFn != nil {
		return m.createFn(input)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) Update(id string, input services.UpdateAccountInput) (*models.Account, error) {
	if m.updateFn != nil {
		return m.updateFn(id, input)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) Delete(id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

func (m *mockAccountService) SetActive(id string, active bool) (*models.Account, error) {
	if m.setActiveFn != nil {
		return m.setActiveFn(id, active)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) EnsureDefaults() (*services.BootstrapResult, error) {
	if m.ensureDefaultsFn != nil {
		return m.ensureDefaultsFn()
	}
	return &services.BootstrapResult{}, nil
}

var _ services.AccountServicer = (*mockAccountService)(nil)

type mockHealthService struct {
	scoreAllFn func() ([]services.AccountHealth, error)
	insightsFn func() ([]services.Insight, error)
}

func (m *mockHealthService) ScoreAll() ([]services.AccountHealth, error) {
	if m.scoreAllFn != nil {
		return m.scoreAllFn()
	}
	return []services.AccountHealth{}, nil
}

func (m *mockHealthService) Insights() ([]services.Insight, error) {
	if m.insightsFn != nil {
		return m.insightsFn()
	}
	return nil, nil
}

var _ services.HealthServicer = (*mockHealthService)(nil)

type mockMergeService struct {
	validateFn func(sourceID, targetID string) (*services.MergeValidation, error)
	mergeFn    func(sourceID, targetID, confirmName string) error
}

func (m *mockMergeService) Validate(sourceID, targetID string) (*services.MergeValidation, error) {
	if m.validateFn != nil {
		return m.validateFn(sourceID, targetID)
	}
	return &services.MergeValidation{Status: services.MergeReady}, nil
}

func (m *mockMergeService) Merge(sourceID, targetID, confirmName string) error {
	if m.mergeFn != nil {
		return m.mergeFn(sourceID, targetID, confirmName)
	}
	return nil
}

var _ services.MergeServicer = (*mockMergeService)(nil)

type mockBulkService struct {
	applyFn func(ids []string, patch services.BulkPatch) (*services.BulkResult, error)
}

func (m *mockBulkService) Apply(ids []string, patch services.BulkPatch) (*services.BulkResult, error) {
	if m.applyFn != nil {
		return m.applyFn(ids, patch)
	}
	return &services.BulkResult{}, nil
}

var _ services.BulkEditServicer = (*mockBulkService)(nil)

type mockTemplateService struct {
	availableFn func(filter string) []services.AccountTemplate
	provisionFn func(codes []string) (*services.ProvisionResult, error)
}

func (m *mockTemplateService) Available(filter string) []services.AccountTemplate {
	if m.availableFn != nil {
		return m.availableFn(filter)
	}
	return nil
}

func (m *mockTemplateService) Provision(codes []string) (*services.ProvisionResult, error) {
	if m.provisionFn != nil {
		return m.provisionFn(codes)
	}
	return &services.ProvisionResult{}, nil
}

var _ services.TemplateServicer = (*mockTemplateService)(nil)

type mockCSVService struct {
	exportFn func(w io.Writer) error
	importFn func(r io.Reader) (*services.ImportResult, error)
}

func (m *mockCSVService) Export(w io.Writer) error {
	if m.exportFn != nil {
		return m.exportFn(w)
	}
	return nil
}

func (m *mockCSVService) Import(r io.Reader) (*services.ImportResult, error) {
	if m.importFn != nil {
		return m.importFn(r)
	}
	return &services.ImportResult{}, nil
}

var _ services.CSVServicer = (*mockCSVService)(nil)

type mockAuditService struct {
	logged []string
}

func (m *mockAuditService) Log(action, _, _ string, _ map[string]interface{}) {
	m.logged = append(m.logged, action)
}

func (m *mockAuditService) List(page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	page.Defaults()
	resp := pagination.NewPageResponse([]models.AuditLog{}, page.Page, page.PageSize, 0)
	return &resp, nil
}

var _ services.AuditServicer = (*mockAuditService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
