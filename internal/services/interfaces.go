package services

import (
	"io"

	"chartkeep/internal/models"
	"chartkeep/internal/pagination"
)

// CreateAccountInput carries the fields accepted when creating an account.
type CreateAccountInput struct {
	Code        string
	Name        string
	Type        models.AccountType
	Description string
	Notes       string
	Currency    string
	ParentID    *string
	IsActive    *bool
}

// UpdateAccountInput carries a sparse single-account patch. Nil means
// "leave unchanged"; ClearParent detaches the account from its parent.
type UpdateAccountInput struct {
	Code        *string
	Name        *string
	Type        *models.AccountType
	Description *string
	Notes       *string
	Currency    *string
	ParentID    *string
	ClearParent bool
	IsActive    *bool
}

// BootstrapResult reports the outcome of the idempotent default-account
// bootstrap.
type BootstrapResult struct {
	HasAccounts bool `json:"has_accounts"`
	NewCount    int  `json:"new_count"`
}

// AccountServicer defines the contract for account master-data operations.
type AccountServicer interface {
	List(q AccountQuery) []models.Account
	Tree() *TreeView
	Get(id string) (*models.Account, error)
	Create(input CreateAccountInput) (*models.Account, error)
	Update(id string, input UpdateAccountInput) (*models.Account, error)
	Delete(id string) error
	SetActive(id string, active bool) (*models.Account, error)
	EnsureDefaults() (*BootstrapResult, error)
}

// HealthServicer derives account health scores and portfolio insights.
type HealthServicer interface {
	ScoreAll() ([]AccountHealth, error)
	Insights() ([]Insight, error)
}

// MergeServicer validates and executes account merges.
type MergeServicer interface {
	Validate(sourceID, targetID string) (*MergeValidation, error)
	Merge(sourceID, targetID, confirmName string) error
}

// BulkEditServicer applies a sparse patch to a set of accounts.
type BulkEditServicer interface {
	Apply(ids []string, patch BulkPatch) (*BulkResult, error)
}

// TemplateServicer filters the template catalog and provisions from it.
type TemplateServicer interface {
	Available(filter string) []AccountTemplate
	Provision(selectedCodes []string) (*ProvisionResult, error)
}

// CSVServicer exports and imports the chart of accounts as CSV.
type CSVServicer interface {
	Export(w io.Writer) error
	Import(r io.Reader) (*ImportResult, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, accountID, ipAddress string, changes map[string]interface{})
	List(page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}
