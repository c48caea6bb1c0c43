package services

import (
	apperrors "chartkeep/internal/errors"
	"chartkeep/internal/models"
	"chartkeep/internal/repository"
)

// accountService handles account master-data business logic.
type accountService struct {
	repo *repository.AccountRepository
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(repo *repository.AccountRepository) AccountServicer {
	return &accountService{repo: repo}
}

// List returns the filtered, sorted view of the current snapshot.
func (s *accountService) List(q AccountQuery) []models.Account {
	return ApplyQuery(s.repo.List(), q)
}

// Tree derives the account hierarchy from the current snapshot.
func (s *accountService) Tree() *TreeView {
	return BuildTree(s.repo.List())
}

// Get retrieves one account by id.
func (s *accountService) Get(id string) (*models.Account, error) {
	return s.repo.Get(id)
}

// Create validates input and creates a new account.
func (s *accountService) Create(input CreateAccountInput) (*models.Account, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if !input.Type.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid account type")
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	account := &models.Account{
		Code:        input.Code,
		Name:        input.Name,
		Type:        input.Type,
		Description: input.Description,
		Notes:       input.Notes,
		Currency:    currency,
		ParentID:    input.ParentID,
		IsActive:    active,
	}
	return s.repo.Create(account)
}

// Update applies a sparse patch to one account.
func (s *accountService) Update(id string, input UpdateAccountInput) (*models.Account, error) {
	fields := make(map[string]interface{})

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name cannot be empty")
		}
		fields["name"] = *input.Name
	}
	if input.Code != nil {
		fields["code"] = *input.Code
	}
	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid account type")
		}
		fields["type"] = *input.Type
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Notes != nil {
		fields["notes"] = *input.Notes
	}
	if input.Currency != nil {
		fields["currency"] = *input.Currency
	}
	if input.ClearParent {
		fields["parent_id"] = nil
	} else if input.ParentID != nil {
		fields["parent_id"] = *input.ParentID
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}

	return s.repo.Update(id, fields)
}

// Delete removes an account. Accounts with a non-zero balance are rejected
// with a conflict carrying the deactivation suggestion.
func (s *accountService) Delete(id string) error {
	return s.repo.Delete(id)
}

// SetActive toggles the account lifecycle flag.
func (s *accountService) SetActive(id string, active bool) (*models.Account, error) {
	return s.repo.SetActive(id, active)
}

// EnsureDefaults provisions the default chart of accounts. Existing codes
// are skipped, so repeated calls are safe.
func (s *accountService) EnsureDefaults() (*BootstrapResult, error) {
	result := &BootstrapResult{HasAccounts: len(s.repo.List()) > 0}

	for _, tpl := range DefaultChart {
		if s.repo.CodeExists(tpl.SuggestedCode) {
			continue
		}
		account := &models.Account{
			Code:        tpl.SuggestedCode,
			Name:        tpl.Name,
			Type:        tpl.Type,
			Description: tpl.Description,
			Currency:    "USD",
			IsActive:    true,
			IsCore:      true,
			IsDefault:   true,
		}
		if _, err := s.repo.Create(account); err != nil {
			return nil, err
		}
		result.NewCount++
	}
	return result, nil
}
