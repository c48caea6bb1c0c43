package services

import (
	"fmt"
	"strconv"
	"strings"

	"chartkeep/internal/models"
	"chartkeep/internal/repository"
)

// AccountTemplate is an immutable catalog entry used for bulk provisioning.
type AccountTemplate struct {
	Name          string             `json:"name"`
	Type          models.AccountType `json:"type"`
	SuggestedCode string             `json:"suggested_code"`
	Description   string             `json:"description"`
	Category      string             `json:"category"`
}

// Catalog is the static account template catalog. Codes follow the usual
// chart-of-accounts ranges: assets 1xxx, liabilities 2xxx, equity 3xxx,
// revenue 4xxx, expenses 5xxx-6xxx.
var Catalog = []AccountTemplate{
	{Name: "Petty Cash", Type: models.AccountTypeAsset, SuggestedCode: "1010", Description: "Small cash on hand", Category: "Cash"},
	{Name: "Business Savings", Type: models.AccountTypeAsset, SuggestedCode: "1020", Description: "Savings account", Category: "Cash"},
	{Name: "Inventory", Type: models.AccountTypeAsset, SuggestedCode: "1300", Description: "Goods held for sale", Category: "Current Assets"},
	{Name: "Prepaid Expenses", Type: models.AccountTypeAsset, SuggestedCode: "1400", Description: "Payments made in advance", Category: "Current Assets"},
	{Name: "Equipment", Type: models.AccountTypeAsset, SuggestedCode: "1500", Description: "Machinery and equipment", Category: "Fixed Assets"},
	{Name: "Credit Card", Type: models.AccountTypeLiability, SuggestedCode: "2100", Description: "Business credit card", Category: "Current Liabilities"},
	{Name: "Accrued Expenses", Type: models.AccountTypeLiability, SuggestedCode: "2200", Description: "Expenses incurred but not yet paid", Category: "Current Liabilities"},
	{Name: "Loans Payable", Type: models.AccountTypeLiability, SuggestedCode: "2500", Description: "Outstanding loan obligations", Category: "Long-term Liabilities"},
	{Name: "Common Stock", Type: models.AccountTypeEquity, SuggestedCode: "3100", Description: "Equity shares issued", Category: "Equity"},
	{Name: "Service Revenue", Type: models.AccountTypeRevenue, SuggestedCode: "4100", Description: "Income from services rendered", Category: "Revenue"},
	{Name: "Interest Income", Type: models.AccountTypeRevenue, SuggestedCode: "4200", Description: "Income earned from interest", Category: "Revenue"},
	{Name: "Advertising & Marketing", Type: models.AccountTypeExpense, SuggestedCode: "6100", Description: "Advertising costs", Category: "Operating Expenses"},
	{Name: "Software & Subscriptions", Type: models.AccountTypeExpense, SuggestedCode: "6200", Description: "Software subscriptions", Category: "Operating Expenses"},
	{Name: "Office Supplies", Type: models.AccountTypeExpense, SuggestedCode: "6300", Description: "Office supplies and expenses", Category: "Operating Expenses"},
	{Name: "Professional Services", Type: models.AccountTypeExpense, SuggestedCode: "6400", Description: "Legal, accounting, consulting", Category: "Operating Expenses"},
	{Name: "Salaries and Wages", Type: models.AccountTypeExpense, SuggestedCode: "6500", Description: "Employee compensation", Category: "Operating Expenses"},
}

// DefaultChart is the set of accounts provisioned for every tenant at
// bootstrap. Its codes make up the protected default-code set.
var DefaultChart = []AccountTemplate{
	{Name: "Cash", Type: models.AccountTypeAsset, SuggestedCode: "1000", Description: "Primary cash account", Category: "Cash"},
	{Name: "Accounts Receivable", Type: models.AccountTypeAsset, SuggestedCode: "1200", Description: "Amounts owed by customers", Category: "Current Assets"},
	{Name: "Accounts Payable", Type: models.AccountTypeLiability, SuggestedCode: "2000", Description: "Amounts owed to vendors", Category: "Current Liabilities"},
	{Name: "Owner's Equity", Type: models.AccountTypeEquity, SuggestedCode: "3000", Description: "Owner's equity", Category: "Equity"},
	{Name: "Retained Earnings", Type: models.AccountTypeEquity, SuggestedCode: "3900", Description: "Accumulated retained profits", Category: "Equity"},
	{Name: "Sales Revenue", Type: models.AccountTypeRevenue, SuggestedCode: "4000", Description: "Income from sales", Category: "Revenue"},
	{Name: "Cost of Goods Sold", Type: models.AccountTypeExpense, SuggestedCode: "5000", Description: "Direct costs of goods sold", Category: "Cost of Sales"},
	{Name: "Operating Expenses", Type: models.AccountTypeExpense, SuggestedCode: "6000", Description: "General operating costs", Category: "Operating Expenses"},
}

// GenerateNextCode returns suggested unchanged when free; otherwise it tries
// incrementing the final digit by 1..9, then adding 10..90 in steps of 10 to
// the numeric value, and finally falls back to suggested + "1".
func GenerateNextCode(suggested string, exists func(string) bool) string {
	if !exists(suggested) {
		return suggested
	}

	if len(suggested) > 0 {
		last := suggested[len(suggested)-1]
		if last >= '0' && last <= '9' {
			base := suggested[:len(suggested)-1]
			digit := int(last - '0')
			for i := 1; i <= 9; i++ {
				next := digit + i
				if next > 9 {
					break
				}
				candidate := base + strconv.Itoa(next)
				if !exists(candidate) {
					return candidate
				}
			}
		}
	}

	if n, err := strconv.Atoi(suggested); err == nil {
		for step := 10; step <= 90; step += 10 {
			candidate := strconv.Itoa(n + step)
			if !exists(candidate) {
				return candidate
			}
		}
	}

	return suggested + "1"
}

// ProvisionResult reports the outcome of a bulk provisioning run.
type ProvisionResult struct {
	Created  int              `json:"created"`
	Failed   int              `json:"failed"`
	Errors   []string         `json:"errors,omitempty"`
	Accounts []models.Account `json:"accounts"`
}

// templateService filters the catalog against existing accounts and
// provisions new accounts from it.
type templateService struct {
	repo *repository.AccountRepository
}

// NewTemplateService creates a new TemplateServicer.
func NewTemplateService(repo *repository.AccountRepository) TemplateServicer {
	return &templateService{repo: repo}
}

// Available returns catalog templates that are still provisionable: the
// suggested code must not be in the default set or already taken, and the
// template name must not fuzzy-match an existing account name. The optional
// filter narrows by name, description, or category substring.
func (s *templateService) Available(filter string) []AccountTemplate {
	existing := s.repo.List()
	filter = strings.ToLower(strings.TrimSpace(filter))

	var available []AccountTemplate
	for _, tpl := range Catalog {
		if models.IsDefaultCode(tpl.SuggestedCode) || s.repo.CodeExists(tpl.SuggestedCode) {
			continue
		}
		if nameTaken(tpl.Name, existing) {
			continue
		}
		if filter != "" &&
			!strings.Contains(strings.ToLower(tpl.Name), filter) &&
			!strings.Contains(strings.ToLower(tpl.Description), filter) &&
			!strings.Contains(strings.ToLower(tpl.Category), filter) {
			continue
		}
		available = append(available, tpl)
	}
	return available
}

// nameTaken reports whether a template name fuzzy-matches any existing
// account name: case-insensitive exact, substring, or superstring.
func nameTaken(name string, existing []models.Account) bool {
	needle := strings.ToLower(name)
	for _, a := range existing {
		have := strings.ToLower(a.Name)
		if have == needle || strings.Contains(have, needle) || strings.Contains(needle, have) {
			return true
		}
	}
	return false
}

// Provision creates one account per selected template code. Codes generated
// within the batch are tracked so two templates never collide with each
// other. Failures are reported per item; the batch never aborts.
func (s *templateService) Provision(selectedCodes []string) (*ProvisionResult, error) {
	byCode := make(map[string]AccountTemplate, len(Catalog))
	for _, tpl := range Catalog {
		byCode[tpl.SuggestedCode] = tpl
	}

	batch := make(map[string]bool)
	exists := func(code string) bool {
		return batch[code] || s.repo.CodeExists(code)
	}

	result := &ProvisionResult{Accounts: []models.Account{}}
	for _, code := range selectedCodes {
		tpl, ok := byCode[code]
		if !ok {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("unknown template code %q", code))
			continue
		}

		assigned := GenerateNextCode(tpl.SuggestedCode, exists)
		account := &models.Account{
			Code:        assigned,
			Name:        tpl.Name,
			Type:        tpl.Type,
			Description: tpl.Description,
			Currency:    "USD",
			IsActive:    true,
		}
		created, err := s.repo.Create(account)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", tpl.Name, err))
			continue
		}
		batch[assigned] = true
		result.Created++
		result.Accounts = append(result.Accounts, *created)
	}
	return result, nil
}
