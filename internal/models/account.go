package models

import "math"

// AccountType classifies an account within the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypes lists every valid account type in display order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// BalanceEpsilon is the threshold below which a balance counts as zero.
// Deletes are blocked and merge warnings raised only above this value.
const BalanceEpsilon = 0.01

// defaultAccountCodes are the codes of the accounts provisioned for every
// tenant at bootstrap. Accounts carrying one of these codes can never be
// merged away.
var defaultAccountCodes = map[string]bool{
	"1000": true, // Cash
	"1200": true, // Accounts Receivable
	"2000": true, // Accounts Payable
	"3000": true, // Owner's Equity
	"3900": true, // Retained Earnings
	"4000": true, // Sales Revenue
	"5000": true, // Cost of Goods Sold
	"6000": true, // Operating Expenses
}

// IsDefaultCode reports whether code belongs to the protected default set.
func IsDefaultCode(code string) bool {
	return defaultAccountCodes[code]
}

// Account is a chart-of-accounts entry. It holds the account master data
// only; balance-affecting transactions live in the external ledger service.
type Account struct {
	Base
	Code        string      `gorm:"index" json:"code"`
	Name        string      `gorm:"not null" json:"name"`
	Type        AccountType `gorm:"not null" json:"type"`
	Description string      `json:"description"`
	Notes       string      `json:"notes"`
	Balance     float64     `gorm:"not null;default:0" json:"balance"`
	Currency    string      `gorm:"not null;default:'USD'" json:"currency"`
	ParentID    *string     `gorm:"type:uuid" json:"parent_id,omitempty"`
	IsActive    bool        `gorm:"default:true" json:"is_active"`
	IsCore      bool        `gorm:"default:false" json:"is_core"`
	IsDefault   bool        `gorm:"default:false" json:"is_default"`

	Parent   *Account  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Account `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// IsProtected reports whether the account is a core/default account that
// must never be merged away.
func (a *Account) IsProtected() bool {
	return a.IsCore || a.IsDefault || IsDefaultCode(a.Code)
}

// HasBalance reports whether the account carries a non-zero balance.
func (a *Account) HasBalance() bool {
	return math.Abs(a.Balance) > BalanceEpsilon
}

// CurrencyOrDefault returns the account currency, defaulting to USD.
func (a *Account) CurrencyOrDefault() string {
	if a.Currency == "" {
		return "USD"
	}
	return a.Currency
}
