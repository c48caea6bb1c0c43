package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"chartkeep/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestAccount creates an active asset account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()
	return CreateTestAccountWith(t, db, models.Account{})
}

// CreateTestAccountWith creates an account, filling in defaults for any
// zero-valued field of the template.
func CreateTestAccountWith(t *testing.T, db *gorm.DB, template models.Account) *models.Account {
	t.Helper()

	n := nextID()
	account := template
	if account.Name == "" {
		account.Name = fmt.Sprintf("Test Account %d", n)
	}
	if account.Type == "" {
		account.Type = models.AccountTypeAsset
	}
	if account.Currency == "" {
		account.Currency = "USD"
	}
	if !account.IsActive {
		account.IsActive = true
	}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return &account
}

// CreateInactiveTestAccount creates a deactivated account.
func CreateInactiveTestAccount(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:     fmt.Sprintf("Inactive Account %d", nextID()),
		Type:     models.AccountTypeExpense,
		Currency: "USD",
		IsActive: false,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create inactive test account: %v", err)
	}
	return account
}

// CreateTestActivity records ledger activity for an account.
func CreateTestActivity(t *testing.T, db *gorm.DB, accountID string, txCount int, last *time.Time) *models.AccountActivity {
	t.Helper()

	activity := &models.AccountActivity{
		AccountID:        accountID,
		TransactionCount: txCount,
		LastTransaction:  last,
	}
	if err := db.Create(activity).Error; err != nil {
		t.Fatalf("failed to create test activity: %v", err)
	}
	return activity
}

// DaysAgo returns a timestamp n days in the past.
func DaysAgo(n int) *time.Time {
	ts := time.Now().AddDate(0, 0, -n)
	return &ts
}
