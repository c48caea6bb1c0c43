package models

import "time"

// AccountActivity summarizes ledger activity for one account. Rows are
// written by the external ledger sync; this service only reads them.
type AccountActivity struct {
	Base
	AccountID        string     `gorm:"type:uuid;not null;uniqueIndex" json:"account_id"`
	LastTransaction  *time.Time `json:"last_transaction,omitempty"`
	TransactionCount int        `gorm:"not null;default:0" json:"transaction_count"`
	ThisMonth        int        `gorm:"not null;default:0" json:"this_month"`
	ThisYear         int        `gorm:"not null;default:0" json:"this_year"`
}
