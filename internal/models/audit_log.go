package models

// AuditLog records chart-of-accounts mutations for traceability.
type AuditLog struct {
	Base
	Action    string `gorm:"not null;index" json:"action"`
	AccountID string `gorm:"index" json:"account_id"`
	IPAddress string `json:"ip_address"`
	Changes   string `json:"changes,omitempty"`
}
