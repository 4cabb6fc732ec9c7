package models

import (
	"time"

	"github.com/shopspring/decimal"

	"moneyboard/internal/dates"
)

// PayableStatus is the lifecycle state of a payable.
type PayableStatus string

const (
	PayableStatusPending   PayableStatus = "pending"
	PayableStatusPaid      PayableStatus = "paid"
	PayableStatusCancelled PayableStatus = "cancelled"
)

// IsValid reports whether s is a known payable status.
func (s PayableStatus) IsValid() bool {
	switch s {
	case PayableStatusPending, PayableStatusPaid, PayableStatusCancelled:
		return true
	}
	return false
}

// Payable is a scheduled bill. Recurring payables spawn their next
// installment when paid; TotalInstallments bounds the sequence when set.
type Payable struct {
	Base
	TenantScope
	Description        string          `gorm:"not null" json:"description"`
	Amount             decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	DueDate            dates.Date      `gorm:"not null;index" json:"due_date"`
	CategoryID         *string         `gorm:"type:uuid;index" json:"category_id"`
	Status             PayableStatus   `gorm:"not null;default:'pending';index" json:"status"`
	IsRecurring        bool            `gorm:"not null;default:false" json:"is_recurring"`
	TotalInstallments  *int            `json:"total_installments"`
	CurrentInstallment *int            `json:"current_installment"`
	PaidAt             *time.Time      `json:"paid_at"`
	PaidAccountID      *string         `gorm:"type:uuid" json:"paid_account_id"`
	PaidTransactionID  *string         `gorm:"type:uuid" json:"paid_transaction_id"`
	Notes              string          `json:"notes"`
}

// IsPending reports whether the payable can still be paid or deleted.
func (p *Payable) IsPending() bool {
	return p.Status == PayableStatusPending
}

// Installment returns the current installment number, defaulting to 1.
func (p *Payable) Installment() int {
	if p.CurrentInstallment == nil {
		return 1
	}
	return *p.CurrentInstallment
}

// HasNextInstallment reports whether paying this payable spawns a successor.
func (p *Payable) HasNextInstallment() bool {
	if !p.IsRecurring {
		return false
	}
	if p.TotalInstallments == nil {
		return true
	}
	return p.Installment() < *p.TotalInstallments
}
