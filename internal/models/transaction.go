package models

import (
	"github.com/shopspring/decimal"

	"moneyboard/internal/dates"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single income or expense posted against an account.
type Transaction struct {
	Base
	TenantScope
	Description string          `json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Type        TransactionType `gorm:"not null" json:"type"`
	AccountID   string          `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID  *string         `gorm:"type:uuid;index" json:"category_id"`
	Date        dates.Date      `gorm:"not null;index" json:"date"`
}

// Effect returns the signed change this transaction applies to its account.
func (t *Transaction) Effect() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
