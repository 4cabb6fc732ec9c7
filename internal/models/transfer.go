package models

import (
	"github.com/shopspring/decimal"

	"moneyboard/internal/dates"
)

// Transfer moves money between two accounts of the same tenant. Transfers are
// immutable: they are created and deleted, never edited.
type Transfer struct {
	Base
	TenantScope
	Description   string          `json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	FromAccountID string          `gorm:"type:uuid;not null;index" json:"from_account_id"`
	ToAccountID   string          `gorm:"type:uuid;not null;index" json:"to_account_id"`
	Date          dates.Date      `gorm:"not null" json:"date"`
}
