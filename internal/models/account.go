package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultAccountIcon  = "wallet"
	DefaultAccountColor = "purple"
)

// Account represents a money account. Balance is a stored running total that
// only the ledger services mutate; InitialBalance is the opening amount the
// running total started from.
type Account struct {
	Base
	TenantScope
	Name           string          `gorm:"not null" json:"name"`
	Balance        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	InitialBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"initial_balance"`
	Icon           string          `gorm:"not null;default:'wallet'" json:"icon"`
	Color          string          `gorm:"not null;default:'purple'" json:"color"`
}

// BeforeCreate hook fills display defaults and the primary key.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.Icon == "" {
		a.Icon = DefaultAccountIcon
	}
	if a.Color == "" {
		a.Color = DefaultAccountColor
	}
	return a.Base.BeforeCreate(tx)
}
