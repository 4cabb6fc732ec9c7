package models

import "github.com/shopspring/decimal"

// BudgetItemType selects how a budget item's value is interpreted.
type BudgetItemType string

const (
	// BudgetItemTypeFixed is an absolute monthly amount.
	BudgetItemTypeFixed BudgetItemType = "fixed"
	// BudgetItemTypePercentage is a share of the month's income, in percent.
	BudgetItemTypePercentage BudgetItemType = "percentage"
)

// IsValid reports whether t is a known budget item type.
func (t BudgetItemType) IsValid() bool {
	return t == BudgetItemTypeFixed || t == BudgetItemTypePercentage
}

// BudgetItem plans spending for one category. A tenant has at most one item
// per category.
type BudgetItem struct {
	Base
	TenantID   string          `gorm:"type:uuid;not null;uniqueIndex:idx_budget_items_tenant_category" json:"tenant_id"`
	CategoryID string          `gorm:"type:uuid;not null;uniqueIndex:idx_budget_items_tenant_category" json:"category_id"`
	Value      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"value"`
	Type       BudgetItemType  `gorm:"not null" json:"type"`
}
