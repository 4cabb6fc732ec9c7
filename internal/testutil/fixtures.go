package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneyboard/internal/dates"
	"moneyboard/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Money parses a decimal literal such as "10.50".
func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// CreateTestTenant creates a tenant with a unique slug.
func CreateTestTenant(t *testing.T, db *gorm.DB) *models.Tenant {
	t.Helper()

	n := nextID()
	tenant := &models.Tenant{
		Name: fmt.Sprintf("Test Tenant %d", n),
		Slug: fmt.Sprintf("test-tenant-%d", n),
	}
	if err := db.Create(tenant).Error; err != nil {
		t.Fatalf("failed to create test tenant: %v", err)
	}
	return tenant
}

// CreateTestAccount creates an account with a zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, tenantID string) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, tenantID, "0")
}

// CreateTestAccountWithBalance creates an account whose initial and current
// balance are both balance.
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, tenantID, balance string) *models.Account {
	t.Helper()

	account := &models.Account{
		TenantScope:    models.TenantScope{TenantID: tenantID},
		Name:           fmt.Sprintf("Test Account %d", nextID()),
		Balance:        Money(balance),
		InitialBalance: Money(balance),
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates a category, below parentID when it is non-nil.
func CreateTestCategory(t *testing.T, db *gorm.DB, tenantID string, parentID *string) *models.Category {
	t.Helper()

	category := &models.Category{
		TenantScope: models.TenantScope{TenantID: tenantID},
		Name:        fmt.Sprintf("Test Category %d", nextID()),
		ParentID:    parentID,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction inserts a transaction row dated today. The account
// balance is left untouched.
func CreateTestTransaction(t *testing.T, db *gorm.DB, tenantID, accountID string, txType models.TransactionType, amount string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		TenantScope: models.TenantScope{TenantID: tenantID},
		AccountID:   accountID,
		Type:        txType,
		Amount:      Money(amount),
		Date:        dates.Today(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestPayable creates a pending, non-recurring payable.
func CreateTestPayable(t *testing.T, db *gorm.DB, tenantID, categoryID, amount string, due dates.Date) *models.Payable {
	t.Helper()

	payable := &models.Payable{
		TenantScope: models.TenantScope{TenantID: tenantID},
		Description: fmt.Sprintf("Test Payable %d", nextID()),
		Amount:      Money(amount),
		DueDate:     due,
		CategoryID:  &categoryID,
		Status:      models.PayableStatusPending,
	}
	if err := db.Create(payable).Error; err != nil {
		t.Fatalf("failed to create test payable: %v", err)
	}
	return payable
}

// CreateTestBudgetItem creates a budget item for a category.
func CreateTestBudgetItem(t *testing.T, db *gorm.DB, tenantID, categoryID, value string, itemType models.BudgetItemType) *models.BudgetItem {
	t.Helper()

	item := &models.BudgetItem{
		TenantID:   tenantID,
		CategoryID: categoryID,
		Value:      Money(value),
		Type:       itemType,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test budget item: %v", err)
	}
	return item
}
