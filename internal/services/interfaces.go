package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneyboard/internal/dates"
	"moneyboard/internal/models"
	"moneyboard/internal/pagination"
)

// TenantServicer defines the contract for tenant provisioning.
type TenantServicer interface {
	CreateTenant(ctx context.Context, name string) (*models.Tenant, error)
	GetTenantByID(ctx context.Context, tenantID string) (*models.Tenant, error)
}

// AccountUpdateFields holds the editable account metadata. Balances are never
// edited directly.
type AccountUpdateFields struct {
	Name  *string
	Icon  *string
	Color *string
}

// Reconciliation compares an account's stored balance with the balance
// recomputed from its ledger entries.
type Reconciliation struct {
	TenantID        string          `json:"tenant_id"`
	AccountID       string          `json:"account_id"`
	AccountName     string          `json:"account_name"`
	StoredBalance   decimal.Decimal `json:"stored_balance"`
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	Drift           decimal.Decimal `json:"drift"`
}

// Consistent reports whether the stored balance matches the ledger.
func (r Reconciliation) Consistent() bool {
	return r.Drift.IsZero()
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(ctx context.Context, tenantID, name string, initialBalance decimal.Decimal, icon, color string) (*models.Account, error)
	GetAccounts(ctx context.Context, tenantID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(ctx context.Context, tenantID, accountID string) (*models.Account, error)
	UpdateAccount(ctx context.Context, tenantID, accountID string, fields AccountUpdateFields) (*models.Account, error)
	DeleteAccount(ctx context.Context, tenantID, accountID string) error
	ReconcileAccount(ctx context.Context, tenantID, accountID string) (*Reconciliation, error)
	ReconcileAll(ctx context.Context) ([]Reconciliation, error)
}

// CategoryValidator checks caller-supplied category references. It runs on
// the caller's database handle so it can join an open transaction.
type CategoryValidator interface {
	ValidateCategory(tx *gorm.DB, tenantID, categoryID string) error
}

// CategoryUpdateFields holds the editable category fields. A non-nil empty
// ParentID moves the category to the root.
type CategoryUpdateFields struct {
	Name     *string
	ParentID *string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CategoryValidator
	CreateCategory(ctx context.Context, tenantID, name string, parentID *string) (*models.Category, error)
	GetCategories(ctx context.Context, tenantID string) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, tenantID, categoryID string) (*models.Category, error)
	GetDescendantIDs(ctx context.Context, tenantID, categoryID string) ([]string, error)
	UpdateCategory(ctx context.Context, tenantID, categoryID string, fields CategoryUpdateFields) (*models.Category, error)
	DeleteCategory(ctx context.Context, tenantID, categoryID string) error
}

// TransactionInput carries the fields of a new transaction. A zero Date
// defaults to today.
type TransactionInput struct {
	AccountID   string
	CategoryID  *string
	Type        models.TransactionType
	Amount      decimal.Decimal
	Description string
	Date        dates.Date
}

// TransactionUpdateFields holds optional replacements for a transaction. A
// non-nil empty CategoryID clears the category.
type TransactionUpdateFields struct {
	AccountID   *string
	CategoryID  *string
	Type        *models.TransactionType
	Amount      *decimal.Decimal
	Description *string
	Date        *dates.Date
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	AccountID  *string
	CategoryID *string
	Type       *models.TransactionType
	FromDate   *dates.Date
	ToDate     *dates.Date
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

// TransactionServicer defines the contract for transaction-related business logic.
// Every mutation keeps the referenced account balances in sync atomically.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, tenantID string, in TransactionInput) (*models.Transaction, error)
	GetTransactions(ctx context.Context, tenantID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(ctx context.Context, tenantID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, tenantID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, tenantID, transactionID string) error
}

// TransferInput carries the fields of a new transfer. A zero Date defaults
// to today.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Description   string
	Date          dates.Date
}

// TransferServicer defines the contract for transfers between accounts.
type TransferServicer interface {
	CreateTransfer(ctx context.Context, tenantID string, in TransferInput) (*models.Transfer, error)
	GetTransfers(ctx context.Context, tenantID string, page pagination.PageRequest, accountID *string) (*pagination.PageResponse[models.Transfer], error)
	GetTransferByID(ctx context.Context, tenantID, transferID string) (*models.Transfer, error)
	DeleteTransfer(ctx context.Context, tenantID, transferID string) error
}

// PayableInput carries the fields of a new payable.
type PayableInput struct {
	Description       string
	Amount            decimal.Decimal
	DueDate           dates.Date
	CategoryID        string
	IsRecurring       bool
	TotalInstallments *int
	Notes             string
}

// PayableUpdateFields holds optional replacements for a payable. Only Notes
// may be set once the payable is no longer pending. ClearTotalInstallments
// removes the installment bound of a recurring payable.
type PayableUpdateFields struct {
	Description            *string
	Amount                 *decimal.Decimal
	DueDate                *dates.Date
	CategoryID             *string
	IsRecurring            *bool
	TotalInstallments      *int
	ClearTotalInstallments bool
	Notes                  *string
}

// HasFinancialChanges reports whether any field other than Notes is set.
func (f PayableUpdateFields) HasFinancialChanges() bool {
	return f.Description != nil || f.Amount != nil || f.DueDate != nil || f.CategoryID != nil ||
		f.IsRecurring != nil || f.TotalInstallments != nil || f.ClearTotalInstallments
}

// PaymentInput selects the account that pays a payable. A nil PaymentDate
// books the expense today.
type PaymentInput struct {
	AccountID   string
	PaymentDate *dates.Date
}

// PaymentResult describes everything a payment wrote.
type PaymentResult struct {
	TransactionID string              `json:"transaction_id"`
	PaidAt        time.Time           `json:"paid_at"`
	Transaction   *models.Transaction `json:"transaction"`
	Payable       *models.Payable     `json:"payable"`
	Next          *models.Payable     `json:"next_payable,omitempty"`
}

// PayableFilter holds optional filter parameters for listing payables.
type PayableFilter struct {
	Status    *models.PayableStatus
	DueBefore *dates.Date
}

// PayableServicer defines the contract for the payable lifecycle.
type PayableServicer interface {
	CreatePayable(ctx context.Context, tenantID string, in PayableInput) (*models.Payable, error)
	GetPayables(ctx context.Context, tenantID string, page pagination.PageRequest, filter PayableFilter) (*pagination.PageResponse[models.Payable], error)
	GetPayableByID(ctx context.Context, tenantID, payableID string) (*models.Payable, error)
	UpdatePayable(ctx context.Context, tenantID, payableID string, fields PayableUpdateFields) (*models.Payable, error)
	DeletePayable(ctx context.Context, tenantID, payableID string) error
	CancelPayable(ctx context.Context, tenantID, payableID string) (*models.Payable, error)
	PayPayable(ctx context.Context, tenantID, payableID string, in PaymentInput) (*PaymentResult, error)
}

// BudgetLine is the evaluation of one budget item for a month.
type BudgetLine struct {
	BudgetItemID string                `json:"budget_item_id"`
	CategoryID   string                `json:"category_id"`
	CategoryName string                `json:"category_name"`
	Type         models.BudgetItemType `json:"type"`
	Value        decimal.Decimal       `json:"value"`
	Planned      decimal.Decimal       `json:"planned"`
	Spent        decimal.Decimal       `json:"spent"`
	Remaining    decimal.Decimal       `json:"remaining"`
	Percentage   decimal.Decimal       `json:"percentage"`
}

// BudgetSummary evaluates every budget item of a tenant for one month.
type BudgetSummary struct {
	Month        string          `json:"month"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalPlanned decimal.Decimal `json:"total_planned"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
	Lines        []BudgetLine    `json:"lines"`
}

// BudgetServicer defines the contract for the budget planner.
type BudgetServicer interface {
	CreateBudgetItem(ctx context.Context, tenantID, categoryID string, value decimal.Decimal, itemType models.BudgetItemType) (*models.BudgetItem, error)
	GetBudgetItems(ctx context.Context, tenantID string) ([]models.BudgetItem, error)
	GetBudgetItemByID(ctx context.Context, tenantID, itemID string) (*models.BudgetItem, error)
	UpdateBudgetItem(ctx context.Context, tenantID, itemID string, value *decimal.Decimal, itemType *models.BudgetItemType) (*models.BudgetItem, error)
	DeleteBudgetItem(ctx context.Context, tenantID, itemID string) error
	GetBudgetSummary(ctx context.Context, tenantID string, month dates.Date) (*BudgetSummary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(tenantID, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
