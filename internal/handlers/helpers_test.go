package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneyboard/internal/dates"
	"moneyboard/internal/middleware"
	"moneyboard/internal/models"
	"moneyboard/internal/pagination"
	"moneyboard/internal/services"
	"moneyboard/internal/validator"
)

const (
	testTenantID = "0190a5b2-3c4d-7e8f-9a0b-1c2d3e4f5a6b"
	testUserID   = "0190a5b2-3c4d-7e8f-9a0b-1c2d3e4f5a6c"
	testID       = "0190a5b2-3c4d-7e8f-9a0b-1c2d3e4f5a6d"
	otherID      = "0190a5b2-3c4d-7e8f-9a0b-1c2d3e4f5a6e"
)

// --- mock services ---

type auditEntry struct {
	tenantID, userID, action, resourceType, resourceID string
}

type mockAuditService struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (m *mockAuditService) Log(tenantID, userID, action, resourceType, resourceID, _ string, _ map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, auditEntry{tenantID, userID, action, resourceType, resourceID})
}

func (m *mockAuditService) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.action
	}
	return out
}

var _ services.AuditServicer = (*mockAuditService)(nil)

type mockAccountService struct {
	createAccountFn    func(ctx context.Context, tenantID, name string, initialBalance decimal.Decimal, icon, color string) (*models.Account, error)
	getAccountsFn      func(ctx context.Context, tenantID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	getAccountByIDFn   func(ctx context.Context, tenantID, accountID string) (*models.Account, error)
	updateAccountFn    func(ctx context.Context, tenantID, accountID string, fields services.AccountUpdateFields) (*models.Account, error)
	deleteAccountFn    func(ctx context.Context, tenantID, accountID string) error
	reconcileAccountFn func(ctx context.Context, tenantID, accountID string) (*services.Reconciliation, error)
	reconcileAllFn     func(ctx context.Context) ([]services.Reconciliation, error)
}

var _ services.AccountServicer = (*mockAccountService)(nil)

func (m *mockAccountService) CreateAccount(ctx context.Context, tenantID, name string, initialBalance decimal.Decimal, icon, color string) (*models.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(ctx, tenantID, name, initialBalance, icon, color)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) GetAccounts(ctx context.Context, tenantID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	if m.getAccountsFn != nil {
		return m.getAccountsFn(ctx, tenantID, page)
	}
	resp := pagination.NewPageResponse([]models.Account{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockAccountService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*models.Account, error) {
	if m.getAccountByIDFn != nil {
		return m.getAccountByIDFn(ctx, tenantID, accountID)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) UpdateAccount(ctx context.Context, tenantID, accountID string, fields services.AccountUpdateFields) (*models.Account, error) {
	if m.updateAccountFn != nil {
		return m.updateAccountFn(ctx, tenantID, accountID, fields)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) DeleteAccount(ctx context.Context, tenantID, accountID string) error {
	if m.deleteAccountFn != nil {
		return m.deleteAccountFn(ctx, tenantID, accountID)
	}
	return nil
}

func (m *mockAccountService) ReconcileAccount(ctx context.Context, tenantID, accountID string) (*services.Reconciliation, error) {
	if m.reconcileAccountFn != nil {
		return m.reconcileAccountFn(ctx, tenantID, accountID)
	}
	return &services.Reconciliation{}, nil
}

func (m *mockAccountService) ReconcileAll(ctx context.Context) ([]services.Reconciliation, error) {
	if m.reconcileAllFn != nil {
		return m.reconcileAllFn(ctx)
	}
	return nil, nil
}

type mockCategoryService struct {
	createCategoryFn   func(ctx context.Context, tenantID, name string, parentID *string) (*models.Category, error)
	getCategoriesFn    func(ctx context.Context, tenantID string) ([]models.Category, error)
	getCategoryByIDFn  func(ctx context.Context, tenantID, categoryID string) (*models.Category, error)
	getDescendantIDsFn func(ctx context.Context, tenantID, categoryID string) ([]string, error)
	updateCategoryFn   func(ctx context.Context, tenantID, categoryID string, fields services.CategoryUpdateFields) (*models.Category, error)
	deleteCategoryFn   func(ctx context.Context, tenantID, categoryID string) error
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func (m *mockCategoryService) ValidateCategory(_ *gorm.DB, _, _ string) error { return nil }

func (m *mockCategoryService) CreateCategory(ctx context.Context, tenantID, name string, parentID *string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(ctx, tenantID, name, parentID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) GetCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	if m.getCategoriesFn != nil {
		return m.getCategoriesFn(ctx, tenantID)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryByID(ctx context.Context, tenantID, categoryID string) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(ctx, tenantID, categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) GetDescendantIDs(ctx context.Context, tenantID, categoryID string) ([]string, error) {
	if m.getDescendantIDsFn != nil {
		return m.getDescendantIDsFn(ctx, tenantID, categoryID)
	}
	return []string{categoryID}, nil
}

func (m *mockCategoryService) UpdateCategory(ctx context.Context, tenantID, categoryID string, fields services.CategoryUpdateFields) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(ctx, tenantID, categoryID, fields)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(ctx context.Context, tenantID, categoryID string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(ctx, tenantID, categoryID)
	}
	return nil
}

type mockTransactionService struct {
	createTransactionFn  func(ctx context.Context, tenantID string, in services.TransactionInput) (*models.Transaction, error)
	getTransactionsFn    func(ctx context.Context, tenantID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getTransactionByIDFn func(ctx context.Context, tenantID, transactionID string) (*models.Transaction, error)
	updateTransactionFn  func(ctx context.Context, tenantID, transactionID string, fields services.TransactionUpdateFields) (*models.Transaction, error)
	deleteTransactionFn  func(ctx context.Context, tenantID, transactionID string) error
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func (m *mockTransactionService) CreateTransaction(ctx context.Context, tenantID string, in services.TransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(ctx, tenantID, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetTransactions(ctx context.Context, tenantID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getTransactionsFn != nil {
		return m.getTransactionsFn(ctx, tenantID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransactionByID(ctx context.Context, tenantID, transactionID string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(ctx, tenantID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(ctx context.Context, tenantID, transactionID string, fields services.TransactionUpdateFields) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(ctx, tenantID, transactionID, fields)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(ctx context.Context, tenantID, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(ctx, tenantID, transactionID)
	}
	return nil
}

type mockTransferService struct {
	createTransferFn  func(ctx context.Context, tenantID string, in services.TransferInput) (*models.Transfer, error)
	getTransfersFn    func(ctx context.Context, tenantID string, page pagination.PageRequest, accountID *string) (*pagination.PageResponse[models.Transfer], error)
	getTransferByIDFn func(ctx context.Context, tenantID, transferID string) (*models.Transfer, error)
	deleteTransferFn  func(ctx context.Context, tenantID, transferID string) error
}

var _ services.TransferServicer = (*mockTransferService)(nil)

func (m *mockTransferService) CreateTransfer(ctx context.Context, tenantID string, in services.TransferInput) (*models.Transfer, error) {
	if m.createTransferFn != nil {
		return m.createTransferFn(ctx, tenantID, in)
	}
	return &models.Transfer{}, nil
}

func (m *mockTransferService) GetTransfers(ctx context.Context, tenantID string, page pagination.PageRequest, accountID *string) (*pagination.PageResponse[models.Transfer], error) {
	if m.getTransfersFn != nil {
		return m.getTransfersFn(ctx, tenantID, page, accountID)
	}
	resp := pagination.NewPageResponse([]models.Transfer{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransferService) GetTransferByID(ctx context.Context, tenantID, transferID string) (*models.Transfer, error) {
	if m.getTransferByIDFn != nil {
		return m.getTransferByIDFn(ctx, tenantID, transferID)
	}
	return &models.Transfer{}, nil
}

func (m *mockTransferService) DeleteTransfer(ctx context.Context, tenantID, transferID string) error {
	if m.deleteTransferFn != nil {
		return m.deleteTransferFn(ctx, tenantID, transferID)
	}
	return nil
}

type mockPayableService struct {
	createPayableFn  func(ctx context.Context, tenantID string, in services.PayableInput) (*models.Payable, error)
	getPayablesFn    func(ctx context.Context, tenantID string, page pagination.PageRequest, filter services.PayableFilter) (*pagination.PageResponse[models.Payable], error)
	getPayableByIDFn func(ctx context.Context, tenantID, payableID string) (*models.Payable, error)
	updatePayableFn  func(ctx context.Context, tenantID, payableID string, fields services.PayableUpdateFields) (*models.Payable, error)
	deletePayableFn  func(ctx context.Context, tenantID, payableID string) error
	cancelPayableFn  func(ctx context.Context, tenantID, payableID string) (*models.Payable, error)
	payPayableFn     func(ctx context.Context, tenantID, payableID string, in services.PaymentInput) (*services.PaymentResult, error)
}

var _ services.PayableServicer = (*mockPayableService)(nil)

func (m *mockPayableService) CreatePayable(ctx context.Context, tenantID string, in services.PayableInput) (*models.Payable, error) {
	if m.createPayableFn != nil {
		return m.createPayableFn(ctx, tenantID, in)
	}
	return &models.Payable{}, nil
}

func (m *mockPayableService) GetPayables(ctx context.Context, tenantID string, page pagination.PageRequest, filter services.PayableFilter) (*pagination.PageResponse[models.Payable], error) {
	if m.getPayablesFn != nil {
		return m.getPayablesFn(ctx, tenantID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Payable{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockPayableService) GetPayableByID(ctx context.Context, tenantID, payableID string) (*models.Payable, error) {
	if m.getPayableByIDFn != nil {
		return m.getPayableByIDFn(ctx, tenantID, payableID)
	}
	return &models.Payable{}, nil
}

func (m *mockPayableService) UpdatePayable(ctx context.Context, tenantID, payableID string, fields services.PayableUpdateFields) (*models.Payable, error) {
	if m.updatePayableFn != nil {
		return m.updatePayableFn(ctx, tenantID, payableID, fields)
	}
	return &models.Payable{}, nil
}

func (m *mockPayableService) DeletePayable(ctx context.Context, tenantID, payableID string) error {
	if m.deletePayableFn != nil {
		return m.deletePayableFn(ctx, tenantID, payableID)
	}
	return nil
}

func (m *mockPayableService) CancelPayable(ctx context.Context, tenantID, payableID string) (*models.Payable, error) {
	if m.cancelPayableFn != nil {
		return m.cancelPayableFn(ctx, tenantID, payableID)
	}
	return &models.Payable{}, nil
}

func (m *mockPayableService) PayPayable(ctx context.Context, tenantID, payableID string, in services.PaymentInput) (*services.PaymentResult, error) {
	if m.payPayableFn != nil {
		return m.payPayableFn(ctx, tenantID, payableID, in)
	}
	return &services.PaymentResult{}, nil
}

type mockBudgetService struct {
	createBudgetItemFn  func(ctx context.Context, tenantID, categoryID string, value decimal.Decimal, itemType models.BudgetItemType) (*models.BudgetItem, error)
	getBudgetItemsFn    func(ctx context.Context, tenantID string) ([]models.BudgetItem, error)
	getBudgetItemByIDFn func(ctx context.Context, tenantID, itemID string) (*models.BudgetItem, error)
	updateBudgetItemFn  func(ctx context.Context, tenantID, itemID string, value *decimal.Decimal, itemType *models.BudgetItemType) (*models.BudgetItem, error)
	deleteBudgetItemFn  func(ctx context.Context, tenantID, itemID string) error
	getBudgetSummaryFn  func(ctx context.Context, tenantID string, month dates.Date) (*services.BudgetSummary, error)
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func (m *mockBudgetService) CreateBudgetItem(ctx context.Context, tenantID, categoryID string, value decimal.Decimal, itemType models.BudgetItemType) (*models.BudgetItem, error) {
	if m.createBudgetItemFn != nil {
		return m.createBudgetItemFn(ctx, tenantID, categoryID, value, itemType)
	}
	return &models.BudgetItem{}, nil
}

func (m *mockBudgetService) GetBudgetItems(ctx context.Context, tenantID string) ([]models.BudgetItem, error) {
	if m.getBudgetItemsFn != nil {
		return m.getBudgetItemsFn(ctx, tenantID)
	}
	return []models.BudgetItem{}, nil
}

func (m *mockBudgetService) GetBudgetItemByID(ctx context.Context, tenantID, itemID string) (*models.BudgetItem, error) {
	if m.getBudgetItemByIDFn != nil {
		return m.getBudgetItemByIDFn(ctx, tenantID, itemID)
	}
	return &models.BudgetItem{}, nil
}

func (m *mockBudgetService) UpdateBudgetItem(ctx context.Context, tenantID, itemID string, value *decimal.Decimal, itemType *models.BudgetItemType) (*models.BudgetItem, error) {
	if m.updateBudgetItemFn != nil {
		return m.updateBudgetItemFn(ctx, tenantID, itemID, value, itemType)
	}
	return &models.BudgetItem{}, nil
}

func (m *mockBudgetService) DeleteBudgetItem(ctx context.Context, tenantID, itemID string) error {
	if m.deleteBudgetItemFn != nil {
		return m.deleteBudgetItemFn(ctx, tenantID, itemID)
	}
	return nil
}

func (m *mockBudgetService) GetBudgetSummary(ctx context.Context, tenantID string, month dates.Date) (*services.BudgetSummary, error) {
	if m.getBudgetSummaryFn != nil {
		return m.getBudgetSummaryFn(ctx, tenantID, month)
	}
	return &services.BudgetSummary{Month: month.Format("2006-01")}, nil
}

type mockTenantService struct {
	createTenantFn  func(ctx context.Context, name string) (*models.Tenant, error)
	getTenantByIDFn func(ctx context.Context, tenantID string) (*models.Tenant, error)
}

var _ services.TenantServicer = (*mockTenantService)(nil)

func (m *mockTenantService) CreateTenant(ctx context.Context, name string) (*models.Tenant, error) {
	if m.createTenantFn != nil {
		return m.createTenantFn(ctx, name)
	}
	return &models.Tenant{}, nil
}

func (m *mockTenantService) GetTenantByID(ctx context.Context, tenantID string) (*models.Tenant, error) {
	if m.getTenantByIDFn != nil {
		return m.getTenantByIDFn(ctx, tenantID)
	}
	return &models.Tenant{}, nil
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectTenant(tenantID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.TenantIDKey, tenantID)
		c.Set(middleware.UserIDKey, testUserID)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]any, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
