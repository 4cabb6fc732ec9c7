package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneyboard/internal/errors"
	"moneyboard/internal/models"
	"moneyboard/internal/pagination"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new account whose running balance starts at
// initialBalance.
func (s *accountService) CreateAccount(ctx context.Context, tenantID, name string, initialBalance decimal.Decimal, icon, color string) (*models.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	initialBalance = initialBalance.Round(2)
	account := &models.Account{
		TenantScope:    models.TenantScope{TenantID: tenantID},
		Name:           name,
		Balance:        initialBalance,
		InitialBalance: initialBalance,
		Icon:           icon,
		Color:          color,
	}

	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, dbError(err)
	}
	return account, nil
}

// GetAccounts retrieves a paginated list of accounts for a tenant.
func (s *accountService) GetAccounts(ctx context.Context, tenantID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	base := s.db.WithContext(ctx).Model(&models.Account{}).Where("tenant_id = ?", tenantID)
	result, err := pagination.Find[models.Account](base, page, "name ASC, id ASC")
	if err != nil {
		return nil, dbError(err)
	}
	return result, nil
}

// GetAccountByID retrieves an account of the tenant.
func (s *accountService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*models.Account, error) {
	return findAccount(s.db.WithContext(ctx), tenantID, accountID)
}

func findAccount(tx *gorm.DB, tenantID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := tx.Where("id = ? AND tenant_id = ?", accountID, tenantID).First(&account).Error; err != nil {
		return nil, notFoundOr(err, apperrors.ErrAccountNotFound)
	}
	return &account, nil
}

// UpdateAccount updates the display metadata of an account.
func (s *accountService) UpdateAccount(ctx context.Context, tenantID, accountID string, fields AccountUpdateFields) (*models.Account, error) {
	db := s.db.WithContext(ctx)
	account, err := findAccount(db, tenantID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if fields.Name != nil {
		name := strings.TrimSpace(*fields.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name cannot be empty")
		}
		updates["name"] = name
	}
	if fields.Icon != nil && *fields.Icon != "" {
		updates["icon"] = *fields.Icon
	}
	if fields.Color != nil && *fields.Color != "" {
		updates["color"] = *fields.Color
	}

	if len(updates) > 0 {
		if err := db.Model(account).Updates(updates).Error; err != nil {
			return nil, dbError(err)
		}
		if account, err = findAccount(db, tenantID, accountID); err != nil {
			return nil, err
		}
	}
	return account, nil
}

// DeleteAccount removes an account that no ledger entry references.
func (s *accountService) DeleteAccount(ctx context.Context, tenantID, accountID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockAccount(tx, tenantID, accountID); err != nil {
			return err
		}

		var refs int64
		if err := tx.Model(&models.Transaction{}).
			Where("tenant_id = ? AND account_id = ?", tenantID, accountID).
			Count(&refs).Error; err != nil {
			return dbError(err)
		}
		if refs == 0 {
			if err := tx.Model(&models.Transfer{}).
				Where("tenant_id = ? AND (from_account_id = ? OR to_account_id = ?)", tenantID, accountID, accountID).
				Count(&refs).Error; err != nil {
				return dbError(err)
			}
		}
		if refs > 0 {
			return apperrors.ErrAccountInUse
		}

		if err := tx.Model(&models.Payable{}).
			Where("tenant_id = ? AND paid_account_id = ?", tenantID, accountID).
			Update("paid_account_id", nil).Error; err != nil {
			return dbError(err)
		}
		if err := tx.Where("id = ? AND tenant_id = ?", accountID, tenantID).
			Delete(&models.Account{}).Error; err != nil {
			return dbError(err)
		}
		return nil
	})
}

// ReconcileAccount recomputes an account's balance from its ledger entries
// and compares it with the stored running total.
func (s *accountService) ReconcileAccount(ctx context.Context, tenantID, accountID string) (*Reconciliation, error) {
	var result *Reconciliation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := findAccount(tx, tenantID, accountID)
		if err != nil {
			return err
		}
		result, err = reconcile(tx, account)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReconcileAll reconciles every account of every tenant.
func (s *accountService) ReconcileAll(ctx context.Context) ([]Reconciliation, error) {
	var accounts []models.Account
	db := s.db.WithContext(ctx)
	if err := db.Order("tenant_id, name, id").Find(&accounts).Error; err != nil {
		return nil, dbError(err)
	}

	results := make([]Reconciliation, 0, len(accounts))
	for i := range accounts {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r, err := reconcile(db, &accounts[i])
		if err != nil {
			return results, err
		}
		results = append(results, *r)
	}
	return results, nil
}

func reconcile(tx *gorm.DB, account *models.Account) (*Reconciliation, error) {
	scope := "tenant_id = ? AND account_id = ? AND type = ?"
	income, err := sumAmount(tx.Model(&models.Transaction{}).
		Where(scope, account.TenantID, account.ID, models.TransactionTypeIncome))
	if err != nil {
		return nil, err
	}
	expense, err := sumAmount(tx.Model(&models.Transaction{}).
		Where(scope, account.TenantID, account.ID, models.TransactionTypeExpense))
	if err != nil {
		return nil, err
	}
	out, err := sumAmount(tx.Model(&models.Transfer{}).
		Where("tenant_id = ? AND from_account_id = ?", account.TenantID, account.ID))
	if err != nil {
		return nil, err
	}
	in, err := sumAmount(tx.Model(&models.Transfer{}).
		Where("tenant_id = ? AND to_account_id = ?", account.TenantID, account.ID))
	if err != nil {
		return nil, err
	}

	computed := account.InitialBalance.Add(income).Sub(expense).Sub(out).Add(in)
	return &Reconciliation{
		TenantID:        account.TenantID,
		AccountID:       account.ID,
		AccountName:     account.Name,
		StoredBalance:   account.Balance,
		ComputedBalance: computed,
		Drift:           account.Balance.Sub(computed),
	}, nil
}

// sumAmount returns SUM(amount) over q, rounded to cents. SQLite returns
// floating point sums for decimal columns.
func sumAmount(q *gorm.DB) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := q.Select("COALESCE(SUM(amount), 0)").Row().Scan(&total); err != nil {
		return decimal.Zero, dbError(err)
	}
	return total.Round(2), nil
}
