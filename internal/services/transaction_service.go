package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneyboard/internal/dates"
	apperrors "moneyboard/internal/errors"
	"moneyboard/internal/models"
	"moneyboard/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db         *gorm.DB
	categories CategoryValidator
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, categories CategoryValidator) TransactionServicer {
	return &transactionService{
		db:         db,
		categories: categories,
	}
}

func validateAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return amount, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	return amount, nil
}

// CreateTransaction posts a transaction and applies its effect to the
// account balance in the same database transaction.
func (s *transactionService) CreateTransaction(ctx context.Context, tenantID string, in TransactionInput) (*models.Transaction, error) {
	amount, err := validateAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	if !in.Type.IsValid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if in.AccountID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	if in.CategoryID != nil && *in.CategoryID == "" {
		in.CategoryID = nil
	}
	if in.Date.IsZero() {
		in.Date = dates.Today()
	}

	transaction := &models.Transaction{
		TenantScope: models.TenantScope{TenantID: tenantID},
		Description: strings.TrimSpace(in.Description),
		Amount:      amount,
		Type:        in.Type,
		AccountID:   in.AccountID,
		CategoryID:  in.CategoryID,
		Date:        in.Date,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := lockAccounts(tx, tenantID, in.AccountID)
		if err != nil {
			return err
		}
		account, ok := locked[in.AccountID]
		if !ok {
			return apperrors.ErrInvalidAccount
		}
		if in.CategoryID != nil {
			if err := s.categories.ValidateCategory(tx, tenantID, *in.CategoryID); err != nil {
				return err
			}
		}

		if err := tx.Create(transaction).Error; err != nil {
			return dbError(err)
		}
		_, err = adjustBalance(tx, account, transaction.Effect())
		return err
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// GetTransactions retrieves a paginated, filtered list of transactions,
// newest first.
func (s *transactionService) GetTransactions(ctx context.Context, tenantID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	base := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("tenant_id = ?", tenantID)
	base = applyTransactionFilters(base, filter)

	result, err := pagination.Find[models.Transaction](base, page, "date DESC, created_at DESC, id DESC")
	if err != nil {
		return nil, dbError(err)
	}
	return result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

// GetTransactionByID retrieves a transaction of the tenant.
func (s *transactionService) GetTransactionByID(ctx context.Context, tenantID, transactionID string) (*models.Transaction, error) {
	return findTransaction(s.db.WithContext(ctx), tenantID, transactionID)
}

func findTransaction(tx *gorm.DB, tenantID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := tx.Where("id = ? AND tenant_id = ?", transactionID, tenantID).First(&transaction).Error; err != nil {
		return nil, notFoundOr(err, apperrors.ErrTransactionNotFound)
	}
	return &transaction, nil
}

// UpdateTransaction replaces the given fields. The old effect is reversed on
// the old account before the new effect is applied to the (possibly
// different) new account.
func (s *transactionService) UpdateTransaction(ctx context.Context, tenantID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	var transaction *models.Transaction

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if transaction, err = findTransaction(tx.Clauses(forUpdate), tenantID, transactionID); err != nil {
			return err
		}
		oldAccountID := transaction.AccountID
		oldEffect := transaction.Effect()

		if fields.Amount != nil {
			if transaction.Amount, err = validateAmount(*fields.Amount); err != nil {
				return err
			}
		}
		if fields.Type != nil {
			if !fields.Type.IsValid() {
				return apperrors.ErrInvalidTransactionType
			}
			transaction.Type = *fields.Type
		}
		if fields.Description != nil {
			transaction.Description = strings.TrimSpace(*fields.Description)
		}
		if fields.Date != nil && !fields.Date.IsZero() {
			transaction.Date = *fields.Date
		}
		if fields.AccountID != nil && *fields.AccountID != "" {
			transaction.AccountID = *fields.AccountID
		}
		if fields.CategoryID != nil {
			if *fields.CategoryID == "" {
				transaction.CategoryID = nil
			} else {
				if err := s.categories.ValidateCategory(tx, tenantID, *fields.CategoryID); err != nil {
					return err
				}
				id := *fields.CategoryID
				transaction.CategoryID = &id
			}
		}

		locked, err := lockAccounts(tx, tenantID, oldAccountID, transaction.AccountID)
		if err != nil {
			return err
		}
		newAccount, ok := locked[transaction.AccountID]
		if !ok {
			return apperrors.ErrInvalidAccount
		}
		oldAccount, ok := locked[oldAccountID]
		if !ok {
			return apperrors.Wrap(apperrors.ErrInternalServer, gorm.ErrRecordNotFound)
		}

		if _, err := adjustBalance(tx, oldAccount, oldEffect.Neg()); err != nil {
			return err
		}
		if _, err := adjustBalance(tx, newAccount, transaction.Effect()); err != nil {
			return err
		}

		if err := tx.Save(transaction).Error; err != nil {
			return dbError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// DeleteTransaction reverses a transaction's effect and deletes it.
func (s *transactionService) DeleteTransaction(ctx context.Context, tenantID, transactionID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transaction, err := findTransaction(tx.Clauses(forUpdate), tenantID, transactionID)
		if err != nil {
			return err
		}

		if _, err := ApplyBalanceDelta(tx, tenantID, transaction.AccountID, transaction.Effect().Neg()); err != nil {
			return err
		}

		if err := tx.Model(&models.Payable{}).
			Where("tenant_id = ? AND paid_transaction_id = ?", tenantID, transaction.ID).
			Update("paid_transaction_id", nil).Error; err != nil {
			return dbError(err)
		}
		if err := tx.Delete(transaction).Error; err != nil {
			return dbError(err)
		}
		return nil
	})
}
