package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"moneyboard/internal/dates"
	apperrors "moneyboard/internal/errors"
	"moneyboard/internal/models"
	"moneyboard/internal/pagination"
)

// payableService drives the payable lifecycle: pending payables are paid,
// cancelled or deleted, and paying a recurring payable schedules the next
// installment.
type payableService struct {
	db         *gorm.DB
	categories CategoryValidator
}

// NewPayableService creates a new PayableServicer.
func NewPayableService(db *gorm.DB, categories CategoryValidator) PayableServicer {
	return &payableService{
		db:         db,
		categories: categories,
	}
}

// CreatePayable creates a pending payable. Recurring payables start at
// installment 1.
func (s *payableService) CreatePayable(ctx context.Context, tenantID string, in PayableInput) (*models.Payable, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	amount, err := validateAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	if in.DueDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "due date is required")
	}
	if in.CategoryID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category ID is required")
	}
	if err := checkInstallments(in.IsRecurring, in.TotalInstallments); err != nil {
		return nil, err
	}

	categoryID := in.CategoryID
	payable := &models.Payable{
		TenantScope:       models.TenantScope{TenantID: tenantID},
		Description:       description,
		Amount:            amount,
		DueDate:           in.DueDate,
		CategoryID:        &categoryID,
		Status:            models.PayableStatusPending,
		IsRecurring:       in.IsRecurring,
		TotalInstallments: in.TotalInstallments,
		Notes:             in.Notes,
	}
	if in.IsRecurring {
		first := 1
		payable.CurrentInstallment = &first
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.categories.ValidateCategory(tx, tenantID, categoryID); err != nil {
			return err
		}
		if err := tx.Create(payable).Error; err != nil {
			return dbError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payable, nil
}

// checkInstallments rejects installment bounds on one-off payables and
// non-positive bounds.
func checkInstallments(recurring bool, total *int) error {
	if total == nil {
		return nil
	}
	if !recurring {
		return apperrors.ErrInvalidInstallments
	}
	if *total < 1 {
		return apperrors.WithMessage(apperrors.ErrInvalidInstallments, "total installments must be at least 1")
	}
	return nil
}

// GetPayables lists payables with pending ones first, then by due date.
func (s *payableService) GetPayables(ctx context.Context, tenantID string, page pagination.PageRequest, filter PayableFilter) (*pagination.PageResponse[models.Payable], error) {
	base := s.db.WithContext(ctx).Model(&models.Payable{}).Where("tenant_id = ?", tenantID)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.DueBefore != nil {
		base = base.Where("due_date <= ?", *filter.DueBefore)
	}

	order := "CASE WHEN status = 'pending' THEN 0 ELSE 1 END, due_date ASC, id ASC"
	result, err := pagination.Find[models.Payable](base, page, order)
	if err != nil {
		return nil, dbError(err)
	}
	return result, nil
}

// GetPayableByID retrieves a payable of the tenant.
func (s *payableService) GetPayableByID(ctx context.Context, tenantID, payableID string) (*models.Payable, error) {
	return findPayable(s.db.WithContext(ctx), tenantID, payableID)
}

func findPayable(tx *gorm.DB, tenantID, payableID string) (*models.Payable, error) {
	var payable models.Payable
	if err := tx.Where("id = ? AND tenant_id = ?", payableID, tenantID).First(&payable).Error; err != nil {
		return nil, notFoundOr(err, apperrors.ErrPayableNotFound)
	}
	return &payable, nil
}

// UpdatePayable applies the given fields. Once a payable has left the
// pending state only its notes can change.
func (s *payableService) UpdatePayable(ctx context.Context, tenantID, payableID string, fields PayableUpdateFields) (*models.Payable, error) {
	var payable *models.Payable

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if payable, err = findPayable(tx.Clauses(forUpdate), tenantID, payableID); err != nil {
			return err
		}
		if !payable.IsPending() && fields.HasFinancialChanges() {
			return apperrors.ErrPayableNotEditable
		}

		if fields.Description != nil {
			description := strings.TrimSpace(*fields.Description)
			if description == "" {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "description cannot be empty")
			}
			payable.Description = description
		}
		if fields.Amount != nil {
			if payable.Amount, err = validateAmount(*fields.Amount); err != nil {
				return err
			}
		}
		if fields.DueDate != nil && !fields.DueDate.IsZero() {
			payable.DueDate = *fields.DueDate
		}
		if fields.CategoryID != nil {
			if err := s.categories.ValidateCategory(tx, tenantID, *fields.CategoryID); err != nil {
				return err
			}
			id := *fields.CategoryID
			payable.CategoryID = &id
		}
		if fields.Notes != nil {
			payable.Notes = *fields.Notes
		}
		if err := applyRecurrence(payable, fields); err != nil {
			return err
		}

		if err := tx.Save(payable).Error; err != nil {
			return dbError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payable, nil
}

// applyRecurrence updates the recurrence fields of p. Installment progress
// is never rolled back: the bound cannot drop below the current installment.
func applyRecurrence(p *models.Payable, fields PayableUpdateFields) error {
	if fields.IsRecurring != nil {
		switch {
		case !*fields.IsRecurring:
			p.IsRecurring = false
			p.TotalInstallments = nil
			p.CurrentInstallment = nil
		case !p.IsRecurring:
			p.IsRecurring = true
			first := 1
			p.CurrentInstallment = &first
		}
	}

	if fields.ClearTotalInstallments {
		p.TotalInstallments = nil
	}
	if fields.TotalInstallments == nil {
		return nil
	}

	total := *fields.TotalInstallments
	if err := checkInstallments(p.IsRecurring, &total); err != nil {
		return err
	}
	if total < p.Installment() {
		return apperrors.ErrInstallmentsBelowPaid
	}
	p.TotalInstallments = &total
	return nil
}

// lockPendingPayable locks a payable and requires it to be pending.
func lockPendingPayable(tx *gorm.DB, tenantID, payableID string) (*models.Payable, error) {
	payable, err := findPayable(tx.Clauses(forUpdate), tenantID, payableID)
	if err != nil {
		return nil, err
	}
	if !payable.IsPending() {
		return nil, apperrors.ErrPayableAlreadyProcessed
	}
	return payable, nil
}

// DeletePayable removes a payable that has not been processed yet.
func (s *payableService) DeletePayable(ctx context.Context, tenantID, payableID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payable, err := lockPendingPayable(tx, tenantID, payableID)
		if err != nil {
			return err
		}
		if err := tx.Delete(payable).Error; err != nil {
			return dbError(err)
		}
		return nil
	})
}

// CancelPayable marks a pending payable as cancelled. Nothing is posted and
// no successor is scheduled.
func (s *payableService) CancelPayable(ctx context.Context, tenantID, payableID string) (*models.Payable, error) {
	var payable *models.Payable

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if payable, err = lockPendingPayable(tx, tenantID, payableID); err != nil {
			return err
		}
		payable.Status = models.PayableStatusCancelled
		if err := tx.Model(payable).Update("status", payable.Status).Error; err != nil {
			return dbError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payable, nil
}

// PayPayable pays a pending payable from an account. The expense
// transaction, the balance debit, the status change and the next
// installment are written in one database transaction.
func (s *payableService) PayPayable(ctx context.Context, tenantID, payableID string, in PaymentInput) (*PaymentResult, error) {
	if in.AccountID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	paymentDate := dates.Today()
	if in.PaymentDate != nil && !in.PaymentDate.IsZero() {
		paymentDate = *in.PaymentDate
	}

	var result *PaymentResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payable, err := lockPendingPayable(tx, tenantID, payableID)
		if err != nil {
			return err
		}
		account, err := lockAccount(tx, tenantID, in.AccountID)
		if err != nil {
			return err
		}

		transaction := &models.Transaction{
			TenantScope: models.TenantScope{TenantID: tenantID},
			Description: payable.Description,
			Amount:      payable.Amount,
			Type:        models.TransactionTypeExpense,
			AccountID:   account.ID,
			CategoryID:  payable.CategoryID,
			Date:        paymentDate,
		}
		if err := tx.Create(transaction).Error; err != nil {
			return dbError(err)
		}
		if _, err := adjustBalance(tx, account, transaction.Effect()); err != nil {
			return err
		}

		paidAt := time.Now().UTC()
		payable.Status = models.PayableStatusPaid
		payable.PaidAt = &paidAt
		payable.PaidAccountID = &account.ID
		payable.PaidTransactionID = &transaction.ID
		if err := tx.Model(payable).Updates(map[string]any{
			"status":              payable.Status,
			"paid_at":             paidAt,
			"paid_account_id":     account.ID,
			"paid_transaction_id": transaction.ID,
		}).Error; err != nil {
			return dbError(err)
		}

		result = &PaymentResult{
			TransactionID: transaction.ID,
			PaidAt:        paidAt,
			Transaction:   transaction,
			Payable:       payable,
		}

		if payable.HasNextInstallment() {
			next := nextInstallment(payable)
			if err := tx.Create(next).Error; err != nil {
				return dbError(err)
			}
			result.Next = next
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// nextInstallment builds the pending successor of a paid recurring payable,
// due one calendar month after it.
func nextInstallment(p *models.Payable) *models.Payable {
	installment := p.Installment() + 1
	next := &models.Payable{
		TenantScope:        p.TenantScope,
		Description:        p.Description,
		Amount:             p.Amount,
		DueDate:            p.DueDate.AddMonths(1),
		Status:             models.PayableStatusPending,
		IsRecurring:        true,
		CurrentInstallment: &installment,
		Notes:              p.Notes,
	}
	if p.CategoryID != nil {
		id := *p.CategoryID
		next.CategoryID = &id
	}
	if p.TotalInstallments != nil {
		total := *p.TotalInstallments
		next.TotalInstallments = &total
	}
	return next
}
