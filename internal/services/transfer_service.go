package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"moneyboard/internal/dates"
	apperrors "moneyboard/internal/errors"
	"moneyboard/internal/models"
	"moneyboard/internal/pagination"
)

// transferService moves money between two accounts of the same tenant.
type transferService struct {
	db *gorm.DB
}

// NewTransferService creates a new TransferServicer.
func NewTransferService(db *gorm.DB) TransferServicer {
	return &transferService{db: db}
}

// CreateTransfer records a transfer, debiting the source and crediting the
// destination in one database transaction.
func (s *transferService) CreateTransfer(ctx context.Context, tenantID string, in TransferInput) (*models.Transfer, error) {
	if in.FromAccountID == in.ToAccountID {
		return nil, apperrors.ErrSameAccountTransfer
	}
	amount, err := validateAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = dates.Today()
	}

	transfer := &models.Transfer{
		TenantScope:   models.TenantScope{TenantID: tenantID},
		Description:   strings.TrimSpace(in.Description),
		Amount:        amount,
		FromAccountID: in.FromAccountID,
		ToAccountID:   in.ToAccountID,
		Date:          in.Date,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		from, to, err := lockTransferAccounts(tx, tenantID, transfer)
		if err != nil {
			return err
		}

		if err := tx.Create(transfer).Error; err != nil {
			return dbError(err)
		}
		if _, err := adjustBalance(tx, from, amount.Neg()); err != nil {
			return err
		}
		_, err = adjustBalance(tx, to, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

func lockTransferAccounts(tx *gorm.DB, tenantID string, t *models.Transfer) (from, to *models.Account, err error) {
	locked, err := lockAccounts(tx, tenantID, t.FromAccountID, t.ToAccountID)
	if err != nil {
		return nil, nil, err
	}
	from, ok := locked[t.FromAccountID]
	if !ok {
		return nil, nil, apperrors.WithMessage(apperrors.ErrAccountNotFound, "source account not found")
	}
	to, ok = locked[t.ToAccountID]
	if !ok {
		return nil, nil, apperrors.WithMessage(apperrors.ErrAccountNotFound, "destination account not found")
	}
	return from, to, nil
}

// GetTransfers retrieves a paginated list of transfers, newest first. A
// non-nil accountID keeps transfers touching that account on either side.
func (s *transferService) GetTransfers(ctx context.Context, tenantID string, page pagination.PageRequest, accountID *string) (*pagination.PageResponse[models.Transfer], error) {
	base := s.db.WithContext(ctx).Model(&models.Transfer{}).Where("tenant_id = ?", tenantID)
	if accountID != nil && *accountID != "" {
		base = base.Where("(from_account_id = ? OR to_account_id = ?)", *accountID, *accountID)
	}

	result, err := pagination.Find[models.Transfer](base, page, "date DESC, created_at DESC, id DESC")
	if err != nil {
		return nil, dbError(err)
	}
	return result, nil
}

// GetTransferByID retrieves a transfer of the tenant.
func (s *transferService) GetTransferByID(ctx context.Context, tenantID, transferID string) (*models.Transfer, error) {
	return findTransfer(s.db.WithContext(ctx), tenantID, transferID)
}

func findTransfer(tx *gorm.DB, tenantID, transferID string) (*models.Transfer, error) {
	var transfer models.Transfer
	if err := tx.Where("id = ? AND tenant_id = ?", transferID, tenantID).First(&transfer).Error; err != nil {
		return nil, notFoundOr(err, apperrors.ErrTransferNotFound)
	}
	return &transfer, nil
}

// DeleteTransfer credits the source back, debits the destination and
// deletes the transfer.
func (s *transferService) DeleteTransfer(ctx context.Context, tenantID, transferID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transfer, err := findTransfer(tx.Clauses(forUpdate), tenantID, transferID)
		if err != nil {
			return err
		}

		from, to, err := lockTransferAccounts(tx, tenantID, transfer)
		if err != nil {
			return err
		}
		if _, err := adjustBalance(tx, from, transfer.Amount); err != nil {
			return err
		}
		if _, err := adjustBalance(tx, to, transfer.Amount.Neg()); err != nil {
			return err
		}

		if err := tx.Delete(transfer).Error; err != nil {
			return dbError(err)
		}
		return nil
	})
}
