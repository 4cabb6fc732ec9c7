package services

import (
	"errors"
	"sort"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "moneyboard/internal/errors"
	"moneyboard/internal/models"
)

const pgUniqueViolation = "23505"

// BalanceChange records one applied balance mutation.
type BalanceChange struct {
	AccountID string
	Before    decimal.Decimal
	After     decimal.Decimal
}

// forUpdate locks the selected rows until the surrounding transaction ends.
// SQLite ignores the clause and serializes writers on its own.
var forUpdate = clause.Locking{Strength: "UPDATE"}

// lockAccounts loads and row-locks the given accounts of a tenant, in id
// order so concurrent callers always acquire locks in the same sequence.
// Accounts that do not exist in the tenant are absent from the result.
func lockAccounts(tx *gorm.DB, tenantID string, ids ...string) (map[string]*models.Account, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	sort.Strings(unique)

	locked := make(map[string]*models.Account, len(unique))
	if len(unique) == 0 {
		return locked, nil
	}

	var accounts []models.Account
	if err := tx.Clauses(forUpdate).
		Where("tenant_id = ? AND id IN ?", tenantID, unique).
		Order("id").
		Find(&accounts).Error; err != nil {
		return nil, dbError(err)
	}
	for i := range accounts {
		locked[accounts[i].ID] = &accounts[i]
	}
	return locked, nil
}

// lockAccount locks a single account, returning ErrAccountNotFound when it
// does not belong to the tenant.
func lockAccount(tx *gorm.DB, tenantID, accountID string) (*models.Account, error) {
	locked, err := lockAccounts(tx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	account, ok := locked[accountID]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return account, nil
}

// adjustBalance adds delta to a locked account's balance, in memory and in
// the database.
func adjustBalance(tx *gorm.DB, account *models.Account, delta decimal.Decimal) (*BalanceChange, error) {
	change := &BalanceChange{
		AccountID: account.ID,
		Before:    account.Balance,
		After:     account.Balance.Add(delta),
	}

	if err := tx.Model(&models.Account{}).
		Where("id = ? AND tenant_id = ?", account.ID, account.TenantID).
		Update("balance", change.After).Error; err != nil {
		return nil, dbError(err)
	}

	account.Balance = change.After
	return change, nil
}

// ApplyBalanceDelta locks an account and moves its balance by delta as one
// unit inside tx. It is the only way ledger services write balances.
func ApplyBalanceDelta(tx *gorm.DB, tenantID, accountID string, delta decimal.Decimal) (*BalanceChange, error) {
	account, err := lockAccount(tx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	return adjustBalance(tx, account, delta)
}

// dbError maps a driver error to an AppError. Unique violations become
// conflicts; everything else is a storage failure.
func dbError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Wrap(apperrors.ErrConflict, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperrors.Wrap(apperrors.ErrConflict, err)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// notFoundOr maps gorm's missing-row error to notFound and anything else
// through dbError.
func notFoundOr(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return dbError(err)
}
