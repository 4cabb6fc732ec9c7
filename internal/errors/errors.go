// Package errors provides the application error type shared by the ledger
// services and the HTTP layer. Every service error is an *AppError so that
// handlers can render a stable code and message without leaking internals.
package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError independently of its code.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindStorage    Kind = "storage"
	KindAuth       Kind = "auth"
)

// AppError represents a structured application error with a kind, an error
// code, a human-readable message, an HTTP status code and an optional
// internal error that is never serialized.
type AppError struct {
	Kind       Kind   `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same kind/code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Kind:       sentinel.Kind,
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Kind:       sentinel.Kind,
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// IsKind reports whether err is an *AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

func validation(code, message string) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Message: message, StatusCode: http.StatusBadRequest}
}

func notFound(code, message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: message, StatusCode: http.StatusNotFound}
}

func conflict(code, message string) *AppError {
	return &AppError{Kind: KindConflict, Code: code, Message: message, StatusCode: http.StatusConflict}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized = &AppError{Kind: KindAuth, Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrForbidden    = &AppError{Kind: KindAuth, Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrRateLimited  = &AppError{Kind: KindAuth, Code: "RATE_LIMITED", Message: "Too many requests, please try again later", StatusCode: http.StatusTooManyRequests}
)

// General errors.
var (
	ErrInvalidInput   = validation("INVALID_INPUT", "Invalid input")
	ErrNotFound       = notFound("NOT_FOUND", "Resource not found")
	ErrConflict       = conflict("CONFLICT", "Resource already exists")
	ErrInternalServer = &AppError{Kind: KindStorage, Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Tenant errors.
var (
	ErrTenantNotFound  = notFound("TENANT_NOT_FOUND", "Tenant not found")
	ErrDuplicateTenant = conflict("DUPLICATE_TENANT", "A tenant with this slug already exists")
)

// Account errors.
var (
	ErrAccountNotFound = notFound("ACCOUNT_NOT_FOUND", "Account not found")
	ErrInvalidAccount  = validation("INVALID_ACCOUNT", "Account does not exist")
	ErrAccountInUse    = conflict("ACCOUNT_IN_USE", "Account is referenced by transactions or transfers")
)

// Category errors.
var (
	ErrCategoryNotFound   = notFound("CATEGORY_NOT_FOUND", "Category not found")
	ErrInvalidCategory    = validation("INVALID_CATEGORY", "Category does not exist")
	ErrSelfParentCategory = validation("SELF_PARENT_CATEGORY", "A category cannot be its own parent")
	ErrCategoryCycle      = validation("CATEGORY_CYCLE", "Category hierarchy would contain a cycle")
)

// Transaction errors.
var (
	ErrTransactionNotFound    = notFound("TRANSACTION_NOT_FOUND", "Transaction not found")
	ErrInvalidTransactionType = validation("INVALID_TRANSACTION_TYPE", "Unsupported transaction type")
)

// Transfer errors.
var (
	ErrTransferNotFound    = notFound("TRANSFER_NOT_FOUND", "Transfer not found")
	ErrSameAccountTransfer = validation("SAME_ACCOUNT_TRANSFER", "Cannot transfer to the same account")
)

// Payable errors.
var (
	ErrPayableNotFound         = notFound("PAYABLE_NOT_FOUND", "Payable not found")
	ErrPayableAlreadyProcessed = conflict("PAYABLE_ALREADY_PROCESSED", "Payable has already been processed")
	ErrPayableNotEditable      = validation("PAYABLE_NOT_EDITABLE", "Only notes can be edited once a payable is no longer pending")
	ErrInvalidInstallments     = validation("INVALID_INSTALLMENTS", "Installments are only allowed on recurring payables")
	ErrInstallmentsBelowPaid   = validation("INSTALLMENTS_BELOW_PROGRESS", "Total installments cannot be lower than the current installment")
)

// Budget errors.
var (
	ErrBudgetItemNotFound  = notFound("BUDGET_ITEM_NOT_FOUND", "Budget item not found")
	ErrDuplicateBudgetItem = conflict("DUPLICATE_BUDGET_ITEM", "A budget item already exists for this category")
	ErrInvalidBudgetType   = validation("INVALID_BUDGET_TYPE", "Unsupported budget item type")
)
