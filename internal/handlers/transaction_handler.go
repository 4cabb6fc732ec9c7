package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"moneyboard/internal/dates"
	apperrors "moneyboard/internal/errors"
	"moneyboard/internal/events"
	"moneyboard/internal/models"
	"moneyboard/internal/pagination"
	"moneyboard/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	recorder
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer, publisher events.Publisher) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		recorder:           newRecorder(auditService, publisher),
	}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	AccountID   string          `json:"account_id" binding:"required,uuid_id"`
	CategoryID  *string         `json:"category_id" binding:"omitempty,uuid_id"`
	Type        string          `json:"type" binding:"required,transaction_type"`
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Description string          `json:"description" binding:"max=500"`
	Date        string          `json:"date" binding:"omitempty,iso_date"`
}

// UpdateTransactionRequest represents the request payload for updating a
// transaction. An empty category_id clears the category.
type UpdateTransactionRequest struct {
	AccountID   *string          `json:"account_id" binding:"omitempty,uuid_id"`
	CategoryID  *string          `json:"category_id" binding:"omitempty,uuid_id"`
	Type        *string          `json:"type" binding:"omitempty,transaction_type"`
	Amount      *decimal.Decimal `json:"amount" binding:"omitempty,gt=0"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	Date        *string          `json:"date" binding:"omitempty,iso_date"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record income or an expense and apply it to the account balance
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input, account or category"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), tenantID, services.TransactionInput{
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Type:        models.TransactionType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.record(c, events.TransactionCreated, "CREATE_TRANSACTION", "transaction", transaction.ID,
		map[string]any{"account_id": transaction.AccountID, "type": transaction.Type, "amount": transaction.Amount})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions lists transactions
// @Summary     List transactions
// @Description Newest first, with optional filters
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page        query int    false "Page number"
// @Param       page_size   query int    false "Page size (max 100)"
// @Param       account_id  query string false "Account ID"
// @Param       category_id query string false "Category ID"
// @Param       type        query string false "income or expense"
// @Param       from_date   query string false "Earliest date (YYYY-MM-DD)"
// @Param       to_date     query string false "Latest date (YYYY-MM-DD)"
// @Param       min_amount  query string false "Minimum amount"
// @Param       max_amount  query string false "Maximum amount"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	h.listTransactions(c, nil)
}

// GetAccountTransactions lists the transactions of one account
// @Summary     List account transactions
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Account ID"
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Page size (max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Router      /accounts/{id}/transactions [get]
func (h *TransactionHandler) GetAccountTransactions(c *gin.Context) {
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.listTransactions(c, &accountID)
}

func (h *TransactionHandler) listTransactions(c *gin.Context, accountID *string) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, invalidQuery(err))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if accountID != nil {
		filter.AccountID = accountID
	}

	result, err := h.transactionService.GetTransactions(c.Request.Context(), tenantID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("account_id"); v != "" {
		id, err := parseID("account_id", v)
		if err != nil {
			return filter, err
		}
		filter.AccountID = &id
	}

	if v := c.Query("category_id"); v != "" {
		id, err := parseID("category_id", v)
		if err != nil {
			return filter, err
		}
		filter.CategoryID = &id
	}

	if v := c.Query("type"); v != "" {
		txType := models.TransactionType(v)
		if !txType.IsValid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type, must be income or expense")
		}
		filter.Type = &txType
	}

	for _, f := range []struct {
		name string
		dst  **dates.Date
	}{
		{"from_date", &filter.FromDate},
		{"to_date", &filter.ToDate},
	} {
		if v := c.Query(f.name); v != "" {
			d, err := parseOptionalDate(f.name, v)
			if err != nil {
				return filter, err
			}
			*f.dst = &d
		}
	}

	for _, f := range []struct {
		name string
		dst  **decimal.Decimal
	}{
		{"min_amount", &filter.MinAmount},
		{"max_amount", &filter.MaxAmount},
	} {
		if v := c.Query(f.name); v != "" {
			amt, err := decimal.NewFromString(v)
			if err != nil {
				return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+f.name)
			}
			*f.dst = &amt
		}
	}

	return filter, nil
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(c.Request.Context(), tenantID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction applies a partial update and rebalances the accounts
// @Summary     Update a transaction
// @Description Reverses the old effect and applies the new one atomically, across accounts if the account changes
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} models.Transaction "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input, account or category"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	fields := services.TransactionUpdateFields{
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Type != nil {
		txType := models.TransactionType(*req.Type)
		fields.Type = &txType
	}
	if req.Date != nil {
		date, err := parseOptionalDate("date", *req.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
		if !date.IsZero() {
			fields.Date = &date
		}
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request.Context(), tenantID, transactionID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.record(c, events.TransactionUpdated, "UPDATE_TRANSACTION", "transaction", transaction.ID,
		map[string]any{"account_id": transaction.AccountID, "type": transaction.Type, "amount": transaction.Amount})

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles the deletion of a transaction
// @Summary     Delete a transaction
// @Description Reverses the transaction's effect on its account
// @Tags        transactions
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), tenantID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.record(c, events.TransactionDeleted, "DELETE_TRANSACTION", "transaction", transactionID, nil)

	c.Status(http.StatusNoContent)
}
