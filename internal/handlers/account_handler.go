package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"moneyboard/internal/events"
	"moneyboard/internal/pagination"
	"moneyboard/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService services.AccountServicer
	recorder
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer, auditService services.AuditServicer, publisher events.Publisher) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		recorder:       newRecorder(auditService, publisher),
	}
}

// CreateAccountRequest represents the request payload for creating an account.
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=100"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Icon           string          `json:"icon" binding:"omitempty,max=50"`
	Color          string          `json:"color" binding:"omitempty,display_color"`
}

// UpdateAccountRequest represents the request payload for updating an
// account. The balance is not editable.
type UpdateAccountRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Icon  *string `json:"icon" binding:"omitempty,max=50"`
	Color *string `json:"color" binding:"omitempty,display_color"`
}

// CreateAccount handles the creation of a new account
// @Summary     Create an account
// @Description Create a new account whose balance starts at the initial balance
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAccountRequest true "Account details"
// @Success     201 {object} models.Account "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAccountRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), tenantID, req.Name, req.InitialBalance, req.Icon, req.Color)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.record(c, events.AccountCreated, "CREATE_ACCOUNT", "account", account.ID,
		map[string]any{"name": account.Name, "initial_balance": account.InitialBalance})

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// GetAccounts lists the tenant's accounts
// @Summary     List accounts
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Page size (max 100)"
// @Success     200 {object} pagination.PageResponse[models.Account] "Paginated accounts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /accounts [get]
func (h *AccountHandler) GetAccounts(c *gin.Context) {
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

	result, err := h.accountService.GetAccounts(c.Request.Context(), tenantID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAccountByID returns one account
// @Summary     Get account by ID
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} models.Account "Account"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccountByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), tenantID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateAccount updates account metadata
// @Summary     Update an account
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Account ID"
// @Param       request body UpdateAccountRequest true "Fields to update"
// @Success     200 {object} models.Account "Account updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAccountRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), tenantID, accountID, services.AccountUpdateFields{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.record(c, events.AccountUpdated, "UPDATE_ACCOUNT", "account", account.ID, nil)

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount removes an unused account
// @Summary     Delete an account
// @Description Accounts referenced by transactions or transfers cannot be deleted
// @Tags        accounts
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     204 "Account deleted"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     409 {object} ErrorResponse "Account in use"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), tenantID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	h.record(c, events.AccountDeleted, "DELETE_ACCOUNT", "account", accountID, nil)

	c.Status(http.StatusNoContent)
}

// ReconcileAccount compares the stored balance with the ledger
// @Summary     Reconcile an account
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} services.Reconciliation "Reconciliation report"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id}/reconcile [get]
func (h *AccountHandler) ReconcileAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.accountService.ReconcileAccount(c.Request.Context(), tenantID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reconciliation": result, "consistent": result.Consistent()})
}
