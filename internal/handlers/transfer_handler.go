package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"moneyboard/internal/events"
	"moneyboard/internal/pagination"
	"moneyboard/internal/services"
)

// TransferHandler handles transfers between accounts.
type TransferHandler struct {
	transferService services.TransferServicer
	recorder
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferService services.TransferServicer, auditService services.AuditServicer, publisher events.Publisher) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		recorder:        newRecorder(auditService, publisher),
	}
}

// CreateTransferRequest represents the request payload for creating a transfer.
type CreateTransferRequest struct {
	FromAccountID string          `json:"from_account_id" binding:"required,uuid_id"`
	ToAccountID   string          `json:"to_account_id" binding:"required,uuid_id"`
	Amount        decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Description   string          `json:"description" binding:"max=500"`
	Date          string          `json:"date" binding:"omitempty,iso_date"`
}

// CreateTransfer moves money between two accounts
// @Summary     Create a transfer
// @Description Debit the source and credit the destination atomically
// @Tags        transfers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransferRequest true "Transfer details"
// @Success     201 {object} models.Transfer "Transfer created"
// @Failure     400 {object} ErrorResponse "Invalid input or same account"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /transfers [post]
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransferRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transfer, err := h.transferService.CreateTransfer(c.Request.Context(), tenantID, services.TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Description:   req.Description,
		Date:          date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.record(c, events.TransferCreated, "CREATE_TRANSFER", "transfer", transfer.ID, map[string]any{
		"from_account_id": transfer.FromAccountID,
		"to_account_id":   transfer.ToAccountID,
		"amount":          transfer.Amount,
	})

	c.JSON(http.StatusCreated, gin.H{"transfer": transfer})
}

// GetTransfers lists transfers
// @Summary     List transfers
// @Tags        transfers
// @Produce     json
// @Security    BearerAuth
// @Param       page       query int    false "Page number"
// @Param       page_size  query int    false "Page size (max 100)"
// @Param       account_id query string false "Only transfers touching this account"
// @Success     200 {object} pagination.PageResponse[models.Transfer] "Paginated transfers"
// @Router      /transfers [get]
func (h *TransferHandler) GetTransfers(c *gin.Context) {
	var accountID *string
	if v := c.Query("account_id"); v != "" {
		id, err := parseID("account_id", v)
		if err != nil {
			respondWithError(c, err)
			return
		}
		accountID = &id
	}
	h.listTransfers(c, accountID)
}

// GetAccountTransfers lists the transfers touching one account
// @Summary     List account transfers
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Account ID"
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Page size (max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transfer] "Paginated transfers"
// @Router      /accounts/{id}/transfers [get]
func (h *TransferHandler) GetAccountTransfers(c *gin.Context) {
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.listTransfers(c, &accountID)
}

func (h *TransferHandler) listTransfers(c *gin.Context, accountID *string) {
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

	result, err := h.transferService.GetTransfers(c.Request.Context(), tenantID, page, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransferByID returns one transfer
// @Summary     Get transfer by ID
// @Tags        transfers
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transfer ID"
// @Success     200 {object} models.Transfer "Transfer"
// @Failure     404 {object} ErrorResponse "Transfer not found"
// @Router      /transfers/{id} [get]
func (h *TransferHandler) GetTransferByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transferID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transfer, err := h.transferService.GetTransferByID(c.Request.Context(), tenantID, transferID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transfer": transfer})
}

// DeleteTransfer reverses and deletes a transfer
// @Summary     Delete a transfer
// @Tags        transfers
// @Security    BearerAuth
// @Param       id path string true "Transfer ID"
// @Success     204 "Transfer deleted"
// @Failure     404 {object} ErrorResponse "Transfer not found"
// @Router      /transfers/{id} [delete]
func (h *TransferHandler) DeleteTransfer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transferID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transferService.DeleteTransfer(c.Request.Context(), tenantID, transferID); err != nil {
		respondWithError(c, err)
		return
	}

	h.record(c, events.TransferDeleted, "DELETE_TRANSFER", "transfer", transferID, nil)

	c.Status(http.StatusNoContent)
}
