package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"moneyboard/internal/dates"
	"moneyboard/internal/events"
	"moneyboard/internal/models"
	"moneyboard/internal/pagination"
	"moneyboard/internal/services"
)

// PayableHandler handles bills and their payment.
type PayableHandler struct {
	payableService services.PayableServicer
	recorder
}

// NewPayableHandler creates a new PayableHandler.
func NewPayableHandler(payableService services.PayableServicer, auditService services.AuditServicer, publisher events.Publisher) *PayableHandler {
	return &PayableHandler{
		payableService: payableService,
		recorder:       newRecorder(auditService, publisher),
	}
}

// CreatePayableRequest represents the request payload for creating a payable.
type CreatePayableRequest struct {
	Description       string          `json:"description" binding:"required,min=1,max=255"`
	Amount            decimal.Decimal `json:"amount" binding:"required,gt=0"`
	DueDate           string          `json:"due_date" binding:"required,iso_date"`
	CategoryID        string          `json:"category_id" binding:"required,uuid_id"`
	IsRecurring       bool            `json:"is_recurring"`
	TotalInstallments *int            `json:"total_installments" binding:"omitempty,min=1"`
	Notes             string          `json:"notes" binding:"max=1000"`
}

// UpdatePayableRequest represents the request payload for updating a
// payable. Only notes can change once the payable is paid or cancelled.
type UpdatePayableRequest struct {
	Description            *string          `json:"description" binding:"omitempty,min=1,max=255"`
	Amount                 *decimal.Decimal `json:"amount" binding:"omitempty,gt=0"`
	DueDate                *string          `json:"due_date" binding:"omitempty,iso_date"`
	CategoryID             *string          `json:"category_id" binding:"omitempty,uuid_id"`
	IsRecurring            *bool            `json:"is_recurring"`
	TotalInstallments      *int             `json:"total_installments" binding:"omitempty,min=1"`
	ClearTotalInstallments bool             `json:"clear_total_installments"`
	Notes                  *string          `json:"notes" binding:"omitempty,max=1000"`
}

// PayPayableRequest selects the paying account.
type PayPayableRequest struct {
	AccountID   string `json:"account_id" binding:"required,uuid_id"`
	PaymentDate string `json:"payment_date" binding:"omitempty,iso_date"`
}

// payableQuery holds the list filters.
type payableQuery struct {
	Status    string `form:"status" binding:"omitempty,payable_status"`
	DueBefore string `form:"due_before" binding:"omitempty,iso_date"`
}

// CreatePayable handles the creation of a new payable
// @Summary     Create a payable
// @Tags        payables
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePayableRequest true "Payable details"
// @Success     201 {object} models.Payable "Payable created"
// @Failure     400 {object} ErrorResponse "Invalid input, category or installments"
// @Router      /payables [post]
func (h *PayableHandler) CreatePayable(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePayableRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	dueDate, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	payable, err := h.payableService.CreatePayable(c.Request.Context(), tenantID, services.PayableInput{
		Description:       req.Description,
		Amount:            req.Amount,
		DueDate:           dueDate,
		CategoryID:        req.CategoryID,
		IsRecurring:       req.IsRecurring,
		TotalInstallments: req.TotalInstallments,
		Notes:             req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.record(c, events.PayableCreated, "CREATE_PAYABLE", "payable", payable.ID,
		map[string]any{"amount": payable.Amount, "due_date": payable.DueDate.String(), "is_recurring": payable.IsRecurring})

	c.JSON(http.StatusCreated, gin.H{"payable": payable})
}

// GetPayables lists payables, pending ones first
// @Summary     List payables
// @Tags        payables
// @Produce     json
// @Security    BearerAuth
// @Param       page       query int    false "Page number"
// @Param       page_size  query int    false "Page size (max 100)"
// @Param       status     query string false "pending, paid or cancelled"
// @Param       due_before query string false "Only payables due on or before this date (YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[models.Payable] "Paginated payables"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Router      /payables [get]
func (h *PayableHandler) GetPayables(c *gin.Context) {
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
	var q payableQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidQuery(err))
		return
	}

	var filter services.PayableFilter
	if q.Status != "" {
		status := models.PayableStatus(q.Status)
		filter.Status = &status
	}
	if q.DueBefore != "" {
		d, err := parseOptionalDate("due_before", q.DueBefore)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.DueBefore = &d
	}

	result, err := h.payableService.GetPayables(c.Request.Context(), tenantID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPayableByID returns one payable
// @Summary     Get payable by ID
// @Tags        payables
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Payable ID"
// @Success     200 {object} models.Payable "Payable"
// @Failure     404 {object} ErrorResponse "Payable not found"
// @Router      /payables/{id} [get]
func (h *PayableHandler) GetPayableByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	payableID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	payable, err := h.payableService.GetPayableByID(c.Request.Context(), tenantID, payableID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payable": payable})
}

// UpdatePayable applies a partial update
// @Summary     Update a payable
// @Tags        payables
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Payable ID"
// @Param       request body UpdatePayableRequest true "Fields to update"
// @Success     200 {object} models.Payable "Payable updated"
// @Failure     400 {object} ErrorResponse "Invalid input or payable not editable"
// @Failure     404 {object} ErrorResponse "Payable not found"
// @Router      /payables/{id} [put]
func (h *PayableHandler) UpdatePayable(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	payableID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePayableRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	fields := services.PayableUpdateFields{
		Description:            req.Description,
		Amount:                 req.Amount,
		CategoryID:             req.CategoryID,
		IsRecurring:            req.IsRecurring,
		TotalInstallments:      req.TotalInstallments,
		ClearTotalInstallments: req.ClearTotalInstallments,
		Notes:                  req.Notes,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		d, err := parseOptionalDate("due_date", *req.DueDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
		fields.DueDate = &d
	}

	payable, err := h.payableService.UpdatePayable(c.Request.Context(), tenantID, payableID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.record(c, events.PayableUpdated, "UPDATE_PAYABLE", "payable", payable.ID, nil)

	c.JSON(http.StatusOK, gin.H{"payable": payable})
}

// DeletePayable deletes a pending payable
// @Summary     Delete a payable
// @Tags        payables
// @Security    BearerAuth
// @Param       id path string true "Payable ID"
// @Success     204 "Payable deleted"
// @Failure     404 {object} ErrorResponse "Payable not found"
// @Failure     409 {object} ErrorResponse "Payable already processed"
// @Router      /payables/{id} [delete]
func (h *PayableHandler) DeletePayable(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	payableID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.payableService.DeletePayable(c.Request.Context(), tenantID, payableID); err != nil {
		respondWithError(c, err)
		return
	}

	h.record(c, events.PayableDeleted, "DELETE_PAYABLE", "payable", payableID, nil)

	c.Status(http.StatusNoContent)
}

// CancelPayable marks a pending payable as cancelled
// @Summary     Cancel a payable
// @Tags        payables
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Payable ID"
// @Success     200 {object} models.Payable "Payable cancelled"
// @Failure     404 {object} ErrorResponse "Payable not found"
// @Failure     409 {object} ErrorResponse "Payable already processed"
// @Router      /payables/{id}/cancel [post]
func (h *PayableHandler) CancelPayable(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	payableID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	payable, err := h.payableService.CancelPayable(c.Request.Context(), tenantID, payableID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.record(c, events.PayableCancelled, "CANCEL_PAYABLE", "payable", payable.ID, nil)

	c.JSON(http.StatusOK, gin.H{"payable": payable})
}

// PayPayable pays a pending payable from an account
// @Summary     Pay a payable
// @Description Books an expense on the account, marks the payable paid and schedules the next installment of a recurring payable, all atomically
// @Tags        payables
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Payable ID"
// @Param       request body PayPayableRequest true "Payment details"
// @Success     200 {object} services.PaymentResult "Payment result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Payable or account not found"
// @Failure     409 {object} ErrorResponse "Payable already processed"
// @Router      /payables/{id}/pay [post]
func (h *PayableHandler) PayPayable(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	payableID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PayPayableRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	in := services.PaymentInput{AccountID: req.AccountID}
	if req.PaymentDate != "" {
		var d dates.Date
		if d, err = parseOptionalDate("payment_date", req.PaymentDate); err != nil {
			respondWithError(c, err)
			return
		}
		in.PaymentDate = &d
	}

	result, err := h.payableService.PayPayable(c.Request.Context(), tenantID, payableID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.record(c, events.TransactionCreated, "CREATE_TRANSACTION", "transaction", result.TransactionID,
		map[string]any{"account_id": req.AccountID, "payable_id": payableID})
	changes := map[string]any{"account_id": req.AccountID, "transaction_id": result.TransactionID}
	if result.Next != nil {
		changes["next_payable_id"] = result.Next.ID
	}
	h.record(c, events.PayablePaid, "PAY_PAYABLE", "payable", payableID, changes)

	c.JSON(http.StatusOK, result)
}
