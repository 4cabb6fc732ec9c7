package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"moneyboard/internal/dates"
	apperrors "moneyboard/internal/errors"
	"moneyboard/internal/events"
	"moneyboard/internal/models"
	"moneyboard/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	recorder
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer, publisher events.Publisher) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		recorder:      newRecorder(auditService, publisher),
	}
}

// CreateBudgetItemRequest represents the request payload for creating a budget item.
type CreateBudgetItemRequest struct {
	CategoryID string          `json:"category_id" binding:"required,uuid_id"`
	Value      decimal.Decimal `json:"value" binding:"required,gt=0"`
	Type       string          `json:"type" binding:"required,budget_item_type"`
}

// UpdateBudgetItemRequest represents the request payload for updating a budget item.
type UpdateBudgetItemRequest struct {
	Value *decimal.Decimal `json:"value" binding:"omitempty,gt=0"`
	Type  *string          `json:"type" binding:"omitempty,budget_item_type"`
}

// CreateBudgetItem handles the creation of a new budget item.
// @Summary     Create a budget item
// @Description Plan a fixed amount or a percentage of monthly income for a category
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetItemRequest true "Budget item details"
// @Success     201 {object} models.BudgetItem "Budget item created"
// @Failure     400 {object} ErrorResponse "Invalid input or category"
// @Failure     409 {object} ErrorResponse "Category already budgeted"
// @Router      /budget/items [post]
func (h *BudgetHandler) CreateBudgetItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetItemRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	item, err := h.budgetService.CreateBudgetItem(c.Request.Context(), tenantID, req.CategoryID, req.Value, models.BudgetItemType(req.Type))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.record(c, events.BudgetItemCreated, "CREATE_BUDGET_ITEM", "budget_item", item.ID,
		map[string]any{"category_id": item.CategoryID, "value": item.Value, "type": item.Type})

	c.JSON(http.StatusCreated, gin.H{"budget_item": item})
}

// GetBudgetItems lists the tenant's budget items.
// @Summary     List budget items
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.BudgetItem "Budget items"
// @Router      /budget/items [get]
func (h *BudgetHandler) GetBudgetItems(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	items, err := h.budgetService.GetBudgetItems(c.Request.Context(), tenantID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_items": items})
}

// GetBudgetItemByID returns one budget item.
// @Summary     Get budget item by ID
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget item ID"
// @Success     200 {object} models.BudgetItem "Budget item"
// @Failure     404 {object} ErrorResponse "Budget item not found"
// @Router      /budget/items/{id} [get]
func (h *BudgetHandler) GetBudgetItemByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	item, err := h.budgetService.GetBudgetItemByID(c.Request.Context(), tenantID, itemID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_item": item})
}

// UpdateBudgetItem changes the value or type of a budget item.
// @Summary     Update a budget item
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Budget item ID"
// @Param       request body UpdateBudgetItemRequest true "Fields to update"
// @Success     200 {object} models.BudgetItem "Budget item updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget item not found"
// @Router      /budget/items/{id} [put]
func (h *BudgetHandler) UpdateBudgetItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetItemRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	var itemType *models.BudgetItemType
	if req.Type != nil {
		t := models.BudgetItemType(*req.Type)
		itemType = &t
	}

	item, err := h.budgetService.UpdateBudgetItem(c.Request.Context(), tenantID, itemID, req.Value, itemType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.record(c, events.BudgetItemUpdated, "UPDATE_BUDGET_ITEM", "budget_item", item.ID,
		map[string]any{"value": item.Value, "type": item.Type})

	c.JSON(http.StatusOK, gin.H{"budget_item": item})
}

// DeleteBudgetItem removes a budget item.
// @Summary     Delete a budget item
// @Tags        budget
// @Security    BearerAuth
// @Param       id path string true "Budget item ID"
// @Success     204 "Budget item deleted"
// @Failure     404 {object} ErrorResponse "Budget item not found"
// @Router      /budget/items/{id} [delete]
func (h *BudgetHandler) DeleteBudgetItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudgetItem(c.Request.Context(), tenantID, itemID); err != nil {
		respondWithError(c, err)
		return
	}

	h.record(c, events.BudgetItemDeleted, "DELETE_BUDGET_ITEM", "budget_item", itemID, nil)

	c.Status(http.StatusNoContent)
}

type budgetSummaryQuery struct {
	Month string `form:"month" binding:"omitempty,iso_month"`
}

// GetBudgetSummary evaluates the budget for one month.
// @Summary     Get budget summary
// @Description Planned and spent amounts per budget item; spending counts the category and its descendants
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month (YYYY-MM), defaults to the current month"
// @Success     200 {object} services.BudgetSummary "Budget summary"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Router      /budget/summary [get]
func (h *BudgetHandler) GetBudgetSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q budgetSummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidQuery(err))
		return
	}

	month := dates.Today().FirstOfMonth()
	if q.Month != "" {
		if month, err = dates.ParseMonth(q.Month); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid month, use YYYY-MM"))
			return
		}
	}

	summary, err := h.budgetService.GetBudgetSummary(c.Request.Context(), tenantID, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
