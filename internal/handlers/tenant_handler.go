package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneyboard/internal/errors"
	"moneyboard/internal/events"
	"moneyboard/internal/logger"
	"moneyboard/internal/middleware"
	"moneyboard/internal/services"
	"moneyboard/internal/uuid"
)

// TenantHandler serves the current tenant and the admin provisioning endpoints.
type TenantHandler struct {
	tenantService  services.TenantServicer
	accountService services.AccountServicer
	jwtSecret      string
	tokenTTL       time.Duration
	recorder
}

// NewTenantHandler creates a new TenantHandler. Tokens issued on tenant
// creation are signed with jwtSecret and expire after tokenTTL.
func NewTenantHandler(tenantService services.TenantServicer, accountService services.AccountServicer, auditService services.AuditServicer, publisher events.Publisher, jwtSecret string, tokenTTL time.Duration) *TenantHandler {
	return &TenantHandler{
		tenantService:  tenantService,
		accountService: accountService,
		jwtSecret:      jwtSecret,
		tokenTTL:       tokenTTL,
		recorder:       newRecorder(auditService, publisher),
	}
}

// CreateTenantRequest represents the request payload for provisioning a tenant.
type CreateTenantRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// GetCurrentTenant returns the authenticated tenant
// @Summary     Get current tenant
// @Tags        tenant
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Tenant "Tenant"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Tenant not found"
// @Router      /tenant [get]
func (h *TenantHandler) GetCurrentTenant(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tenant, err := h.tenantService.GetTenantByID(c.Request.Context(), tenantID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tenant": tenant})
}

// CreateTenant provisions a tenant and issues its first access token
// @Summary     Create a tenant
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    AdminKey
// @Param       request body CreateTenantRequest true "Tenant details"
// @Success     201 {object} map[string]interface{} "Tenant and access token"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid admin key"
// @Failure     409 {object} ErrorResponse "Tenant already exists"
// @Router      /admin/tenants [post]
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req CreateTenantRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	userID := uuid.New()
	token, err := middleware.GenerateAccessToken(h.jwtSecret, h.tokenTTL, tenant.ID, userID)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.Set(middleware.TenantIDKey, tenant.ID)
	c.Set(middleware.UserIDKey, userID)
	h.record(c, events.TenantCreated, "CREATE_TENANT", "tenant", tenant.ID,
		map[string]any{"name": tenant.Name, "slug": tenant.Slug})

	c.JSON(http.StatusCreated, gin.H{
		"tenant":       tenant,
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int64(h.tokenTTL.Seconds()),
	})
}

// ReconcileAll checks every account of every tenant against its ledger
// @Summary     Reconcile all accounts
// @Description Lists the accounts whose stored balance drifted from the ledger
// @Tags        admin
// @Produce     json
// @Security    AdminKey
// @Success     200 {object} map[string]interface{} "Accounts checked and drifted accounts"
// @Failure     401 {object} ErrorResponse "Invalid admin key"
// @Router      /admin/reconcile [get]
func (h *TenantHandler) ReconcileAll(c *gin.Context) {
	results, err := h.accountService.ReconcileAll(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	drifted := make([]services.Reconciliation, 0)
	for _, r := range results {
		if !r.Consistent() {
			drifted = append(drifted, r)
		}
	}
	if len(drifted) > 0 {
		logger.Get().Warnw("balance drift detected", "accounts", len(drifted))
	}

	c.JSON(http.StatusOK, gin.H{
		"checked": len(results),
		"drifted": drifted,
	})
}
