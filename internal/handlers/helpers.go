package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"moneyboard/internal/dates"
	apperrors "moneyboard/internal/errors"
	"moneyboard/internal/events"
	"moneyboard/internal/logger"
	"moneyboard/internal/middleware"
	"moneyboard/internal/services"
	"moneyboard/internal/uuid"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// getTenantID extracts the authenticated tenant from the Gin context.
// Returns ErrUnauthorized if not present.
func getTenantID(c *gin.Context) (string, error) {
	tenantID := c.GetString(middleware.TenantIDKey)
	if tenantID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return tenantID, nil
}

// parsePathID reads a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
func parsePathID(c *gin.Context, param string) (string, error) {
	return parseID(param, c.Param(param))
}

func parseID(field, value string) (string, error) {
	if !uuid.IsValid(value) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+field)
	}
	return value, nil
}

// parseOptionalDate parses a YYYY-MM-DD value; an empty value yields the
// zero Date.
func parseOptionalDate(field, value string) (dates.Date, error) {
	if value == "" {
		return dates.Date{}, nil
	}
	d, err := dates.Parse(value)
	if err != nil {
		return dates.Date{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+field+", use YYYY-MM-DD")
	}
	return d, nil
}

// bindJSON binds the request body, mapping binding failures to ErrInvalidInput.
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return nil
}

// invalidQuery maps query binding failures to ErrInvalidInput.
func invalidQuery(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// recorder writes the audit trail and publishes an event once a mutation
// has committed. Neither step can fail the request.
type recorder struct {
	audit     services.AuditServicer
	publisher events.Publisher
}

func newRecorder(audit services.AuditServicer, publisher events.Publisher) recorder {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return recorder{audit: audit, publisher: publisher}
}

func (r recorder) record(c *gin.Context, eventType, action, resourceType, resourceID string, changes map[string]any) {
	tenantID := c.GetString(middleware.TenantIDKey)
	if r.audit != nil {
		r.audit.Log(tenantID, c.GetString(middleware.UserIDKey), action, resourceType, resourceID, c.ClientIP(), changes)
	}

	ctx := context.WithoutCancel(c.Request.Context())
	if err := r.publisher.Publish(ctx, events.New(eventType, tenantID, resourceID)); err != nil {
		logger.Get().Warnw("failed to publish event",
			"error", err,
			"type", eventType,
			"tenant_id", tenantID,
			"resource_id", resourceID,
		)
	}
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorDetail{
			Code:    appErr.Code,
			Message: appErr.Message,
		}})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, ErrorResponse{Error: ErrorDetail{
		Code:    apperrors.ErrInternalServer.Code,
		Message: apperrors.ErrInternalServer.Message,
	}})
}
