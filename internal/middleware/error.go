package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "moneyboard/internal/errors"
	"moneyboard/internal/logger"
)

// ErrorHandler renders the last error recorded on the gin context as
// {"error":{"code","message"}}. Anything that is not an *AppError becomes
// INTERNAL_ERROR; internal causes only reach the log.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			appErr = apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		logAppError(c, appErr)
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
	}
}

// logAppError logs storage failures and anything carrying a cause at error
// level. Client errors without a cause stay at debug.
func logAppError(c *gin.Context, appErr *apperrors.AppError) {
	fields := []any{
		"code", appErr.Code,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetString(RequestIDKey),
	}
	if tenantID := c.GetString(TenantIDKey); tenantID != "" {
		fields = append(fields, "tenant_id", tenantID)
	}

	log := logger.Named("http")
	if appErr.Internal == nil && appErr.Kind != apperrors.KindStorage {
		log.Debugw(appErr.Message, fields...)
		return
	}
	if appErr.Internal != nil {
		fields = append(fields, "internal", appErr.Internal.Error())
	}
	log.Errorw(appErr.Message, fields...)
}
