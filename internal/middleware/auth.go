package middleware

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "moneyboard/internal/errors"
)

const (
	// TenantIDKey and UserIDKey are the gin context keys set by AuthMiddleware.
	TenantIDKey = "tenantID"
	UserIDKey   = "userID"

	tokenIssuer = "moneyboard-api"
)

// JWTClaims represents the claims in the JWT. The tenant claim scopes every
// request; the user claim is only recorded in audit logs.
type JWTClaims struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs an HS256 access token for a tenant user.
func GenerateAccessToken(secret string, ttl time.Duration, tenantID, userID string) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		TenantID: tenantID,
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken validates a token and returns its claims.
func ParseAccessToken(secret, tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}
	if claims.TenantID == "" {
		return nil, fmt.Errorf("access token has no tenant")
	}
	return claims, nil
}

// AuthMiddleware verifies the bearer token and stores the tenant and user in
// the context. Failures are left to ErrorHandler.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		claims, err := ParseAccessToken(secret, parts[1])
		if err != nil {
			abortWithError(c, apperrors.Wrap(
				apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"), err))
			return
		}

		c.Set(TenantIDKey, claims.TenantID)
		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// AdminAuthMiddleware guards operator routes with the X-API-Key header.
func AdminAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrForbidden, "Admin endpoints are not configured"))
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or missing API key"))
			return
		}
		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
