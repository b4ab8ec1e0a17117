package service

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
)

// AuthService gates the admin queue endpoints with a shared TOTP secret —
// there is no per-user session here, just a single operator credential,
// so the check is a stateless code validation on every mutating request
// rather than a login/cookie flow.
type AuthService struct {
	logger     *zap.Logger
	totpSecret string
}

func NewAuthService(logger *zap.Logger, totpSecret string) *AuthService {
	return &AuthService{logger: logger, totpSecret: totpSecret}
}

func (a *AuthService) ValidateToken(token string) bool {
	valid := totp.Validate(token, a.totpSecret)
	if !valid {
		a.logger.Warn("TOTP token validation failed")
	}
	return valid
}

// RequireTOTP gates the route behind the X-TOTP-Code header. Read-only
// endpoints (queue status, health) are never wrapped with this.
func (a *AuthService) RequireTOTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.totpSecret == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin auth not configured"})
			c.Abort()
			return
		}

		token := c.GetHeader("X-TOTP-Code")
		if token == "" || !a.ValidateToken(token) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing TOTP code"})
			c.Abort()
			return
		}

		c.Next()
	}
}
