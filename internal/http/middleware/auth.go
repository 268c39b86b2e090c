package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/21haoxingxiu/core/internal/http/dto"
	"github.com/21haoxingxiu/core/internal/http/resp"
)

const (
	ContextUserID = "auth.user_id"

	adminUserID = "admin"
)

// BearerAuth marks requests carrying the admin token as authenticated. It
// never rejects; use RequireAdmin on routes that need it.
func BearerAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		given, ok := strings.CutPrefix(header, "Bearer ")
		if ok && subtle.ConstantTimeCompare([]byte(given), []byte(token)) == 1 {
			c.Set(ContextUserID, adminUserID)
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticated, _ := Identity(c); !authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Code: resp.CodeUnauthorized, Message: "admin token required"})
			return
		}
		c.Next()
	}
}

// Identity reports whether BearerAuth authenticated the request and as whom.
func Identity(c *gin.Context) (bool, string) {
	userID := c.GetString(ContextUserID)
	return userID != "", userID
}
