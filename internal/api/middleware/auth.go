package middleware

import (
	"net/http"

	"recipe-box/internal/core/auth"
	"recipe-box/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CookieName 簽章憑證 cookie 名稱
const CookieName = "token"

// context 中的身分欄位
const (
	ContextUserID   = "userId"
	ContextUsername = "username"
)

// RequireAuth API 認證中間件：從 cookie 取出簽章憑證並驗證，
// 成功時把身分寫入 context，失敗時回 401 JSON 並中止
func RequireAuth(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.ErrorResponse{
				Success: false,
				Message: "No authentication token",
			})
			return
		}

		claims, err := authService.Verify(token)
		if err != nil {
			common.LogWarn("憑證驗證失敗",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.ErrorResponse{
				Success: false,
				Message: "Invalid or expired token",
			})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// RequirePageAuth 頁面認證中間件：未登入時導向登入頁而非回傳 JSON
func RequirePageAuth(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		claims, err := authService.Verify(token)
		if err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// Identity 取出認證中間件寫入的身分。未經認證的路由呼叫時回傳 false。
func Identity(c *gin.Context) (userID, username string, ok bool) {
	id, exists := c.Get(ContextUserID)
	if !exists {
		return "", "", false
	}
	name, _ := c.Get(ContextUsername)
	userID, _ = id.(string)
	username, _ = name.(string)
	return userID, username, userID != ""
}
