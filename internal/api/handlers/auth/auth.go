package auth

import (
	"net/http"
	"time"

	"recipe-box/internal/api/middleware"
	"recipe-box/internal/core/account"
	coreauth "recipe-box/internal/core/auth"
	"recipe-box/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoginRequest 登入請求
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest 註冊請求
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserInfo 回傳給用戶端的帳號資訊
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Handler 認證處理程序
type Handler struct {
	service      *coreauth.Service
	store        account.Store
	cookieSecure bool
}

// NewHandler 創建認證處理程序
func NewHandler(service *coreauth.Service, store account.Store, cookieSecure bool) *Handler {
	return &Handler{
		service:      service,
		store:        store,
		cookieSecure: cookieSecure,
	}
}

// setAuthCookie 設置簽章憑證 cookie：HTTP-only、SameSite=Strict
func (h *Handler) setAuthCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.CookieName, token, int(ttl.Seconds()), "/", "", h.cookieSecure, true)
}

// HandleLogin 登入：驗證帳密並簽發 24 小時憑證
func (h *Handler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Success: false,
			Message: "Username and password are required",
		})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Success: false,
			Message: "Username and password are required",
		})
		return
	}

	acc, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(common.StatusOf(err), common.ErrorResponse{
			Success: false,
			Message: common.MessageOf(err),
		})
		return
	}

	token, ttl, err := h.service.IssueLoginToken(acc)
	if err != nil {
		common.LogError("憑證簽發失敗", zap.Error(err))
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Success: false,
			Message: "Server error during login",
		})
		return
	}

	h.setAuthCookie(c, token, ttl)

	common.LogInfo("登入成功",
		zap.String("username", acc.Username),
		zap.String("ip", c.ClientIP()),
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": UserInfo{
			ID:       acc.ID,
			Username: acc.Username,
		},
	})
}

// HandleSignup 註冊：建立帳號並簽發 7 天憑證
func (h *Handler) HandleSignup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Success: false,
			Message: "Invalid request",
		})
		return
	}

	acc, err := h.service.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		c.JSON(common.StatusOf(err), common.ErrorResponse{
			Success: false,
			Message: common.MessageOf(err),
		})
		return
	}

	token, ttl, err := h.service.IssueSignupToken(acc)
	if err != nil {
		common.LogError("憑證簽發失敗", zap.Error(err))
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Success: false,
			Message: "Server error",
		})
		return
	}

	h.setAuthCookie(c, token, ttl)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account created successfully",
	})
}

// HandleLogout 登出：清除憑證 cookie
func (h *Handler) HandleLogout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.CookieName, "", -1, "/", "", h.cookieSecure, true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

// HandleCurrentUser 回傳目前登入者的識別碼與帳號名稱
func (h *Handler) HandleCurrentUser(c *gin.Context) {
	userID, _, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, common.ErrorResponse{
			Success: false,
			Message: "No authentication token",
		})
		return
	}

	acc, err := h.store.FindByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(common.StatusOf(err), common.ErrorResponse{
			Success: false,
			Message: common.MessageOf(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": UserInfo{
			ID:       acc.ID,
			Username: acc.Username,
		},
	})
}

// HandleUser 回傳完整帳號資料（密碼雜湊不序列化）
func (h *Handler) HandleUser(c *gin.Context) {
	userID, _, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, common.ErrorResponse{
			Success: false,
			Message: "No authentication token",
		})
		return
	}

	acc, err := h.store.FindByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(common.StatusOf(err), common.ErrorResponse{
			Success: false,
			Message: common.MessageOf(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": acc})
}
