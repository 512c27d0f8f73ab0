package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap 返回原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// WithMessage 以相同代碼與狀態碼建立帶新訊息的錯誤
func (e *CustomError) WithMessage(message string) *CustomError {
	return &CustomError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
	}
}

// StatusOf 取得錯誤對應的 HTTP 狀態碼，非 CustomError 一律視為 500
func StatusOf(err error) int {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Status
	}
	return http.StatusInternalServerError
}

// MessageOf 取得可回傳給用戶端的錯誤訊息，內部錯誤不外洩細節
func MessageOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return "Server error"
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest = "INVALID_REQUEST" // 400
	ErrCodeUnauthorized   = "UNAUTHORIZED"    // 401
	ErrCodeForbidden      = "FORBIDDEN"       // 403
	ErrCodeNotFound       = "NOT_FOUND"       // 404
	ErrCodeConflict       = "CONFLICT"        // 原始實作以 400 回報重複帳號與重複收藏

	// 服務器錯誤 (5xx)
	ErrCodeInternalError = "INTERNAL_ERROR" // 500
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest = NewError(ErrCodeInvalidRequest, "Invalid request", http.StatusBadRequest, nil)
	ErrUnauthorized   = NewError(ErrCodeUnauthorized, "No authentication token", http.StatusUnauthorized, nil)
	ErrForbidden      = NewError(ErrCodeForbidden, "Forbidden", http.StatusForbidden, nil)
	ErrNotFound       = NewError(ErrCodeNotFound, "Not found", http.StatusNotFound, nil)

	// 服務器錯誤
	ErrInternalError = NewError(ErrCodeInternalError, "Server error", http.StatusInternalServerError, nil)

	// 業務錯誤
	ErrInvalidCredentials = NewError(ErrCodeUnauthorized, "Invalid credentials", http.StatusUnauthorized, nil)
	ErrInvalidToken       = NewError(ErrCodeUnauthorized, "Invalid or expired token", http.StatusUnauthorized, nil)
	ErrAccountNotFound    = NewError(ErrCodeNotFound, "User not found", http.StatusNotFound, nil)
	ErrAccountExists      = NewError(ErrCodeConflict, "Username or email already exists", http.StatusBadRequest, nil)
	ErrRecipeNotFound     = NewError(ErrCodeNotFound, "Public recipe not found", http.StatusNotFound, nil)
	ErrRecipeExists       = NewError(ErrCodeConflict, "Recipe already in your collection", http.StatusBadRequest, nil)
	ErrInvalidRecipe      = NewError(ErrCodeInvalidRequest, "Invalid recipe data", http.StatusBadRequest, nil)
	ErrInvalidImageFormat = NewError("INVALID_IMAGE_FORMAT", "Invalid image format", http.StatusBadRequest, nil)
	ErrInvalidImageSize   = NewError("INVALID_IMAGE_SIZE", "Image too large", http.StatusBadRequest, nil)
	ErrCacheDisabled      = NewError("CACHE_DISABLED", "Cache disabled", http.StatusServiceUnavailable, nil)
	ErrCacheMiss          = NewError("CACHE_MISS", "Cache miss", http.StatusNotFound, nil)
)
