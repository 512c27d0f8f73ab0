package recipe

import (
	"net/http"

	"recipe-box/internal/api/middleware"
	"recipe-box/internal/core/account"
	recipeService "recipe-box/internal/core/recipe"
	"recipe-box/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SavePublicRequest 複製公開食譜請求
type SavePublicRequest struct {
	RecipeID string `json:"recipeId"`
	AuthorID string `json:"authorId"`
}

// HandlePublicList 回傳全站公開食譜，附作者資訊、日期新到舊。
// 可重複帶 category 查詢參數做伺服器端類別過濾（過濾規則與前端相同）。
func (h *Handler) HandlePublicList(c *gin.Context) {
	view, err := h.service.ListPublic(c.Request.Context())
	if err != nil {
		common.LogError("讀取公開食譜失敗",
			zap.Error(err),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
		)
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Success: false,
			Message: "Error fetching public recipes",
		})
		return
	}

	if categories := c.QueryArray("category"); len(categories) > 0 {
		filtered := make([]account.PublicRecipe, 0, len(view))
		for _, r := range view {
			for _, cat := range categories {
				if recipeService.MatchesCategory(r.Type, cat) {
					filtered = append(filtered, r)
					break
				}
			}
		}
		view = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"recipes": view,
		"count":   len(view),
	})
}

// HandlePublicByID 不需登入的單筆公開食譜查詢
func (h *Handler) HandlePublicByID(c *gin.Context) {
	found, err := h.service.FetchPublicByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(common.StatusOf(err), common.ErrorResponse{
			Success: false,
			Message: common.MessageOf(err),
		})
		return
	}

	c.JSON(http.StatusOK, found)
}

// HandleSavePublic 將他人的公開食譜複製進呼叫者的收藏
func (h *Handler) HandleSavePublic(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)

	var req SavePublicRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RecipeID == "" || req.AuthorID == "" {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Success: false,
			Message: "Invalid request",
		})
		return
	}

	saved, err := h.service.CopyPublic(c.Request.Context(), userID, req.RecipeID, req.AuthorID)
	if err != nil {
		common.LogWarn("複製公開食譜失敗",
			zap.Error(err),
			zap.String("recipe_id", req.RecipeID),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
		)
		c.JSON(common.StatusOf(err), common.ErrorResponse{
			Success: false,
			Message: common.MessageOf(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Recipe saved to your collection!",
		"recipe":  saved,
	})
}

// HandleStats 呼叫者與全站的食譜統計
func (h *Handler) HandleStats(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)

	stats, err := h.service.Stats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(common.StatusOf(err), common.ErrorResponse{
			Success: false,
			Message: "Error fetching statistics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}
