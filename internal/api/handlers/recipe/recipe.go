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

// UpsertRequest 新增/更新食譜請求
type UpsertRequest struct {
	Recipe *account.Recipe `json:"recipe"`
}

// BatchRequest 整批覆寫請求，recipes 必須為陣列
type BatchRequest struct {
	Recipes *[]account.Recipe `json:"recipes"`
}

// Handler 食譜處理程序
type Handler struct {
	service *recipeService.Service
}

// NewHandler 創建食譜處理程序
func NewHandler(service *recipeService.Service) *Handler {
	return &Handler{service: service}
}

// HandleList 回傳呼叫者的完整食譜清單
func (h *Handler) HandleList(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)

	recipes, err := h.service.ListOwn(c.Request.Context(), userID)
	if err != nil {
		common.LogError("讀取食譜清單失敗",
			zap.Error(err),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
		)
		c.JSON(common.StatusOf(err), common.ErrorResponse{
			Success: false,
			Message: common.MessageOf(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// HandleUpsert 新增或更新一筆食譜
func (h *Handler) HandleUpsert(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)

	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Recipe == nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Success: false,
			Message: "Invalid recipe data",
		})
		return
	}

	stored, err := h.service.Upsert(c.Request.Context(), userID, *req.Recipe)
	if err != nil {
		common.LogError("儲存食譜失敗",
			zap.Error(err),
			zap.String("recipe_id", req.Recipe.ID),
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
		"message": "Recipe saved successfully",
		"recipe":  stored,
	})
}

// HandleBatch 以完整清單整批覆寫
func (h *Handler) HandleBatch(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)

	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Recipes == nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Success: false,
			Message: "Invalid recipes data",
		})
		return
	}

	if err := h.service.BatchReplace(c.Request.Context(), userID, *req.Recipes); err != nil {
		common.LogError("整批覆寫失敗",
			zap.Error(err),
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
		"message": "Recipes saved successfully",
	})
}

// HandleDelete 刪除指定食譜，識別碼不存在時同樣回報成功
func (h *Handler) HandleDelete(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	recipeID := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), userID, recipeID); err != nil {
		common.LogError("刪除食譜失敗",
			zap.Error(err),
			zap.String("recipe_id", recipeID),
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
		"message": "Recipe deleted successfully",
	})
}
