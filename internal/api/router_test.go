package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-box/internal/core/account"
	"recipe-box/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:     "test",
			Debug:   false,
			Version: "test",
			Name:    "recipe-box",
		},
		Server: config.ServerConfig{Port: 3000},
		Auth: config.AuthConfig{
			Secret:    "test-secret",
			TokenTTL:  time.Hour,
			SignupTTL: 24 * time.Hour,
		},
		Image: config.ImageConfig{
			MaxSizeBytes: 10 * 1024 * 1024,
			MaxWidth:     800,
			MaxHeight:    600,
		},
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, *account.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := account.NewMemoryStore()
	router, err := SetupRouter(testConfig(), store, nil)
	require.NoError(t, err)
	return router, store
}

// doJSON 送出 JSON 請求，cookies 為先前回應取得的認證 cookie
func doJSON(router *gin.Engine, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signup(t *testing.T, router *gin.Engine, username string) []*http.Cookie {
	t.Helper()

	body := fmt.Sprintf(`{"username":%q,"email":%q,"password":"hunter22"}`, username, username+"@example.com")
	w := doJSON(router, http.MethodPost, "/api/signup", body, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "註冊成功應設置認證 cookie")
	return cookies
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSignupLoginLogout(t *testing.T) {
	router, _ := newTestRouter(t)

	cookies := signup(t, router, "alice")
	require.NotEmpty(t, cookies)

	// 重複帳號名稱
	w := doJSON(router, http.MethodPost, "/api/signup",
		`{"username":"alice","email":"other@example.com","password":"hunter22"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	// 登入
	w = doJSON(router, http.MethodPost, "/api/auth/login",
		`{"username":"alice","password":"hunter22"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.NotEmpty(t, user["id"])

	// 密碼錯誤與帳號不存在回同一訊息
	w = doJSON(router, http.MethodPost, "/api/auth/login",
		`{"username":"alice","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")

	w = doJSON(router, http.MethodPost, "/api/auth/login",
		`{"username":"ghost","password":"hunter22"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")

	// 缺少欄位
	w = doJSON(router, http.MethodPost, "/api/auth/login", `{"username":"alice"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 登出清除 cookie
	w = doJSON(router, http.MethodPost, "/api/logout", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" {
			assert.Less(t, c.MaxAge, 0)
		}
	}
}

func TestAuthBoundary(t *testing.T) {
	router, store := newTestRouter(t)
	signup(t, router, "alice")

	protected := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/recipes", ""},
		{http.MethodPost, "/api/recipes", `{"recipe":{"id":"x","name":"Sneaky"}}`},
		{http.MethodPost, "/api/recipes/batch", `{"recipes":[]}`},
		{http.MethodDelete, "/api/recipes/x", ""},
		{http.MethodPost, "/api/recipes/save-public", `{"recipeId":"x","authorId":"y"}`},
		{http.MethodGet, "/api/public-recipes", ""},
		{http.MethodGet, "/api/stats", ""},
		{http.MethodGet, "/api/user", ""},
		{http.MethodGet, "/api/user/current", ""},
	}

	for _, tt := range protected {
		// 無 cookie
		w := doJSON(router, tt.method, tt.path, tt.body, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tt.method, tt.path)
		assert.Contains(t, w.Body.String(), "No authentication token")

		// 偽造 cookie
		bad := []*http.Cookie{{Name: "token", Value: "forged.token.value"}}
		w = doJSON(router, tt.method, tt.path, tt.body, bad)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tt.method, tt.path)
		assert.Contains(t, w.Body.String(), "Invalid or expired token")
	}

	// 被拒絕的寫入不得造成任何變更
	accounts, err := store.All(context.Background())
	require.NoError(t, err)
	for _, acc := range accounts {
		assert.Empty(t, acc.Recipes)
	}
}

func TestRecipeCRUDFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	cookies := signup(t, router, "alice")

	// 初始清單為空
	w := doJSON(router, http.MethodGet, "/api/recipes", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	body := parseBody(t, w)
	assert.Empty(t, body["recipes"])

	// 新增
	w = doJSON(router, http.MethodPost, "/api/recipes",
		`{"recipe":{"id":"r1","name":"Pancakes","type":"Breakfast","isPublic":true,"date":"1/5/2024"}}`, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = parseBody(t, w)
	assert.Equal(t, "Recipe saved successfully", body["message"])

	// 更新同識別碼
	w = doJSON(router, http.MethodPost, "/api/recipes",
		`{"recipe":{"id":"r1","name":"Buttermilk Pancakes","type":"Breakfast","date":"1/5/2024"}}`, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/recipes", "", cookies)
	body = parseBody(t, w)
	recipes := body["recipes"].([]any)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Buttermilk Pancakes", recipes[0].(map[string]any)["name"])

	// 格式錯誤
	w = doJSON(router, http.MethodPost, "/api/recipes", `{"recipe":null}`, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid recipe data")

	w = doJSON(router, http.MethodPost, "/api/recipes", `{"recipe":{"id":"r2","name":"  "}}`, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 整批覆寫
	w = doJSON(router, http.MethodPost, "/api/recipes/batch",
		`{"recipes":[{"id":"a","name":"First"},{"id":"b","name":"Second"}]}`, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Recipes saved successfully")

	w = doJSON(router, http.MethodPost, "/api/recipes/batch", `{"recipes":null}`, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid recipes data")

	// 刪除（重複刪除同樣成功）
	w = doJSON(router, http.MethodDelete, "/api/recipes/a", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Recipe deleted successfully")

	w = doJSON(router, http.MethodDelete, "/api/recipes/a", "", cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/recipes", "", cookies)
	body = parseBody(t, w)
	require.Len(t, body["recipes"].([]any), 1)
}

func TestPublicRecipeFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	aliceCookies := signup(t, router, "alice")
	bobCookies := signup(t, router, "bob")

	// alice 發佈一公開一私有
	w := doJSON(router, http.MethodPost, "/api/recipes",
		`{"recipe":{"id":"r1","name":"Shared Pie","type":"Desserts & Sweets","isPublic":true,"date":"1/5/2024"}}`, aliceCookies)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodPost, "/api/recipes",
		`{"recipe":{"id":"r2","name":"Secret Stew","isPublic":false,"date":"2/5/2024"}}`, aliceCookies)
	require.Equal(t, http.StatusOK, w.Code)

	// bob 只看得到公開的那筆，附作者資訊
	w = doJSON(router, http.MethodGet, "/api/public-recipes", "", bobCookies)
	require.Equal(t, http.StatusOK, w.Code)
	body := parseBody(t, w)
	recipes := body["recipes"].([]any)
	require.Len(t, recipes, 1)
	first := recipes[0].(map[string]any)
	assert.Equal(t, "Shared Pie", first["name"])
	assert.Equal(t, "alice", first["author"])
	authorID := first["authorId"].(string)
	require.NotEmpty(t, authorID)

	// 伺服器端類別過濾
	w = doJSON(router, http.MethodGet, "/api/public-recipes?category=dessert", "", bobCookies)
	body = parseBody(t, w)
	assert.Equal(t, float64(1), body["count"])

	w = doJSON(router, http.MethodGet, "/api/public-recipes?category=breakfast", "", bobCookies)
	body = parseBody(t, w)
	assert.Equal(t, float64(0), body["count"])

	// 不需登入的單筆查詢
	w = doJSON(router, http.MethodGet, "/api/public-recipe/r1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Shared Pie")

	w = doJSON(router, http.MethodGet, "/api/public-recipe/r2", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Public recipe not found")

	// bob 收藏公開食譜
	saveBody := fmt.Sprintf(`{"recipeId":"r1","authorId":%q}`, authorID)
	w = doJSON(router, http.MethodPost, "/api/recipes/save-public", saveBody, bobCookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = parseBody(t, w)
	assert.Equal(t, "Recipe saved to your collection!", body["message"])
	saved := body["recipe"].(map[string]any)
	assert.NotEqual(t, "r1", saved["id"])
	assert.Equal(t, "r1", saved["originalId"])
	assert.Equal(t, "alice", saved["originalAuthor"])
	assert.Equal(t, false, saved["isPublic"])

	// 重複收藏
	w = doJSON(router, http.MethodPost, "/api/recipes/save-public", saveBody, bobCookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already in your collection")

	// 作者不存在
	w = doJSON(router, http.MethodPost, "/api/recipes/save-public",
		`{"recipeId":"r1","authorId":"ghost"}`, bobCookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Original recipe author not found")

	// 統計
	w = doJSON(router, http.MethodGet, "/api/stats", "", bobCookies)
	require.Equal(t, http.StatusOK, w.Code)
	body = parseBody(t, w)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["userRecipes"])
	assert.Equal(t, float64(0), stats["userPublicRecipes"])
	assert.Equal(t, float64(1), stats["totalPublicRecipes"])
}

func TestCurrentUserEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)
	cookies := signup(t, router, "alice")

	w := doJSON(router, http.MethodGet, "/api/user/current", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	body := parseBody(t, w)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])

	// 完整帳號資料不得含密碼雜湊
	w = doJSON(router, http.MethodGet, "/api/user", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Contains(t, w.Body.String(), "alice@example.com")
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := doJSON(router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestUnknownRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Not Found")
}

func TestPageRedirectsWithoutAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
