package recipe

import (
	"context"
	"sort"
	"strings"
	"time"

	"recipe-box/internal/core/account"
	"recipe-box/internal/core/image"
	"recipe-box/internal/infrastructure/cache"
	"recipe-box/internal/pkg/common"

	"go.uber.org/zap"
)

// publicViewKey 公開食譜視圖的快取鍵
const publicViewKey = "public:view"

// savedDateLayout 複製食譜時蓋上的日期格式，與前端 toLocaleDateString 相同
const savedDateLayout = "1/2/2006"

// Service 食譜存儲服務：對帳號內嵌食譜清單的全部操作。
// 每次寫入都是整份清單覆寫，同帳號併發寫入為 last write wins。
type Service struct {
	store   account.Store
	cache   cache.Store     // 可為 nil（快取停用）
	images  *image.Processor
	fetcher *image.Fetcher // 可為 nil（未啟用外部圖片驗證）
}

// Stats 統計資訊
type Stats struct {
	UserRecipes        int `json:"userRecipes"`
	UserPublicRecipes  int `json:"userPublicRecipes"`
	TotalPublicRecipes int `json:"totalPublicRecipes"`
}

// NewService 創建食譜存儲服務
func NewService(store account.Store, cacheStore cache.Store, images *image.Processor, fetcher *image.Fetcher) *Service {
	return &Service{
		store:   store,
		cache:   cacheStore,
		images:  images,
		fetcher: fetcher,
	}
}

// ListOwn 回傳呼叫者的完整食譜清單，不過濾不分頁
func (s *Service) ListOwn(ctx context.Context, accountID string) ([]account.Recipe, error) {
	acc, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return account.CloneRecipes(acc.Recipes), nil
}

// Upsert 新增或更新一筆食譜：同識別碼存在時取代，否則附加到清單尾端
func (s *Service) Upsert(ctx context.Context, accountID string, r account.Recipe) (*account.Recipe, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, common.ErrInvalidRecipe
	}

	if err := s.normalizeImage(ctx, &r); err != nil {
		return nil, err
	}

	acc, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	recipes := account.CloneRecipes(acc.Recipes)
	replaced := false
	for i := range recipes {
		if recipes[i].ID == r.ID {
			recipes[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		recipes = append(recipes, r)
	}

	if err := s.store.ReplaceRecipes(ctx, accountID, recipes); err != nil {
		return nil, err
	}
	s.invalidatePublicView(ctx)

	common.LogInfo("食譜已儲存",
		zap.String("recipe_id", r.ID),
		zap.Bool("replaced", replaced),
		zap.Bool("public", r.IsPublic),
	)

	return &r, nil
}

// BatchReplace 以用戶端提供的完整清單覆寫（單次寫入）。
// 用於前端重新排序後的整批同步，清單順序以用戶端為準。
func (s *Service) BatchReplace(ctx context.Context, accountID string, recipes []account.Recipe) error {
	if _, err := s.store.FindByID(ctx, accountID); err != nil {
		return err
	}

	if err := s.store.ReplaceRecipes(ctx, accountID, recipes); err != nil {
		return err
	}
	s.invalidatePublicView(ctx)

	common.LogInfo("食譜清單已整批覆寫",
		zap.Int("count", len(recipes)),
	)
	return nil
}

// Delete 刪除指定識別碼的食譜。識別碼不存在時同樣回報成功（冪等）。
func (s *Service) Delete(ctx context.Context, accountID, recipeID string) error {
	acc, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		return err
	}

	recipes := make([]account.Recipe, 0, len(acc.Recipes))
	for _, r := range acc.Recipes {
		if r.ID != recipeID {
			recipes = append(recipes, r)
		}
	}

	if err := s.store.ReplaceRecipes(ctx, accountID, recipes); err != nil {
		return err
	}
	s.invalidatePublicView(ctx)
	return nil
}

// ListPublic 掃描所有帳號，收集全部公開食譜並附上作者資訊，
// 依日期新到舊排序。結果會被快取一小段時間，任何寫入都會使其失效。
func (s *Service) ListPublic(ctx context.Context) ([]account.PublicRecipe, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, publicViewKey); err == nil {
			var view []account.PublicRecipe
			if err := common.ParseJSON(cached, &view); err == nil {
				common.LogCacheHit("public_view", publicViewKey)
				return view, nil
			}
		}
		common.LogCacheMiss("public_view", publicViewKey)
	}

	accounts, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}

	view := make([]account.PublicRecipe, 0)
	for _, acc := range accounts {
		for _, r := range acc.Recipes {
			if !r.IsPublic {
				continue
			}
			view = append(view, account.PublicRecipe{
				Recipe:   r,
				Author:   acc.Username,
				AuthorID: acc.ID,
			})
		}
	}

	sort.SliceStable(view, func(i, j int) bool {
		return ParseDate(view[i].Date).After(ParseDate(view[j].Date))
	})

	if s.cache != nil {
		if data, err := common.ToJSON(view); err == nil {
			_ = s.cache.Set(ctx, publicViewKey, data)
		}
	}

	return view, nil
}

// FetchPublicByID 不需登入的單筆公開食譜查詢：線性掃描所有帳號
func (s *Service) FetchPublicByID(ctx context.Context, recipeID string) (*account.PublicRecipe, error) {
	accounts, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}

	for _, acc := range accounts {
		for _, r := range acc.Recipes {
			if r.ID == recipeID && r.IsPublic {
				return &account.PublicRecipe{
					Recipe:   r,
					Author:   acc.Username,
					AuthorID: acc.ID,
				}, nil
			}
		}
	}
	return nil, common.ErrRecipeNotFound
}

// CopyPublic 將他人的公開食譜複製進呼叫者的收藏：
// 來源必須仍為公開，呼叫者不得已持有同識別碼的食譜。
// 複製品取得新識別碼與來源資訊，並強制設為私有；來源食譜不受任何影響。
func (s *Service) CopyPublic(ctx context.Context, callerID, recipeID, authorID string) (*account.Recipe, error) {
	author, err := s.store.FindByID(ctx, authorID)
	if err != nil {
		return nil, common.ErrAccountNotFound.WithMessage("Original recipe author not found")
	}

	var source *account.Recipe
	for i := range author.Recipes {
		if author.Recipes[i].ID == recipeID {
			source = &author.Recipes[i]
			break
		}
	}
	if source == nil || !source.IsPublic {
		return nil, common.ErrRecipeNotFound
	}

	caller, err := s.store.FindByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	for _, r := range caller.Recipes {
		if r.ID == recipeID {
			return nil, common.ErrRecipeExists
		}
	}

	saved := *source
	saved.ID = common.GenerateUUID()
	saved.OriginalID = recipeID
	saved.OriginalAuthor = author.Username
	saved.SavedDate = time.Now().Format(savedDateLayout)
	saved.IsPublic = false

	recipes := append(account.CloneRecipes(caller.Recipes), saved)
	if err := s.store.ReplaceRecipes(ctx, callerID, recipes); err != nil {
		return nil, err
	}

	common.LogInfo("公開食譜已複製",
		zap.String("source_id", recipeID),
		zap.String("author", author.Username),
	)

	return &saved, nil
}

// Stats 呼叫者的食譜數、公開數與全站公開總數
func (s *Service) Stats(ctx context.Context, accountID string) (*Stats, error) {
	acc, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{UserRecipes: len(acc.Recipes)}
	for _, r := range acc.Recipes {
		if r.IsPublic {
			stats.UserPublicRecipes++
		}
	}

	accounts, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		for _, r := range a.Recipes {
			if r.IsPublic {
				stats.TotalPublicRecipes++
			}
		}
	}

	return stats, nil
}

// normalizeImage 伺服器端重新驗證圖片：內嵌 data URL 重新縮放編碼，
// 外部 URL 在啟用驗證時確認可達
func (s *Service) normalizeImage(ctx context.Context, r *account.Recipe) error {
	if r.Image == "" {
		return nil
	}

	if strings.HasPrefix(r.Image, "data:image/") {
		if s.images == nil {
			return nil
		}
		normalized, err := s.images.Normalize(r.Image)
		if err != nil {
			return err
		}
		r.Image = normalized
		return nil
	}

	if s.fetcher != nil {
		return s.fetcher.Validate(ctx, r.Image)
	}
	return nil
}

// invalidatePublicView 寫入後使公開視圖快取失效
func (s *Service) invalidatePublicView(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, publicViewKey); err != nil {
		common.LogWarn("公開視圖快取失效失敗", zap.Error(err))
	}
}
