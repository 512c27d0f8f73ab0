package cache

import (
	"context"

	"recipe-box/internal/infrastructure/config"
)

// Store 快取存儲介面，快取已組裝完成的公開食譜視圖等序列化內容
type Store interface {
	// Get 讀取快取值，無值或過期時回傳 common.ErrCacheMiss
	Get(ctx context.Context, key string) (string, error)
	// Set 寫入快取值
	Set(ctx context.Context, key, value string) error
	// Delete 移除快取值，寫入後使視圖失效
	Delete(ctx context.Context, key string) error
	// Close 關閉快取
	Close() error
}

// New 依設定選擇快取實作：設定 RedisAddr 時使用 Redis，否則使用內存快取。
// 快取停用時回傳 nil，呼叫端以 nil 判斷略過。
func New(cfg *config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.RedisAddr != "" {
		return NewRedisStore(cfg)
	}
	return NewManager(cfg), nil
}
