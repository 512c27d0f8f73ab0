package account

import (
	"context"
	"strings"
	"sync"
	"time"

	"recipe-box/internal/pkg/common"
)

// MemoryStore 內存帳號存儲，用於開發模式（未設定 MongoDB URI）與測試
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account // key: account ID
}

// NewMemoryStore 建立內存帳號存儲
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*Account),
	}
}

// Create 建立帳號
func (s *MemoryStore) Create(ctx context.Context, acc *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc.Email = strings.ToLower(strings.TrimSpace(acc.Email))
	acc.Username = strings.TrimSpace(acc.Username)

	for _, existing := range s.accounts {
		if existing.Username == acc.Username || existing.Email == acc.Email {
			return common.ErrAccountExists
		}
	}

	if acc.Recipes == nil {
		acc.Recipes = []Recipe{}
	}
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = time.Now()
	}

	stored := *acc
	stored.Recipes = CloneRecipes(acc.Recipes)
	s.accounts[acc.ID] = &stored
	return nil
}

// FindByUsername 依帳號名稱查詢
func (s *MemoryStore) FindByUsername(ctx context.Context, username string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acc := range s.accounts {
		if acc.Username == username {
			return cloneAccount(acc), nil
		}
	}
	return nil, common.ErrAccountNotFound
}

// FindByID 依識別碼查詢
func (s *MemoryStore) FindByID(ctx context.Context, id string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, common.ErrAccountNotFound
	}
	return cloneAccount(acc), nil
}

// ReplaceRecipes 覆寫整份食譜清單
func (s *MemoryStore) ReplaceRecipes(ctx context.Context, accountID string, recipes []Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return common.ErrAccountNotFound
	}
	acc.Recipes = CloneRecipes(recipes)
	return nil
}

// All 列出所有帳號
func (s *MemoryStore) All(ctx context.Context) ([]Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		accounts = append(accounts, *cloneAccount(acc))
	}
	return accounts, nil
}

// Ping 檢查存儲連線
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func cloneAccount(acc *Account) *Account {
	out := *acc
	out.Recipes = CloneRecipes(acc.Recipes)
	return &out
}
