package auth

import (
	"context"
	"strings"
	"time"

	"recipe-box/internal/core/account"
	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// Service 認證服務：註冊、登入與 token 簽發
type Service struct {
	store account.Store
	cfg   *config.AuthConfig
}

// NewService 創建認證服務
func NewService(store account.Store, cfg *config.AuthConfig) *Service {
	return &Service{
		store: store,
		cfg:   cfg,
	}
}

// Signup 建立帳號。帳號名稱 3~20 字、密碼至少 6 字，信箱一律轉為小寫。
func (s *Service) Signup(ctx context.Context, username, email, password string) (*account.Account, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if len(username) < 3 || len(username) > 20 {
		return nil, common.ErrInvalidRequest.WithMessage("Username must be 3-20 characters")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, common.ErrInvalidRequest.WithMessage("A valid email is required")
	}
	if len(password) < 6 {
		return nil, common.ErrInvalidRequest.WithMessage("Password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	acc := &account.Account{
		ID:        common.GenerateUUID(),
		Username:  username,
		Email:     email,
		Password:  string(hash),
		Recipes:   []account.Recipe{},
		CreatedAt: time.Now(),
	}

	if err := s.store.Create(ctx, acc); err != nil {
		return nil, err
	}

	common.LogInfo("帳號建立成功",
		zap.String("username", username),
	)

	return acc, nil
}

// Login 驗證帳號密碼。帳號不存在與密碼錯誤一律回報相同錯誤。
func (s *Service) Login(ctx context.Context, username, password string) (*account.Account, error) {
	if username == "" || password == "" {
		return nil, common.ErrInvalidRequest.WithMessage("Username and password are required")
	}

	acc, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.Password), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	return acc, nil
}

// IssueLoginToken 簽發登入 token（預設 24 小時）
func (s *Service) IssueLoginToken(acc *account.Account) (string, time.Duration, error) {
	token, err := GenerateToken(acc.ID, acc.Username, []byte(s.cfg.Secret), s.cfg.TokenTTL)
	return token, s.cfg.TokenTTL, err
}

// IssueSignupToken 簽發註冊 token（預設 7 天）
func (s *Service) IssueSignupToken(acc *account.Account) (string, time.Duration, error) {
	token, err := GenerateToken(acc.ID, acc.Username, []byte(s.cfg.Secret), s.cfg.SignupTTL)
	return token, s.cfg.SignupTTL, err
}

// Verify 驗證 token 並取回身分
func (s *Service) Verify(tokenString string) (*Claims, error) {
	return ParseToken(tokenString, []byte(s.cfg.Secret))
}
