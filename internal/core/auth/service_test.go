package auth

import (
	"context"
	"testing"
	"time"

	"recipe-box/internal/core/account"
	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) *Service {
	t.Helper()
	return NewService(account.NewMemoryStore(), &config.AuthConfig{
		Secret:    "test-secret",
		TokenTTL:  time.Hour,
		SignupTTL: 24 * time.Hour,
	})
}

func TestSignupAndLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	acc, err := svc.Signup(ctx, "alice", "Alice@Example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, "alice", acc.Username)
	assert.Equal(t, "alice@example.com", acc.Email, "信箱一律轉為小寫")
	assert.NotEqual(t, "hunter22", acc.Password, "密碼必須雜湊後存儲")
	assert.NotNil(t, acc.Recipes)

	logged, err := svc.Login(ctx, "alice", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, logged.ID)
}

func TestSignupValidation(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"帳號名稱太短", "ab", "a@example.com", "hunter22"},
		{"帳號名稱太長", "abcdefghijklmnopqrstu", "a@example.com", "hunter22"},
		{"信箱缺少 @", "alice", "not-an-email", "hunter22"},
		{"信箱為空", "alice", "", "hunter22"},
		{"密碼太短", "alice", "a@example.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.username, tt.email, tt.password)
			require.Error(t, err)
			assert.Equal(t, 400, common.StatusOf(err))
		})
	}
}

func TestSignupDuplicate(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "alice", "other@example.com", "hunter22")
	assert.ErrorIs(t, err, common.ErrAccountExists)

	_, err = svc.Signup(ctx, "alice2", "alice@example.com", "hunter22")
	assert.ErrorIs(t, err, common.ErrAccountExists)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	// 帳號不存在與密碼錯誤回報相同錯誤
	_, err = svc.Login(ctx, "nobody", "hunter22")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestIssueAndVerifyToken(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	acc, err := svc.Signup(ctx, "alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	token, ttl, err := svc.IssueLoginToken(acc)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	_, _, err = svc.IssueSignupToken(acc)
	require.NoError(t, err)
}
