package image

import (
	"context"
	"strings"
	"time"

	"recipe-box/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Fetcher 遠端圖片驗證器：食譜圖片引用外部 URL 時，
// 以 HEAD 請求確認該 URL 回應為圖片內容
type Fetcher struct {
	client *resty.Client
}

// NewFetcher 創建遠端圖片驗證器
func NewFetcher(timeout time.Duration) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0) // 驗證失敗即回報，不重試

	return &Fetcher{client: client}
}

// Validate 驗證外部圖片 URL
func (f *Fetcher) Validate(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return common.ErrInvalidImageFormat
	}

	resp, err := f.client.R().SetContext(ctx).Head(url)
	if err != nil {
		common.LogWarn("外部圖片驗證失敗",
			zap.String("url", url),
			zap.Error(err),
		)
		return common.ErrInvalidImageFormat.WithMessage("Image URL is unreachable")
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return common.ErrInvalidImageFormat.WithMessage("Image URL is unreachable")
	}

	contentType := resp.Header().Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return common.ErrInvalidImageFormat.WithMessage("URL does not point to an image")
	}

	return nil
}
