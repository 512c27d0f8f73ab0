package image

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif"
	_ "image/png"

	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

const jpegQuality = 80

// Processor 圖片處理器：驗證內嵌 data URL 圖片並縮放至邊界內。
// 用戶端送出前已經縮過一次，伺服器端仍重新驗證與限制，不信任用戶端。
type Processor struct {
	maxWidth  int
	maxHeight int
	maxBytes  int64
}

// NewProcessor 創建圖片處理器
func NewProcessor(cfg *config.ImageConfig) *Processor {
	return &Processor{
		maxWidth:  cfg.MaxWidth,
		maxHeight: cfg.MaxHeight,
		maxBytes:  cfg.MaxSizeBytes,
	}
}

// Normalize 正規化食譜圖片欄位。
// data URL 會被解碼、限制大小、必要時縮放並重新編碼為 JPEG；
// 其他值（外部 URL 或空字串）原樣回傳。
func (p *Processor) Normalize(imageData string) (string, error) {
	if imageData == "" || !strings.HasPrefix(imageData, "data:image/") {
		return imageData, nil
	}

	idx := strings.Index(imageData, ";base64,")
	if idx < 0 {
		return "", common.ErrInvalidImageFormat
	}

	encoded := imageData[idx+len(";base64,"):]
	if int64(len(encoded)) > p.maxBytes*4/3+4 {
		return "", common.ErrInvalidImageSize
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", common.ErrInvalidImageFormat
	}
	if int64(len(raw)) > p.maxBytes {
		return "", common.ErrInvalidImageSize
	}

	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", common.ErrInvalidImageFormat
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	newWidth, newHeight := fitWithin(width, height, p.maxWidth, p.maxHeight)

	// 已在邊界內且原本就是 JPEG 時不重新編碼
	if newWidth == width && newHeight == height && format == "jpeg" {
		return imageData, nil
	}

	dst := src
	if newWidth != width || newHeight != height {
		scaled := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)
		dst = scaled

		common.LogImageProcessing("info", "圖片已縮放",
			zap.Int("原始寬度", width),
			zap.Int("原始高度", height),
			zap.Int("縮放後寬度", newWidth),
			zap.Int("縮放後高度", newHeight),
		)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", err
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// fitWithin 計算縮放後的尺寸，維持長寬比。
// 與前端 compressImage 相同的規則：橫圖以寬度為準，直圖以高度為準。
func fitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width > height {
		if width > maxWidth {
			return maxWidth, height * maxWidth / width
		}
	} else {
		if height > maxHeight {
			return width * maxHeight / height, maxHeight
		}
	}
	return width, height
}
