package image

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	return NewProcessor(&config.ImageConfig{
		MaxSizeBytes: 10 * 1024 * 1024,
		MaxWidth:     800,
		MaxHeight:    600,
	})
}

// makeDataURL 產生指定尺寸的測試圖片並編碼為 data URL
func makeDataURL(t *testing.T, width, height int, encode func(*bytes.Buffer, image.Image) error, mime string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func encodePNG(buf *bytes.Buffer, img image.Image) error {
	return png.Encode(buf, img)
}

func encodeJPEG(buf *bytes.Buffer, img image.Image) error {
	return jpeg.Encode(buf, img, nil)
}

// decodeDataURL 解回圖片以檢查縮放後的尺寸
func decodeDataURL(t *testing.T, dataURL string) image.Image {
	t.Helper()

	idx := strings.Index(dataURL, ";base64,")
	require.GreaterOrEqual(t, idx, 0)

	raw, err := base64.StdEncoding.DecodeString(dataURL[idx+len(";base64,"):])
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestNormalizeScalesLandscapeToMaxWidth(t *testing.T) {
	p := newTestProcessor(t)

	out, err := p.Normalize(makeDataURL(t, 1600, 900, encodePNG, "image/png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "data:image/jpeg;base64,"))

	img := decodeDataURL(t, out)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 450, img.Bounds().Dy())
}

func TestNormalizeScalesPortraitToMaxHeight(t *testing.T) {
	p := newTestProcessor(t)

	out, err := p.Normalize(makeDataURL(t, 600, 1200, encodePNG, "image/png"))
	require.NoError(t, err)

	img := decodeDataURL(t, out)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestNormalizeReencodesInBoundsPNG(t *testing.T) {
	p := newTestProcessor(t)

	// 邊界內但非 JPEG：尺寸不變，重新編碼為 JPEG
	out, err := p.Normalize(makeDataURL(t, 400, 300, encodePNG, "image/png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "data:image/jpeg;base64,"))

	img := decodeDataURL(t, out)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestNormalizeKeepsInBoundsJPEGUntouched(t *testing.T) {
	p := newTestProcessor(t)

	in := makeDataURL(t, 400, 300, encodeJPEG, "image/jpeg")
	out, err := p.Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestNormalizePassesThroughNonDataURLs(t *testing.T) {
	p := newTestProcessor(t)

	for _, in := range []string{"", "https://example.com/pic.jpg"} {
		out, err := p.Normalize(in)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestNormalizeRejectsMalformedData(t *testing.T) {
	p := newTestProcessor(t)

	_, err := p.Normalize("data:image/png,no-base64-marker")
	assert.ErrorIs(t, err, common.ErrInvalidImageFormat)

	_, err = p.Normalize("data:image/png;base64,@@@not-base64@@@")
	assert.ErrorIs(t, err, common.ErrInvalidImageFormat)

	// base64 合法但不是圖片
	garbage := base64.StdEncoding.EncodeToString([]byte("hello world"))
	_, err = p.Normalize("data:image/png;base64," + garbage)
	assert.ErrorIs(t, err, common.ErrInvalidImageFormat)
}

func TestNormalizeRejectsOversizedPayload(t *testing.T) {
	p := NewProcessor(&config.ImageConfig{
		MaxSizeBytes: 64,
		MaxWidth:     800,
		MaxHeight:    600,
	})

	_, err := p.Normalize(makeDataURL(t, 100, 100, encodePNG, "image/png"))
	assert.ErrorIs(t, err, common.ErrInvalidImageSize)
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{1600, 900, 800, 450},
		{600, 1200, 300, 600},
		{400, 300, 400, 300},
		{800, 600, 800, 600},
		{512, 512, 512, 512},
	}

	for _, tt := range tests {
		w, h := fitWithin(tt.w, tt.h, 800, 600)
		assert.Equal(t, tt.wantW, w)
		assert.Equal(t, tt.wantH, h)
	}
}
