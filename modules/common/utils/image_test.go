package utils

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestConvertImageToBase64(t *testing.T) {
	data := []byte{0x89, 0x50, 0x4E, 0x47}

	got := ConvertImageToBase64(data)
	assert.Equal(t, base64.StdEncoding.EncodeToString(data), got)

	decoded, err := base64.StdEncoding.DecodeString(got)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestMakeThumbnailResizesLargeImage(t *testing.T) {
	original := encodePNG(t, 800, 600)

	thumb, err := MakeThumbnail(original, 320)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)

	// 최장변이 maxDim 이하로 줄어야 한다
	assert.LessOrEqual(t, img.Bounds().Dx(), 320)
	assert.LessOrEqual(t, img.Bounds().Dy(), 320)
}

func TestMakeThumbnailKeepsSmallImage(t *testing.T) {
	original := encodePNG(t, 100, 80)

	thumb, err := MakeThumbnail(original, 320)
	require.NoError(t, err)

	// 이미 충분히 작으면 재인코딩 없이 원본 바이트 그대로
	assert.Equal(t, original, thumb)
}

func TestMakeThumbnailRejectsGarbage(t *testing.T) {
	_, err := MakeThumbnail([]byte("not an image"), 320)
	assert.Error(t, err)
}
