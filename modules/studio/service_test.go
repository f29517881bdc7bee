package studio

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

const (
	highModel = "gemini-2.5-flash-image"
	fastModel = "gemini-2.0-flash-preview-image-generation"
)

func TestModelForQuality(t *testing.T) {
	assert.Equal(t, highModel, ModelForQuality(Quality4K, highModel, fastModel))
	assert.Equal(t, highModel, ModelForQuality(Quality2K, highModel, fastModel))
	assert.Equal(t, fastModel, ModelForQuality(Quality1K, highModel, fastModel))

	// 알 수 없는 티어는 빠른 모델로
	assert.Equal(t, fastModel, ModelForQuality("", highModel, fastModel))
	assert.Equal(t, fastModel, ModelForQuality("8K", highModel, fastModel))
}

func TestExtractImage(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4E, 0x47}
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: "Here is your image"},
						{InlineData: &genai.Blob{MIMEType: "image/png", Data: raw}},
					},
				},
			},
		},
	}

	got, err := ExtractImage(resp, highModel)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(raw), got)
}

func TestExtractImageNoInlineData(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: "all I have is text"},
					},
				},
			},
		},
	}

	_, err := ExtractImage(resp, fastModel)
	require.Error(t, err)

	var noImage *NoImageGeneratedError
	assert.ErrorAs(t, err, &noImage)
	assert.Contains(t, err.Error(), fastModel)
}

func TestExtractImageEmptyResponse(t *testing.T) {
	var noImage *NoImageGeneratedError

	_, err := ExtractImage(nil, highModel)
	assert.ErrorAs(t, err, &noImage)

	_, err = ExtractImage(&genai.GenerateContentResponse{}, highModel)
	assert.ErrorAs(t, err, &noImage)
}

func TestBuildPartsOrdering(t *testing.T) {
	garment1 := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("garment-one"))
	garment2 := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("garment-two"))
	modelRef := "data:image/webp;base64," + base64.StdEncoding.EncodeToString([]byte("model-ref"))

	parts, err := buildParts("the prompt", []string{garment1, garment2}, modelRef)
	require.NoError(t, err)
	require.Len(t, parts, 4)

	// 텍스트 → 의류 이미지들 → 모델 레퍼런스 순서 고정
	assert.Equal(t, "the prompt", parts[0].Text)
	assert.Equal(t, "image/jpeg", parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte("garment-one"), parts[1].InlineData.Data)
	assert.Equal(t, "image/png", parts[2].InlineData.MIMEType)
	assert.Equal(t, "image/webp", parts[3].InlineData.MIMEType)
	assert.Equal(t, []byte("model-ref"), parts[3].InlineData.Data)
}

func TestBuildPartsWithoutModelRef(t *testing.T) {
	garment := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("only-garment"))

	parts, err := buildParts("p", []string{garment}, "")
	require.NoError(t, err)
	assert.Len(t, parts, 2)
}

func TestBuildPartsRejectsBadDataURL(t *testing.T) {
	_, err := buildParts("p", []string{"https://example.com/not-normalized.png"}, "")
	assert.Error(t, err)
}

func TestParseDataURL(t *testing.T) {
	payload := []byte("hello bytes")
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	mimeType, data, err := ParseDataURL(dataURL)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.Equal(t, payload, data)

	_, _, err = ParseDataURL("https://example.com/a.png")
	assert.Error(t, err)

	_, _, err = ParseDataURL("data:image/png;base64")
	assert.Error(t, err)

	_, _, err = ParseDataURL("data:image/png;base64,not-base64!!!")
	assert.Error(t, err)
}
