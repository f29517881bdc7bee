package studio

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lookframe-server/modules/common/utils"
)

// ImageNormalizer - 입력 이미지를 base64 data URL로 정규화
type ImageNormalizer struct {
	httpClient *http.Client
}

func NewImageNormalizer() *ImageNormalizer {
	return &ImageNormalizer{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// NewImageNormalizerWithClient - 테스트용 HTTP 클라이언트 주입
func NewImageNormalizerWithClient(client *http.Client) *ImageNormalizer {
	return &ImageNormalizer{httpClient: client}
}

// Normalize - 원격 URL은 다운로드하여 data URL로 변환, 이미 data URL이면 그대로 반환 (멱등)
func (n *ImageNormalizer) Normalize(ctx context.Context, source string) (string, error) {
	if strings.HasPrefix(source, "data:") {
		return source, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", &FetchError{URL: source, Err: err}
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{URL: source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{URL: source, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: source, Err: err}
	}

	mimeType := resp.Header.Get("Content-Type")
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	encoded := utils.ConvertImageToBase64(data)
	return fmt.Sprintf("data:%s;base64,%s", mimeType, encoded), nil
}

// NormalizeAll - 이미지 목록 전체 정규화. 하나라도 실패하면 에러.
func (n *ImageNormalizer) NormalizeAll(ctx context.Context, sources []string) ([]string, error) {
	normalized := make([]string, 0, len(sources))
	for _, src := range sources {
		dataURL, err := n.Normalize(ctx, src)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, dataURL)
	}
	return normalized, nil
}

// ParseDataURL - data URL에서 MIME 타입과 raw 바이트 추출
func ParseDataURL(dataURL string) (string, []byte, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", nil, fmt.Errorf("not a data URL")
	}

	comma := strings.Index(dataURL, ",")
	if comma < 0 {
		return "", nil, fmt.Errorf("malformed data URL: missing comma")
	}

	meta := dataURL[len("data:"):comma]
	mimeType := strings.TrimSuffix(meta, ";base64")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	data, err := base64.StdEncoding.DecodeString(dataURL[comma+1:])
	if err != nil {
		return "", nil, fmt.Errorf("malformed data URL: %w", err)
	}

	return mimeType, data, nil
}
