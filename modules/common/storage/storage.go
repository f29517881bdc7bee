package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"lookframe-server/modules/common/config"
	"lookframe-server/modules/common/utils"
)

type Client struct {
	httpClient *http.Client
}

// NewClient - Storage 클라이언트 생성
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Download - Supabase Storage에서 파일 다운로드
func (c *Client) Download(ctx context.Context, filePath string) ([]byte, error) {
	cfg := config.GetConfig()

	fullURL := fmt.Sprintf("%s/%s", cfg.SupabaseStorageBaseURL, filePath)
	log.Printf("📥 Downloading from storage: %s", fullURL)

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("❌ HTTP GET failed: %v", err)
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		log.Printf("❌ Download failed - Status: %d, URL: %s", httpResp.StatusCode, fullURL)
		return nil, fmt.Errorf("failed to download file: status %d, body: %s", httpResp.StatusCode, string(body))
	}

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file data: %w", err)
	}

	log.Printf("✅ Downloaded successfully: %d bytes", len(data))
	return data, nil
}

// UploadGenerated - 생성 이미지를 WebP로 변환해 Storage에 업로드
// 반환: (파일 경로, WebP 크기, 에러)
func (c *Client) UploadGenerated(ctx context.Context, pngData []byte, userID string, assetID string) (string, int64, error) {
	// PNG를 WebP로 변환 (quality: 90)
	webpData, err := utils.ConvertPNGToWebP(pngData, 90.0)
	if err != nil {
		return "", 0, fmt.Errorf("failed to convert PNG to WebP: %w", err)
	}

	fileName := fmt.Sprintf("generated_%s.webp", assetID)
	filePath := fmt.Sprintf("generated-images/user-%s/%s", userID, fileName)

	if err := c.upload(ctx, filePath, webpData, "image/webp"); err != nil {
		return "", 0, err
	}

	webpSize := int64(len(webpData))
	log.Printf("✅ WebP image uploaded successfully: %s (%d bytes)", filePath, webpSize)
	return filePath, webpSize, nil
}

// UploadThumbnail - 리사이즈 완료된 PNG 썸네일 업로드
// 리사이즈는 호출자(worker) 책임, 여기서는 업로드만 한다.
func (c *Client) UploadThumbnail(ctx context.Context, thumbData []byte, userID string, assetID string) (string, error) {
	filePath := fmt.Sprintf("generated-images/user-%s/thumb_%s.png", userID, assetID)
	if err := c.upload(ctx, filePath, thumbData, "image/png"); err != nil {
		return "", err
	}

	log.Printf("✅ Thumbnail uploaded: %s", filePath)
	return filePath, nil
}

// upload - Supabase Storage API로 업로드
func (c *Client) upload(ctx context.Context, filePath string, data []byte, contentType string) error {
	cfg := config.GetConfig()

	uploadURL := fmt.Sprintf("%s/storage/v1/object/attachments/%s", cfg.SupabaseURL, filePath)
	log.Printf("📤 Uploading to storage: %s", filePath)

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+cfg.SupabaseServiceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
