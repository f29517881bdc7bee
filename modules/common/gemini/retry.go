package gemini

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GenerateContentWithRetry - 429 에러 시 여러 API 키로 재시도하는 헬퍼 함수
// apiKeys: 시도할 API 키 리스트
// model: Gemini 모델명
// 각 키당 최대 3번 재시도, 429가 아닌 에러는 즉시 반환
func GenerateContentWithRetry(
	ctx context.Context,
	apiKeys []string,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {

	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("no API keys provided")
	}

	const maxRetriesPerKey = 3
	var lastErr error

	for keyIndex, apiKey := range apiKeys {
		log.Printf("🔑 [Gemini Retry] Trying API key #%d/%d", keyIndex+1, len(apiKeys))

		for attempt := 1; attempt <= maxRetriesPerKey; attempt++ {
			if attempt > 1 {
				log.Printf("   🔄 Retry attempt %d/%d for key #%d", attempt, maxRetriesPerKey, keyIndex+1)
			}

			// 새 클라이언트 생성
			client, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  apiKey,
				Backend: genai.BackendGeminiAPI,
			})

			if err != nil {
				log.Printf("⚠️  [Gemini Retry] Failed to create client with key #%d (attempt %d): %v", keyIndex+1, attempt, err)
				lastErr = err
				continue
			}

			result, err := client.Models.GenerateContent(ctx, model, contents, config)

			if err == nil {
				log.Printf("✅ [Gemini Retry] Success with API key #%d (attempt %d/%d)", keyIndex+1, attempt, maxRetriesPerKey)
				return result, nil
			}

			lastErr = err

			// 컨텍스트 취소/타임아웃이면 즉시 중단
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			// 429가 아닌 다른 에러면 바로 반환 (재시도 안 함)
			if !is429Error(err) {
				log.Printf("❌ [Gemini Retry] Key #%d failed with non-429 error: %v", keyIndex+1, err)
				return nil, err
			}

			log.Printf("⚠️  [Gemini Retry] Key #%d hit rate limit (429) on attempt %d/%d", keyIndex+1, attempt, maxRetriesPerKey)

			if attempt < maxRetriesPerKey {
				log.Printf("   ⏳ Waiting 2 seconds before retry...")
				time.Sleep(time.Second * 2)
				continue
			}
		}

		log.Printf("⚠️  [Gemini Retry] Key #%d exhausted all %d attempts, trying next key...", keyIndex+1, maxRetriesPerKey)
	}

	return nil, fmt.Errorf("all %d API keys exhausted (3 attempts each), last error: %w", len(apiKeys), lastErr)
}

// is429Error - 429 Rate Limit 에러인지 확인
func is429Error(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(strings.ToLower(errStr), "rate limit") ||
		strings.Contains(strings.ToLower(errStr), "quota")
}
