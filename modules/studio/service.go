package studio

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"google.golang.org/genai"

	"lookframe-server/modules/common/config"
	"lookframe-server/modules/common/credit"
	"lookframe-server/modules/common/database"
	"lookframe-server/modules/common/gemini"
	redisutil "lookframe-server/modules/common/redis"
	"lookframe-server/modules/common/storage"
	"lookframe-server/modules/common/utils"
	"lookframe-server/modules/prompt"
)

const guestUsageKeyPrefix = "guest:usage:"

// Service - 이미지 생성 파이프라인의 핵심 로직
type Service struct {
	cfg        *config.Config
	rdb        *goredis.Client
	db         *database.Client
	storage    *storage.Client
	credit     *credit.Client
	normalizer *ImageNormalizer
	templates  *prompt.Store
}

func NewService(
	cfg *config.Config,
	rdb *goredis.Client,
	db *database.Client,
	st *storage.Client,
	cr *credit.Client,
	templates *prompt.Store,
) *Service {
	return &Service{
		cfg:        cfg,
		rdb:        rdb,
		db:         db,
		storage:    st,
		credit:     cr,
		normalizer: NewImageNormalizer(),
		templates:  templates,
	}
}

// ModelForQuality - 품질 티어에 따른 모델 선택.
// 4K/2K는 고품질 모델, 그 외(1K)는 빠른 모델.
func ModelForQuality(quality, highFidelityModel, fastModel string) string {
	switch quality {
	case Quality4K, Quality2K:
		return highFidelityModel
	default:
		return fastModel
	}
}

func (s *Service) modelForQuality(quality string) string {
	return ModelForQuality(quality, s.cfg.GeminiModel, s.cfg.GeminiModelFast)
}

// buildParts - API 요청 파트 조립. 순서 고정: 텍스트 → 의류 이미지들 → 모델 레퍼런스 (최대 1장)
func buildParts(promptText string, garments []string, modelRef string) ([]*genai.Part, error) {
	parts := []*genai.Part{genai.NewPartFromText(promptText)}

	for _, dataURL := range garments {
		mimeType, data, err := ParseDataURL(dataURL)
		if err != nil {
			return nil, fmt.Errorf("invalid garment image: %w", err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, mimeType))
	}

	if modelRef != "" {
		mimeType, data, err := ParseDataURL(modelRef)
		if err != nil {
			return nil, fmt.Errorf("invalid model reference image: %w", err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, mimeType))
	}

	return parts, nil
}

// ExtractImage - 응답의 첫 번째 후보에서 이미지 데이터 추출.
// 이미지가 없으면 NoImageGeneratedError.
func ExtractImage(result *genai.GenerateContentResponse, model string) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", &NoImageGeneratedError{Model: model}
	}

	for _, part := range result.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			encoded := utils.ConvertImageToBase64(part.InlineData.Data)
			return "data:image/png;base64," + encoded, nil
		}
	}

	return "", &NoImageGeneratedError{Model: model}
}

// GenerateImage - 프롬프트 빌드 → 이미지 정규화 → API 호출 → 결과 추출.
// 반환값은 (결과 data URL, 사용된 모델, 에러)
func (s *Service) GenerateImage(ctx context.Context, jobID string, req *GenerateRequest) (string, string, error) {
	templateSet := s.templates.Load(ctx)

	promptText := prompt.BuildPrompt(req.Params, templateSet)
	log.Printf("📝 [Studio] Job %s prompt built (%d chars)", jobID, len(promptText))

	garments, err := s.normalizer.NormalizeAll(ctx, req.GarmentImages)
	if err != nil {
		return "", "", err
	}

	modelRef := ""
	if req.ModelReference != "" {
		modelRef, err = s.normalizer.Normalize(ctx, req.ModelReference)
		if err != nil {
			return "", "", err
		}
	}

	parts, err := buildParts(promptText, garments, modelRef)
	if err != nil {
		return "", "", err
	}

	model := s.modelForQuality(req.Quality)
	genConfig := s.buildGenerateConfig(req)

	contents := []*genai.Content{{Parts: parts}}

	log.Printf("🎯 [Studio] Job %s calling model %s (%d parts)", jobID, model, len(parts))
	result, err := gemini.GenerateContentWithRetry(ctx, s.cfg.GeminiAPIKeys, model, contents, genConfig)
	if err != nil {
		return "", model, err
	}

	dataURL, err := ExtractImage(result, model)
	if err != nil {
		return "", model, err
	}

	return dataURL, model, nil
}

func (s *Service) buildGenerateConfig(req *GenerateRequest) *genai.GenerateContentConfig {
	aspectRatio := req.AspectRatio
	if aspectRatio == "" {
		aspectRatio = "3:4"
	}

	imageConfig := &genai.ImageConfig{AspectRatio: aspectRatio}
	if req.Quality == Quality2K || req.Quality == Quality4K {
		imageConfig.ImageSize = req.Quality
	}

	return &genai.GenerateContentConfig{
		ImageConfig: imageConfig,
	}
}

// IsJobCancelled - Redis 취소 플래그 확인 (cancel.StatusUpdater 구현)
func (s *Service) IsJobCancelled(jobID string) bool {
	return redisutil.IsJobCancelled(s.rdb, jobID)
}

// UpdateJobStatus - Job 상태 갱신 (cancel.StatusUpdater 구현)
func (s *Service) UpdateJobStatus(ctx context.Context, jobID string, status string) error {
	return s.db.UpdateJobStatus(ctx, jobID, status)
}

// CancelJob - 취소 플래그 설정
func (s *Service) CancelJob(jobID string) error {
	return redisutil.SetJobCancelled(s.rdb, jobID)
}

// CheckGuestLimit - 게스트 세션의 남은 생성 횟수 확인
func (s *Service) CheckGuestLimit(ctx context.Context, sessionID string) (bool, int, error) {
	key := guestUsageKeyPrefix + sessionID

	val, err := s.rdb.Get(ctx, key).Result()
	if err == goredis.Nil {
		return true, s.cfg.MaxGuestGenerations, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to check guest usage: %w", err)
	}

	var usage GuestUsage
	if err := json.Unmarshal([]byte(val), &usage); err != nil {
		log.Printf("⚠️ [Studio] Corrupt guest usage for %s, resetting: %v", sessionID, err)
		return true, s.cfg.MaxGuestGenerations, nil
	}

	remaining := s.cfg.MaxGuestGenerations - usage.UsedCount
	if remaining < 0 {
		remaining = 0
	}
	return remaining > 0, remaining, nil
}

// IncrementGuestUsage - 게스트 사용량 증가 (24시간 TTL)
func (s *Service) IncrementGuestUsage(ctx context.Context, sessionID string) error {
	key := guestUsageKeyPrefix + sessionID
	now := time.Now().UTC().Format(time.RFC3339)

	usage := GuestUsage{SessionID: sessionID, UsedCount: 0, FirstUsedAt: now}

	val, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		if jsonErr := json.Unmarshal([]byte(val), &usage); jsonErr != nil {
			usage = GuestUsage{SessionID: sessionID, UsedCount: 0, FirstUsedAt: now}
		}
	} else if err != goredis.Nil {
		return fmt.Errorf("failed to read guest usage: %w", err)
	}

	usage.UsedCount++
	usage.LastUsedAt = now

	data, err := json.Marshal(usage)
	if err != nil {
		return err
	}

	return s.rdb.Set(ctx, key, data, 24*time.Hour).Err()
}
