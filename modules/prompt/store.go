package prompt

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"lookframe-server/modules/common/database"
)

const templateCacheKey = "prompt:templates"

// Store - 관리자 템플릿 설정 로더/세이버
// 설정은 Supabase 단일 행에 통으로 저장되고 (전체 교체, 필드 단위 수정 없음)
// 짧은 TTL로 인메모리 캐시된다.
type Store struct {
	db    *database.Client
	cache *gocache.Cache
}

// NewStore - 템플릿 Store 생성
func NewStore(db *database.Client) *Store {
	return &Store{
		db:    db,
		cache: gocache.New(time.Minute, 5*time.Minute),
	}
}

// Load - 현재 유효한 템플릿 세트 반환
// 저장된 설정이 없거나 필드가 누락되면 기본 템플릿으로 백필한다.
func (s *Store) Load(ctx context.Context) TemplateSet {
	if cached, found := s.cache.Get(templateCacheKey); found {
		return cached.(TemplateSet)
	}

	set := DefaultTemplateSet()

	raw, err := s.db.FetchPromptTemplates()
	if err != nil {
		log.Printf("⚠️  Failed to load prompt templates, using defaults: %v", err)
	} else if raw != nil {
		var stored TemplateSet
		if err := json.Unmarshal(raw, &stored); err != nil {
			log.Printf("⚠️  Failed to parse stored prompt templates, using defaults: %v", err)
		} else {
			set = stored.Backfill()
		}
	}

	s.cache.Set(templateCacheKey, set, gocache.DefaultExpiration)
	return set
}

// Save - 관리자 템플릿 저장 (검증 후 전체 교체, 캐시 무효화)
func (s *Store) Save(ctx context.Context, set TemplateSet) error {
	if err := set.Validate(); err != nil {
		return fmt.Errorf("invalid template set: %w", err)
	}

	raw, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal template set: %w", err)
	}

	if err := s.db.SavePromptTemplates(ctx, raw); err != nil {
		return err
	}

	s.cache.Delete(templateCacheKey)
	log.Println("✅ Prompt templates updated, cache invalidated")
	return nil
}
