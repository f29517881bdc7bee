package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/supabase-community/supabase-go"
	"lookframe-server/modules/common/config"
	"lookframe-server/modules/common/model"
)

type Client struct {
	supabase *supabase.Client
}

// NewClient - Database 클라이언트 생성
func NewClient() *Client {
	cfg := config.GetConfig()

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		log.Printf("❌ Failed to create Supabase client: %v", err)
		return nil
	}

	return &Client{
		supabase: supabaseClient,
	}
}

// CreateJob - studio_jobs 레코드 생성
func (c *Client) CreateJob(ctx context.Context, jobID string, userID, sessionID *string, inputData json.RawMessage) error {
	log.Printf("💾 Creating studio job: %s", jobID)

	insertData := map[string]interface{}{
		"job_id":         jobID,
		"user_id":        userID,
		"session_id":     sessionID,
		"job_status":     model.StatusPending,
		"job_input_data": json.RawMessage(inputData),
	}

	_, _, err := c.supabase.From("studio_jobs").
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return fmt.Errorf("failed to insert studio job: %w", err)
	}

	log.Printf("✅ Studio job created: %s", jobID)
	return nil
}

// FetchJob - Supabase에서 Job 데이터 조회
func (c *Client) FetchJob(jobID string) (*model.StudioJob, error) {
	log.Printf("🔍 Fetching job from Supabase: %s", jobID)

	var jobs []model.StudioJob

	data, _, err := c.supabase.From("studio_jobs").
		Select("*", "exact", false).
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query Supabase: %w", err)
	}

	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	job := &jobs[0]
	log.Printf("✅ Job fetched successfully: %s (status: %s)", job.JobID, job.JobStatus)

	return job, nil
}

// UpdateJobStatus - Job 상태 업데이트
func (c *Client) UpdateJobStatus(ctx context.Context, jobID string, status string) error {
	log.Printf("📝 Updating job %s status to: %s", jobID, status)

	updateData := map[string]interface{}{
		"job_status": status,
		"updated_at": "now()",
	}

	if status == model.StatusProcessing {
		updateData["started_at"] = "now()"
	} else if status == model.StatusCompleted || status == model.StatusFailed {
		updateData["completed_at"] = "now()"
	}

	_, _, err := c.supabase.From("studio_jobs").
		Update(updateData, "", "").
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	log.Printf("✅ Job %s status updated to: %s", jobID, status)
	return nil
}

// CompleteJob - 성공한 Job에 결과 기록
func (c *Client) CompleteJob(ctx context.Context, jobID string, assetID string, modelUsed string) error {
	updateData := map[string]interface{}{
		"job_status":      model.StatusCompleted,
		"result_asset_id": assetID,
		"model_used":      modelUsed,
		"completed_at":    "now()",
		"updated_at":      "now()",
	}

	_, _, err := c.supabase.From("studio_jobs").
		Update(updateData, "", "").
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	log.Printf("✅ Job %s completed with asset %s (model: %s)", jobID, assetID, modelUsed)
	return nil
}

// FailJob - 실패한 Job에 에러 메시지 기록
func (c *Client) FailJob(ctx context.Context, jobID string, errMsg string) error {
	updateData := map[string]interface{}{
		"job_status":    model.StatusFailed,
		"error_message": errMsg,
		"completed_at":  "now()",
		"updated_at":    "now()",
	}

	_, _, err := c.supabase.From("studio_jobs").
		Update(updateData, "", "").
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}

	log.Printf("✅ Job %s marked failed: %s", jobID, errMsg)
	return nil
}

// CreateAssetRecord - studio_assets 테이블에 레코드 생성
func (c *Client) CreateAssetRecord(ctx context.Context, asset *model.Asset) error {
	log.Printf("💾 Creating asset record: %s (%s)", asset.AssetID, asset.FilePath)

	insertData := map[string]interface{}{
		"asset_id":       asset.AssetID,
		"user_id":        asset.UserID,
		"file_path":      asset.FilePath,
		"file_size":      asset.FileSize,
		"file_type":      asset.FileType,
		"thumbnail_path": asset.ThumbnailPath,
		"source_model":   asset.SourceModel,
		"tags":           asset.Tags,
	}

	_, _, err := c.supabase.From("studio_assets").
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return fmt.Errorf("failed to insert asset record: %w", err)
	}

	log.Printf("✅ Asset record created: %s", asset.AssetID)
	return nil
}

// FetchAssets - 사용자의 생성 이미지 목록 조회 (최신순)
func (c *Client) FetchAssets(userID string) ([]model.Asset, error) {
	var assets []model.Asset

	data, _, err := c.supabase.From("studio_assets").
		Select("*", "exact", false).
		Eq("user_id", userID).
		Order("created_at", nil).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query studio_assets: %w", err)
	}

	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("failed to parse assets response: %w", err)
	}

	log.Printf("✅ Fetched %d assets for user %s", len(assets), userID)
	return assets, nil
}

// FetchAsset - 단일 asset 조회
func (c *Client) FetchAsset(assetID string) (*model.Asset, error) {
	var assets []model.Asset

	data, _, err := c.supabase.From("studio_assets").
		Select("*", "exact", false).
		Eq("asset_id", assetID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query studio_assets: %w", err)
	}

	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("failed to parse asset response: %w", err)
	}

	if len(assets) == 0 {
		return nil, fmt.Errorf("asset not found: %s", assetID)
	}

	return &assets[0], nil
}

// DeleteAsset - asset 레코드 삭제 (사용자 명시 삭제)
func (c *Client) DeleteAsset(ctx context.Context, assetID string) error {
	_, _, err := c.supabase.From("studio_assets").
		Delete("", "").
		Eq("asset_id", assetID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	log.Printf("🗑️  Asset deleted: %s", assetID)
	return nil
}

// FetchPresets - 사용자의 프리셋 목록 조회
func (c *Client) FetchPresets(userID string) ([]model.Preset, error) {
	var presets []model.Preset

	data, _, err := c.supabase.From("studio_presets").
		Select("*", "exact", false).
		Eq("user_id", userID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query studio_presets: %w", err)
	}

	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("failed to parse presets response: %w", err)
	}

	log.Printf("✅ Fetched %d presets for user %s", len(presets), userID)
	return presets, nil
}

// FetchPreset - 단일 프리셋 조회
func (c *Client) FetchPreset(presetID string) (*model.Preset, error) {
	var presets []model.Preset

	data, _, err := c.supabase.From("studio_presets").
		Select("*", "exact", false).
		Eq("preset_id", presetID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query preset: %w", err)
	}

	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("failed to parse preset response: %w", err)
	}

	if len(presets) == 0 {
		return nil, fmt.Errorf("preset not found: %s", presetID)
	}

	return &presets[0], nil
}

// CreatePreset - 프리셋 저장
func (c *Client) CreatePreset(ctx context.Context, preset *model.Preset) error {
	insertData := map[string]interface{}{
		"preset_id":       preset.PresetID,
		"user_id":         preset.UserID,
		"preset_name":     preset.PresetName,
		"display_mode":    preset.DisplayMode,
		"style":           preset.Style,
		"scene":           preset.Scene,
		"quality":         preset.Quality,
		"aspect_ratio":    preset.AspectRatio,
		"custom_text":     preset.CustomText,
		"model_reference": preset.ModelReference,
		"use_count":       0,
	}

	_, _, err := c.supabase.From("studio_presets").
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return fmt.Errorf("failed to insert preset: %w", err)
	}

	log.Printf("✅ Preset created: %s (%s)", preset.PresetID, preset.PresetName)
	return nil
}

// DeletePreset - 프리셋 삭제
func (c *Client) DeletePreset(ctx context.Context, presetID string) error {
	_, _, err := c.supabase.From("studio_presets").
		Delete("", "").
		Eq("preset_id", presetID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}

	log.Printf("🗑️  Preset deleted: %s", presetID)
	return nil
}

// BumpPresetUsage - 프리셋 적용 시 use_count 증가
func (c *Client) BumpPresetUsage(ctx context.Context, presetID string) error {
	// 1. 현재 use_count 조회
	var presets []struct {
		UseCount int `json:"use_count"`
	}

	data, _, err := c.supabase.From("studio_presets").
		Select("use_count", "", false).
		Eq("preset_id", presetID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to fetch preset use_count: %w", err)
	}

	if err := json.Unmarshal(data, &presets); err != nil {
		return fmt.Errorf("failed to parse preset: %w", err)
	}

	if len(presets) == 0 {
		return fmt.Errorf("preset not found: %s", presetID)
	}

	// 2. use_count + 1, updated_at 갱신
	_, _, err = c.supabase.From("studio_presets").
		Update(map[string]interface{}{
			"use_count":  presets[0].UseCount + 1,
			"updated_at": "now()",
		}, "", "").
		Eq("preset_id", presetID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to bump preset usage: %w", err)
	}

	log.Printf("✅ Preset %s use_count: %d → %d", presetID, presets[0].UseCount, presets[0].UseCount+1)
	return nil
}

// FetchPromptTemplates - 관리자 프롬프트 템플릿 설정 조회 (단일 행)
func (c *Client) FetchPromptTemplates() (json.RawMessage, error) {
	var rows []struct {
		Templates json.RawMessage `json:"templates"`
	}

	data, _, err := c.supabase.From("studio_prompt_templates").
		Select("templates", "", false).
		Eq("config_key", "default").
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query studio_prompt_templates: %w", err)
	}

	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse template config: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rows[0].Templates, nil
}

// SavePromptTemplates - 관리자 프롬프트 템플릿 설정 저장 (전체 교체)
func (c *Client) SavePromptTemplates(ctx context.Context, templates json.RawMessage) error {
	upsertData := map[string]interface{}{
		"config_key": "default",
		"templates":  templates,
		"updated_at": "now()",
	}

	_, _, err := c.supabase.From("studio_prompt_templates").
		Upsert(upsertData, "config_key", "", "").
		Execute()

	if err != nil {
		return fmt.Errorf("failed to save prompt templates: %w", err)
	}

	log.Println("✅ Prompt templates saved")
	return nil
}

// Supabase - 내부 supabase 클라이언트 접근 (credit 모듈용)
func (c *Client) Supabase() *supabase.Client {
	return c.supabase
}
