package model

import (
	"encoding/json"
	"time"
)

// StudioJob - studio_jobs 테이블 구조
type StudioJob struct {
	JobID         string          `json:"job_id"`
	UserID        *string         `json:"user_id"`
	SessionID     *string         `json:"session_id"`
	JobStatus     string          `json:"job_status"`
	JobInputData  json.RawMessage `json:"job_input_data"`
	ResultAssetID *string         `json:"result_asset_id"`
	ModelUsed     *string         `json:"model_used"`
	ErrorMessage  *string         `json:"error_message"`
	RetryCount    int             `json:"retry_count"`
	CreatedAt     time.Time       `json:"created_at"`
	StartedAt     *time.Time      `json:"started_at"`
	CompletedAt   *time.Time      `json:"completed_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Asset - studio_assets 테이블 구조 (생성 결과 이미지)
type Asset struct {
	AssetID       string    `json:"asset_id"`
	UserID        string    `json:"user_id"`
	FilePath      string    `json:"file_path"`
	FileSize      int64     `json:"file_size"`
	FileType      string    `json:"file_type"`
	ThumbnailPath *string   `json:"thumbnail_path"`
	SourceModel   *string   `json:"source_model"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
}

// Preset - studio_presets 테이블 구조 (저장된 생성 설정)
type Preset struct {
	PresetID       string    `json:"preset_id"`
	UserID         string    `json:"user_id"`
	PresetName     string    `json:"preset_name"`
	DisplayMode    string    `json:"display_mode"`
	Style          string    `json:"style"`
	Scene          string    `json:"scene"`
	Quality        string    `json:"quality"`
	AspectRatio    string    `json:"aspect_ratio"`
	CustomText     string    `json:"custom_text"`
	ModelReference string    `json:"model_reference"`
	UseCount       int       `json:"use_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Job status constants
const (
	StatusPending       = "pending"
	StatusProcessing    = "processing"
	StatusUploading     = "uploading"
	StatusCompleted     = "completed"
	StatusFailed        = "failed"
	StatusUserCancelled = "user_cancelled"
)
