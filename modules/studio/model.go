package studio

import (
	"lookframe-server/modules/prompt"
)

// 품질 티어
const (
	Quality1K = "1K"
	Quality2K = "2K"
	Quality4K = "4K"
)

// 지원 비율
var SupportedAspectRatios = map[string]bool{
	"1:1":  true,
	"3:4":  true,
	"4:3":  true,
	"9:16": true,
	"16:9": true,
}

// GenerateRequest - 이미지 생성 요청
type GenerateRequest struct {
	prompt.Params

	// 의류 이미지 (원격 URL 또는 data URL, 1장 이상)
	GarmentImages []string `json:"garmentImages"`

	// 모델 레퍼런스 이미지 (선택, 최대 1장)
	ModelReference string `json:"modelReference,omitempty"`

	// AI가 모델 외형을 자율 결정 (레퍼런스 없이)
	AutoModel bool `json:"autoModel,omitempty"`

	AspectRatio string  `json:"aspectRatio,omitempty"`
	UserID      *string `json:"userId,omitempty"`
	SessionID   *string `json:"sessionId,omitempty"`
}

// GenerateResponse - 생성 요청 접수 응답
type GenerateResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"jobId"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// JobStatusResponse - Job 상태 조회 응답
type JobStatusResponse struct {
	JobID         string  `json:"jobId"`
	Status        string  `json:"status"`
	ResultAssetID *string `json:"resultAssetId,omitempty"`
	ResultURL     *string `json:"resultUrl,omitempty"`
	ModelUsed     *string `json:"modelUsed,omitempty"`
	ErrorMessage  *string `json:"errorMessage,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

// CancelResponse - 취소 요청 응답
type CancelResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"jobId"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ProgressEvent - WebSocket으로 전달되는 진행 상황
type ProgressEvent struct {
	JobID   string `json:"jobId"`
	Status  string `json:"status"`
	Stage   string `json:"stage"`
	Message string `json:"message,omitempty"`
}

// GuestUsage - 게스트 사용량 추적 (Redis JSON)
type GuestUsage struct {
	SessionID   string `json:"session_id"`
	UsedCount   int    `json:"used_count"`
	FirstUsedAt string `json:"first_used_at"`
	LastUsedAt  string `json:"last_used_at"`
}
