package studio

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	goredis "github.com/redis/go-redis/v9"

	"lookframe-server/modules/common/config"
	"lookframe-server/modules/common/database"
	"lookframe-server/modules/common/model"
	"lookframe-server/modules/prompt"
)

// JobQueueKey - 생성 Job 대기열
const JobQueueKey = "studio:jobs:queue"

type Handler struct {
	cfg     *config.Config
	rdb     *goredis.Client
	db      *database.Client
	service *Service
}

func NewHandler(cfg *config.Config, rdb *goredis.Client, db *database.Client, service *Service) *Handler {
	return &Handler{cfg: cfg, rdb: rdb, db: db, service: service}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/studio/generate", h.HandleGenerate).Methods("POST")
	r.HandleFunc("/studio/jobs/{jobId}", h.HandleJobStatus).Methods("GET")
	r.HandleFunc("/studio/jobs/{jobId}/cancel", h.HandleCancel).Methods("POST")
}

// HandleGenerate - 생성 요청 접수. 검증 후 Job을 큐에 넣고 202 반환.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sanitizeModelOptions(&req)

	ctx := r.Context()

	// 게스트는 세션별 사용량 제한, 회원은 크레딧 확인
	if req.UserID == nil || *req.UserID == "" {
		if req.SessionID == nil || *req.SessionID == "" {
			writeError(w, http.StatusBadRequest, "sessionId is required for guest requests")
			return
		}

		allowed, remaining, err := h.service.CheckGuestLimit(ctx, *req.SessionID)
		if err != nil {
			log.Printf("❌ [Studio] Guest limit check failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to check usage limit")
			return
		}
		if !allowed {
			writeError(w, http.StatusForbidden, "guest generation limit reached")
			return
		}
		log.Printf("👀 [Studio] Guest %s has %d generations remaining", *req.SessionID, remaining)
	} else {
		sufficient, err := h.service.credit.HasSufficientCredit(*req.UserID)
		if err != nil {
			log.Printf("❌ [Studio] Credit check failed for %s: %v", *req.UserID, err)
			writeError(w, http.StatusInternalServerError, "failed to check credit")
			return
		}
		if !sufficient {
			writeError(w, http.StatusPaymentRequired, "insufficient credit")
			return
		}
	}

	jobID := uuid.New().String()

	inputData, err := json.Marshal(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to serialize request")
		return
	}

	if err := h.db.CreateJob(ctx, jobID, req.UserID, req.SessionID, inputData); err != nil {
		log.Printf("❌ [Studio] Failed to create job record: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	if err := h.rdb.LPush(ctx, JobQueueKey, jobID).Err(); err != nil {
		log.Printf("❌ [Studio] Failed to enqueue job %s: %v", jobID, err)
		h.db.FailJob(context.Background(), jobID, "failed to enqueue")
		writeError(w, http.StatusInternalServerError, "failed to enqueue job")
		return
	}

	if req.UserID == nil || *req.UserID == "" {
		if err := h.service.IncrementGuestUsage(ctx, *req.SessionID); err != nil {
			log.Printf("⚠️ [Studio] Failed to increment guest usage: %v", err)
		}
	}

	log.Printf("📤 [Studio] Job %s enqueued", jobID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(GenerateResponse{
		Success: true,
		JobID:   jobID,
		Status:  model.StatusPending,
		Message: "job accepted",
	})
}

// HandleJobStatus - Job 상태 조회
func (h *Handler) HandleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]

	job, err := h.db.FetchJob(jobID)
	if err != nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	resp := JobStatusResponse{
		JobID:         job.JobID,
		Status:        job.JobStatus,
		ResultAssetID: job.ResultAssetID,
		ModelUsed:     job.ModelUsed,
		ErrorMessage:  job.ErrorMessage,
		CreatedAt:     job.CreatedAt.Format(time.RFC3339),
	}

	if job.ResultAssetID != nil {
		if asset, assetErr := h.db.FetchAsset(*job.ResultAssetID); assetErr == nil {
			url := fmt.Sprintf("%s/%s", h.cfg.SupabaseStorageBaseURL, asset.FilePath)
			resp.ResultURL = &url
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleCancel - 진행 중인 Job 취소. 이미 종료된 Job은 취소 불가.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]

	job, err := h.db.FetchJob(jobID)
	if err != nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	switch job.JobStatus {
	case model.StatusCompleted, model.StatusFailed, model.StatusUserCancelled:
		writeError(w, http.StatusConflict, fmt.Sprintf("job already %s", job.JobStatus))
		return
	}

	if err := h.service.CancelJob(jobID); err != nil {
		log.Printf("❌ [Studio] Failed to set cancel flag for %s: %v", jobID, err)
		writeError(w, http.StatusInternalServerError, "failed to cancel job")
		return
	}

	// 아직 워커가 집어가지 않은 Job은 즉시 취소 상태로 전환
	if job.JobStatus == model.StatusPending {
		if err := h.db.UpdateJobStatus(r.Context(), jobID, model.StatusUserCancelled); err != nil {
			log.Printf("⚠️ [Studio] Failed to mark pending job cancelled: %v", err)
		}
	}

	log.Printf("🛑 [Studio] Cancel requested for job %s", jobID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CancelResponse{
		Success: true,
		JobID:   jobID,
		Status:  model.StatusUserCancelled,
		Message: "cancellation requested",
	})
}

// sanitizeModelOptions - 모델 외형이 레퍼런스 이미지 또는 AI 자율 결정(autoModel)으로
// 정해지는 경우 인구통계 필드(성별/연령/인종)를 비운다.
// 포즈와 구도는 외형 묘사가 아니므로 유지한다.
// TODO: 프론트와 협의해 레퍼런스 업로드 시 인구통계 필드를 비활성화할지 결정
func sanitizeModelOptions(req *GenerateRequest) {
	if req.ModelReference == "" && !req.AutoModel {
		return
	}
	if req.Model == nil {
		return
	}
	req.Model = &prompt.ModelOptions{
		Pose:        req.Model.Pose,
		Composition: req.Model.Composition,
	}
}

func validateRequest(req *GenerateRequest) error {
	if len(req.GarmentImages) == 0 {
		return fmt.Errorf("at least one garment image is required")
	}
	if req.DisplayMode != prompt.ModeModel && req.DisplayMode != prompt.ModeProduct {
		return fmt.Errorf("type must be %s or %s", prompt.ModeModel, prompt.ModeProduct)
	}
	switch req.Quality {
	case Quality1K, Quality2K, Quality4K:
	default:
		return fmt.Errorf("quality must be one of 1K, 2K, 4K")
	}
	if req.AspectRatio != "" && !SupportedAspectRatios[req.AspectRatio] {
		return fmt.Errorf("unsupported aspect ratio: %s", req.AspectRatio)
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
