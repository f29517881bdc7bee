package studio

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"lookframe-server/modules/common/cancel"
	"lookframe-server/modules/common/config"
	"lookframe-server/modules/common/database"
	"lookframe-server/modules/common/model"
	"lookframe-server/modules/common/storage"
	"lookframe-server/modules/common/utils"
)

// ProgressNotifier - Job 진행 상황을 구독자에게 전달
type ProgressNotifier interface {
	Notify(event ProgressEvent)
}

// maxConcurrentJobs - 동시 생성 작업 상한
const maxConcurrentJobs = 2

type Worker struct {
	cfg      *config.Config
	rdb      *goredis.Client
	db       *database.Client
	storage  *storage.Client
	service  *Service
	notifier ProgressNotifier
	sem      chan struct{}
}

func NewWorker(
	cfg *config.Config,
	rdb *goredis.Client,
	db *database.Client,
	st *storage.Client,
	service *Service,
	notifier ProgressNotifier,
) *Worker {
	return &Worker{
		cfg:      cfg,
		rdb:      rdb,
		db:       db,
		storage:  st,
		service:  service,
		notifier: notifier,
		sem:      make(chan struct{}, maxConcurrentJobs),
	}
}

// Start - BRPOP 루프 시작. ctx가 취소되면 종료.
func (w *Worker) Start(ctx context.Context) {
	log.Printf("🔄 [Worker] Started, watching queue %s", JobQueueKey)

	for {
		select {
		case <-ctx.Done():
			log.Printf("🛑 [Worker] Shutting down")
			return
		default:
		}

		result, err := w.rdb.BRPop(ctx, 5*time.Second, JobQueueKey).Result()
		if err == goredis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("⚠️ [Worker] BRPOP error: %v", err)
			time.Sleep(time.Second)
			continue
		}

		if len(result) < 2 {
			continue
		}
		jobID := result[1]

		w.sem <- struct{}{}
		go func(id string) {
			defer func() { <-w.sem }()
			w.processJob(ctx, id)
		}(jobID)
	}
}

func (w *Worker) processJob(ctx context.Context, jobID string) {
	log.Printf("📥 [Worker] Processing job %s", jobID)

	job, err := w.db.FetchJob(jobID)
	if err != nil {
		log.Printf("❌ [Worker] Failed to fetch job %s: %v", jobID, err)
		return
	}

	var req GenerateRequest
	if err := json.Unmarshal(job.JobInputData, &req); err != nil {
		log.Printf("❌ [Worker] Invalid input data for job %s: %v", jobID, err)
		w.db.FailJob(ctx, jobID, "invalid input data")
		return
	}

	// 생성 시작 전 취소 확인
	if cancel.CheckBeforeGeneration(ctx, w.service, jobID) {
		log.Printf("🛑 [Worker] Job %s cancelled before generation", jobID)
		w.notify(jobID, model.StatusUserCancelled, "cancelled", "job cancelled")
		return
	}

	if err := w.db.UpdateJobStatus(ctx, jobID, model.StatusProcessing); err != nil {
		log.Printf("⚠️ [Worker] Failed to mark job %s processing: %v", jobID, err)
	}
	w.notify(jobID, model.StatusProcessing, "generating", "generating image")

	genCtx, cancelFn := context.WithTimeout(ctx, w.cfg.RequestTimeout)
	defer cancelFn()

	dataURL, modelUsed, err := w.service.GenerateImage(genCtx, jobID, &req)
	if err != nil {
		log.Printf("❌ [Worker] Generation failed for job %s: %v", jobID, err)
		w.db.FailJob(ctx, jobID, err.Error())
		w.notify(jobID, model.StatusFailed, "failed", err.Error())
		return
	}

	// 결과 저장 전 취소 확인. 취소됐으면 결과를 버린다.
	if cancel.CheckBeforePersist(ctx, w.service, jobID) {
		log.Printf("🛑 [Worker] Job %s cancelled, discarding result", jobID)
		w.notify(jobID, model.StatusUserCancelled, "cancelled", "job cancelled")
		return
	}

	if err := w.db.UpdateJobStatus(ctx, jobID, model.StatusUploading); err != nil {
		log.Printf("⚠️ [Worker] Failed to mark job %s uploading: %v", jobID, err)
	}
	w.notify(jobID, model.StatusUploading, "uploading", "saving result")

	assetID, err := w.persistResult(ctx, job, &req, dataURL, modelUsed)
	if err != nil {
		log.Printf("❌ [Worker] Failed to persist result for job %s: %v", jobID, err)
		w.db.FailJob(ctx, jobID, "failed to save result")
		w.notify(jobID, model.StatusFailed, "failed", "failed to save result")
		return
	}

	if job.UserID != nil && *job.UserID != "" {
		if err := w.service.credit.DeductForGeneration(ctx, *job.UserID, assetID); err != nil {
			log.Printf("⚠️ [Worker] Credit deduction failed for job %s: %v", jobID, err)
		}
	}

	if err := w.db.CompleteJob(ctx, jobID, assetID, modelUsed); err != nil {
		log.Printf("❌ [Worker] Failed to complete job %s: %v", jobID, err)
		return
	}

	log.Printf("✅ [Worker] Job %s completed, asset %s", jobID, assetID)
	w.notify(jobID, model.StatusCompleted, "completed", assetID)
}

// persistResult - 결과 이미지를 WebP로 변환해 업로드하고 자산 레코드 생성
func (w *Worker) persistResult(ctx context.Context, job *model.StudioJob, req *GenerateRequest, dataURL, modelUsed string) (string, error) {
	_, pngData, err := ParseDataURL(dataURL)
	if err != nil {
		return "", err
	}

	ownerID := ""
	if job.UserID != nil {
		ownerID = *job.UserID
	} else if job.SessionID != nil {
		ownerID = *job.SessionID
	}

	assetID := uuid.New().String()

	filePath, fileSize, err := w.storage.UploadGenerated(ctx, pngData, ownerID, assetID)
	if err != nil {
		return "", err
	}

	var thumbnailPath *string
	thumbData, err := utils.MakeThumbnail(pngData, 320)
	if err != nil {
		log.Printf("⚠️ [Worker] Thumbnail generation failed for asset %s: %v", assetID, err)
	} else {
		path, thumbErr := w.storage.UploadThumbnail(ctx, thumbData, ownerID, assetID)
		if thumbErr != nil {
			log.Printf("⚠️ [Worker] Thumbnail upload failed for asset %s: %v", assetID, thumbErr)
		} else {
			thumbnailPath = &path
		}
	}

	tags := []string{req.DisplayMode}
	if req.Style != "" {
		tags = append(tags, req.Style)
	}

	asset := &model.Asset{
		AssetID:       assetID,
		UserID:        ownerID,
		FilePath:      filePath,
		FileSize:      fileSize,
		FileType:      "image/webp",
		ThumbnailPath: thumbnailPath,
		SourceModel:   &modelUsed,
		Tags:          tags,
		CreatedAt:     time.Now().UTC(),
	}

	if err := w.db.CreateAssetRecord(ctx, asset); err != nil {
		return "", err
	}

	return assetID, nil
}

func (w *Worker) notify(jobID, status, stage, message string) {
	if w.notifier == nil {
		return
	}
	w.notifier.Notify(ProgressEvent{
		JobID:   jobID,
		Status:  status,
		Stage:   stage,
		Message: message,
	})
}
