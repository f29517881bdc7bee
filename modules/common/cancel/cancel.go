package cancel

import (
	"context"
	"log"

	"lookframe-server/modules/common/model"
)

// StatusUpdater - 상태 업데이트 인터페이스 (worker의 service가 구현)
type StatusUpdater interface {
	IsJobCancelled(jobID string) bool
	UpdateJobStatus(ctx context.Context, jobID string, status string) error
}

// CheckBeforeGeneration - 이미지 생성 전 취소 체크
// 취소됐으면 상태를 user_cancelled로 바꾸고 true 반환
func CheckBeforeGeneration(ctx context.Context, service StatusUpdater, jobID string) bool {
	if !service.IsJobCancelled(jobID) {
		return false
	}

	log.Printf("🛑 Job %s cancelled before generation, skipping", jobID)
	service.UpdateJobStatus(ctx, jobID, model.StatusUserCancelled)
	return true
}

// CheckBeforePersist - 이미지 생성 후 저장/차감 전 취소 체크
// 취소됐으면 생성 결과를 버리고 true 반환
func CheckBeforePersist(ctx context.Context, service StatusUpdater, jobID string) bool {
	if !service.IsJobCancelled(jobID) {
		return false
	}

	log.Printf("🛑 Job %s cancelled after generation, discarding result", jobID)
	service.UpdateJobStatus(ctx, jobID, model.StatusUserCancelled)
	return true
}
