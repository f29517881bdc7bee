package recommend

import (
	"math"
	"sort"
	"strings"
	"time"

	"lookframe-server/modules/common/model"
)

// 점수 가중치
const (
	baseScore = 20

	usagePointsPerUse = 5
	usageCap          = 30
	frequentUseCount  = 3

	recencyWindowDays = 7
	recencyMaxPoints  = 20
	recencyDecayPerDay = 2
	recentUseDays      = 1

	completenessPointsEach = 5
	completenessCap        = 15
	completeThreshold      = 10

	popularityPoints = 15

	maxScore = 100
)

// 추천 사유 태그
const (
	ReasonFrequentlyUsed = "frequently used"
	ReasonRecentlyUsed   = "recently used"
	ReasonComplete       = "complete configuration"
	ReasonPopularStyle   = "popular style"
	ReasonDefault        = "recommended"
)

// ScoredPreset - 점수가 매겨진 프리셋
type ScoredPreset struct {
	Preset  model.Preset `json:"preset"`
	Score   int          `json:"score"`
	Reasons []string     `json:"reasons"`
}

// ScorePreset - 단일 프리셋 점수 계산
func ScorePreset(preset model.Preset, trendingStyles []string, now time.Time) ScoredPreset {
	score := float64(baseScore)
	reasons := []string{}

	// 사용 빈도
	usage := float64(preset.UseCount * usagePointsPerUse)
	if usage > usageCap {
		usage = usageCap
	}
	score += usage
	if preset.UseCount >= frequentUseCount {
		reasons = append(reasons, ReasonFrequentlyUsed)
	}

	// 최근 사용
	days := now.Sub(preset.UpdatedAt).Hours() / 24
	if days >= 0 && days <= recencyWindowDays {
		recency := float64(recencyMaxPoints) - recencyDecayPerDay*days
		if recency < 0 {
			recency = 0
		}
		score += recency
		if days <= recentUseDays {
			reasons = append(reasons, ReasonRecentlyUsed)
		}
	}

	// 구성 완성도
	completeness := 0
	if preset.Scene != "" {
		completeness += completenessPointsEach
	}
	if preset.ModelReference != "" {
		completeness += completenessPointsEach
	}
	if preset.CustomText != "" {
		completeness += completenessPointsEach
	}
	if completeness > completenessCap {
		completeness = completenessCap
	}
	score += float64(completeness)
	if completeness >= completeThreshold {
		reasons = append(reasons, ReasonComplete)
	}

	// 트렌드 스타일
	for _, trending := range trendingStyles {
		if trending != "" && strings.Contains(preset.Style, trending) {
			score += popularityPoints
			reasons = append(reasons, ReasonPopularStyle)
			break
		}
	}

	if score < 0 {
		score = 0
	}
	if score > maxScore {
		score = maxScore
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonDefault)
	}

	return ScoredPreset{
		Preset:  preset,
		Score:   int(math.Round(score)),
		Reasons: reasons,
	}
}

// RankPresets - 프리셋 목록 점수화 후 내림차순 정렬. 동점은 입력 순서 유지.
func RankPresets(presets []model.Preset, trendingStyles []string, now time.Time, limit int) []ScoredPreset {
	scored := make([]ScoredPreset, 0, len(presets))
	for _, p := range presets {
		scored = append(scored, ScorePreset(p, trendingStyles, now))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
