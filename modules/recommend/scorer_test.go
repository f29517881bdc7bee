package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lookframe-server/modules/common/model"
)

var now = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func presetAt(useCount int, lastUsed time.Time) model.Preset {
	return model.Preset{
		PresetID:  "p1",
		Style:     "plain",
		UseCount:  useCount,
		UpdatedAt: lastUsed,
	}
}

func TestScoreBounds(t *testing.T) {
	// 모든 가산 요소가 최대인 프리셋도 100을 넘지 않는다
	maxed := model.Preset{
		Style:          "可爱风",
		Scene:          "studio",
		ModelReference: "ref.png",
		CustomText:     "soft light",
		UseCount:       100,
		UpdatedAt:      now,
	}

	scored := ScorePreset(maxed, []string{"可爱风"}, now)
	assert.LessOrEqual(t, scored.Score, 100)
	assert.GreaterOrEqual(t, scored.Score, 0)

	// 아무것도 없는 프리셋은 기본 점수만
	bare := presetAt(0, now.AddDate(-1, 0, 0))
	scored = ScorePreset(bare, nil, now)
	assert.Equal(t, baseScore, scored.Score)
}

func TestUsageScore(t *testing.T) {
	fresh := now.AddDate(-1, 0, 0)

	// 사용 1회당 5점
	assert.Equal(t, baseScore+5, ScorePreset(presetAt(1, fresh), nil, now).Score)
	assert.Equal(t, baseScore+10, ScorePreset(presetAt(2, fresh), nil, now).Score)

	// 상한 30점
	assert.Equal(t, baseScore+30, ScorePreset(presetAt(6, fresh), nil, now).Score)
	assert.Equal(t, baseScore+30, ScorePreset(presetAt(50, fresh), nil, now).Score)
}

func TestUsageReasonTag(t *testing.T) {
	old := now.AddDate(-1, 0, 0)

	assert.NotContains(t, ScorePreset(presetAt(2, old), nil, now).Reasons, ReasonFrequentlyUsed)
	assert.Contains(t, ScorePreset(presetAt(3, old), nil, now).Reasons, ReasonFrequentlyUsed)
}

func TestRecencyScore(t *testing.T) {
	// 방금 사용: 최대 20점
	justUsed := ScorePreset(presetAt(0, now), nil, now)
	assert.Equal(t, baseScore+20, justUsed.Score)
	assert.Contains(t, justUsed.Reasons, ReasonRecentlyUsed)

	// 3일 전: 20 - 2*3 = 14점, recent 태그 없음
	threeDays := ScorePreset(presetAt(0, now.Add(-72*time.Hour)), nil, now)
	assert.Equal(t, baseScore+14, threeDays.Score)
	assert.NotContains(t, threeDays.Reasons, ReasonRecentlyUsed)

	// 7일 초과: 0점
	eightDays := ScorePreset(presetAt(0, now.Add(-8*24*time.Hour)), nil, now)
	assert.Equal(t, baseScore, eightDays.Score)
}

func TestCompletenessScore(t *testing.T) {
	old := now.AddDate(-1, 0, 0)

	oneField := model.Preset{Scene: "beach", UpdatedAt: old}
	assert.Equal(t, baseScore+5, ScorePreset(oneField, nil, now).Score)

	twoFields := model.Preset{Scene: "beach", CustomText: "x", UpdatedAt: old}
	scored := ScorePreset(twoFields, nil, now)
	assert.Equal(t, baseScore+10, scored.Score)
	assert.Contains(t, scored.Reasons, ReasonComplete)

	// 3개 모두 채워도 상한 15점
	threeFields := model.Preset{Scene: "beach", CustomText: "x", ModelReference: "r", UpdatedAt: old}
	assert.Equal(t, baseScore+15, ScorePreset(threeFields, nil, now).Score)
}

func TestPopularityScore(t *testing.T) {
	old := now.AddDate(-1, 0, 0)
	trending := []string{"简约风", "可爱风"}

	hit := model.Preset{Style: "可爱风", UpdatedAt: old}
	scored := ScorePreset(hit, trending, now)
	assert.Equal(t, baseScore+15, scored.Score)
	assert.Contains(t, scored.Reasons, ReasonPopularStyle)

	miss := model.Preset{Style: "工业风", UpdatedAt: old}
	scored = ScorePreset(miss, trending, now)
	assert.Equal(t, baseScore, scored.Score)
	assert.NotContains(t, scored.Reasons, ReasonPopularStyle)
}

func TestDefaultReason(t *testing.T) {
	bare := presetAt(0, now.AddDate(-1, 0, 0))
	scored := ScorePreset(bare, nil, now)
	assert.Equal(t, []string{ReasonDefault}, scored.Reasons)
}

func TestRankPresetsOrdering(t *testing.T) {
	old := now.AddDate(-1, 0, 0)

	presets := []model.Preset{
		{PresetID: "zero-use", UseCount: 0, UpdatedAt: old},
		{PresetID: "five-use", UseCount: 5, UpdatedAt: old},
		{PresetID: "two-use", UseCount: 2, UpdatedAt: old},
	}

	ranked := RankPresets(presets, nil, now, 0)

	assert.Equal(t, "five-use", ranked[0].Preset.PresetID)
	assert.Equal(t, "two-use", ranked[1].Preset.PresetID)
	assert.Equal(t, "zero-use", ranked[2].Preset.PresetID)
}

func TestRankPresetsStableOnTies(t *testing.T) {
	old := now.AddDate(-1, 0, 0)

	presets := []model.Preset{
		{PresetID: "first", UseCount: 1, UpdatedAt: old},
		{PresetID: "second", UseCount: 1, UpdatedAt: old},
		{PresetID: "third", UseCount: 1, UpdatedAt: old},
	}

	ranked := RankPresets(presets, nil, now, 0)

	// 동점이면 입력 순서 유지
	assert.Equal(t, "first", ranked[0].Preset.PresetID)
	assert.Equal(t, "second", ranked[1].Preset.PresetID)
	assert.Equal(t, "third", ranked[2].Preset.PresetID)
}

func TestRankPresetsLimitAndEmpty(t *testing.T) {
	assert.Empty(t, RankPresets(nil, nil, now, 5))

	old := now.AddDate(-1, 0, 0)
	presets := []model.Preset{
		{PresetID: "a", UpdatedAt: old},
		{PresetID: "b", UpdatedAt: old},
		{PresetID: "c", UpdatedAt: old},
	}

	assert.Len(t, RankPresets(presets, nil, now, 2), 2)
	assert.Len(t, RankPresets(presets, nil, now, 0), 3)
}
