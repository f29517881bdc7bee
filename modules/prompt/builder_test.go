package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func compactTemplateSet() TemplateSet {
	return TemplateSet{
		MainPrompt:        "Style:{{style}} Q:{{quality}} Scene:{{scene}} {{mode_prompt}} {{scene_guidance}} {{custom_prompt}}",
		ModelModePrompt:   "G:{{gender}} A:{{ageGroup}}",
		ProductModePrompt: "Form:{{productForm}} Focus:{{productFocus}}",
		SceneGuidance:     "SCENE[{{scene}}]",
		QualityGuidance:   "QUALITY[{{quality}}]",
		CustomGuidance:    "CUSTOM[{{customText}}]",
	}
}

func TestBuildPromptExactOutput(t *testing.T) {
	params := Params{
		DisplayMode: ModeModel,
		Style:       "可爱风",
		Quality:     "1K",
		Scene:       "",
		Model: &ModelOptions{
			Gender:   "girl",
			AgeGroup: "3-5",
		},
	}

	got := BuildPrompt(params, compactTemplateSet())

	// scene 폴백이 들어가고, 빈 guidance 자리의 공백은 그대로 보존된다
	want := "Style:可爱风 Q:1K Scene:automatically determined G:girl A:3-5  "
	assert.Equal(t, want, got)
}

func TestBuildPromptDeterministic(t *testing.T) {
	params := Params{
		DisplayMode: ModeModel,
		Style:       "简约风",
		Quality:     "2K",
		Scene:       "studio",
		CustomText:  "soft lighting",
		Model: &ModelOptions{
			Gender:    "woman",
			AgeGroup:  "20-30",
			Ethnicity: "asian",
		},
	}
	set := compactTemplateSet()

	first := BuildPrompt(params, set)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildPrompt(params, set))
	}
}

func TestBuildPromptModeExclusivity(t *testing.T) {
	// 반대 모드의 옵션이 채워져 있어도 출력에 새어 나오면 안 됨
	params := Params{
		DisplayMode: ModeProduct,
		Style:       "simple",
		Quality:     "1K",
		Model: &ModelOptions{
			Gender:   "woman",
			AgeGroup: "20-30",
		},
		Product: &ProductOptions{
			ProductForm:  "flat-lay",
			ProductFocus: "texture",
		},
	}

	got := BuildPrompt(params, compactTemplateSet())

	assert.Contains(t, got, "Form:flat-lay")
	assert.Contains(t, got, "Focus:texture")
	assert.NotContains(t, got, "woman")
	assert.NotContains(t, got, "20-30")
}

func TestBuildPromptProductTokensClearedInModelMode(t *testing.T) {
	set := TemplateSet{
		MainPrompt:        "{{mode_prompt}}|{{productForm}}|{{gender}}",
		ModelModePrompt:   "model-shot",
		ProductModePrompt: "product-shot",
		QualityGuidance:   "q",
	}
	params := Params{
		DisplayMode: ModeModel,
		Quality:     "1K",
		Model:       &ModelOptions{Gender: "man"},
		Product:     &ProductOptions{ProductForm: "hanger"},
	}

	got := BuildPrompt(params, set)

	// 메인 템플릿에 떠도는 모드 토큰도 해석되며, 비활성 모드 값은 빈 문자열
	assert.Equal(t, "model-shot||man", got)
}

func TestBuildPromptSceneGuidance(t *testing.T) {
	set := compactTemplateSet()

	withScene := BuildPrompt(Params{DisplayMode: ModeModel, Quality: "1K", Scene: "beach"}, set)
	assert.Contains(t, withScene, "Scene:beach")
	assert.Contains(t, withScene, "SCENE[beach]")

	withoutScene := BuildPrompt(Params{DisplayMode: ModeModel, Quality: "1K"}, set)
	assert.Contains(t, withoutScene, "Scene:"+SceneFallback)
	assert.NotContains(t, withoutScene, "SCENE[")
}

func TestBuildPromptCustomText(t *testing.T) {
	set := compactTemplateSet()

	withCustom := BuildPrompt(Params{DisplayMode: ModeModel, Quality: "1K", CustomText: "golden hour"}, set)
	assert.Contains(t, withCustom, "CUSTOM[golden hour]")

	withoutCustom := BuildPrompt(Params{DisplayMode: ModeModel, Quality: "1K"}, set)
	assert.NotContains(t, withoutCustom, "CUSTOM[")
}

func TestBuildPromptUnknownTokensSurvive(t *testing.T) {
	set := compactTemplateSet()
	set.MainPrompt = "{{style}} {{mystery_token}}"

	got := BuildPrompt(Params{DisplayMode: ModeModel, Style: "retro", Quality: "1K"}, set)

	// 모르는 토큰은 에러 없이 원문 그대로 남는다
	assert.Equal(t, "retro {{mystery_token}}", got)
}

func TestBuildPromptNilOptions(t *testing.T) {
	set := compactTemplateSet()

	got := BuildPrompt(Params{DisplayMode: ModeModel, Quality: "4K"}, set)

	assert.Contains(t, got, "G: A:")
	assert.False(t, strings.Contains(got, "{{gender}}"))
}

func TestBuildPromptDefaultTemplates(t *testing.T) {
	params := Params{
		DisplayMode: ModeModel,
		Style:       "复古风",
		Quality:     "2K",
		Scene:       "city street",
		Model: &ModelOptions{
			Gender:   "woman",
			AgeGroup: "20-30",
			Pose:     "walking",
		},
	}

	got := BuildPrompt(params, DefaultTemplateSet())

	assert.Contains(t, got, "复古风")
	assert.Contains(t, got, "city street")
	assert.Contains(t, got, "MODEL-WORN SHOT")
	assert.NotContains(t, got, "PRODUCT-ONLY SHOT")
	assert.NotContains(t, got, "{{mode_prompt}}")
	assert.NotContains(t, got, "{{scene_guidance}}")
}
