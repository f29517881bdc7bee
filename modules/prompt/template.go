package prompt

import (
	"fmt"
	"strings"
)

// TemplateSet - 관리자가 편집하는 6개 프롬프트 템플릿 묶음
// 템플릿 안의 {{token}} 플레이스홀더가 빌드 시점에 치환된다.
// 치환되지 않은 토큰은 그대로 남는다 (fail-soft).
type TemplateSet struct {
	MainPrompt      string `json:"mainPrompt"`
	ModelModePrompt string `json:"modelModePrompt"`
	ProductModePrompt string `json:"productModePrompt"`
	SceneGuidance   string `json:"sceneGuidance"`
	QualityGuidance string `json:"qualityGuidance"`
	CustomGuidance  string `json:"customGuidance"`
}

// SceneFallback - scene 미지정 시 메인 템플릿에 들어가는 리터럴
const SceneFallback = "automatically determined"

// DefaultTemplateSet - 하드코딩된 기본 템플릿
// 저장된 설정에서 누락된 필드는 이 값으로 백필된다.
func DefaultTemplateSet() TemplateSet {
	return TemplateSet{
		MainPrompt: `[PROFESSIONAL E-COMMERCE PRODUCT PHOTOGRAPHER]
You are a world-class product photographer shooting clothing for an online store.
Create ONE photorealistic photograph of the referenced garment.

Style direction: {{style}}
Output quality: {{quality}}
Scene: {{scene}}

{{mode_prompt}}

{{scene_guidance}}
{{quality_guidance}}
{{custom_prompt}}

[REQUIRED OUTPUT]
- Generate exactly ONE image, single cohesive composition
- No collages, no split screens, no grids
- The garment from the reference image must be reproduced faithfully
  (fabric, color, pattern, cut) without any alteration`,

		ModelModePrompt: `[MODEL-WORN SHOT]
The garment is worn by a fashion model.
Model: {{gender}}, age {{ageGroup}}, {{ethnicity}}
Pose: {{pose}}
Composition: {{composition}}
Full body visible, professional editorial stance, serious expression.`,

		ProductModePrompt: `[PRODUCT-ONLY SHOT]
No people in the frame - the garment is presented alone.
Presentation form: {{productForm}}
Focus: {{productFocus}}
Background: {{productBackground}}
High-end flat-lay or ghost-mannequin styling with perfect detail.`,

		SceneGuidance: `[SCENE]
Place the shot in this setting: {{scene}}.
Lighting, shadows and color grading must match the scene naturally.`,

		QualityGuidance: `[QUALITY]
Render at {{quality}} fidelity with sharp focus on fabric texture and stitching.`,

		CustomGuidance: `[ADDITIONAL STYLING]
{{customText}}`,
	}
}

// Substitute - 템플릿의 {{token}}을 vars 값으로 치환
// vars에 없는 토큰은 그대로 남긴다. 순수 문자열 치환, 분기 없음.
func Substitute(template string, vars map[string]string) string {
	out := template
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}

// Backfill - 빈 필드를 기본 템플릿으로 채움 (설정 로드 시점)
func (t TemplateSet) Backfill() TemplateSet {
	defaults := DefaultTemplateSet()

	if t.MainPrompt == "" {
		t.MainPrompt = defaults.MainPrompt
	}
	if t.ModelModePrompt == "" {
		t.ModelModePrompt = defaults.ModelModePrompt
	}
	if t.ProductModePrompt == "" {
		t.ProductModePrompt = defaults.ProductModePrompt
	}
	if t.SceneGuidance == "" {
		t.SceneGuidance = defaults.SceneGuidance
	}
	if t.QualityGuidance == "" {
		t.QualityGuidance = defaults.QualityGuidance
	}
	if t.CustomGuidance == "" {
		t.CustomGuidance = defaults.CustomGuidance
	}
	return t
}

// Validate - 저장 시점 검증
// 메인/모드/품질 템플릿이 비면 BuildPrompt 결과가 빈 문자열이 되므로
// 저장 자체를 거부한다. 호출 시점에는 검증하지 않는다.
func (t TemplateSet) Validate() error {
	if strings.TrimSpace(t.MainPrompt) == "" {
		return fmt.Errorf("mainPrompt is required")
	}
	if strings.TrimSpace(t.ModelModePrompt) == "" {
		return fmt.Errorf("modelModePrompt is required")
	}
	if strings.TrimSpace(t.ProductModePrompt) == "" {
		return fmt.Errorf("productModePrompt is required")
	}
	if strings.TrimSpace(t.QualityGuidance) == "" {
		return fmt.Errorf("qualityGuidance is required")
	}
	return nil
}
