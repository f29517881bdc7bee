package prompt

// Display mode constants
const (
	ModeModel   = "MODEL"
	ModeProduct = "PRODUCT"
)

// ModelOptions - 모델 착용 모드 전용 필드
// 인물 묘사 필드는 레퍼런스 이미지가 없을 때만 채워진다 (호출자 책임).
type ModelOptions struct {
	Gender      string `json:"gender,omitempty"`
	AgeGroup    string `json:"ageGroup,omitempty"`
	Ethnicity   string `json:"ethnicity,omitempty"`
	Pose        string `json:"pose,omitempty"`
	Composition string `json:"composition,omitempty"`
}

// ProductOptions - 제품 단독 모드 전용 필드
type ProductOptions struct {
	ProductForm       string `json:"productForm,omitempty"`
	ProductFocus      string `json:"productFocus,omitempty"`
	ProductBackground string `json:"productBackground,omitempty"`
}

// Params - 프롬프트 빌드 입력
// DisplayMode가 모드별 옵션 중 어느 쪽을 쓸지 결정한다.
// 반대 모드의 옵션이 채워져 있어도 치환에는 절대 쓰이지 않는다.
type Params struct {
	DisplayMode string          `json:"type"`
	Style       string          `json:"style,omitempty"`
	Scene       string          `json:"scene,omitempty"`
	Quality     string          `json:"quality"`
	CustomText  string          `json:"customText,omitempty"`
	Model       *ModelOptions   `json:"model,omitempty"`
	Product     *ProductOptions `json:"product,omitempty"`
}

// BuildPrompt - 파라미터와 템플릿 세트로 최종 프롬프트 문자열 생성
// 순수 함수: 동일 입력이면 항상 동일 출력, I/O 없음, 에러 없음.
// 공백/트리밍 가공 없이 치환 결과를 바이트 그대로 반환한다.
func BuildPrompt(params Params, set TemplateSet) string {
	// 모드별 토큰: 반대 모드 토큰은 항상 빈 문자열로 치환
	modeVars := map[string]string{
		"gender":            "",
		"ageGroup":          "",
		"ethnicity":         "",
		"pose":              "",
		"composition":       "",
		"productForm":       "",
		"productFocus":      "",
		"productBackground": "",
	}

	var modeTemplate string
	switch params.DisplayMode {
	case ModeProduct:
		modeTemplate = set.ProductModePrompt
		if params.Product != nil {
			modeVars["productForm"] = params.Product.ProductForm
			modeVars["productFocus"] = params.Product.ProductFocus
			modeVars["productBackground"] = params.Product.ProductBackground
		}
	default:
		modeTemplate = set.ModelModePrompt
		if params.Model != nil {
			modeVars["gender"] = params.Model.Gender
			modeVars["ageGroup"] = params.Model.AgeGroup
			modeVars["ethnicity"] = params.Model.Ethnicity
			modeVars["pose"] = params.Model.Pose
			modeVars["composition"] = params.Model.Composition
		}
	}

	modePrompt := Substitute(modeTemplate, modeVars)

	// scene guidance: scene이 있을 때만 생성
	sceneGuidance := ""
	if params.Scene != "" {
		sceneGuidance = Substitute(set.SceneGuidance, map[string]string{"scene": params.Scene})
	}

	// quality guidance: 항상 생성
	qualityGuidance := Substitute(set.QualityGuidance, map[string]string{"quality": params.Quality})

	// custom guidance: 자유 텍스트가 있을 때만 생성
	customPrompt := ""
	if params.CustomText != "" {
		customPrompt = Substitute(set.CustomGuidance, map[string]string{"customText": params.CustomText})
	}

	// 메인 템플릿의 scene은 미지정 시 리터럴 폴백
	sceneValue := params.Scene
	if sceneValue == "" {
		sceneValue = SceneFallback
	}

	mainVars := map[string]string{
		"style":            params.Style,
		"quality":          params.Quality,
		"scene":            sceneValue,
		"mode_prompt":      modePrompt,
		"scene_guidance":   sceneGuidance,
		"quality_guidance": qualityGuidance,
		"custom_prompt":    customPrompt,
	}
	for key, value := range modeVars {
		mainVars[key] = value
	}

	return Substitute(set.MainPrompt, mainVars)
}
