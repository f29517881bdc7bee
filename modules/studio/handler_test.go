package studio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lookframe-server/modules/prompt"
)

func validRequest() *GenerateRequest {
	return &GenerateRequest{
		Params: prompt.Params{
			DisplayMode: prompt.ModeModel,
			Quality:     Quality1K,
		},
		GarmentImages: []string{"data:image/png;base64,AAAA"},
	}
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, validateRequest(validRequest()))

	noGarment := validRequest()
	noGarment.GarmentImages = nil
	assert.Error(t, validateRequest(noGarment))

	badMode := validRequest()
	badMode.DisplayMode = "COLLAGE"
	assert.Error(t, validateRequest(badMode))

	badQuality := validRequest()
	badQuality.Quality = "8K"
	assert.Error(t, validateRequest(badQuality))

	badRatio := validRequest()
	badRatio.AspectRatio = "2:7"
	assert.Error(t, validateRequest(badRatio))

	goodRatio := validRequest()
	goodRatio.AspectRatio = "9:16"
	assert.NoError(t, validateRequest(goodRatio))
}

func fullModelOptions() *prompt.ModelOptions {
	return &prompt.ModelOptions{
		Gender:      "woman",
		AgeGroup:    "20-30",
		Ethnicity:   "asian",
		Pose:        "walking",
		Composition: "full body",
	}
}

func TestSanitizeModelOptionsWithReference(t *testing.T) {
	req := validRequest()
	req.Model = fullModelOptions()
	req.ModelReference = "data:image/png;base64,BBBB"

	sanitizeModelOptions(req)

	// 레퍼런스가 외형을 결정하므로 인구통계는 비워지고 포즈/구도만 남는다
	assert.Empty(t, req.Model.Gender)
	assert.Empty(t, req.Model.AgeGroup)
	assert.Empty(t, req.Model.Ethnicity)
	assert.Equal(t, "walking", req.Model.Pose)
	assert.Equal(t, "full body", req.Model.Composition)
}

func TestSanitizeModelOptionsWithAutoModel(t *testing.T) {
	req := validRequest()
	req.Model = fullModelOptions()
	req.AutoModel = true

	sanitizeModelOptions(req)

	assert.Empty(t, req.Model.Gender)
	assert.Empty(t, req.Model.AgeGroup)
	assert.Empty(t, req.Model.Ethnicity)
	assert.Equal(t, "walking", req.Model.Pose)
}

func TestSanitizeModelOptionsKeepsDemographics(t *testing.T) {
	req := validRequest()
	req.Model = fullModelOptions()

	sanitizeModelOptions(req)

	// 레퍼런스도 autoModel도 없으면 그대로
	assert.Equal(t, "woman", req.Model.Gender)
	assert.Equal(t, "20-30", req.Model.AgeGroup)
}

func TestSanitizeModelOptionsNilModel(t *testing.T) {
	req := validRequest()
	req.AutoModel = true
	req.Model = nil

	sanitizeModelOptions(req)
	assert.Nil(t, req.Model)
}
