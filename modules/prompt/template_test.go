package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstitute(t *testing.T) {
	vars := map[string]string{"name": "lookframe", "empty": ""}

	assert.Equal(t, "hello lookframe", Substitute("hello {{name}}", vars))
	assert.Equal(t, "[]", Substitute("[{{empty}}]", vars))
	assert.Equal(t, "{{unknown}} stays", Substitute("{{unknown}} stays", vars))
	assert.Equal(t, "a a", Substitute("{{name2}} {{name2}}", map[string]string{"name2": "a"}))
}

func TestBackfill(t *testing.T) {
	partial := TemplateSet{
		MainPrompt: "custom main",
	}

	filled := partial.Backfill()
	defaults := DefaultTemplateSet()

	assert.Equal(t, "custom main", filled.MainPrompt)
	assert.Equal(t, defaults.ModelModePrompt, filled.ModelModePrompt)
	assert.Equal(t, defaults.ProductModePrompt, filled.ProductModePrompt)
	assert.Equal(t, defaults.SceneGuidance, filled.SceneGuidance)
	assert.Equal(t, defaults.QualityGuidance, filled.QualityGuidance)
	assert.Equal(t, defaults.CustomGuidance, filled.CustomGuidance)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultTemplateSet().Validate())

	missing := DefaultTemplateSet()
	missing.MainPrompt = "   "
	assert.Error(t, missing.Validate())

	missing = DefaultTemplateSet()
	missing.ModelModePrompt = ""
	assert.Error(t, missing.Validate())

	// guidance 계열 중 scene/custom은 비어 있어도 허용
	optional := DefaultTemplateSet()
	optional.SceneGuidance = ""
	optional.CustomGuidance = ""
	assert.NoError(t, optional.Validate())
}
