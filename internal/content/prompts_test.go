package content_test

import (
	"testing"

	"github.com/alkime/xivix/internal/content"
	"github.com/stretchr/testify/assert"
)

func TestLookupsFallBack(t *testing.T) {
	assert.Equal(t, "전문가형 (C-Rank)", content.LookupStyle("Z").Name)
	assert.Equal(t, "실용 정보 (GEO)", content.LookupStyle(" c ").Name)
	assert.Equal(t, "정보성", content.LookupCategory("").Name)
	assert.Equal(t, "비교/분석", content.LookupCategory("COMPARE").Name)
	assert.Equal(t, "전문적", content.LookupTone("unknown").Name)
	assert.Equal(t, "친근한", content.LookupTone("friendly").Name)
}

func TestStylesAreStable(t *testing.T) {
	styles := content.Styles()
	styles[0].Name = "changed"

	assert.Equal(t, "전문가형 (C-Rank)", content.LookupStyle("A").Name)
	assert.Len(t, content.Styles(), 3)
}

func TestGeneratePromptCarriesSelections(t *testing.T) {
	prompt := content.GeneratePrompt("캠핑 장비",
		content.LookupStyle("C"), content.LookupCategory("howto"), content.LookupTone("casual"))

	assert.Contains(t, prompt, "주제: 캠핑 장비")
	assert.Contains(t, prompt, `"요약체" 체`)
	assert.Contains(t, prompt, "단계별 절차")
	assert.Contains(t, prompt, "가볍고 경쾌한")
	assert.Contains(t, prompt, "===본문===")
	assert.Contains(t, prompt, "===해시태그===")
}
