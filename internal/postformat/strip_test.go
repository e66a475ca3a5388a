package postformat //nolint:testpackage // Needs access to emojiTable

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var emojiSamples = []string{
	// emoticons, transport, pictographs
	"😀", "🙏", "🚀", "🚗", "🌸", "🔥",
	// supplemental and extended-A pictographs
	"🤖", "🥰", "🪴", "🫶",
	// skin tone modifier
	"\U0001F44D\U0001F3FB",
	// heart with variation selector
	"\u2764\uFE0F",
	// regional indicators
	"\U0001F1F0\U0001F1F7",
	// zwj family sequence
	"\U0001F468\u200D\U0001F469\u200D\U0001F467",
	// dingbats, misc symbols, arrows, shapes, technical, denylist
	"✅", "✨", "✔", "★", "☆", "♥", "→", "⇒", "▶", "●", "⌚", "⬛", "※",
	// single code points with emoji presentation
	"‼", "⁉", "™", "ℹ", "Ⓜ", "〰", "〽", "㊗", "㊙", "©", "®",
}

func TestStrip_RemovesEmoji(t *testing.T) {
	for _, sample := range emojiSamples {
		t.Run(sample, func(t *testing.T) {
			got := Strip("앞" + sample + "뒤")
			assert.Equal(t, "앞뒤", got)
		})
	}
}

func TestStrip_RemovesDigitOnlyFromKeycap(t *testing.T) {
	// The keycap base digit is ordinary text and stays.
	assert.Equal(t, "1번", Strip("1\uFE0F\u20E3번"))
}

func TestStrip_NoEmojiSurvive(t *testing.T) {
	var input string
	for _, sample := range emojiSamples {
		input += "글" + sample
	}

	got := Strip(input)

	for _, r := range got {
		assert.False(t, unicode.Is(emojiTable, r), "rune %U survived", r)
		assert.NotContains(t, denylist, string(r))
	}
}

func TestStrip_KeepsTextAndPunctuation(t *testing.T) {
	inputs := []string{
		"안녕하세요. 오늘은 날씨가 좋네요!",
		"가격은 1,000원(약 $1)입니다? 정말요…",
		"“인용” ‘작은 인용’ — 대시 – 하이픈 · 가운뎃점",
		"漢字とカタカナ、ひらがな。",
		"100% 보장 ₩5,000 @home #태그 [괄호] {중괄호} <꺾쇠>",
		"Q. 질문입니다\nA. 답변입니다\n\n1. 소제목",
		// NFC would expand U+0344 and remap the compatibility ideograph
		"\u0344\uF900",
		"e\u0301 café",
	}

	for _, input := range inputs {
		assert.Equal(t, input, Strip(input))
	}
}

func TestStrip_FixedPoint(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"이모지 😀 가 섞인 🚀 문장 ✅",
		"e\uFE0F\u0301 variation selector between base and accent",
		"조합형 한글: \u1100\u1161\u11A8",
	}

	for _, input := range inputs {
		once := Strip(input)
		assert.Equal(t, once, Strip(once), "input %q", input)
	}
}

func TestStrip_NeverGrows(t *testing.T) {
	inputs := []string{"\u0344\uF900", "\u1100\u1161\u11A8\u0344", "\uAC00\u11A8"}
	for _, sample := range emojiSamples {
		inputs = append(inputs, "텍스트 "+sample+" 끝")
	}

	for _, input := range inputs {
		require.LessOrEqual(t, len([]rune(Strip(input))), len([]rune(input)), "input %q", input)
	}
}

func TestStrip_ComposesHangul(t *testing.T) {
	assert.Equal(t, "\uAC01", Strip("\u1100\u1161\u11A8"))
	assert.Equal(t, "\uAC01", Strip("\uAC00\u11A8"))
	assert.Equal(t, "\uAC01 \uF900", Strip("\u1100\u1161\u11A8 \uF900"))
}
