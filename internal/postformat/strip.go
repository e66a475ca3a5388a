package postformat

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// emojiTable covers the emoji and pictograph blocks removed by Strip.
var emojiTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x200D, Hi: 0x200D, Stride: 1}, // zero width joiner
		{Lo: 0x20E3, Hi: 0x20E3, Stride: 1}, // combining enclosing keycap
		{Lo: 0x2190, Hi: 0x21FF, Stride: 1}, // arrows
		{Lo: 0x2300, Hi: 0x23FF, Stride: 1}, // misc technical
		{Lo: 0x25A0, Hi: 0x25FF, Stride: 1}, // geometric shapes
		{Lo: 0x2600, Hi: 0x27BF, Stride: 1}, // misc symbols, dingbats
		{Lo: 0x2B00, Hi: 0x2BFF, Stride: 1}, // misc symbols and arrows
		{Lo: 0xE000, Hi: 0xF8FF, Stride: 1}, // private use
		{Lo: 0xFE00, Hi: 0xFE0F, Stride: 1}, // variation selectors
	},
	R32: []unicode.Range32{
		{Lo: 0x1F000, Hi: 0x1FAFF, Stride: 1}, // tiles, cards, enclosed, pictographs, emoticons, transport, ...
		{Lo: 0xE0020, Hi: 0xE007F, Stride: 1}, // tag sequences
	},
}

// denylist holds symbols outside emojiTable that the editor renders as
// icons, mostly single code points with an emoji presentation.
const denylist = "※〓©®‼⁉™ℹⓂ〰〽㊗㊙"

func dropped(r rune) bool {
	return unicode.Is(emojiTable, r) || strings.ContainsRune(denylist, r)
}

// hangulTable covers conjoining jamo, compatibility jamo and precomposed
// syllables. Only runs of these runes are normalised.
var hangulTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x1100, Hi: 0x11FF, Stride: 1},
		{Lo: 0x3130, Hi: 0x318F, Stride: 1},
		{Lo: 0xA960, Hi: 0xA97F, Stride: 1},
		{Lo: 0xAC00, Hi: 0xD7A3, Stride: 1},
		{Lo: 0xD7B0, Hi: 0xD7FF, Stride: 1},
	},
}

func isHangul(r rune) bool {
	return unicode.Is(hangulTable, r)
}

// Strip removes emoji, pictographs and decorative symbols from text.
// Hangul, CJK and ordinary punctuation are left alone, except that
// decomposed Hangul jamo are composed into syllables.
func Strip(text string) string {
	if text == "" {
		return ""
	}

	cleaned := strings.Map(func(r rune) rune {
		if dropped(r) {
			return -1
		}
		return r
	}, text)

	return composeHangul(cleaned)
}

// composeHangul applies NFC to each maximal run of Hangul runes and copies
// everything else through unchanged. Composing jamo only ever merges runes,
// so the result is never longer than text.
func composeHangul(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	start := -1
	for i, r := range text {
		switch {
		case isHangul(r) && start < 0:
			start = i
		case !isHangul(r) && start >= 0:
			b.WriteString(norm.NFC.String(text[start:i]))
			start = -1
		}
		if start < 0 {
			b.WriteRune(r)
		}
	}
	if start >= 0 {
		b.WriteString(norm.NFC.String(text[start:]))
	}

	return b.String()
}
