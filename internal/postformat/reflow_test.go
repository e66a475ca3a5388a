package postformat_test

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/alkime/xivix/internal/postformat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReflow_Groups(t *testing.T) {
	units := []string{"하나.", "둘.", "셋.", "넷.", "다섯."}

	tests := []struct {
		name      string
		groupSize int
		expected  string
	}{
		{name: "pairs", groupSize: 2, expected: "하나. 둘.\n\n셋. 넷.\n\n다섯."},
		{name: "triples", groupSize: 3, expected: "하나. 둘. 셋.\n\n넷. 다섯."},
		{name: "zero means one", groupSize: 0, expected: "하나.\n\n둘.\n\n셋.\n\n넷.\n\n다섯."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := postformat.Reflow(slices.Values(units), postformat.ReflowOptions{GroupSize: tt.groupSize})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestReflow_SkipsEmptyUnits(t *testing.T) {
	got := postformat.Reflow(slices.Values([]string{"", "하나.", "  ", "둘."}), postformat.ReflowOptions{GroupSize: 2})
	assert.Equal(t, "하나. 둘.", got)
}

func TestReflow_Empty(t *testing.T) {
	assert.Empty(t, postformat.Reflow(slices.Values([]string(nil)), postformat.ReflowOptions{GroupSize: 2}))
}

func TestReflow_RandomizedIsSeedable(t *testing.T) {
	units := make([]string, 40)
	for i := range units {
		units[i] = "문장입니다."
	}
	run := func() string {
		return postformat.Reflow(slices.Values(units), postformat.ReflowOptions{
			GroupSize:  2,
			Randomized: true,
			Rand:       rand.New(rand.NewPCG(7, 7)),
		})
	}

	first := run()
	assert.Equal(t, first, run())

	blocks := strings.Split(first, "\n\n")
	total := 0
	for i, block := range blocks {
		n := strings.Count(block, "문장입니다.")
		total += n
		if i < len(blocks)-1 {
			assert.Contains(t, []int{2, 3}, n, "block %d", i)
		}
	}
	assert.Equal(t, len(units), total)
}

func TestReflowText_KeepsStructuralLines(t *testing.T) {
	text := "1. 첫 소제목\n본문 첫 문장입니다. 본문 둘째 문장입니다. 본문 셋째 문장입니다.\nQ. 궁금한 점이 있나요?\nA. 네 있습니다. 설명드릴게요."

	got := postformat.ReflowText(text, postformat.ReflowOptions{GroupSize: 2})

	expected := strings.Join([]string{
		"1. 첫 소제목",
		"",
		"본문 첫 문장입니다. 본문 둘째 문장입니다.",
		"",
		"본문 셋째 문장입니다.",
		"",
		"Q. 궁금한 점이 있나요?",
		"",
		"A. 네 있습니다. 설명드릴게요.",
	}, "\n")
	assert.Equal(t, expected, got)
}

func TestReflowText_CollapsesBlankRuns(t *testing.T) {
	got := postformat.ReflowText("하나입니다.\n\n\n\n\n둘입니다.\n \n\t\n셋입니다.", postformat.ReflowOptions{GroupSize: 3})

	assert.NotContains(t, got, "\n\n\n")
	assert.Equal(t, "하나입니다.\n\n둘입니다.\n\n셋입니다.", got)
}

func TestReflowText_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n  ",
		"한 문장입니다.",
		"첫째입니다. 둘째입니다. 셋째입니다. 넷째입니다. 다섯째입니다.",
		"1. 제목\n내용입니다. 다음 문장입니다.\n\n\n\n2. 다음 제목\n버전은 3.5입니다. 확인하세요. 끝입니다.",
		"Q. 질문인가요?\nA. 답변입니다. 길게 설명합니다. 아주 길게요.\n# 마크다운 제목\n[이미지 삽입 위치]\n마지막 문단입니다!",
		"줄바꿈 없는 긴 문단. 여러 문장이 이어집니다. 계속 이어집니다. 또 이어집니다. 이제 끝납니다.",
	}

	for _, groupSize := range []int{2, 3} {
		opts := postformat.ReflowOptions{GroupSize: groupSize}
		for _, input := range inputs {
			once := postformat.ReflowText(input, opts)
			require.Equal(t, once, postformat.ReflowText(once, opts), "group %d input %q", groupSize, input)
			assert.NotContains(t, once, "\n\n\n")
		}
	}
}
