package content

import (
	"fmt"
	"strings"
)

// Style selects the voice of a generated post.
type Style struct {
	Key    string
	Name   string
	Suffix string
	Prompt string
}

// Category selects the kind of post to generate.
type Category struct {
	Key    string
	Name   string
	Prompt string
}

// Tone adjusts the register of the generated post.
type Tone struct {
	Key    string
	Name   string
	Prompt string
}

const (
	DefaultStyle    = "A"
	DefaultCategory = "info"
	DefaultTone     = "professional"

	// CategoryRewrite rewrites caller supplied text instead of a topic.
	CategoryRewrite = "rewrite"
)

var styles = map[string]Style{
	"A": {
		Key:    "A",
		Name:   "전문가형 (C-Rank)",
		Suffix: "습니다",
		Prompt: "전문적이고 학술적인 톤으로 작성. 데이터와 근거를 명확히 제시.",
	},
	"B": {
		Key:    "B",
		Name:   "친근형 (AEO)",
		Suffix: "해요",
		Prompt: "부드러운 에디터 톤, 질문/답변 형식 강조, 독자와 대화하듯 작성.",
	},
	"C": {
		Key:    "C",
		Name:   "실용 정보 (GEO)",
		Suffix: "요약체",
		Prompt: "데이터와 정보 중심의 건조한 톤, 핵심만 간결하게 전달.",
	},
}

var categories = map[string]Category{
	"info": {
		Key:    "info",
		Name:   "정보성",
		Prompt: "독자가 주제를 처음 접한다고 가정하고 개념, 배경, 핵심 정보를 체계적으로 설명.",
	},
	"review": {
		Key:    "review",
		Name:   "후기/리뷰",
		Prompt: "직접 경험한 것처럼 장점과 단점을 균형 있게 다루고 구체적인 사용 상황을 묘사.",
	},
	"howto": {
		Key:    "howto",
		Name:   "방법/가이드",
		Prompt: "단계별 절차를 번호로 정리하고 각 단계의 주의사항을 함께 제시.",
	},
	"compare": {
		Key:    "compare",
		Name:   "비교/분석",
		Prompt: "비교 대상의 기준을 먼저 정의하고 항목별로 차이를 정리한 뒤 상황별 추천을 제시.",
	},
	CategoryRewrite: {
		Key:    CategoryRewrite,
		Name:   "원고 리라이팅",
		Prompt: "주어진 원문의 사실과 핵심 주장은 유지하되 문장과 구성을 새롭게 다시 작성.",
	},
}

var tones = map[string]Tone{
	"professional": {
		Key:    "professional",
		Name:   "전문적",
		Prompt: "신뢰감 있는 전문가의 어조.",
	},
	"friendly": {
		Key:    "friendly",
		Name:   "친근한",
		Prompt: "이웃에게 설명하듯 편안하고 다정한 어조.",
	},
	"casual": {
		Key:    "casual",
		Name:   "가벼운",
		Prompt: "짧은 문장 위주의 가볍고 경쾌한 어조.",
	},
	"persuasive": {
		Key:    "persuasive",
		Name:   "설득형",
		Prompt: "독자의 행동을 유도하는 설득력 있는 어조.",
	},
}

// LookupStyle returns the style for key, falling back to style A.
func LookupStyle(key string) Style {
	if s, ok := styles[strings.ToUpper(strings.TrimSpace(key))]; ok {
		return s
	}
	return styles[DefaultStyle]
}

// LookupCategory returns the category for key, falling back to info.
func LookupCategory(key string) Category {
	if c, ok := categories[strings.ToLower(strings.TrimSpace(key))]; ok {
		return c
	}
	return categories[DefaultCategory]
}

// LookupTone returns the tone for key, falling back to professional.
func LookupTone(key string) Tone {
	if t, ok := tones[strings.ToLower(strings.TrimSpace(key))]; ok {
		return t
	}
	return tones[DefaultTone]
}

// Styles lists the known styles in key order.
func Styles() []Style {
	return []Style{styles["A"], styles["B"], styles["C"]}
}

const outputFormat = `다음 형식을 정확히 지켜 출력하세요:
===제목===
(50자 이내의 제목)
===본문===
(본문)
===해시태그===
(#키워드 형식의 해시태그 5~10개, 공백으로 구분)`

func writingRules(style Style, category Category, tone Tone) string {
	return fmt.Sprintf(`당신은 네이버 블로그 SEO 전문가입니다. 다음 조건을 반드시 지켜 글을 작성하세요:

1. 분량: 공백 포함 1,700자 이상의 장문으로 작성
2. 이모지: 절대로 사용하지 마세요 (이모지, 이모티콘 완전 금지)
3. 문체: "%s" 체를 일관되게 사용
4. 스타일: %s
5. 글 유형: %s
6. 어조: %s
7. 구조:
   - [서론] 주제 소개 및 독자 관심 유도
   - [핵심 요약] 3줄로 핵심 내용 요약
   - [본문] 3개 이상의 소제목으로 구분하여 상세 설명
   - [Q&A] 독자가 궁금해할 질문 2-3개와 답변
   - [결론] 핵심 정리 및 행동 유도
8. SEO: 주제 관련 키워드를 자연스럽게 반복 사용
9. GEO: 신뢰할 수 있는 출처나 구체적인 데이터 언급
10. 각 소제목은 "1.", "2.", "3." 형식으로 번호를 붙이세요
11. Q&A 섹션은 "Q." "A." 형식으로 작성하세요`, style.Suffix, style.Prompt, category.Prompt, tone.Prompt)
}

// GeneratePrompt builds the prompt for a topic based post.
func GeneratePrompt(topic string, style Style, category Category, tone Tone) string {
	return fmt.Sprintf("%s\n\n%s\n\n주제: %s\n\n위 조건에 맞춰 네이버 블로그 포스팅을 작성해주세요.",
		writingRules(style, category, tone), outputFormat, topic)
}

// RewritePrompt builds the prompt for rewriting existing text.
func RewritePrompt(original string, style Style, tone Tone) string {
	return fmt.Sprintf("%s\n\n%s\n\n원문:\n%s\n\n위 원문을 조건에 맞춰 새로운 네이버 블로그 포스팅으로 다시 작성해주세요.",
		writingRules(style, categories[CategoryRewrite], tone), outputFormat, original)
}

// KeywordFinderPrompt builds the prompt for keyword research.
func KeywordFinderPrompt(mainKeyword string) string {
	return fmt.Sprintf(`당신은 네이버 검색 키워드 분석 전문가입니다.
메인 키워드: %s

다음 항목을 정리해주세요:
1. 연관 키워드 10개 (검색 의도와 함께)
2. 롱테일 키워드 10개
3. 블로그 포스팅 제목 추천 5개
4. 경쟁 강도 예상 (높음/중간/낮음)과 그 이유

이모지는 사용하지 마세요.`, mainKeyword)
}
