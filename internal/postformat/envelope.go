package postformat

import "strings"

// Envelope describes the fixed blocks placed around a formatted body.
type Envelope struct {
	// SummaryPreamble adds the three-line summary quote block on top.
	SummaryPreamble bool
}

const (
	summaryLabel = "[네이버 인용구: 요약형]"
	ctaLabel     = "[이미지 클릭 링크 가이드]"
	commentLabel = "[공감과 댓글 유도 문구]"
)

var summaryBlock = strings.Join([]string{
	summaryLabel,
	"제목: 이 포스팅의 핵심 3줄 요약",
	"1. (AI가 생성한 첫 번째 핵심 내용)",
	"2. (AI가 생성한 두 번째 핵심 내용)",
	"3. (AI가 생성한 세 번째 핵심 내용)",
	"---",
	"",
	"",
}, "\n")

var ctaBlock = strings.Join([]string{
	ctaLabel,
	`(배너 이미지를 넣고 링크를 연결하세요: "상담은 위 이미지를 클릭하세요")`,
	"",
	commentLabel,
	"궁금하신 점은 언제든 댓글로 남겨주세요.",
}, "\n")

// Wrap surrounds body with the summary block (if enabled) and the
// call-to-action block. An empty body still yields both blocks.
func Wrap(body string, env Envelope) string {
	var b strings.Builder
	if env.SummaryPreamble {
		b.WriteString(summaryBlock)
	}
	b.WriteString(body)
	b.WriteString("\n\n\n")
	b.WriteString(ctaBlock)
	return b.String()
}

// Unwrap detaches blocks added by Wrap. ok is false when text carries
// neither block.
func Unwrap(text string) (body string, env Envelope, ok bool) {
	body = strings.TrimSpace(normalizeNewlines(text))

	if rest, found := strings.CutPrefix(body, strings.TrimSpace(summaryBlock)); found {
		body = rest
		env.SummaryPreamble = true
		ok = true
	}
	if rest, found := strings.CutSuffix(body, ctaBlock); found {
		body = rest
		ok = true
	}

	return strings.TrimSpace(body), env, ok
}
