package postformat

import (
	"regexp"
	"strings"
)

// LineKind tags a line by the structural cue it carries.
type LineKind int

const (
	KindPlain LineKind = iota
	KindBlank
	KindHeading
	KindQuestion
	KindAnswer
	// KindMarker is a guide line this package inserted earlier.
	KindMarker
)

func (k LineKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindHeading:
		return "heading"
	case KindQuestion:
		return "question"
	case KindAnswer:
		return "answer"
	case KindMarker:
		return "marker"
	default:
		return "plain"
	}
}

// Structural reports whether lines of this kind must keep their own line.
func (k LineKind) Structural() bool {
	return k == KindHeading || k == KindQuestion || k == KindAnswer || k == KindMarker
}

var (
	questionLine = regexp.MustCompile(`^(?:Q[.:]|Q\d|질문\s*:|(?i:question)\s*:)`)
	answerLine   = regexp.MustCompile(`^(?:A[.:]|A\d|답변\s*:|(?i:answer)\s*:)`)
	// A digit right after the dot is a decimal, not a numbered heading.
	headingLine = regexp.MustCompile(`^(?:\d+\.(?:[^\d]|$)|#)`)
)

// ClassifyLine inspects a single trimmed line. Question and answer cues win
// over headings so "Q1. ..." is never read as a numbered heading.
func ClassifyLine(line string) LineKind {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return KindBlank
	case markerLine.MatchString(line):
		return KindMarker
	case questionLine.MatchString(line):
		return KindQuestion
	case answerLine.MatchString(line):
		return KindAnswer
	case headingLine.MatchString(line):
		return KindHeading
	default:
		return KindPlain
	}
}
