package postformat

import (
	"iter"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SegmentMode selects how Segment breaks text into units.
type SegmentMode int

const (
	// SentenceMode splits after sentence-ending punctuation.
	SentenceMode SegmentMode = iota
	// ParagraphMode splits on blank lines.
	ParagraphMode
)

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n`)

// Segment returns the trimmed, non-empty units of text. The sequence can be
// ranged over any number of times; each pass rescans text.
func Segment(text string, mode SegmentMode) iter.Seq[string] {
	return segment(text, mode, false)
}

// SegmentPreserving is Segment but yields empty units too, so callers can
// rebuild the original paragraph spacing.
func SegmentPreserving(text string, mode SegmentMode) iter.Seq[string] {
	return segment(text, mode, true)
}

func segment(text string, mode SegmentMode, keepEmpty bool) iter.Seq[string] {
	text = normalizeNewlines(text)

	return func(yield func(string) bool) {
		emit := func(unit string) bool {
			unit = strings.TrimSpace(unit)
			if unit == "" && !keepEmpty {
				return true
			}
			return yield(unit)
		}

		if mode == ParagraphMode {
			for _, para := range paragraphBreak.Split(text, -1) {
				if !emit(para) {
					return
				}
			}
			return
		}

		start := 0
		var prev rune
		for i := 0; i < len(text); {
			r, size := utf8.DecodeRuneInString(text[i:])
			if !isTerminator(r) {
				prev = r
				i += size
				continue
			}

			end := skipWhile(text, i, isTerminator)
			end = skipWhile(text, end, isCloser)
			if end >= len(text) {
				break
			}

			next, _ := utf8.DecodeRuneInString(text[end:])
			if unicode.IsSpace(next) && endsSentence(prev) {
				if !emit(text[start:end]) {
					return
				}
				start = end
			}

			prev, _ = utf8.DecodeLastRuneInString(text[i:end])
			i = end
		}

		if start < len(text) {
			emit(text[start:])
		}
	}
}

func skipWhile(text string, i int, match func(rune) bool) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !match(r) {
			break
		}
		i += size
	}
	return i
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '…', '！', '？':
		return true
	}
	return false
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’', '」', '』':
		return true
	}
	return false
}

// endsSentence reports whether a terminator after r closes a sentence.
// Digits never do: "3.5" and "1. Introduction" stay whole.
func endsSentence(r rune) bool {
	return unicode.IsLetter(r) || isCloser(r)
}

func normalizeNewlines(text string) string {
	return strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n")
}
