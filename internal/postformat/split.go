package postformat

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/alkime/xivix/pkg/collections"
)

// DefaultMaxTitleLen bounds the first-line title fallback, in runes.
const DefaultMaxTitleLen = 50

// SplitOptions configures Split.
type SplitOptions struct {
	// Topic seeds the degraded title when nothing usable is found.
	Topic string
	// MaxTitleLen defaults to DefaultMaxTitleLen.
	MaxTitleLen int
}

// Sections is a provider response broken into its parts.
type Sections struct {
	Title    string
	Body     string
	Hashtags string
	// Delimited is true when both title and body came from section markers.
	Delimited bool
}

var (
	titleDelim = regexp.MustCompile(`(?i)===\s*(?:제목|title)\s*===|\[(?:제목|title)\]`)
	bodyDelim  = regexp.MustCompile(`(?i)===\s*(?:본문|body|content)\s*===|\[(?:본문|body|content)\]`)
	tagsDelim  = regexp.MustCompile(`(?i)===\s*(?:해시태그|hashtags?|tags)\s*===|\[(?:해시태그|hashtags?|tags)\]`)
	hashtag    = regexp.MustCompile(`#\S+`)
	titleLead  = regexp.MustCompile(`^(?:#+\s*|제목\s*:\s*)`)
)

// Split locates the title, body and hashtag sections of raw. It never
// fails: missing markers fall back to first-line-as-title, and failing
// that to a title derived from opts.Topic with the whole text as body.
func Split(raw string, opts SplitOptions) Sections {
	raw = normalizeNewlines(raw)
	maxTitle := opts.MaxTitleLen
	if maxTitle <= 0 {
		maxTitle = DefaultMaxTitleLen
	}

	titleLoc := titleDelim.FindStringIndex(raw)
	cursor := 0
	if titleLoc != nil {
		cursor = titleLoc[1]
	}
	bodyLoc := findFrom(bodyDelim, raw, cursor)
	if bodyLoc != nil {
		cursor = bodyLoc[1]
	}
	tagsLoc := findFrom(tagsDelim, raw, cursor)

	end := len(raw)
	if tagsLoc != nil {
		end = tagsLoc[0]
	}

	var s Sections
	if titleLoc != nil {
		titleEnd := end
		if bodyLoc != nil {
			titleEnd = bodyLoc[0]
		}
		s.Title = strings.TrimSpace(raw[titleLoc[1]:titleEnd])
	}
	if bodyLoc != nil {
		s.Body = strings.TrimSpace(raw[bodyLoc[1]:end])
	}
	if tagsLoc != nil {
		s.Hashtags = NormalizeHashtags(raw[tagsLoc[1]:])
	}

	if s.Title != "" && s.Body != "" {
		s.Delimited = true
		return s
	}

	rest := raw[:end]
	for _, delim := range []*regexp.Regexp{titleDelim, bodyDelim} {
		rest = delim.ReplaceAllString(rest, "")
	}
	s.Title, s.Body = firstLineTitle(strings.TrimSpace(rest), maxTitle)
	if s.Title == "" {
		s.Title = fallbackTitle(opts.Topic)
	}
	if s.Body == "" {
		s.Body = strings.TrimSpace(rest)
	}
	if s.Body == "" {
		s.Body = strings.TrimSpace(raw)
	}

	return s
}

// NormalizeHashtags extracts #tags from text, drops repeats and joins them
// with single spaces.
func NormalizeHashtags(text string) string {
	return strings.Join(collections.Unique(hashtag.FindAllString(text, -1)), " ")
}

func findFrom(re *regexp.Regexp, text string, from int) []int {
	loc := re.FindStringIndex(text[from:])
	if loc == nil {
		return nil
	}
	return []int{loc[0] + from, loc[1] + from}
}

func firstLineTitle(text string, maxTitle int) (title, body string) {
	if text == "" {
		return "", ""
	}
	first, remainder, _ := strings.Cut(text, "\n")
	first = strings.TrimSpace(titleLead.ReplaceAllString(strings.TrimSpace(first), ""))
	if first == "" || utf8.RuneCountInString(first) >= maxTitle {
		return "", text
	}
	return first, strings.TrimSpace(remainder)
}

func fallbackTitle(topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "가이드"
	}
	return topic + " 가이드"
}
