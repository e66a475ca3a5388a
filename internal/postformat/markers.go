package postformat

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// MarkerStyle selects how guide strings are rendered.
type MarkerStyle int

const (
	// StylePlain renders guides as bare bracket text.
	StylePlain MarkerStyle = iota
	// StyleIcon prefixes each guide with an icon glyph.
	StyleIcon
)

// ParseMarkerStyle maps "plain" or "icon" to a MarkerStyle.
func ParseMarkerStyle(name string) (MarkerStyle, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "plain":
		return StylePlain, nil
	case "icon":
		return StyleIcon, nil
	default:
		return StylePlain, fmt.Errorf("unknown marker style %q", name)
	}
}

// MediaKind identifies a media guide placed at a fractional offset.
type MediaKind int

const (
	MediaVideo MediaKind = iota
	MediaImage
	MediaBanner
)

// MediaSlot places one media guide at floor(total*Offset).
type MediaSlot struct {
	Kind   MediaKind
	Offset float64
}

// MarkerConfig controls InsertMarkers.
type MarkerConfig struct {
	Style    MarkerStyle
	Headings bool
	QA       bool
	Media    []MediaSlot
	// MinLines is the line count the input must exceed before media guides fire.
	MinLines int
	// MediaURL, when set, is embedded in the video guide.
	MediaURL string
}

const (
	labelSticker     = "스티커 삽입 위치"
	labelQuote       = "인용구: 말풍선형"
	labelEmphasis    = "강조 텍스트: 볼드"
	labelVideo       = "네이버 동영상/Shorts 삽입 영역"
	labelVideoURL    = "동영상 삽입: "
	labelImage       = "이미지 삽입 위치"
	labelBanner      = "배너 삽입 위치"
	iconSticker      = "📌"
	iconQuote        = "💬"
	iconEmphasis     = "💡"
	iconVideo        = "🎬"
	iconImage        = "📷"
	iconBanner       = "🔗"
	mediaOffsetNudge = 1e-9
)

var markerLine = regexp.MustCompile(`^\[\s*(?:\S+\s+)?(?:` + strings.Join([]string{
	regexp.QuoteMeta(labelSticker),
	regexp.QuoteMeta(labelQuote),
	regexp.QuoteMeta(labelEmphasis),
	regexp.QuoteMeta(labelVideo),
	regexp.QuoteMeta(labelVideoURL) + `[^\]]*`,
	regexp.QuoteMeta(labelImage),
	regexp.QuoteMeta(labelBanner),
}, "|") + `)\]$`)

// guideURLEscaper keeps a URL from closing the guide bracket or the line.
var guideURLEscaper = strings.NewReplacer("[", "%5B", "]", "%5D", "\n", "%0A", "\r", "%0D")

var videoURLMarker = regexp.MustCompile(`^\[\s*(?:\S+\s+)?` + regexp.QuoteMeta(labelVideoURL) + `([^\]]+)\]$`)

func (s MarkerStyle) render(icon, label string) string {
	if s == StyleIcon {
		return "[" + icon + " " + label + "]"
	}
	return "[" + label + "]"
}

func (c MarkerConfig) structuralMarker(kind LineKind) (string, bool) {
	switch kind {
	case KindHeading:
		return c.Style.render(iconSticker, labelSticker), c.Headings
	case KindQuestion:
		return c.Style.render(iconQuote, labelQuote), c.QA
	case KindAnswer:
		return c.Style.render(iconEmphasis, labelEmphasis), c.QA
	default:
		return "", false
	}
}

func (c MarkerConfig) mediaMarker(kind MediaKind) string {
	switch kind {
	case MediaVideo:
		if c.MediaURL != "" {
			return c.Style.render(iconVideo, labelVideoURL+guideURLEscaper.Replace(c.MediaURL))
		}
		return c.Style.render(iconVideo, labelVideo)
	case MediaImage:
		return c.Style.render(iconImage, labelImage)
	default:
		return c.Style.render(iconBanner, labelBanner)
	}
}

// InsertMarkers interleaves guide lines with lines. Structural guides go
// right before the heading, question or answer they mark; media guides go
// after the line at their offset and fire at most once per kind.
func InsertMarkers(lines []string, cfg MarkerConfig) []string {
	total := len(lines)
	inserted := make(map[MediaKind]bool, len(cfg.Media))
	out := make([]string, 0, total+2*len(cfg.Media)+8)

	for i, line := range lines {
		if marker, ok := cfg.structuralMarker(ClassifyLine(line)); ok {
			out = appendGuide(out, marker)
		}
		out = appendLine(out, line)

		if total <= cfg.MinLines {
			continue
		}
		for _, slot := range cfg.Media {
			if inserted[slot.Kind] || i != mediaIndex(total, slot.Offset) {
				continue
			}
			out = appendGuide(out, cfg.mediaMarker(slot.Kind))
			out = append(out, "")
			inserted[slot.Kind] = true
		}
	}

	return out
}

func mediaIndex(total int, offset float64) int {
	return int(math.Floor(float64(total)*offset + mediaOffsetNudge))
}

func appendGuide(out []string, guide string) []string {
	if len(out) > 0 && out[len(out)-1] != "" {
		out = append(out, "")
	}
	return append(out, guide)
}

// appendLine keeps at most one blank line in a row and none at the start.
func appendLine(out []string, line string) []string {
	if line == "" && (len(out) == 0 || out[len(out)-1] == "") {
		return out
	}
	return append(out, line)
}

// mediaURLFrom returns the URL embedded in an existing video guide, if any.
func mediaURLFrom(lines []string) string {
	for _, line := range lines {
		if m := videoURLMarker.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
