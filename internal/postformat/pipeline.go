// Package postformat turns generated or pasted text into a post ready for
// the Naver blog editor: emoji stripping, readability re-flow, guide
// markers, the fixed envelope, and title/body/hashtag splitting.
package postformat

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/alkime/xivix/pkg/collections"
)

// Config collapses the behavioral knobs of every pipeline variant.
type Config struct {
	GroupSize        int
	Randomized       bool
	Seed             uint64
	SummaryPreamble  bool
	MarkerStyle      MarkerStyle
	Media            []MediaSlot
	MinLinesForMedia int
	Headings         bool
	QA               bool
}

const (
	PresetNameClassic = "classic"
	PresetNameModern  = "modern"
)

// PresetClassic is the original layout: two-sentence blocks, summary
// preamble, plain guides, video at a third and image at two thirds.
func PresetClassic() Config {
	return Config{
		GroupSize:       2,
		SummaryPreamble: true,
		MarkerStyle:     StylePlain,
		Media: []MediaSlot{
			{Kind: MediaVideo, Offset: 1.0 / 3},
			{Kind: MediaImage, Offset: 0.66},
		},
		MinLinesForMedia: 10,
		Headings:         true,
		QA:               true,
	}
}

// PresetModern drops the summary preamble, since the provider writes its
// own title, and spreads three media guides over shorter posts.
func PresetModern() Config {
	return Config{
		GroupSize:       3,
		SummaryPreamble: false,
		MarkerStyle:     StyleIcon,
		Media: []MediaSlot{
			{Kind: MediaVideo, Offset: 1.0 / 3},
			{Kind: MediaImage, Offset: 0.5},
			{Kind: MediaBanner, Offset: 0.75},
		},
		MinLinesForMedia: 5,
		Headings:         true,
		QA:               true,
	}
}

// ParsePreset returns the preset registered under name.
func ParsePreset(name string) (Config, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PresetNameClassic:
		return PresetClassic(), nil
	case PresetNameModern:
		return PresetModern(), nil
	default:
		return Config{}, fmt.Errorf("unknown pipeline preset %q", name)
	}
}

// FormatOptions are the per-request inputs to Format.
type FormatOptions struct {
	Readability bool
	MediaURL    string
}

// Result is a formatted post and its character counts.
type Result struct {
	Text string
	// RawLength counts runes of the cleaned text before guides were added.
	RawLength int
	// PureTextLength counts runes once every guide string is removed.
	PureTextLength     int
	ReadabilityApplied bool
}

// Pipeline runs the formatting stages with a fixed Config. It holds no
// per-call state and is safe for concurrent use.
type Pipeline struct {
	cfg Config
}

// New creates a Pipeline.
func New(cfg Config) *Pipeline {
	cfg.GroupSize = max(cfg.GroupSize, 1)
	cfg.Media = append([]MediaSlot(nil), cfg.Media...)
	return &Pipeline{cfg: cfg}
}

// Config returns a copy of the pipeline configuration.
func (p *Pipeline) Config() Config {
	cfg := p.cfg
	cfg.Media = append([]MediaSlot(nil), p.cfg.Media...)
	return cfg
}

// Format strips text, optionally reflows it, inserts guides and wraps it.
// Guides and envelope blocks already present in text are dropped first, so
// formatting a formatted post does not repeat them.
func (p *Pipeline) Format(text string, opts FormatOptions) Result {
	cleaned := Strip(text)

	prior := detach(cleaned)
	if prior.changed {
		cleaned = prior.body
	}
	mediaURL := opts.MediaURL
	if strings.TrimSpace(mediaURL) == "" {
		mediaURL = prior.mediaURL
	}

	body := cleaned
	if opts.Readability {
		body = ReflowText(cleaned, p.cfg.Reflow())
	}

	marked := InsertMarkers(splitLines(body), p.cfg.Markers(mediaURL))
	out := Wrap(strings.TrimSpace(strings.Join(marked, "\n")), p.cfg.Envelope())

	return Result{
		Text:               out,
		RawLength:          utf8.RuneCountInString(strings.TrimSpace(cleaned)),
		PureTextLength:     PureTextLength(out),
		ReadabilityApplied: opts.Readability,
	}
}

// Reformat re-runs the re-flow and guide stages over text that may
// already have been formatted. Existing guides and envelope are replaced,
// not duplicated, so Reformat(Reformat(x)) == Reformat(x).
func (p *Pipeline) Reformat(text string) Result {
	prior := detach(text)

	reflowed := ReflowText(prior.body, p.cfg.Reflow())
	marked := InsertMarkers(splitLines(reflowed), p.cfg.Markers(prior.mediaURL))
	out := strings.TrimSpace(strings.Join(marked, "\n"))
	if prior.wrapped {
		out = Wrap(out, prior.env)
	}

	return Result{
		Text:               out,
		RawLength:          utf8.RuneCountInString(strings.TrimSpace(prior.body)),
		PureTextLength:     PureTextLength(out),
		ReadabilityApplied: true,
	}
}

// detached is text with its guide lines and envelope taken off.
type detached struct {
	body     string
	env      Envelope
	wrapped  bool
	mediaURL string
	// changed is true when any guide line or envelope block was removed.
	changed bool
}

func detach(text string) detached {
	body, env, wrapped := Unwrap(text)

	lines := splitLines(body)
	kept := collections.Filter(lines, func(line string) bool {
		return ClassifyLine(line) != KindMarker
	})

	return detached{
		body:     strings.Join(kept, "\n"),
		env:      env,
		wrapped:  wrapped,
		mediaURL: mediaURLFrom(lines),
		changed:  wrapped || len(kept) != len(lines),
	}
}

var guideString = regexp.MustCompile(`\[[^\[\]\n]*\]`)

// envelopeLines are the fixed envelope lines left once guide strings are
// removed: the summary heading, placeholders and rule, and the CTA text.
var envelopeLines = func() map[string]bool {
	set := make(map[string]bool)
	for _, line := range splitLines(guideString.ReplaceAllString(summaryBlock+"\n"+ctaBlock, "")) {
		if line != "" {
			set[line] = true
		}
	}
	return set
}()

// PureTextLength counts the runes a reader sees once every bracketed guide
// string and fixed envelope line is gone. Blank lines are not counted;
// line breaks between remaining lines are.
func PureTextLength(text string) int {
	var kept []string
	for _, line := range splitLines(guideString.ReplaceAllString(text, "")) {
		if line == "" || envelopeLines[line] {
			continue
		}
		kept = append(kept, line)
	}
	return utf8.RuneCountInString(strings.Join(kept, "\n"))
}

// Reflow returns the grouping options for this configuration. A non-zero
// Seed makes randomized grouping reproducible across calls.
func (c Config) Reflow() ReflowOptions {
	opts := ReflowOptions{GroupSize: c.GroupSize, Randomized: c.Randomized}
	if c.Randomized && c.Seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(c.Seed, c.Seed))
	}
	return opts
}

// Markers returns the guide configuration, embedding mediaURL in the video guide.
func (c Config) Markers(mediaURL string) MarkerConfig {
	return MarkerConfig{
		Style:    c.MarkerStyle,
		Headings: c.Headings,
		QA:       c.QA,
		Media:    c.Media,
		MinLines: c.MinLinesForMedia,
		MediaURL: strings.TrimSpace(mediaURL),
	}
}

// Envelope returns the envelope configuration.
func (c Config) Envelope() Envelope {
	return Envelope{SummaryPreamble: c.SummaryPreamble}
}

func splitLines(text string) []string {
	return collections.Apply(strings.Split(normalizeNewlines(text), "\n"), strings.TrimSpace)
}
