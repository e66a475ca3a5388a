package postformat

import (
	"iter"
	"math/rand/v2"
	"regexp"
	"strings"
)

// ReflowOptions controls sentence grouping.
type ReflowOptions struct {
	// GroupSize is the number of sentences per block; values below 1 mean 1.
	GroupSize int
	// Randomized extends a block by one sentence on a coin flip.
	Randomized bool
	// Rand drives Randomized grouping. Nil uses an unseeded source.
	Rand *rand.Rand
}

var excessBreaks = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)

func (o ReflowOptions) size() int {
	return max(o.GroupSize, 1)
}

func (o ReflowOptions) nextTarget() int {
	size := o.size()
	if !o.Randomized {
		return size
	}
	coin := rand.IntN
	if o.Rand != nil {
		coin = o.Rand.IntN
	}
	if coin(2) == 1 {
		return size + 1
	}
	return size
}

// Reflow joins GroupSize units with spaces per block and separates blocks
// with one blank line.
func Reflow(units iter.Seq[string], opts ReflowOptions) string {
	var blocks, group []string
	target := opts.nextTarget()

	for unit := range units {
		unit = strings.TrimSpace(unit)
		if unit == "" {
			continue
		}
		group = append(group, unit)
		if len(group) >= target {
			blocks = append(blocks, strings.Join(group, " "))
			group = group[:0]
			target = opts.nextTarget()
		}
	}
	if len(group) > 0 {
		blocks = append(blocks, strings.Join(group, " "))
	}

	return collapseBreaks(strings.Join(blocks, "\n\n"))
}

// ReflowText reflows every plain line of text while headings, Q&A lines
// and guide lines keep a line of their own. With deterministic grouping
// ReflowText(ReflowText(x)) == ReflowText(x).
func ReflowText(text string, opts ReflowOptions) string {
	var parts []string
	for _, line := range strings.Split(normalizeNewlines(text), "\n") {
		line = strings.TrimSpace(line)
		switch kind := ClassifyLine(line); {
		case kind == KindBlank:
			continue
		case kind.Structural():
			parts = append(parts, line)
		default:
			parts = append(parts, Reflow(Segment(line, SentenceMode), opts))
		}
	}

	return collapseBreaks(strings.TrimSpace(strings.Join(parts, "\n\n")))
}

// collapseBreaks turns any run of three or more line breaks into exactly two.
func collapseBreaks(text string) string {
	return excessBreaks.ReplaceAllString(text, "\n\n")
}
