package document

import (
	"regexp"
	"strings"
	"sync"
)

var (
	markdownHeading = regexp.MustCompile(`^[ \t]*#{1,6}[ \t]+\S`)

	// An unbulleted line opening with a capitalized word, optionally in bold.
	capitalizedLead = regexp.MustCompile(`^[ \t]*(?:\*\*[ \t]*)?\p{Lu}`)

	labelPatterns sync.Map // label -> *regexp.Regexp
)

// SectionOption adjusts how ExtractSection captures a section.
type SectionOption func(*sectionConfig)

type sectionConfig struct {
	annotate bool
	siblings []string
}

// WithAnnotation runs Annotate over every captured item.
func WithAnnotation() SectionOption {
	return func(c *sectionConfig) { c.annotate = true }
}

// WithSiblings names other labels of the same document. A line that
// introduces one of them ends the section even when it does not look like
// a heading, e.g. "* **Lunch:** Salad" inside a meal plan.
func WithSiblings(labels ...string) SectionOption {
	return func(c *sectionConfig) { c.siblings = append(c.siblings, labels...) }
}

// ExtractSection returns the cleaned, non-empty items following every
// occurrence of label in raw, in document order. Matching is
// case-insensitive and tolerates heading marks, bold markers, a trailing
// parenthetical such as "(per serving)" and a missing colon. The label must
// be followed by a colon, closing bold markers, a dash or the end of the
// line, so "- Dinner rolls" is an item rather than a Dinner label.
//
// A capture runs from the end of the label to the next section boundary or
// the end of the document. If the label is absent or every captured line is
// empty, the placeholder list is returned.
func ExtractSection(raw, label string, opts ...SectionOption) []string {
	cfg := sectionConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	label = strings.TrimSpace(label)
	text := normalizeNewlines(raw)
	if label == "" || strings.TrimSpace(text) == "" {
		return Placeholder()
	}

	pattern := labelPattern(label)
	matches := pattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return Placeholder()
	}

	stops := make([]*regexp.Regexp, 0, len(cfg.siblings)+1)
	stops = append(stops, pattern)
	for _, sibling := range cfg.siblings {
		if s := strings.TrimSpace(sibling); s != "" && !strings.EqualFold(s, label) {
			stops = append(stops, labelPattern(s))
		}
	}

	var items []string
	for _, m := range matches {
		for _, line := range captureLines(text[m[1]:], stops) {
			item := CleanLine(line)
			if item == "" {
				continue
			}
			if cfg.annotate {
				item = Annotate(item)
			}
			items = append(items, item)
		}
	}

	if len(items) == 0 {
		return Placeholder()
	}
	return items
}

// captureLines returns the remainder of the current line followed by every
// line up to, but excluding, the first boundary line.
func captureLines(rest string, stops []*regexp.Regexp) []string {
	lines := strings.Split(rest, "\n")
	captured := []string{lines[0]}
	for _, line := range lines[1:] {
		if isBoundary(line, stops) {
			break
		}
		captured = append(captured, line)
	}
	return captured
}

func isBoundary(line string, stops []*regexp.Regexp) bool {
	if markdownHeading.MatchString(line) || capitalizedLead.MatchString(line) {
		return true
	}
	for _, stop := range stops {
		if stop.MatchString(line) {
			return true
		}
	}
	return false
}

// labelPattern matches a line that introduces label. The label's trailing
// "s" is optional so "Snack" and "Snacks" introduce the same section.
func labelPattern(label string) *regexp.Regexp {
	if cached, ok := labelPatterns.Load(label); ok {
		return cached.(*regexp.Regexp)
	}

	words := strings.Fields(strings.TrimSuffix(label, "s"))
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}

	re := regexp.MustCompile(`(?im)^[ \t]*(?:[-*•+][ \t]+)?(?:#{1,6}[ \t]*)?\*{0,2}[ \t]*` +
		strings.Join(words, `[ \t]+`) + `(?:e?s)?` +
		`[ \t]*(?:\([^)\n]*\))?[ \t]*` +
		`(?:\*{1,2}[ \t]*:?|:[ \t]*\*{0,2}|[-–—](?:[ \t]|$)|$)`)

	actual, _ := labelPatterns.LoadOrStore(label, re)
	return actual.(*regexp.Regexp)
}
