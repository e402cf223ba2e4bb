package document

import (
	"regexp"
	"strings"
)

var headingLine = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+(.+?)[ \t]*$`)

// ExtractTitle returns the text of the first heading line of raw, or
// DefaultTitle when there is none.
func ExtractTitle(raw string) string {
	return ExtractTitleOr(raw, DefaultTitle)
}

// ExtractTitleOr is ExtractTitle with a caller-chosen fallback.
func ExtractTitleOr(raw, fallback string) string {
	for _, m := range headingLine.FindAllStringSubmatch(normalizeNewlines(raw), -1) {
		title := strings.TrimRight(m[1], "# \t")
		title = strings.TrimSpace(stripBold(title))
		if title != "" {
			return title
		}
	}
	return fallback
}
