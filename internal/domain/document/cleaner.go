package document

import (
	"regexp"
	"strings"
)

var (
	boldPair = regexp.MustCompile(`\*\*([^*\n]*?)\*\*`)

	// A leading bullet glyph, "-"/"*"/"+" followed by space, or an "N." / "N)" ordinal.
	leadingEnumeration = regexp.MustCompile(`^(?:[•·▪◦‣][ \t]*|[-*+–—][ \t]+|\d{1,3}[.)](?:[ \t]+|$))`)

	cookingVerb = regexp.MustCompile(`(?i)\b(preheat|bake|roast|grill|broil|fry|saute|boil|simmer|steam|mix|stir|whisk|combine|fold|knead|chop|slice|dice|mince|season|marinate|serve|garnish)\b`)
)

// verbSymbols maps a lower-cased cooking verb to its display symbol.
var verbSymbols = map[string]string{
	"preheat":  "🔥",
	"bake":     "🔥",
	"roast":    "🔥",
	"grill":    "🔥",
	"broil":    "🔥",
	"fry":      "🍳",
	"saute":    "🍳",
	"boil":     "💧",
	"simmer":   "💧",
	"steam":    "💧",
	"mix":      "🥄",
	"stir":     "🥄",
	"whisk":    "🥄",
	"combine":  "🥄",
	"fold":     "🥄",
	"knead":    "🥄",
	"chop":     "🔪",
	"slice":    "🔪",
	"dice":     "🔪",
	"mince":    "🔪",
	"season":   "🧂",
	"marinate": "🧂",
	"serve":    "🍽️",
	"garnish":  "🌿",
}

// CleanLine strips bold markup and leading enumeration tokens from a single
// line. Emoji and the rest of the line are preserved. CleanLine is idempotent.
func CleanLine(line string) string {
	s := strings.TrimSpace(stripBold(line))
	for {
		loc := leadingEnumeration.FindStringIndex(s)
		if loc == nil {
			return s
		}
		s = strings.TrimSpace(s[loc[1]:])
	}
}

// Annotate prefixes every recognized cooking verb in line with its symbol.
// It only inserts text, and an occurrence that already carries its symbol
// is left alone, so repeated calls do not stack symbols.
func Annotate(line string) string {
	matches := cookingVerb.FindAllStringIndex(line, -1)
	if len(matches) == 0 {
		return line
	}

	var b strings.Builder
	b.Grow(len(line) + len(matches)*8)
	prev := 0
	for _, m := range matches {
		symbol := verbSymbols[strings.ToLower(line[m[0]:m[1]])]
		b.WriteString(line[prev:m[0]])
		if !strings.HasSuffix(line[:m[0]], symbol+" ") {
			b.WriteString(symbol)
			b.WriteByte(' ')
		}
		b.WriteString(line[m[0]:m[1]])
		prev = m[1]
	}
	b.WriteString(line[prev:])
	return b.String()
}

func stripBold(s string) string {
	s = boldPair.ReplaceAllString(s, "$1")
	return strings.ReplaceAll(s, "**", "")
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
