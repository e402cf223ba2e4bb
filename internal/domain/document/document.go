// Package document turns the loosely structured text returned by the
// generative API into display-ready fields.
//
// Everything in this package is a pure function over an in-memory string:
// nothing blocks, nothing is shared, and nothing returns an error. Missing
// or malformed input degrades to fallback titles and placeholder items.
package document

// DefaultTitle is used when a document carries no heading line.
const DefaultTitle = "AI-Generated Recipe"

// NoDataPlaceholder is the single item returned for a section that is
// absent from the document or has no content.
const NoDataPlaceholder = "No data available."

// ParsedDocument is the assembled, serializable form of a raw document.
// Every requested label is present in Sections.
type ParsedDocument struct {
	Title    string              `json:"title"`
	Sections map[string][]string `json:"sections"`
}

// Placeholder returns a fresh placeholder item list.
func Placeholder() []string {
	return []string{NoDataPlaceholder}
}

// IsPlaceholder reports whether items is the placeholder list.
func IsPlaceholder(items []string) bool {
	return len(items) == 1 && items[0] == NoDataPlaceholder
}

// MissingSections returns the labels whose items are the placeholder.
func (d ParsedDocument) MissingSections() []string {
	var missing []string
	for label, items := range d.Sections {
		if IsPlaceholder(items) {
			missing = append(missing, label)
		}
	}
	return missing
}

// IsPlaceholderOnly reports whether no requested section was found.
// Callers use it to decide whether an assembled result is worth keeping.
func (d ParsedDocument) IsPlaceholderOnly() bool {
	if len(d.Sections) == 0 {
		return true
	}
	for _, items := range d.Sections {
		if !IsPlaceholder(items) {
			return false
		}
	}
	return true
}
