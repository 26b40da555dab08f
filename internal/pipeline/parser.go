package pipeline

import (
	"strings"

	"github.com/sells-group/hospitality-cli/internal/model"
)

// Answer labels the research prompts instruct the model to use. Model output
// is a soft contract, so extraction is line-oriented and forgiving.
const (
	groupLabel     = "Group Name:"
	locationsLabel = "Total Locations:"
)

// ParsePrimary extracts the (group, locations) pair from a primary research
// answer. When no Group Name line is present it falls back to substring
// detection of independence, then to truncating long prose to its first
// clause. Malformed input degrades to "Unknown", never an error.
func ParsePrimary(text string) (group, locations string) {
	group, locations = model.Unknown, model.Unknown

	g, l, groupFound, locationsFound := extractLabels(text)
	if groupFound {
		group = g
	}
	if locationsFound {
		locations = l
	}
	if groupFound {
		return group, locations
	}

	if strings.Contains(strings.ToLower(text), "independent") {
		return model.GroupIndependent, "1"
	}
	if len(text) > 100 {
		group = firstClause(text)
	}
	return group, locations
}

// ParseVerification extracts the pair from a verification synthesis answer.
// Unparseable text confirms the primary result, so defaults lean independent.
func ParseVerification(text string) (group, locations string) {
	group, locations = model.GroupIndependent, "1"

	g, l, groupFound, locationsFound := extractLabels(text)
	if groupFound {
		group = g
	}
	if locationsFound {
		locations = l
	}
	return group, locations
}

// extractLabels scans text line by line for the two answer labels.
func extractLabels(text string) (group, locations string, groupFound, locationsFound bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, groupLabel):
			group = cleanValue(strings.TrimPrefix(line, groupLabel))
			groupFound = true
		case strings.HasPrefix(line, locationsLabel):
			locations = cleanValue(strings.TrimPrefix(line, locationsLabel))
			locationsFound = true
		}
	}
	return group, locations, groupFound, locationsFound
}

// cleanValue strips markdown emphasis and surrounding whitespace from an
// extracted label value.
func cleanValue(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "*", ""))
}

// firstClause truncates text to whatever precedes the first period or
// newline, a best-effort group name for prose answers.
func firstClause(text string) string {
	s := strings.TrimSpace(text)
	if i := strings.IndexAny(s, ".\n"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
