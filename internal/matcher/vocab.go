package matcher

import (
	"regexp"
	"strings"
)

// VocabEntry maps a natural-language pattern to a canonical field name.
// The first capture group of Pattern is the extracted value; a nil Normalize
// keeps the captured text as-is.
type VocabEntry struct {
	Field     string
	Pattern   *regexp.Regexp
	Normalize func(string) string
}

// defaultVocab covers common booking and commerce vocabulary. It is a
// data-driven table so embedders can extend it for new domains without
// touching the extraction logic.
var defaultVocab = []VocabEntry{
	{
		Field:   "name",
		Pattern: regexp.MustCompile(`\b(?:named|name is|my name is|for customer|customer)\s+"?([A-Z][\w'-]*(?:\s+[A-Z][\w'-]*)?)"?`),
	},
	{
		Field:   "email",
		Pattern: regexp.MustCompile(`([\w.+-]+@[\w-]+\.[\w.-]+)`),
	},
	{
		Field:   "phone",
		Pattern: regexp.MustCompile(`((?:\+\d{1,2}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4})`),
	},
	{
		Field:   "garage",
		Pattern: regexp.MustCompile(`\b(?:at|garage|shop)\s+"?([A-Z][\w&'-]*(?:\s+[A-Z][\w&'-]*){0,3})"?`),
	},
	{
		Field:   "service",
		Pattern: regexp.MustCompile(`(?i)\b(oil change|tire rotation|brake (?:service|inspection|repair)|wheel alignment|battery replacement|inspection|tune-?up|diagnostic)\b`),
		Normalize: func(s string) string {
			return strings.ToLower(s)
		},
	},
	{
		Field:   "make",
		Pattern: regexp.MustCompile(`(?i)\b(toyota|honda|ford|chevrolet|chevy|bmw|audi|mercedes|volkswagen|vw|nissan|hyundai|kia|subaru|mazda|tesla|volvo|jeep|lexus)\b`),
		Normalize: func(s string) string {
			return strings.ToLower(s)
		},
	},
	{
		Field:   "model",
		Pattern: regexp.MustCompile(`(?i)(?:model)\s+"?([\w-]+)"?`),
	},
	{
		Field:   "year",
		Pattern: regexp.MustCompile(`\b(19\d{2}|20\d{2})\b\s+(?i:model|car|vehicle|toyota|honda|ford|chevrolet|bmw|audi|mercedes|nissan)`),
	},
	{
		Field:   "notes",
		Pattern: regexp.MustCompile(`(?i)notes?[:\s]+"([^"]+)"`),
	},
}

// lookupVocab runs every vocabulary entry against the query and returns
// canonical field -> raw value for the patterns that matched.
func lookupVocab(query string, vocab []VocabEntry) map[string]string {
	out := make(map[string]string)
	for _, entry := range vocab {
		if _, seen := out[entry.Field]; seen {
			continue
		}
		m := entry.Pattern.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if entry.Normalize != nil {
			value = entry.Normalize(value)
		}
		if value != "" {
			out[entry.Field] = value
		}
	}
	return out
}

// matchProperty picks the captured canonical value for a declared body
// property name. "name" fills both "name" and "customer_name"; "garage"
// fills "garage_name". Exact matches beat affix matches beat substring
// matches; ties go to the longer (more specific) canonical name.
func matchProperty(property string, captured map[string]string) (string, bool) {
	p := strings.ToLower(property)

	var bestValue string
	bestTier, bestLen := 0, 0

	for canonical, value := range captured {
		tier := 0
		switch {
		case p == canonical:
			tier = 3
		case strings.HasSuffix(p, "_"+canonical) || strings.HasPrefix(p, canonical+"_"):
			tier = 2
		case strings.Contains(p, canonical):
			tier = 1
		default:
			continue
		}
		if tier > bestTier || (tier == bestTier && len(canonical) > bestLen) {
			bestTier, bestLen, bestValue = tier, len(canonical), value
		}
	}

	return bestValue, bestTier > 0
}
