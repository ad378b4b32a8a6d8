// Package normalize canonicalizes manufacturer part numbers and brand names
// so that heterogeneous catalog sources can be matched and indexed uniformly.
package normalize

import (
	"strings"
)

// brandCanon maps the normalized form of known brand variants to one
// canonical display spelling. Keys must be in PartNumber form.
var brandCanon = map[string]string{
	"CATERPILLAR": "Caterpillar",
	"CAT":         "Caterpillar",
	"JOHNDEERE":   "John Deere",
	"DEERE":       "John Deere",
	"KOMATSU":     "Komatsu",
	"CUMMINS":     "Cummins",
	"BOBCAT":      "Bobcat",
	"VOLVO":       "Volvo",
	"CASEIH":      "Case IH",
	"NEWHOLLAND":  "New Holland",
	"KUBOTA":      "Kubota",
	"HITACHI":     "Hitachi",
	"JCB":         "JCB",
	"DONALDSON":   "Donaldson",
	"FLEETGUARD":  "Fleetguard",
	"BALDWIN":     "Baldwin",
	"WIX":         "WIX",
}

// PartNumber reduces a raw manufacturer part number to its canonical form:
// uppercase with every non-alphanumeric rune removed. It is total (any input,
// including empty, yields a defined result) and idempotent.
func PartNumber(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToUpper(raw) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Brand maps known brand-name variants to a single canonical spelling.
// Unknown brands pass through trimmed of surrounding whitespace.
func Brand(raw string) string {
	if canonical, ok := brandCanon[PartNumber(raw)]; ok {
		return canonical
	}
	return strings.TrimSpace(raw)
}

// Tokens splits a combined brand + part number string on non-alphanumeric
// boundaries and normalizes each fragment. Empty fragments are dropped, so
// every returned token is non-empty and already in PartNumber form.
func Tokens(raw string) []string {
	fields := strings.FieldsFunc(strings.ToUpper(raw), func(r rune) bool {
		return !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := PartNumber(f); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
