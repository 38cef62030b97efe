// Package templates picks the document variant for a scored posting and
// renders the variant's resume and cover letter for it.
package templates

import (
	"strings"
	"unicode"
)

// Variant names one of the two candidate profile presentations.
type Variant string

const (
	VariantInternal Variant = "internal"
	VariantExternal Variant = "external"
)

var (
	internalIndicators = []string{
		"internal", "employee", "organizational", "corporate",
		"change management", "staff", "workforce", "culture",
	}
	externalIndicators = []string{
		"external", "public relations", "pr", "media",
		"press", "publicity", "brand", "marketing",
	}
)

// SelectVariant counts internal against external indicator keywords across
// the title and every requirement phrase. Ties go to internal. Pure function
// of its inputs.
func SelectVariant(title string, requirements []string) Variant {
	texts := append([]string{title}, requirements...)

	internal, external := 0, 0
	for _, text := range texts {
		text = strings.ToLower(text)
		internal += countIndicators(text, internalIndicators)
		external += countIndicators(text, externalIndicators)
	}

	if external > internal {
		return VariantExternal
	}
	return VariantInternal
}

// countIndicators counts keyword hits in text. Single-word keywords must
// match a whole word so that "pr" does not fire inside "print".
func countIndicators(text string, keywords []string) int {
	var words []string
	hits := 0
	for _, kw := range keywords {
		if strings.ContainsRune(kw, ' ') {
			if strings.Contains(text, kw) {
				hits++
			}
			continue
		}
		if words == nil {
			words = strings.FieldsFunc(text, func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsDigit(r)
			})
		}
		for _, w := range words {
			if w == kw {
				hits++
				break
			}
		}
	}
	return hits
}
