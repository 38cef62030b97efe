// Package match scores postings against a candidate profile and classifies
// which profile variant fits each one.
package match

import (
	"strings"
	"unicode"

	"github.com/seekwell/comms-prospector/internal/skills"
)

// Focus is the pipeline's determination of which profile variant a posting
// best matches.
type Focus string

const (
	FocusInternal   Focus = "internal"
	FocusExternal   Focus = "external"
	FocusGeneralist Focus = "generalist"
)

// StrongMatchThreshold is the minimum raw overlap score a posting must reach
// to stay in the output. Below it the posting is dropped, not scored low.
const StrongMatchThreshold = 3.0

// Skills valuable regardless of variant. Matching one adds a bonus on top of
// the variant intersection.
var coreSkills = skills.NewSet(
	"communications strategy",
	"executive communications",
	"content strategy",
	"stakeholder management",
	"project management",
	"public relations",
	"employee engagement",
	"storytelling",
	"social media",
)

// Fallback title terms used when a profile variant declares no focus
// keywords of its own.
var (
	defaultInternalFocus = []string{
		"internal", "employee", "organizational", "corporate",
		"staff", "workforce", "culture", "change management",
	}
	defaultExternalFocus = []string{
		"external", "public relations", "pr", "media",
		"press", "publicity", "brand", "marketing",
	}
)

// Terms whose presence in a title marks it as generically
// communications-shaped rather than variant-specific.
var genericTitleTerms = []string{"communications", "specialist"}

// VariantProfile is one side of the candidate profile: the skills offered
// under that presentation and the title keywords that signal it.
type VariantProfile struct {
	Skills skills.Set
	Focus  []string
}

// Input carries everything a strategy needs to score one posting.
type Input struct {
	Title        string
	JobSkills    skills.Set
	Requirements []string
	Internal     VariantProfile
	External     VariantProfile
}

// Outcome is what a strategy produces for one posting. Retained reports
// whether the posting cleared the strategy's retention rule.
type Outcome struct {
	Score         float64
	MatchedSkills skills.Set
	Focus         Focus
	Retained      bool
}

// Strategy scores one posting. Implementations must be safe for reuse
// across postings.
type Strategy interface {
	Name() string
	Score(in Input) Outcome
}

func (in Input) internalFocus() []string {
	if len(in.Internal.Focus) > 0 {
		return in.Internal.Focus
	}
	return defaultInternalFocus
}

func (in Input) externalFocus() []string {
	if len(in.External.Focus) > 0 {
		return in.External.Focus
	}
	return defaultExternalFocus
}

// countTerms counts how many of the terms occur in text. Single-word terms
// must match a whole word so that "pr" does not fire inside "print";
// multi-word terms match as substrings.
func countTerms(text string, terms []string) int {
	text = strings.ToLower(text)
	var words []string
	hits := 0
	for _, term := range terms {
		if strings.ContainsRune(term, ' ') {
			if strings.Contains(text, term) {
				hits++
			}
			continue
		}
		if words == nil {
			words = splitWords(text)
		}
		for _, w := range words {
			if w == term {
				hits++
				break
			}
		}
	}
	return hits
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
