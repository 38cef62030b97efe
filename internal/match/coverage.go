package match

import (
	"strings"

	"github.com/seekwell/comms-prospector/internal/extract"
	"github.com/seekwell/comms-prospector/internal/skills"
)

// Title terms that raise the coverage multiplier. Each hit adds 20%.
var titleRelevanceTerms = []string{
	"communications", "pr", "public relations", "content", "media",
	"internal", "corporate", "strategic", "marketing", "digital",
	"manager", "director", "specialist", "lead", "head",
}

// RequirementCoverage scores a posting as the ratio of matched candidate
// skills to extracted requirements, as a percentage, boosted by title
// relevance and capped at 100. It retains every posting; low scores are for
// the caller to rank, not to drop.
type RequirementCoverage struct {
	table *skills.Table
}

func NewRequirementCoverage(table *skills.Table) *RequirementCoverage {
	return &RequirementCoverage{table: table}
}

func (s *RequirementCoverage) Name() string { return "requirement-coverage" }

func (s *RequirementCoverage) Score(in Input) Outcome {
	candidate := s.table.NormalizeSet(in.Internal.Skills.Sorted()).
		Union(s.table.NormalizeSet(in.External.Skills.Sorted()))

	matchedSkills := skills.NewSet()
	for _, req := range in.Requirements {
		reqLower := strings.ToLower(req)
		for _, skill := range candidate.Sorted() {
			if skillMatchesRequirement(skill, reqLower) {
				matchedSkills.Add(skill)
			}
		}
	}

	// Matched skill count over requirement count, so a posting whose few
	// requirements are covered by several candidate skills can exceed 100
	// before the cap.
	score := 0.0
	if len(in.Requirements) > 0 {
		score = float64(matchedSkills.Len()) / float64(len(in.Requirements)) * 100
	}

	title := strings.ToLower(in.Title)
	score *= 1 + 0.2*float64(countTerms(title, titleRelevanceTerms))
	if score > 100 {
		score = 100
	}

	out := Outcome{
		Score:         score,
		MatchedSkills: matchedSkills,
		Retained:      true,
	}

	internalHits := countTerms(title, in.internalFocus())
	externalHits := countTerms(title, in.externalFocus())
	switch {
	case internalHits > externalHits:
		out.Focus = FocusInternal
	case externalHits > internalHits:
		out.Focus = FocusExternal
	case countTerms(title, genericTitleTerms) > 0:
		out.Focus = FocusGeneralist
	default:
		out.Focus = FocusInternal
	}

	return out
}

// skillMatchesRequirement treats a requirement as covered when the skill's
// words overlap it meaningfully: Jaccard similarity above 0.2, the skill as
// a literal substring, or any single skill word present in the requirement.
func skillMatchesRequirement(skill, reqLower string) bool {
	if extract.Similarity(skill, reqLower) > 0.2 {
		return true
	}
	if strings.Contains(reqLower, skill) {
		return true
	}
	reqWords := splitWords(reqLower)
	for _, w := range splitWords(skill) {
		for _, rw := range reqWords {
			if w == rw {
				return true
			}
		}
	}
	return false
}
