package match

import (
	"strings"

	"github.com/seekwell/comms-prospector/internal/skills"
)

// SkillOverlap scores a posting by intersecting its extracted skills with
// each profile variant's skill set. The score is raw and unbounded; postings
// below StrongMatchThreshold are dropped from the output.
type SkillOverlap struct {
	table *skills.Table
}

func NewSkillOverlap(table *skills.Table) *SkillOverlap {
	return &SkillOverlap{table: table}
}

func (s *SkillOverlap) Name() string { return "skill-overlap" }

func (s *SkillOverlap) Score(in Input) Outcome {
	job := s.table.NormalizeSet(in.JobSkills.Sorted())
	internal := s.table.NormalizeSet(in.Internal.Skills.Sorted())
	external := s.table.NormalizeSet(in.External.Skills.Sorted())

	internalMatches := job.Intersect(internal)
	externalMatches := job.Intersect(external)
	coreMatches := job.Intersect(coreSkills)
	coreScore := float64(coreMatches.Len()) * 1.5

	title := strings.ToLower(in.Title)
	internalHits := countTerms(title, in.internalFocus())
	externalHits := countTerms(title, in.externalFocus())

	// An indicated variant earns a title bonus proportional to its own skill
	// matches. Both scores always compete; the title tilts, never decides.
	internalScore := float64(internalMatches.Len()) + coreScore
	externalScore := float64(externalMatches.Len()) + coreScore
	if internalHits > 0 {
		internalScore += float64(internalMatches.Len()) * 0.5
	}
	if externalHits > 0 {
		externalScore += float64(externalMatches.Len()) * 0.5
	}

	var out Outcome
	switch {
	case internalHits == 0 && externalHits == 0 && countTerms(title, genericTitleTerms) > 0:
		// Generically communications-shaped title with no variant signal:
		// both variants contribute at half weight.
		out.Focus = FocusGeneralist
		out.Score = float64(internalMatches.Len()+externalMatches.Len())*0.5 +
			coreScore + float64(internalMatches.Len()+externalMatches.Len())*0.25
		out.MatchedSkills = internalMatches.Union(externalMatches).Union(coreMatches)
	case externalScore > internalScore:
		out.Focus = FocusExternal
		out.Score = externalScore
		out.MatchedSkills = externalMatches.Union(coreMatches)
	default:
		out.Focus = FocusInternal
		out.Score = internalScore
		out.MatchedSkills = internalMatches.Union(coreMatches)
	}

	out.Retained = out.Score >= StrongMatchThreshold
	return out
}
