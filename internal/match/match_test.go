package match

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/seekwell/comms-prospector/internal/jobsearch"
	"github.com/seekwell/comms-prospector/internal/skills"
)

func TestSkillOverlapInternalPosting(t *testing.T) {
	t.Parallel()

	s := NewSkillOverlap(skills.NewDefaultTable())
	out := s.Score(Input{
		Title:     "Internal Communications Manager",
		JobSkills: skills.NewSet("internal communications", "employee engagement", "change management"),
		Internal: VariantProfile{
			Skills: skills.NewSet("internal communications", "employee engagement", "change management"),
		},
		External: VariantProfile{
			Skills: skills.NewSet("public relations"),
		},
	})

	// 3 variant matches + 1 core match at 1.5 + title bonus of 3 * 0.5.
	require.Equal(t, FocusInternal, out.Focus)
	require.InDelta(t, 6.0, out.Score, 1e-9)
	require.True(t, out.Retained)
	for _, skill := range []string{"internal communications", "employee engagement", "change management"} {
		require.True(t, out.MatchedSkills.Has(skill), "missing %q", skill)
	}
}

func TestSkillOverlapExternalPosting(t *testing.T) {
	t.Parallel()

	s := NewSkillOverlap(skills.NewDefaultTable())
	out := s.Score(Input{
		Title:     "PR Manager",
		JobSkills: skills.NewSet("media relations", "crisis communications"),
		Internal: VariantProfile{
			Skills: skills.NewSet("internal communications"),
		},
		External: VariantProfile{
			Skills: skills.NewSet("media relations", "crisis communications"),
		},
	})

	// 2 variant matches + 1 core match at 1.5 + title bonus of 2 * 0.5.
	require.Equal(t, FocusExternal, out.Focus)
	require.InDelta(t, 4.5, out.Score, 1e-9)
	require.True(t, out.Retained)
	require.True(t, out.MatchedSkills.Has("public relations"))
	require.True(t, out.MatchedSkills.Has("crisis management"))
}

func TestSkillOverlapTitleBonusScalesWithMatches(t *testing.T) {
	t.Parallel()

	// A lone internal title word must not outweigh a much stronger external
	// skill overlap: the bonus scales with the variant's own matches.
	s := NewSkillOverlap(skills.NewDefaultTable())
	out := s.Score(Input{
		Title:     "Internal Liaison",
		JobSkills: skills.NewSet("public relations", "crisis management", "brand messaging"),
		Internal:  VariantProfile{Skills: skills.NewSet("dei communication")},
		External:  VariantProfile{Skills: skills.NewSet("public relations", "crisis management", "brand messaging")},
	})

	require.Equal(t, FocusExternal, out.Focus)
	require.InDelta(t, 4.5, out.Score, 1e-9)
}

func TestSkillOverlapGeneralistBelowThreshold(t *testing.T) {
	t.Parallel()

	s := NewSkillOverlap(skills.NewDefaultTable())
	out := s.Score(Input{
		Title:     "Communications Specialist",
		JobSkills: skills.NewSet("storytelling"),
		Internal:  VariantProfile{Skills: skills.NewSet("storytelling")},
		External:  VariantProfile{Skills: skills.NewSet()},
	})

	// 1 match at half weight + 1 core match at 1.5 + 1 match at quarter weight.
	require.Equal(t, FocusGeneralist, out.Focus)
	require.InDelta(t, 2.25, out.Score, 1e-9)
	require.False(t, out.Retained)
}

func TestSkillOverlapMonotonicInCoreSkills(t *testing.T) {
	t.Parallel()

	s := NewSkillOverlap(skills.NewDefaultTable())
	profile := VariantProfile{
		Skills: skills.NewSet("stakeholder management", "project management", "content strategy"),
	}

	jobSets := [][]string{
		{},
		{"stakeholder management"},
		{"stakeholder management", "project management"},
		{"stakeholder management", "project management", "content strategy"},
	}

	prev := -1.0
	for _, set := range jobSets {
		out := s.Score(Input{
			Title:     "Engagement Lead",
			JobSkills: skills.NewSet(set...),
			Internal:  profile,
			External:  VariantProfile{Skills: skills.NewSet()},
		})
		require.GreaterOrEqual(t, out.Score, prev)
		prev = out.Score
	}
}

func TestSkillOverlapTieFavorsInternal(t *testing.T) {
	t.Parallel()

	s := NewSkillOverlap(skills.NewDefaultTable())
	out := s.Score(Input{
		Title:     "Engagement Manager",
		JobSkills: skills.NewSet("dei communication", "crm"),
		Internal:  VariantProfile{Skills: skills.NewSet("dei communication")},
		External:  VariantProfile{Skills: skills.NewSet("crm")},
	})

	require.Equal(t, FocusInternal, out.Focus)
}

func TestRequirementCoverage(t *testing.T) {
	t.Parallel()

	s := NewRequirementCoverage(skills.NewDefaultTable())
	out := s.Score(Input{
		Title: "Communications Manager",
		Requirements: []string{
			"5+ years experience in internal communications",
			"strong writing skills",
			"experience with social media strategy",
		},
		Internal: VariantProfile{Skills: skills.NewSet("internal communications", "social media")},
		External: VariantProfile{Skills: skills.NewSet()},
	})

	// 2 matched skills over 3 requirements, then a 1.4x multiplier for the
	// two relevant title words.
	require.InDelta(t, 2.0/3.0*100*1.4, out.Score, 1e-9)
	require.Equal(t, FocusGeneralist, out.Focus)
	require.True(t, out.Retained)
	require.True(t, out.MatchedSkills.Has("internal communications"))
	require.True(t, out.MatchedSkills.Has("social media"))
}

func TestRequirementCoverageCountsEachMatchedSkill(t *testing.T) {
	t.Parallel()

	// Two skills covering a single requirement both count toward the
	// numerator, so dense requirements can score a full 100.
	s := NewRequirementCoverage(skills.NewDefaultTable())
	out := s.Score(Input{
		Title: "Coordinator",
		Requirements: []string{
			"drive internal communications and employee engagement programs",
			"fluency in spanish",
		},
		Internal: VariantProfile{Skills: skills.NewSet("internal communications", "employee engagement")},
		External: VariantProfile{Skills: skills.NewSet()},
	})

	require.InDelta(t, 100.0, out.Score, 1e-9)
	require.Equal(t, 2, out.MatchedSkills.Len())
}

func TestRequirementCoverageCappedAtHundred(t *testing.T) {
	t.Parallel()

	s := NewRequirementCoverage(skills.NewDefaultTable())
	out := s.Score(Input{
		Title:        "Internal Corporate Employee Communications Lead",
		Requirements: []string{"experience leading internal communications programs"},
		Internal:     VariantProfile{Skills: skills.NewSet("internal communications")},
		External:     VariantProfile{Skills: skills.NewSet()},
	})

	require.Equal(t, 100.0, out.Score)
}

func TestRequirementCoverageNoRequirements(t *testing.T) {
	t.Parallel()

	s := NewRequirementCoverage(skills.NewDefaultTable())
	out := s.Score(Input{
		Title:    "Communications Manager",
		Internal: VariantProfile{Skills: skills.NewSet("internal communications")},
		External: VariantProfile{Skills: skills.NewSet()},
	})

	require.Equal(t, 0.0, out.Score)
	require.True(t, out.Retained)
}

func TestWriteArtifact(t *testing.T) {
	dir := t.TempDir()

	fixed := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = time.Now }()

	results := []*Result{
		NewResult(
			&jobsearch.Posting{Title: "PR Manager", Employer: "Acme"},
			Outcome{Score: 4.0, MatchedSkills: skills.NewSet("public relations"), Focus: FocusExternal, Retained: true},
			[]string{"experience in media relations"},
			"external",
		),
	}

	path, err := WriteArtifact(dir, results)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "matches_20260201_093000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []*Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	require.Equal(t, "PR Manager", decoded[0].Posting.Title)
	require.Equal(t, FocusExternal, decoded[0].Focus)
	require.Equal(t, []string{"public relations"}, decoded[0].MatchedSkills)
	require.Equal(t, "external", decoded[0].Variant)
}
