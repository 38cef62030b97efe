package skills

import "testing"

func TestNormalizeVariations(t *testing.T) {
	t.Parallel()

	table := NewDefaultTable()

	tests := []struct {
		raw      string
		expected string
	}{
		{"pr", "public relations"},
		{"PR", "public relations"},
		{"Media Relations", "public relations"},
		{"press relations", "public relations"},
		{"Employee Communications", "employee engagement"},
		{"executive thought leadership", "executive communications"},
		{"ISSUES MANAGEMENT", "crisis management"},
		{"organizational change", "change management"},
	}

	for _, tt := range tests {
		if got := table.Normalize(tt.raw); got != tt.expected {
			t.Fatalf("Normalize(%q) = %q, expected %q", tt.raw, got, tt.expected)
		}
	}
}

func TestNormalizeCanonicalNamesResolveToThemselves(t *testing.T) {
	t.Parallel()

	table := NewDefaultTable()

	for _, skill := range DefaultSkills() {
		if got := table.Normalize(skill.Name); got != skill.Name {
			t.Fatalf("canonical %q normalized to %q", skill.Name, got)
		}
	}
}

func TestNormalizeIdentityFallback(t *testing.T) {
	t.Parallel()

	table := NewDefaultTable()

	if got := table.Normalize("  Underwater Basket  Weaving "); got != "underwater basket weaving" {
		t.Fatalf("unexpected fallback: %q", got)
	}
}

func TestVariationOwnershipFirstDeclaredWins(t *testing.T) {
	t.Parallel()

	table := NewTable([]CanonicalSkill{
		{Name: "alpha", Variations: []string{"shared phrase"}},
		{Name: "beta", Variations: []string{"shared phrase", "beta only"}},
	})

	if got := table.Normalize("shared phrase"); got != "alpha" {
		t.Fatalf("expected first-declared owner alpha, got %q", got)
	}
	if got := table.Normalize("beta only"); got != "beta" {
		t.Fatalf("expected beta, got %q", got)
	}
}

func TestNormalizeSet(t *testing.T) {
	t.Parallel()

	table := NewDefaultTable()
	set := table.NormalizeSet([]string{"PR", "media relations", "Content Strategy"})

	if set.Len() != 2 {
		t.Fatalf("expected 2 canonical skills, got %d: %v", set.Len(), set.Sorted())
	}
	if !set.Has("public relations") || !set.Has("content strategy") {
		t.Fatalf("unexpected set contents: %v", set.Sorted())
	}
}

func TestSetOperations(t *testing.T) {
	t.Parallel()

	a := NewSet("one", "two", "three")
	b := NewSet("two", "three", "four")

	inter := a.Intersect(b)
	if inter.Len() != 2 || !inter.Has("two") || !inter.Has("three") {
		t.Fatalf("unexpected intersection: %v", inter.Sorted())
	}

	union := a.Union(b)
	if union.Len() != 4 {
		t.Fatalf("unexpected union: %v", union.Sorted())
	}

	sorted := inter.Sorted()
	if len(sorted) != 2 || sorted[0] != "three" || sorted[1] != "two" {
		t.Fatalf("unexpected sort order: %v", sorted)
	}
}
