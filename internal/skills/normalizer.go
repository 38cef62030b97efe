// Package skills maps free-text skill phrases onto a fixed set of canonical
// skill identifiers so that postings and candidate profiles can be compared.
package skills

import (
	"sort"
	"strings"
)

// Phrase is a single known skill phrase together with the canonical skill it
// resolves to. The phrase may be the canonical name itself or one of its
// variations.
type Phrase struct {
	Text      string
	Canonical string
}

// Table is an immutable lookup table from skill phrases to canonical skill
// identifiers. Build it once with NewTable and share it across components.
type Table struct {
	lookup  map[string]string
	phrases []Phrase
}

// NewTable builds a lookup table from the declared skills. Canonical names
// claim themselves first; variation phrases are then assigned in declaration
// order, so a variation listed by two skills belongs to the one declared
// earlier. All matching is case-insensitive.
func NewTable(decls []CanonicalSkill) *Table {
	lookup := make(map[string]string)
	phrases := make([]Phrase, 0, len(decls))

	for _, skill := range decls {
		key := normalizeKey(skill.Name)
		if key == "" {
			continue
		}
		if _, claimed := lookup[key]; !claimed {
			lookup[key] = key
			phrases = append(phrases, Phrase{Text: key, Canonical: key})
		}
	}

	for _, skill := range decls {
		canonical := normalizeKey(skill.Name)
		for _, variation := range skill.Variations {
			key := normalizeKey(variation)
			if key == "" {
				continue
			}
			if _, claimed := lookup[key]; claimed {
				continue
			}
			lookup[key] = canonical
			phrases = append(phrases, Phrase{Text: key, Canonical: canonical})
		}
	}

	return &Table{lookup: lookup, phrases: phrases}
}

// NewDefaultTable builds the table from the built-in communications skills.
func NewDefaultTable() *Table {
	return NewTable(DefaultSkills())
}

// Normalize resolves a raw skill phrase to its canonical identifier. Unknown
// phrases fall back to their trimmed lowercase form.
func (t *Table) Normalize(raw string) string {
	key := normalizeKey(raw)
	if canonical, ok := t.lookup[key]; ok {
		return canonical
	}
	return key
}

// NormalizeSet normalizes every phrase in the input and collects the results.
func (t *Table) NormalizeSet(raw []string) Set {
	out := NewSet()
	for _, phrase := range raw {
		if normalized := t.Normalize(phrase); normalized != "" {
			out.Add(normalized)
		}
	}
	return out
}

// Phrases returns every known phrase with its canonical owner, in declaration
// order. Used by the text extractor to compile search patterns.
func (t *Table) Phrases() []Phrase {
	out := make([]Phrase, len(t.phrases))
	copy(out, t.phrases)
	return out
}

func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Set is an unordered collection of canonical skill identifiers.
type Set map[string]struct{}

// NewSet creates a set from the provided items.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s.Add(item)
	}
	return s
}

func (s Set) Add(item string) {
	s[item] = struct{}{}
}

func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Intersect returns the items present in both sets.
func (s Set) Intersect(other Set) Set {
	out := NewSet()
	for item := range s {
		if other.Has(item) {
			out.Add(item)
		}
	}
	return out
}

// Union returns the items present in either set.
func (s Set) Union(other Set) Set {
	out := NewSet()
	for item := range s {
		out.Add(item)
	}
	for item := range other {
		out.Add(item)
	}
	return out
}

// Sorted returns the items in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for item := range s {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
