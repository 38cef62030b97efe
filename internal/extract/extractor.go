// Package extract pulls skill mentions and requirement phrases out of
// unstructured job posting text.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seekwell/comms-prospector/internal/skills"
)

const (
	maxRequirements     = 10
	minRequirementChars = 10
	minSkillPhraseChars = 3
	longRequirementLen  = 100
	keywordWindow       = 50
	duplicateSimilarity = 0.8
)

var requirementIndicators = []string{
	"we are looking for",
	"requirements",
	"qualifications",
	"required",
	"must have",
	"skills",
	"experience",
}

var requirementKeywords = []string{
	"experience",
	"knowledge",
	"ability",
	"skill",
	"proficiency",
	"expertise",
	"background",
	"understanding",
	"demonstrated",
	"proven",
	"required",
	"must have",
}

var boilerplateMarkers = []string{
	"apply",
	"www.",
	"http",
	"@",
	"salary",
	"contact",
	"equal opportunity",
}

var (
	bulletPrefixRe   = regexp.MustCompile(`^[\x{2022}\-\*]\s*`)
	bulletLineRe     = regexp.MustCompile(`[\x{2022}\-\*]\s*([^\n]+)`)
	reqPrefixRe      = regexp.MustCompile(`^(?i)(must have|should have|required|preferred|you have|you will have|including|such as)\s*`)
	skillListRe      = regexp.MustCompile(`(?i)required skills?:\s*(.*)`)
	blockSeparatorRe = regexp.MustCompile(`\n\s*\n`)
	htmlLineBreakRe  = regexp.MustCompile(`(?i)<\s*br\s*/?\s*>`)
	htmlListItemRe   = regexp.MustCompile(`(?i)<\s*li[^>]*>`)
	htmlBlockEndRe   = regexp.MustCompile(`(?i)</\s*(p|div|ul|ol|h[1-6])\s*>`)
)

type skillPattern struct {
	re        *regexp.Regexp
	canonical string
}

// Extractor scans posting text for known skill phrases and requirement lines.
// Safe for reuse across postings; all patterns are compiled once.
type Extractor struct {
	table       *skills.Table
	patterns    []skillPattern
	keywordWins []*regexp.Regexp
}

// New compiles whole-word search patterns for every phrase in the table.
func New(table *skills.Table) (*Extractor, error) {
	phrases := table.Phrases()
	patterns := make([]skillPattern, 0, len(phrases))
	for _, phrase := range phrases {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(phrase.Text) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern for %q: %w", phrase.Text, err)
		}
		patterns = append(patterns, skillPattern{re: re, canonical: phrase.Canonical})
	}

	windows := make([]*regexp.Regexp, 0, len(requirementKeywords))
	for _, keyword := range requirementKeywords {
		windows = append(windows, regexp.MustCompile(`(?i).{0,`+fmt.Sprint(keywordWindow)+`}`+regexp.QuoteMeta(keyword)+`.{0,`+fmt.Sprint(keywordWindow)+`}`))
	}

	return &Extractor{table: table, patterns: patterns, keywordWins: windows}, nil
}

// Skills returns the canonical skills mentioned anywhere in the text. A hit
// on any variation contributes the canonical identifier, never the variation.
func (e *Extractor) Skills(text string) skills.Set {
	found := skills.NewSet()
	if strings.TrimSpace(text) == "" {
		return found
	}

	text = FlattenHTML(text)
	for _, pattern := range e.patterns {
		if found.Has(pattern.canonical) {
			continue
		}
		if pattern.re.MatchString(text) {
			found.Add(pattern.canonical)
		}
	}
	return found
}

// Requirements extracts up to ten requirement phrases from the description,
// most relevant first, de-duplicated by word-set similarity.
func (e *Extractor) Requirements(text string) []string {
	text = FlattenHTML(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var raw []string
	for _, block := range blockSeparatorRe.Split(text, -1) {
		if !containsAny(strings.ToLower(block), requirementIndicators) {
			continue
		}
		raw = append(raw, e.blockRequirements(block)...)
	}

	// No requirement-looking block at all: fall back to bullet points
	// anywhere in the text.
	if len(raw) == 0 {
		for _, m := range bulletLineRe.FindAllStringSubmatch(text, -1) {
			line := strings.TrimSpace(m[1])
			if len(line) >= minRequirementChars && containsAny(strings.ToLower(line), requirementKeywords) {
				raw = append(raw, line)
			}
		}
	}

	return e.finalize(raw)
}

// blockRequirements pulls requirement lines out of a single paragraph block.
// Lines following a "Required skills:" marker are treated as comma-separated
// skill lists; all other lines must pass the requirement keyword filter.
func (e *Extractor) blockRequirements(block string) []string {
	var out []string
	inSkillList := false

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		line = bulletPrefixRe.ReplaceAllString(line, "")
		if line == "" {
			continue
		}

		if m := skillListRe.FindStringSubmatch(line); m != nil {
			inSkillList = true
			out = append(out, splitSkillList(m[1])...)
			continue
		}
		if inSkillList {
			out = append(out, splitSkillList(line)...)
			continue
		}

		if len(line) < minRequirementChars {
			continue
		}
		if strings.HasSuffix(line, ":") || line == strings.ToUpper(line) {
			continue
		}
		lower := strings.ToLower(line)
		if containsAny(lower, boilerplateMarkers) {
			continue
		}
		if containsAny(lower, requirementKeywords) {
			out = append(out, line)
		}
	}
	return out
}

// finalize strips prefixes, shortens long lines to keyword windows, drops
// near-duplicates, and caps the result, preserving encounter order.
func (e *Extractor) finalize(raw []string) []string {
	var cleaned []string
	for _, req := range raw {
		req = reqPrefixRe.ReplaceAllString(req, "")
		req = strings.Join(strings.Fields(req), " ")

		if len(req) > longRequirementLen {
			var phrases []string
			for _, win := range e.keywordWins {
				if m := win.FindString(req); m != "" {
					phrases = append(phrases, strings.TrimSpace(m))
				}
			}
			if len(phrases) > 0 {
				cleaned = append(cleaned, phrases...)
				continue
			}
		}
		cleaned = append(cleaned, req)
	}

	seen := make(map[string]struct{})
	var final []string
	for _, req := range cleaned {
		if len(req) < minSkillPhraseChars {
			continue
		}
		lower := strings.ToLower(req)
		if _, dup := seen[lower]; dup {
			continue
		}
		similar := false
		for _, existing := range final {
			if Similarity(lower, strings.ToLower(existing)) > duplicateSimilarity {
				similar = true
				break
			}
		}
		if similar {
			continue
		}
		seen[lower] = struct{}{}
		final = append(final, req)
		if len(final) == maxRequirements {
			break
		}
	}
	return final
}

func splitSkillList(line string) []string {
	var out []string
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "."))
		if len(part) >= minSkillPhraseChars {
			out = append(out, part)
		}
	}
	return out
}

// Similarity is the Jaccard similarity of the two word sets.
func Similarity(a, b string) float64 {
	wordsA := skills.NewSet(strings.Fields(strings.ToLower(a))...)
	wordsB := skills.NewSet(strings.Fields(strings.ToLower(b))...)

	union := wordsA.Union(wordsB).Len()
	if union == 0 {
		return 0
	}
	return float64(wordsA.Intersect(wordsB).Len()) / float64(union)
}

// FlattenHTML converts an HTML fragment to plain text. Paragraph boundaries
// become blank lines and list items become bullet lines, so the paragraph
// splitting and bullet fallback keep working. Plain text passes through
// unchanged.
func FlattenHTML(text string) string {
	if !strings.Contains(text, "<") || !strings.Contains(text, ">") {
		return text
	}

	withBreaks := htmlLineBreakRe.ReplaceAllString(text, "\n")
	withBreaks = htmlListItemRe.ReplaceAllString(withBreaks, "\n• ")
	withBreaks = htmlBlockEndRe.ReplaceAllString(withBreaks, "\n\n")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(withBreaks))
	if err != nil {
		return text
	}
	return doc.Text()
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
