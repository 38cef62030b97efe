package match

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/seekwell/comms-prospector/internal/jobsearch"
)

var timeNow = time.Now

// Result is one scored posting. Built once per posting per run, never
// mutated afterwards.
type Result struct {
	Posting       *jobsearch.Posting `json:"posting"`
	Score         float64            `json:"score"`
	MatchedSkills []string           `json:"matched_skills"`
	Focus         Focus              `json:"focus"`
	Requirements  []string           `json:"requirements"`
	Variant       string             `json:"variant,omitempty"`
	EvaluatedAt   time.Time          `json:"evaluated_at"`
}

// NewResult freezes a strategy outcome into a Result.
func NewResult(p *jobsearch.Posting, out Outcome, requirements []string, variant string) *Result {
	return &Result{
		Posting:       p,
		Score:         out.Score,
		MatchedSkills: out.MatchedSkills.Sorted(),
		Focus:         out.Focus,
		Requirements:  requirements,
		Variant:       variant,
		EvaluatedAt:   timeNow(),
	}
}

// WriteArtifact serializes the run's results into a timestamped JSON file
// under dir and returns the written path.
func WriteArtifact(dir string, results []*Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating matches directory: %w", err)
	}

	path := filepath.Join(dir, "matches_"+timeNow().Format("20060102_150405")+".json")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating matches artifact: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return "", fmt.Errorf("encoding matches artifact: %w", err)
	}

	return path, nil
}
