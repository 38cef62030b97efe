// Package pipeline composes deduplication, extraction, scoring and variant
// selection into the single evaluation pass the rest of the system calls.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/seekwell/comms-prospector/internal/dedup"
	"github.com/seekwell/comms-prospector/internal/extract"
	"github.com/seekwell/comms-prospector/internal/jobsearch"
	"github.com/seekwell/comms-prospector/internal/match"
	"github.com/seekwell/comms-prospector/internal/profile"
	"github.com/seekwell/comms-prospector/internal/skills"
	"github.com/seekwell/comms-prospector/internal/templates"
)

// Stats summarizes one evaluation batch.
type Stats struct {
	Initial      int
	Deduplicated int
	Evaluated    int
	Skipped      int
	Errors       int
}

// Deps are the pipeline's collaborators. All fields are required.
type Deps struct {
	Logger    *zap.Logger
	Dedup     *dedup.Deduplicator
	Extractor *extract.Extractor
	Strategy  match.Strategy
	Profile   *profile.Cache
}

type Pipeline struct {
	deps Deps
}

func New(deps Deps) (*Pipeline, error) {
	switch {
	case deps.Logger == nil:
		return nil, fmt.Errorf("pipeline: logger is required")
	case deps.Dedup == nil:
		return nil, fmt.Errorf("pipeline: deduplicator is required")
	case deps.Extractor == nil:
		return nil, fmt.Errorf("pipeline: extractor is required")
	case deps.Strategy == nil:
		return nil, fmt.Errorf("pipeline: scoring strategy is required")
	case deps.Profile == nil:
		return nil, fmt.Errorf("pipeline: profile cache is required")
	}
	return &Pipeline{deps: deps}, nil
}

// Evaluate runs the batch: unseen postings are extracted, scored and
// classified; postings below the strategy's retention rule are skipped.
// Per-posting failures are counted and the batch always completes with
// whatever results it produced. Results come back sorted by score,
// descending.
func (p *Pipeline) Evaluate(ctx context.Context, postings []*jobsearch.Posting) ([]*match.Result, Stats, error) {
	stats := Stats{Initial: len(postings)}

	fresh := p.deps.Dedup.FilterNew(postings)
	stats.Deduplicated = stats.Initial - len(fresh)

	prof := p.deps.Profile.Profile()
	internal := match.VariantProfile{
		Skills: skillSet(prof.Internal.Skills),
		Focus:  prof.Internal.Focus,
	}
	external := match.VariantProfile{
		Skills: skillSet(prof.External.Skills),
		Focus:  prof.External.Focus,
	}

	var results []*match.Result
	for _, posting := range fresh {
		if err := ctx.Err(); err != nil {
			return results, stats, err
		}

		res, err := p.evaluateOne(posting, internal, external)
		if err != nil {
			stats.Errors++
			p.deps.Logger.Error("skipping posting after evaluation failure",
				zap.String("title", posting.Title),
				zap.String("employer", posting.Employer),
				zap.Error(err),
			)
			continue
		}

		stats.Evaluated++
		if res == nil {
			stats.Skipped++
			continue
		}
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if err := p.deps.Dedup.Persist(); err != nil {
		p.deps.Logger.Warn("persisting seen registry failed", zap.Error(err))
	}

	p.deps.Logger.Info("evaluated postings",
		zap.String("strategy", p.deps.Strategy.Name()),
		zap.Int("initial", stats.Initial),
		zap.Int("deduplicated", stats.Deduplicated),
		zap.Int("skipped", stats.Skipped),
		zap.Int("errors", stats.Errors),
		zap.Int("left", len(results)),
	)

	return results, stats, nil
}

// evaluateOne scores a single posting. A nil result with nil error means the
// posting did not clear the strategy's retention rule. Panics inside
// extraction or scoring are converted to errors so one malformed posting
// cannot abort the batch.
func (p *Pipeline) evaluateOne(posting *jobsearch.Posting, internal, external match.VariantProfile) (res *match.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("evaluating posting: %v", r)
		}
	}()

	text := posting.Description
	if strings.ContainsRune(text, '<') {
		text = extract.FlattenHTML(text)
	}

	jobSkills := p.deps.Extractor.Skills(text)
	requirements := p.deps.Extractor.Requirements(text)

	outcome := p.deps.Strategy.Score(match.Input{
		Title:        posting.Title,
		JobSkills:    jobSkills,
		Requirements: requirements,
		Internal:     internal,
		External:     external,
	})
	if !outcome.Retained {
		p.deps.Logger.Debug("dropping posting below match threshold",
			zap.String("title", posting.Title),
			zap.String("employer", posting.Employer),
			zap.Float64("score", outcome.Score),
		)
		return nil, nil
	}

	variant := templates.SelectVariant(posting.Title, requirements)
	return match.NewResult(posting, outcome, requirements, string(variant)), nil
}

func skillSet(items []string) skills.Set {
	return skills.NewSet(items...)
}
