package dedup

import (
	"go.uber.org/zap"

	"github.com/seekwell/comms-prospector/internal/jobsearch"
)

// Deduplicator drops postings whose identity is already in the registry or
// appears earlier in the same batch.
type Deduplicator struct {
	registry *Registry
	logger   *zap.Logger
}

func New(registry *Registry, logger *zap.Logger) *Deduplicator {
	return &Deduplicator{
		registry: registry,
		logger:   logger,
	}
}

// FilterNew returns the postings not seen before, preserving input order.
// Every surviving posting is marked in the registry, so a repeat within the
// batch is also dropped.
func (d *Deduplicator) FilterNew(postings []*jobsearch.Posting) []*jobsearch.Posting {
	initial := len(postings)
	fresh := make([]*jobsearch.Posting, 0, initial)

	for _, p := range postings {
		if p == nil {
			continue
		}
		id := Identity(p)
		if d.registry.Seen(id) {
			d.logger.Debug("dropping already seen posting",
				zap.String("title", p.Title),
				zap.String("employer", p.Employer),
			)
			continue
		}
		d.registry.Mark(id)
		fresh = append(fresh, p)
	}

	d.logger.Info("filtered seen postings",
		zap.Int("initial", initial),
		zap.Int("dropped", initial-len(fresh)),
		zap.Int("left", len(fresh)),
	)

	return fresh
}

// Persist writes the updated registry to disk.
func (d *Deduplicator) Persist() error {
	return d.registry.Save()
}
