// Package dedup derives stable identities for postings and filters out
// postings already processed in earlier runs.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seekwell/comms-prospector/internal/jobsearch"
)

const (
	// Seen identities are forgotten after this long; a reposted job then
	// flows through the pipeline again.
	retentionWindow = 30 * 24 * time.Hour

	// The identity only looks at the head of the description: postings are
	// routinely reposted with trailing boilerplate changes.
	descriptionPrefixRunes = 100
)

var timeNow = time.Now

// Identity derives the content-based key for a posting from its title,
// employer and description prefix. Field text is lowercased and whitespace
// collapsed before hashing, so cosmetic reformatting does not change the key.
func Identity(p *jobsearch.Posting) string {
	desc := normalizeField(p.Description)
	if runes := []rune(desc); len(runes) > descriptionPrefixRunes {
		desc = string(runes[:descriptionPrefixRunes])
	}

	payload := normalizeField(p.Title) + "\x00" + normalizeField(p.Employer) + "\x00" + desc
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func normalizeField(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Registry maps posting identities to the time they were last seen. It is
// read fully at run start and rewritten fully at run end; only the
// Deduplicator writes to it.
type Registry struct {
	path    string
	logger  *zap.Logger
	entries map[string]time.Time
}

// LoadRegistry reads the registry file at path. Read or parse failures are
// non-fatal: the run proceeds as if nothing had been seen before, trading
// perfect dedup for availability. Entries older than the retention window
// are purged during load.
func LoadRegistry(path string, logger *zap.Logger) *Registry {
	r := &Registry{
		path:    path,
		logger:  logger,
		entries: make(map[string]time.Time),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) && logger != nil {
			logger.Warn("reading seen registry failed; starting empty",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return r
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		if logger != nil {
			logger.Warn("parsing seen registry failed; starting empty",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return r
	}

	cutoff := timeNow().Add(-retentionWindow)
	purged := 0
	for id, stamp := range raw {
		ts, err := time.Parse(time.RFC3339, stamp)
		if err != nil || ts.Before(cutoff) {
			purged++
			continue
		}
		r.entries[id] = ts
	}

	if logger != nil {
		logger.Debug("loaded seen registry",
			zap.String("path", path),
			zap.Int("entries", len(r.entries)),
			zap.Int("purged", purged),
		)
	}

	return r
}

// Seen reports whether the identity is recorded.
func (r *Registry) Seen(id string) bool {
	_, ok := r.entries[id]
	return ok
}

// Mark records the identity as seen now.
func (r *Registry) Mark(id string) {
	r.entries[id] = timeNow().Truncate(time.Second)
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Save rewrites the registry file with all current entries. Timestamps are
// stored as RFC3339, which round-trips to one-second precision.
func (r *Registry) Save() error {
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating registry directory: %w", err)
		}
	}

	raw := make(map[string]string, len(r.entries))
	for id, ts := range r.entries {
		raw[id] = ts.Truncate(time.Second).Format(time.RFC3339)
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(r.path, data, 0o644)
}
