package jobsearch

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cached search results go stale after this long; the API quota is tight
// enough that repeated identical searches within a workday should not spend
// requests.
const cacheTTL = 8 * time.Hour

var timeNow = time.Now

// searchCache is a day-scoped on-disk cache of search results keyed by the
// search parameters.
type searchCache struct {
	dir string
}

type cacheFile struct {
	Entries map[string]cacheEntry `json:"entries"`
}

type cacheEntry struct {
	Timestamp time.Time  `json:"timestamp"`
	Postings  []*Posting `json:"postings"`
}

func newSearchCache(dir string) *searchCache {
	return &searchCache{dir: dir}
}

func (s *searchCache) path() string {
	return filepath.Join(s.dir, fmt.Sprintf("search_cache_%s.json", timeNow().Format("20060102")))
}

func (s *searchCache) key(params *SearchParams) string {
	payload, _ := json.Marshal(params)
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("%x", sum[:8])
}

func (s *searchCache) get(params *SearchParams) (*Postings, bool) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		return nil, false
	}

	var file cacheFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, false
	}

	entry, ok := file.Entries[s.key(params)]
	if !ok || timeNow().Sub(entry.Timestamp) > cacheTTL {
		return nil, false
	}

	return &Postings{Items: entry.Postings}, true
}

func (s *searchCache) put(params *SearchParams, postings *Postings) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	file := cacheFile{Entries: make(map[string]cacheEntry)}
	if data, err := os.ReadFile(s.path()); err == nil {
		// Best effort: a corrupt cache file is simply replaced.
		_ = json.Unmarshal(data, &file)
		if file.Entries == nil {
			file.Entries = make(map[string]cacheEntry)
		}
	}

	file.Entries[s.key(params)] = cacheEntry{
		Timestamp: timeNow(),
		Postings:  postings.Items,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path(), data, 0o644)
}
