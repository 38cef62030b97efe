// Package profile loads the candidate profile document: per-variant skill
// lists, focus keywords, and document template locations.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Variant holds one presentation of the candidate: the skills it leads with,
// the focus keywords used for classification, and the document templates
// rendered for postings matched to it.
type Variant struct {
	Skills       []string `yaml:"skills"`
	Focus        []string `yaml:"focus"`
	ResumeFile   string   `yaml:"resume_file"`
	CoverFile    string   `yaml:"cover_letter_file"`
}

// Profile is the full candidate profile. Exactly two variants exist:
// internal-communications focused and external/PR focused.
type Profile struct {
	Internal Variant `yaml:"internal"`
	External Variant `yaml:"external"`
}

// Load reads and validates a profile document. Any parse failure, unknown
// key, or missing variant is an error: the matching contract cannot proceed
// without a usable profile.
func Load(path string) (*Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening profile %q: %w", path, err)
	}
	defer file.Close()

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)

	var prof Profile
	if err := dec.Decode(&prof); err != nil {
		return nil, fmt.Errorf("parsing profile %q: %w", path, err)
	}

	if len(prof.Internal.Skills) == 0 {
		return nil, fmt.Errorf("profile %q: internal variant has no skills", path)
	}
	if len(prof.External.Skills) == 0 {
		return nil, fmt.Errorf("profile %q: external variant has no skills", path)
	}

	return &prof, nil
}

// Cache owns the loaded profile and its template file contents for one
// process lifetime. It is constructed once by the composition root and
// passed to every component that needs profile data; there is no package
// level state.
type Cache struct {
	prof    *Profile
	baseDir string

	mu        sync.Mutex
	templates map[string]string
}

// NewCache loads the profile at path and prepares a template content cache
// rooted at the profile's directory.
func NewCache(path string) (*Cache, error) {
	prof, err := Load(path)
	if err != nil {
		return nil, err
	}

	return &Cache{
		prof:      prof,
		baseDir:   filepath.Dir(path),
		templates: make(map[string]string),
	}, nil
}

// Profile returns the loaded profile. The caller must treat it as immutable.
func (c *Cache) Profile() *Profile {
	return c.prof
}

// Template returns the contents of a template file referenced by the
// profile, reading it at most once. Relative names resolve against the
// profile's directory.
func (c *Cache) Template(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("template file is not configured")
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.baseDir, path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if content, ok := c.templates[path]; ok {
		return content, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading template %q: %w", path, err)
	}

	content := string(data)
	c.templates[path] = content
	return content, nil
}
