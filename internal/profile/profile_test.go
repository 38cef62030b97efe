package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validProfile = `internal:
  skills:
    - internal communications
    - employee engagement
    - change management
  focus:
    - internal
    - employee
  resume_file: internal_resume.txt
  cover_letter_file: cover_letter.txt
external:
  skills:
    - public relations
    - media relations
  focus:
    - pr
    - media
  resume_file: external_resume.txt
  cover_letter_file: cover_letter.txt
`

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidProfile(t *testing.T) {
	t.Parallel()

	prof, err := Load(writeProfile(t, validProfile))
	require.NoError(t, err)

	require.Len(t, prof.Internal.Skills, 3)
	require.Equal(t, "internal communications", prof.Internal.Skills[0])
	require.Equal(t, []string{"pr", "media"}, prof.External.Focus)
	require.Equal(t, "external_resume.txt", prof.External.ResumeFile)
}

func TestLoadUnknownVariantKeyFails(t *testing.T) {
	t.Parallel()

	content := validProfile + `hybrid:
  skills:
    - everything
`
	_, err := Load(writeProfile(t, content))
	require.Error(t, err)
}

func TestLoadUnparseableProfileFails(t *testing.T) {
	t.Parallel()

	_, err := Load(writeProfile(t, "internal: [unclosed"))
	require.Error(t, err)
}

func TestLoadMissingVariantFails(t *testing.T) {
	t.Parallel()

	content := `internal:
  skills:
    - internal communications
`
	_, err := Load(writeProfile(t, content))
	require.Error(t, err)
	require.Contains(t, err.Error(), "external variant")
}

func TestLoadMissingFileFails(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestCacheTemplateReadOnce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	profPath := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(profPath, []byte(validProfile), 0o644))

	tmplPath := filepath.Join(dir, "internal_resume.txt")
	require.NoError(t, os.WriteFile(tmplPath, []byte("original"), 0o644))

	cache, err := NewCache(profPath)
	require.NoError(t, err)

	first, err := cache.Template("internal_resume.txt")
	require.NoError(t, err)
	require.Equal(t, "original", first)

	// Rewrites after the first read are invisible for the process lifetime.
	require.NoError(t, os.WriteFile(tmplPath, []byte("changed"), 0o644))

	second, err := cache.Template("internal_resume.txt")
	require.NoError(t, err)
	require.Equal(t, "original", second)
}

func TestCacheTemplateMissingFile(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(writeProfile(t, validProfile))
	require.NoError(t, err)

	_, err = cache.Template("nope.txt")
	require.Error(t, err)

	_, err = cache.Template("   ")
	require.Error(t, err)
}
