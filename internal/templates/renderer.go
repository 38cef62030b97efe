package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seekwell/comms-prospector/internal/match"
	"github.com/seekwell/comms-prospector/internal/profile"
)

var timeNow = time.Now

// Documents are the file paths of one rendered application set.
type Documents struct {
	ResumePath      string
	CoverLetterPath string
}

// Renderer fills the selected variant's templates for a scored posting and
// writes the resulting documents under the output directory.
type Renderer struct {
	cache  *profile.Cache
	outDir string
	logger *zap.Logger
}

func NewRenderer(cache *profile.Cache, outDir string, logger *zap.Logger) *Renderer {
	return &Renderer{
		cache:  cache,
		outDir: outDir,
		logger: logger,
	}
}

// Render writes the resume and cover letter for one result. A non-empty
// coverBody replaces the cover letter template body while keeping the
// placeholder substitution; pass "" to render the static template.
func (r *Renderer) Render(res *match.Result, variant Variant, coverBody string) (Documents, error) {
	v := r.variantConfig(variant)

	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return Documents{}, fmt.Errorf("creating documents directory: %w", err)
	}

	resume, err := r.cache.Template(v.ResumeFile)
	if err != nil {
		return Documents{}, fmt.Errorf("resume template for %s variant: %w", variant, err)
	}

	cover := coverBody
	if cover == "" {
		cover, err = r.cache.Template(v.CoverFile)
		if err != nil {
			return Documents{}, fmt.Errorf("cover letter template for %s variant: %w", variant, err)
		}
	}

	stamp := timeNow().Format("20060102_150405")
	company := sanitizeCompany(res.Posting.Employer)

	docs := Documents{
		ResumePath:      filepath.Join(r.outDir, fmt.Sprintf("resume_%s_%s.txt", company, stamp)),
		CoverLetterPath: filepath.Join(r.outDir, fmt.Sprintf("cover_letter_%s_%s.txt", company, stamp)),
	}

	if err := os.WriteFile(docs.ResumePath, []byte(r.substitute(resume, res)), 0o644); err != nil {
		return Documents{}, fmt.Errorf("writing resume: %w", err)
	}
	if err := os.WriteFile(docs.CoverLetterPath, []byte(r.substitute(cover, res)), 0o644); err != nil {
		return Documents{}, fmt.Errorf("writing cover letter: %w", err)
	}

	r.logger.Info("rendered application documents",
		zap.String("employer", res.Posting.Employer),
		zap.String("variant", string(variant)),
		zap.String("resume", docs.ResumePath),
		zap.String("cover_letter", docs.CoverLetterPath),
	)

	return docs, nil
}

func (r *Renderer) variantConfig(variant Variant) profile.Variant {
	if variant == VariantExternal {
		return r.cache.Profile().External
	}
	return r.cache.Profile().Internal
}

// substitute fills the template placeholders from the result.
func (r *Renderer) substitute(tpl string, res *match.Result) string {
	replacer := strings.NewReplacer(
		"[Role]", res.Posting.Title,
		"[Company]", res.Posting.Employer,
		"[Date]", timeNow().Format("January 2, 2006"),
		"[Skills]", strings.Join(res.MatchedSkills, ", "),
	)
	return replacer.Replace(tpl)
}

func sanitizeCompany(employer string) string {
	employer = strings.ToLower(strings.TrimSpace(employer))
	if employer == "" {
		return "unknown"
	}
	return strings.Join(strings.Fields(employer), "_")
}
