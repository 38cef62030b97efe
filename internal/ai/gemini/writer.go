package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/seekwell/comms-prospector/internal/ai"
	"github.com/seekwell/comms-prospector/internal/match"
	"github.com/seekwell/comms-prospector/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	GenerateContentWithCache(ctx context.Context, prompt, cacheName string) (string, error)
	Model() string
}

// cachedSummaryNote replaces the inline candidate summary when the summary
// lives in a Gemini cached content resource attached to the request.
const cachedSummaryNote = "The candidate summary is attached to this request as cached context."

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

var retryBackoff = 2 * time.Second

// Writer composes cover letters with Gemini. It implements ai.Writer.
type Writer struct {
	generator  contentGenerator
	logger     *zap.Logger
	maxRetries int
	maxLogLen  int
	cacheName  string
}

func NewWriter(generator contentGenerator, logger *zap.Logger, maxRetries, maxLogLength int) *Writer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Writer{
		generator:  generator,
		logger:     logger,
		maxRetries: maxRetries,
		maxLogLen:  maxLogLength,
	}
}

// UseProfileCache makes subsequent Compose calls reference the named Gemini
// cached content resource instead of inlining the candidate summary into
// every prompt. An empty name restores the inline behavior.
func (w *Writer) UseProfileCache(name string) {
	w.cacheName = strings.TrimSpace(name)
}

func (w *Writer) Compose(ctx context.Context, result *match.Result, candidateSummary string) (*ai.Draft, error) {
	if result == nil || result.Posting == nil {
		return nil, fmt.Errorf("match result with posting is required")
	}
	if strings.TrimSpace(candidateSummary) == "" {
		return nil, fmt.Errorf("candidate summary is required")
	}

	postingPayload := map[string]any{
		"title":        result.Posting.Title,
		"employer":     result.Posting.Employer,
		"location":     result.Posting.Location(),
		"requirements": result.Requirements,
	}

	postingJSON, err := json.MarshalIndent(postingPayload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal posting payload: %w", err)
	}

	summary := candidateSummary
	if w.cacheName != "" {
		summary = cachedSummaryNote
	}
	prompt := buildPrompt(string(postingJSON), summary, result.MatchedSkills)

	w.logger.Debug("gemini compose request",
		zap.String("employer", result.Posting.Employer),
		zap.String("title", result.Posting.Title),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, w.maxLogLen)),
	)

	raw, err := w.generateWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	w.logger.Debug("gemini compose response",
		zap.String("employer", result.Posting.Employer),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, w.maxLogLen)),
	)

	draft, err := parseDraft(raw)
	if err != nil {
		return nil, err
	}

	draft.Raw = raw
	return draft, nil
}

func (w *Writer) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 {
			w.logger.Debug("retrying gemini request",
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			if err := utils.WaitFor(ctx, retryBackoff*time.Duration(attempt)); err != nil {
				return "", err
			}
		}

		var raw string
		var err error
		if w.cacheName != "" {
			raw, err = w.generator.GenerateContentWithCache(ctx, prompt, w.cacheName)
		} else {
			raw, err = w.generator.GenerateContent(ctx, prompt)
		}
		if err == nil {
			return raw, nil
		}
		lastErr = err
	}

	return "", fmt.Errorf("generating cover letter after %d attempts: %w", w.maxRetries+1, lastErr)
}

func buildPrompt(postingJSON, candidateSummary string, matchedSkills []string) string {
	skills := "- none"
	if len(matchedSkills) > 0 {
		skills = "- " + strings.Join(matchedSkills, "\n- ")
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{POSTING_JSON}}", postingJSON)
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATE_SUMMARY}}", strings.TrimSpace(candidateSummary))
	prompt = strings.ReplaceAll(prompt, "{{MATCHED_SKILLS}}", skills)
	return prompt
}

func parseDraft(raw string) (*ai.Draft, error) {
	cleaned := extractJSON(raw)

	var data struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	body := strings.TrimSpace(data.Body)
	if body == "" {
		return nil, fmt.Errorf("gemini response has no cover letter body")
	}

	return &ai.Draft{
		Subject: strings.TrimSpace(data.Subject),
		Body:    body,
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
