package ai

import (
	"context"

	"github.com/seekwell/comms-prospector/internal/match"
)

// Draft is one generated cover letter.
type Draft struct {
	Subject string
	Body    string
	Raw     string
}

// Writer produces a tailored cover letter draft for a scored posting. The
// candidate summary is free-form text describing the candidate's background.
type Writer interface {
	Compose(ctx context.Context, result *match.Result, candidateSummary string) (*Draft, error)
}
