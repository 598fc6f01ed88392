package apply

import (
	"context"

	"github.com/rs/zerolog"
)

// DryRun logs applications instead of sending them.
type DryRun struct {
	Logger zerolog.Logger
}

func (d DryRun) Send(_ context.Context, to string, subject string, coverLetterPath string, resumePath string) error {
	d.Logger.Info().
		Str("to", to).
		Str("subject", subject).
		Str("cover_letter", coverLetterPath).
		Str("resume", resumePath).
		Msg("dry run: application not sent")
	return nil
}
