package coverletter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jimezsa/jobber/internal/models"
	"github.com/rs/zerolog"
)

// ErrNotApproved is returned when every generated letter was rejected.
var ErrNotApproved = errors.New("cover letter not approved")

// Approver decides whether a generated letter is good enough to send.
type Approver interface {
	Approve(ctx context.Context, job models.Job, letter string) (bool, error)
}

// AutoApprove accepts every letter.
type AutoApprove struct{}

func (AutoApprove) Approve(context.Context, models.Job, string) (bool, error) {
	return true, nil
}

// Converter turns a Markdown file into the artifact that gets attached.
type Converter interface {
	Convert(ctx context.Context, markdownPath string) (string, error)
}

// PDFCommand runs `<Path> <md> <pdf> [--css <Stylesheet>]`. An empty Path
// keeps the Markdown file as the artifact.
type PDFCommand struct {
	Path       string
	Stylesheet string
}

func (c PDFCommand) Convert(ctx context.Context, markdownPath string) (string, error) {
	if strings.TrimSpace(c.Path) == "" {
		return markdownPath, nil
	}
	pdfPath := strings.TrimSuffix(markdownPath, filepath.Ext(markdownPath)) + ".pdf"
	args := []string{markdownPath, pdfPath}
	if c.Stylesheet != "" {
		args = append(args, "--css", c.Stylesheet)
	}
	out, err := exec.CommandContext(ctx, c.Path, args...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("convert %s: %w: %s", markdownPath, err, strings.TrimSpace(string(out)))
	}
	return pdfPath, nil
}

// Letters generates, approves and renders one cover letter per job.
type Letters struct {
	Generator Generator
	Approver  Approver
	Converter Converter
	Profile   models.Profile
	Dir       string
	// MaxAttempts bounds generate/approve rounds. Zero means three.
	MaxAttempts int
	// Budget may be nil.
	Budget *Budget
	Logger zerolog.Logger
}

func (l *Letters) CoverLetter(ctx context.Context, job models.Job) (string, error) {
	log := l.Logger.With().Str("job_id", job.ID).Str("url", job.URL).Logger()

	description := models.Deref(job.Description, models.NotAvailable)
	description = l.Budget.Trim(description)

	attempts := l.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	approver := l.Approver
	if approver == nil {
		approver = AutoApprove{}
	}

	var letter string
	for attempt := 1; ; attempt++ {
		if attempt > attempts {
			return "", fmt.Errorf("%w after %d attempts", ErrNotApproved, attempts)
		}
		generated, err := l.Generator.Generate(ctx, description, l.Profile)
		if err != nil {
			return "", err
		}
		ok, err := approver.Approve(ctx, job, generated)
		if err != nil {
			return "", err
		}
		if ok {
			letter = generated
			break
		}
		log.Info().Int("attempt", attempt).Msg("cover letter rejected")
	}

	dir := l.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	markdownPath := filepath.Join(dir, "cover_letter_"+job.ID+".md")
	if err := os.WriteFile(markdownPath, []byte(letter+"\n"), 0o644); err != nil {
		return "", err
	}

	converter := l.Converter
	if converter == nil {
		converter = PDFCommand{}
	}
	path, err := converter.Convert(ctx, markdownPath)
	if err != nil {
		return "", err
	}
	log.Info().Str("path", path).Msg("cover letter ready")
	return path, nil
}
