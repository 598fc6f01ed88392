package apply

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jimezsa/jobber/internal/browser"
	"github.com/jimezsa/jobber/internal/models"
	"github.com/jimezsa/jobber/internal/store"
	"github.com/rs/zerolog"
)

// ErrJobNotFound is returned when the job to apply to is not stored. It
// matches store.ErrNotFound as well.
var ErrJobNotFound = fmt.Errorf("apply: %w", store.ErrNotFound)

// JobReader is the read side of the job store.
type JobReader interface {
	Get(ctx context.Context, id string) (models.Job, error)
}

// Sender delivers one application email.
type Sender interface {
	Send(ctx context.Context, to string, subject string, coverLetterPath string, resumePath string) error
}

// Artifacts are the files attached to every application.
type Artifacts struct {
	CoverLetterPath string
	ResumePath      string
}

type Options struct {
	// MaxOutlinks caps how many outlinks are visited. Zero means no cap.
	MaxOutlinks int
	// SkipUnreachable treats an outlink that fails to load as "no match"
	// instead of ending the traversal.
	SkipUnreachable bool
	Matcher         Matcher
}

// Agent looks for a contact email on a job's page, then one hop out, and
// sends the application to what it finds.
type Agent struct {
	jobs    JobReader
	session browser.Session
	sender  Sender
	opts    Options
	logger  zerolog.Logger
}

func NewAgent(jobs JobReader, session browser.Session, sender Sender, opts Options, logger zerolog.Logger) *Agent {
	return &Agent{
		jobs:    jobs,
		session: session,
		sender:  sender,
		opts:    opts,
		logger:  logger,
	}
}

// Apply runs one application attempt for the job with id. The returned
// outcome is valid even when an error is returned.
func (a *Agent) Apply(ctx context.Context, id string, artifacts Artifacts) (models.Outcome, error) {
	outcome := models.Outcome{JobID: id, Result: models.ResultNotApplied, State: models.StateStart}

	job, err := a.jobs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return outcome, fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return outcome, err
	}
	outcome.Title = job.Title
	log := a.logger.With().Str("job_id", job.ID).Str("url", job.URL).Logger()

	page, err := a.session.Navigate(ctx, job.URL)
	if err != nil {
		return outcome, err
	}
	outcome.State = models.StateOnDetailPage

	anchors := page.FindAll("a")
	if emails := a.opts.Matcher.Emails(anchors); len(emails) > 0 {
		outcome.State = models.StateEmailFoundDirect
		outcome.Source = page.URL
		log.Info().Str("email", emails[0]).Msg("found email on job page")
		return a.submit(ctx, outcome, job, emails[:1], artifacts)
	}

	outcome.State = models.StateScanningOutlinks
	for _, target := range a.outlinks(anchors) {
		outcome.Visited = append(outcome.Visited, target)

		next, err := a.session.Navigate(ctx, target)
		if err != nil {
			if a.opts.SkipUnreachable && ctx.Err() == nil {
				log.Warn().Err(err).Str("outlink", target).Msg("outlink unreachable")
				continue
			}
			return outcome, err
		}

		emails := a.opts.Matcher.Emails(next.FindAll("a"))
		if len(emails) == 0 {
			continue
		}
		outcome.State = models.StateEmailFoundIndirect
		outcome.Source = next.URL
		log.Info().Strs("emails", emails).Str("outlink", target).Msg("found email on outlink")
		return a.submit(ctx, outcome, job, emails, artifacts)
	}

	outcome.State = models.StateExhausted
	log.Info().Int("visited", len(outcome.Visited)).Msg("no email found")
	return outcome, nil
}

func (a *Agent) submit(ctx context.Context, outcome models.Outcome, job models.Job, emails []string, artifacts Artifacts) (models.Outcome, error) {
	for _, email := range emails {
		if err := a.sender.Send(ctx, email, job.Title, artifacts.CoverLetterPath, artifacts.ResumePath); err != nil {
			return outcome, fmt.Errorf("send application for %s to %s: %w", job.ID, email, err)
		}
		outcome.Emails = append(outcome.Emails, email)
	}
	outcome.Result = models.ResultApplied
	return outcome, nil
}

// outlinks returns the distinct http(s) targets of anchors, capped by
// MaxOutlinks.
func (a *Agent) outlinks(anchors []*browser.Element) []string {
	var targets []string
	seen := map[string]struct{}{}
	for _, anchor := range anchors {
		target := anchor.Href()
		if !navigable(target) {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		targets = append(targets, target)
		if a.opts.MaxOutlinks > 0 && len(targets) >= a.opts.MaxOutlinks {
			break
		}
	}
	return targets
}

func navigable(target string) bool {
	if target == "" {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
