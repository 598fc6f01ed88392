package pipeline

import (
	"context"
	"errors"
	"iter"

	"github.com/jimezsa/jobber/internal/apply"
	"github.com/jimezsa/jobber/internal/browser"
	"github.com/jimezsa/jobber/internal/models"
	"github.com/jimezsa/jobber/internal/scraper"
	"github.com/jimezsa/jobber/internal/store"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Scanner interface {
	Scan(ctx context.Context, page *browser.Page) ([]models.Job, error)
}

type Enricher interface {
	Enrich(ctx context.Context, id string) (models.Job, error)
}

type Applier interface {
	Apply(ctx context.Context, id string, artifacts apply.Artifacts) (models.Outcome, error)
}

// CoverLetterSource produces the cover letter file sent with a job's
// application.
type CoverLetterSource interface {
	CoverLetter(ctx context.Context, job models.Job) (string, error)
}

type JobStore interface {
	Get(ctx context.Context, id string) (models.Job, error)
	ListByStatus(ctx context.Context, status models.Status) iter.Seq2[models.Job, error]
}

// Driver runs one scan, enrichment and application pass.
type Driver struct {
	Jobs     JobStore
	Session  browser.Session
	Scanner  Scanner
	Enricher Enricher
	Applier  Applier
	// Letters may be nil, in which case no cover letter is attached.
	Letters    CoverLetterSource
	ResumePath string
	// Concurrency bounds parallel enrichment. Values below one mean one.
	Concurrency int
	// SkipApply stops the run after enrichment.
	SkipApply bool
	Logger    zerolog.Logger
}

// Run scans searchURL, enriches every discovered job, and applies to the
// jobs enriched by this run in listing order. Per-job failures are recorded
// in the report and never end the run; only store failures do.
func (d *Driver) Run(ctx context.Context, searchURL string) (Report, error) {
	var report Report

	scanned, err := d.scan(ctx, searchURL)
	if err != nil {
		return report, err
	}
	report.Scanned = len(scanned)

	enriched, err := d.enrich(ctx, &report)
	if err != nil {
		return report, err
	}
	report.Enriched = len(enriched)

	if d.SkipApply {
		return report, nil
	}
	for _, job := range enriched {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := d.apply(ctx, job, &report); err != nil {
			return report, err
		}
	}

	d.Logger.Info().
		Int("scanned", report.Scanned).
		Int("enriched", report.Enriched).
		Int("applied", report.Applied).
		Int("not_applied", report.NotApplied).
		Int("failures", len(report.Failures)).
		Msg("pipeline finished")
	return report, nil
}

func (d *Driver) scan(ctx context.Context, searchURL string) ([]models.Job, error) {
	if searchURL == "" {
		return nil, nil
	}
	log := d.Logger.With().Str("url", searchURL).Logger()

	page, err := d.Session.Navigate(ctx, searchURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn().Err(err).Msg("search page unavailable, continuing with stored jobs")
		return nil, nil
	}

	jobs, err := d.Scanner.Scan(ctx, page)
	if errors.Is(err, scraper.ErrNoResultsFound) {
		log.Warn().Err(err).Msg("no results on search page, continuing with stored jobs")
		return nil, nil
	}
	return jobs, err
}

func (d *Driver) enrich(ctx context.Context, report *Report) ([]models.Job, error) {
	var pending []models.Job
	for job, err := range d.Jobs.ListByStatus(ctx, models.StatusDiscovered) {
		if err != nil {
			return nil, err
		}
		pending = append(pending, job)
	}

	limit := d.Concurrency
	if limit < 1 {
		limit = 1
	}
	results := make([]*models.Job, len(pending))
	failures := make([]error, len(pending))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, job := range pending {
		g.Go(func() error {
			enriched, err := d.Enricher.Enrich(ctx, job.ID)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = &enriched
			return nil
		})
	}
	_ = g.Wait()

	var enriched []models.Job
	for i, job := range pending {
		if err := failures[i]; err != nil {
			d.Logger.Warn().Err(err).Str("job_id", job.ID).Str("url", job.URL).Msg("enrichment failed")
			report.fail(job, StageEnrich, err)
			continue
		}
		enriched = append(enriched, *results[i])
	}
	return enriched, nil
}

func (d *Driver) apply(ctx context.Context, job models.Job, report *Report) error {
	log := d.Logger.With().Str("job_id", job.ID).Str("url", job.URL).Logger()

	fresh, err := d.Jobs.Get(ctx, job.ID)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn().Msg("job removed before application")
		report.fail(job, StageApply, err)
		return nil
	}
	if err != nil {
		return err
	}

	artifacts := apply.Artifacts{ResumePath: d.ResumePath}
	if d.Letters != nil {
		path, err := d.Letters.CoverLetter(ctx, fresh)
		if err != nil {
			log.Warn().Err(err).Msg("cover letter unavailable")
			report.fail(fresh, StageCoverLetter, err)
			return nil
		}
		artifacts.CoverLetterPath = path
	}

	outcome, err := d.Applier.Apply(ctx, fresh.ID, artifacts)
	report.Outcomes = append(report.Outcomes, outcome)
	if outcome.Applied() {
		report.Applied++
	} else {
		report.NotApplied++
	}
	if err != nil {
		log.Warn().Err(err).Str("state", string(outcome.State)).Msg("application failed")
		report.fail(fresh, StageApply, err)
	}
	return nil
}
