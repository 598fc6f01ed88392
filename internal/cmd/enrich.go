package cmd

import (
	"fmt"

	"github.com/jimezsa/jobber/internal/export"
	"github.com/jimezsa/jobber/internal/models"
	"github.com/jimezsa/jobber/internal/scraper"
)

type EnrichCmd struct {
	IDs     []string `arg:"" optional:"" help:"Job ids or id prefixes. Defaults to every discovered job."`
	Proxies string   `help:"Comma-separated proxy URLs." env:"JOBBER_PROXIES"`
	OutputOptions
}

func (e *EnrichCmd) Run(ctx *Context) error {
	runCtx, cancel := ctx.interruptible()
	defer cancel()

	jobs, err := ctx.openStore(runCtx)
	if err != nil {
		return err
	}
	defer jobs.Close()

	var ids []string
	if len(e.IDs) == 0 {
		for job, err := range jobs.ListByStatus(runCtx, models.StatusDiscovered) {
			if err != nil {
				return err
			}
			ids = append(ids, job.ID)
		}
	} else {
		for _, raw := range e.IDs {
			id, err := resolveJobID(runCtx, jobs, raw)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		ctx.UI.Infof("No jobs to enrich.")
		return nil
	}

	session, err := ctx.newSession(e.Proxies)
	if err != nil {
		return err
	}
	enricher := scraper.NewDetailEnricher(jobs, session, ctx.Logger)

	var enriched []models.Job
	failed := 0
	for _, id := range ids {
		job, err := enricher.Enrich(runCtx, id)
		if err != nil {
			if runCtx.Err() != nil {
				return runCtx.Err()
			}
			ctx.Logger.Warn().Err(err).Str("job_id", id).Msg("enrichment failed")
			failed++
			continue
		}
		enriched = append(enriched, job)
	}

	out, err := openOutput(ctx, e.OutputOptions)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := export.WriteJobs(out.w, enriched, out.format, out.opts); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed to enrich", failed, len(ids))
	}
	return nil
}
