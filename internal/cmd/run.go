package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/jimezsa/jobber/internal/apply"
	"github.com/jimezsa/jobber/internal/browser"
	"github.com/jimezsa/jobber/internal/export"
	"github.com/jimezsa/jobber/internal/pipeline"
	"github.com/jimezsa/jobber/internal/scraper"
	"github.com/jimezsa/jobber/internal/store"
)

type RunCmd struct {
	Query     string `arg:"" optional:"" help:"Search query. Defaults to search.query from config."`
	Yes       bool   `short:"y" help:"Approve generated cover letters without asking."`
	DryRun    bool   `name:"dry-run" help:"Log applications instead of sending them."`
	SkipApply bool   `name:"skip-apply" help:"Stop after enrichment."`
	SearchOptions
	OutputOptions
}

func (r *RunCmd) Run(ctx *Context) error {
	params := r.params(ctx, r.Query)
	searchURL := ""
	if params.Query != "" {
		searchURL = scraper.BuildIndeedURL(params)
	}

	if err := os.MkdirAll(filepath.Dir(ctx.Config.DatabasePath), 0o755); err != nil {
		return err
	}
	lock := flock.New(ctx.Config.DatabasePath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !locked {
		return fmt.Errorf("another run is using %s", ctx.Config.DatabasePath)
	}
	defer lock.Unlock()

	runCtx, cancel := ctx.interruptible()
	defer cancel()

	jobs, err := ctx.openStore(runCtx)
	if err != nil {
		return err
	}
	defer jobs.Close()

	session, err := ctx.newSession(r.Proxies)
	if err != nil {
		return err
	}
	pairing, err := scraper.PairingByName(ctx.Config.Scan.Pairing)
	if err != nil {
		return err
	}

	driver := &pipeline.Driver{
		Jobs:        jobs,
		Session:     session,
		Scanner:     scraper.NewListingScanner(jobs, pairing, ctx.Logger),
		Enricher:    scraper.NewDetailEnricher(jobs, session, ctx.Logger),
		Concurrency: ctx.Config.Pipeline.Concurrency,
		SkipApply:   r.SkipApply,
		Logger:      ctx.Logger,
	}
	if !r.SkipApply {
		if err := r.wireApply(runCtx, ctx, driver, jobs, session); err != nil {
			return err
		}
	}

	report, runErr := driver.Run(runCtx, searchURL)

	out, err := openOutput(ctx, r.OutputOptions)
	if err != nil {
		return errors.Join(runErr, err)
	}
	defer out.Close()
	if err := export.WriteReport(out.w, report, out.format, out.opts); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// wireApply builds the resume once and connects cover letters and the
// sender to the driver.
func (r *RunCmd) wireApply(runCtx context.Context, ctx *Context, driver *pipeline.Driver, jobs *store.Store, session browser.Session) error {
	sender, err := ctx.sender(r.DryRun)
	if err != nil {
		return err
	}
	profile, err := ctx.profile()
	if err != nil {
		return err
	}

	resumePath, err := ctx.buildResume(runCtx, profile)
	if err != nil {
		return err
	}
	letters, err := ctx.letters(profile, r.Yes)
	if err != nil {
		return err
	}

	driver.Applier = apply.NewAgent(jobs, session, sender, ctx.agentOptions(), ctx.Logger)
	driver.Letters = letters
	driver.ResumePath = resumePath
	return nil
}
