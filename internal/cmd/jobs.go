package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jimezsa/jobber/internal/export"
	"github.com/jimezsa/jobber/internal/models"
	"github.com/jimezsa/jobber/internal/store"
)

type JobsCmd struct {
	List   ListJobsCmd  `cmd:"" help:"List stored jobs."`
	Show   ShowJobCmd   `cmd:"" help:"Show one job with its description."`
	Delete DeleteJobCmd `cmd:"" help:"Delete a job."`
}

type ListJobsCmd struct {
	Status string `help:"Only jobs with this status." enum:",discovered,enriched" default:""`
	OutputOptions
}

type ShowJobCmd struct {
	ID     string `arg:"" help:"Job id or id prefix."`
	Format string `help:"Output format: table, json, md." enum:",table,json,md" default:""`
}

type DeleteJobCmd struct {
	ID string `arg:"" help:"Job id or id prefix."`
}

var ErrAmbiguousID = errors.New("ambiguous job id")

func (l *ListJobsCmd) Run(ctx *Context) error {
	runCtx, cancel := ctx.interruptible()
	defer cancel()

	jobs, err := ctx.openStore(runCtx)
	if err != nil {
		return err
	}
	defer jobs.Close()

	seq := jobs.List(runCtx)
	if l.Status != "" {
		seq = jobs.ListByStatus(runCtx, models.Status(l.Status))
	}
	list, err := store.Collect(seq)
	if err != nil {
		return err
	}

	out, err := openOutput(ctx, l.OutputOptions)
	if err != nil {
		return err
	}
	defer out.Close()
	return export.WriteJobs(out.w, list, out.format, out.opts)
}

func (s *ShowJobCmd) Run(ctx *Context) error {
	runCtx, cancel := ctx.interruptible()
	defer cancel()

	jobs, err := ctx.openStore(runCtx)
	if err != nil {
		return err
	}
	defer jobs.Close()

	id, err := resolveJobID(runCtx, jobs, s.ID)
	if err != nil {
		return err
	}
	job, err := jobs.Get(runCtx, id)
	if err != nil {
		return err
	}

	format, err := resolveFormat(ctx, OutputOptions{Format: s.Format}, "")
	if err != nil {
		return err
	}
	return export.WriteJob(ctx.Out, job, format)
}

func (d *DeleteJobCmd) Run(ctx *Context) error {
	runCtx, cancel := ctx.interruptible()
	defer cancel()

	jobs, err := ctx.openStore(runCtx)
	if err != nil {
		return err
	}
	defer jobs.Close()

	id, err := resolveJobID(runCtx, jobs, d.ID)
	if err != nil {
		return err
	}
	if err := jobs.Delete(runCtx, id); err != nil {
		return err
	}
	ctx.UI.Successf("Deleted %s", id)
	return nil
}

// resolveJobID accepts a full id or a unique prefix of one, as printed by
// the table output.
func resolveJobID(ctx context.Context, jobs *store.Store, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("job id is empty")
	}
	if _, err := jobs.Get(ctx, raw); err == nil {
		return raw, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	var matches []string
	for job, err := range jobs.List(ctx) {
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(job.ID, raw) {
			matches = append(matches, job.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("job %s: %w", raw, store.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %d jobs", ErrAmbiguousID, raw, len(matches))
	}
}
