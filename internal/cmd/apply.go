package cmd

import (
	"github.com/jimezsa/jobber/internal/apply"
	"github.com/jimezsa/jobber/internal/export"
)

type ApplyCmd struct {
	ID          string `arg:"" help:"Job id or id prefix."`
	CoverLetter string `name:"cover-letter" help:"Cover letter to attach. Generated from the job description when empty." type:"existingfile"`
	Resume      string `help:"Resume to attach. Built from the profile when empty." type:"existingfile"`
	Yes         bool   `short:"y" help:"Approve generated cover letters without asking."`
	DryRun      bool   `name:"dry-run" help:"Log applications instead of sending them."`
	Proxies     string `help:"Comma-separated proxy URLs." env:"JOBBER_PROXIES"`
	OutputOptions
}

func (a *ApplyCmd) Run(ctx *Context) error {
	runCtx, cancel := ctx.interruptible()
	defer cancel()

	jobs, err := ctx.openStore(runCtx)
	if err != nil {
		return err
	}
	defer jobs.Close()

	id, err := resolveJobID(runCtx, jobs, a.ID)
	if err != nil {
		return err
	}
	job, err := jobs.Get(runCtx, id)
	if err != nil {
		return err
	}

	sender, err := ctx.sender(a.DryRun)
	if err != nil {
		return err
	}

	artifacts := apply.Artifacts{CoverLetterPath: a.CoverLetter, ResumePath: a.Resume}
	if artifacts.CoverLetterPath == "" || artifacts.ResumePath == "" {
		profile, err := ctx.profile()
		if err != nil {
			return err
		}
		if artifacts.ResumePath == "" {
			if artifacts.ResumePath, err = ctx.buildResume(runCtx, profile); err != nil {
				return err
			}
		}
		if artifacts.CoverLetterPath == "" {
			letters, err := ctx.letters(profile, a.Yes)
			if err != nil {
				return err
			}
			if artifacts.CoverLetterPath, err = letters.CoverLetter(runCtx, job); err != nil {
				return err
			}
		}
	}

	session, err := ctx.newSession(a.Proxies)
	if err != nil {
		return err
	}
	agent := apply.NewAgent(jobs, session, sender, ctx.agentOptions(), ctx.Logger)
	outcome, applyErr := agent.Apply(runCtx, job.ID, artifacts)

	out, err := openOutput(ctx, a.OutputOptions)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := export.WriteOutcome(out.w, outcome, out.format, out.opts); err != nil {
		return err
	}
	return applyErr
}
