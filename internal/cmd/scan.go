package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"

	"github.com/jimezsa/jobber/internal/browser"
	"github.com/jimezsa/jobber/internal/export"
	"github.com/jimezsa/jobber/internal/models"
	"github.com/jimezsa/jobber/internal/scraper"
)

type SearchOptions struct {
	Location string `help:"Job location." env:"JOBBER_LOCATION"`
	Country  string `help:"Country code for the Indeed domain." env:"JOBBER_COUNTRY"`
	Offset   int    `help:"Result offset for pagination."`
	Proxies  string `help:"Comma-separated proxy URLs." env:"JOBBER_PROXIES"`
}

func (o SearchOptions) params(ctx *Context, query string) models.SearchParams {
	return models.SearchParams{
		Query:    strings.TrimSpace(firstNonEmpty(query, ctx.Config.Search.Query)),
		Location: strings.TrimSpace(firstNonEmpty(o.Location, ctx.Config.Search.Location)),
		Country:  strings.TrimSpace(firstNonEmpty(o.Country, ctx.Config.Search.Country)),
		Offset:   o.Offset,
	}
}

type ScanCmd struct {
	Query    string `arg:"" optional:"" help:"Search query. Defaults to search.query from config."`
	FromFile string `name:"from-file" help:"Parse a saved results page instead of fetching one." type:"existingfile"`
	SearchOptions
	OutputOptions
}

func (s *ScanCmd) Run(ctx *Context) error {
	params := s.params(ctx, s.Query)
	if params.Query == "" && s.FromFile == "" {
		return errors.New("query is required (argument or search.query in config)")
	}
	searchURL := scraper.BuildIndeedURL(params)

	runCtx, cancel := ctx.interruptible()
	defer cancel()

	page, err := s.loadPage(runCtx, ctx, searchURL)
	if err != nil {
		return err
	}

	jobs, err := ctx.openStore(runCtx)
	if err != nil {
		return err
	}
	defer jobs.Close()

	pairing, err := scraper.PairingByName(ctx.Config.Scan.Pairing)
	if err != nil {
		return err
	}
	scanner := scraper.NewListingScanner(jobs, pairing, ctx.Logger)
	found, err := scanner.Scan(runCtx, page)
	if errors.Is(err, scraper.ErrNoResultsFound) {
		ctx.UI.Warnf("No results on %s", page.URL)
		return nil
	}
	if err != nil {
		return err
	}

	out, err := openOutput(ctx, s.OutputOptions)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := export.WriteJobs(out.w, found, out.format, out.opts); err != nil {
		return err
	}
	if s.Output != "" {
		ctx.UI.Successf("Wrote %d jobs to %s", len(found), s.Output)
	}
	return nil
}

func (s *ScanCmd) loadPage(runCtx context.Context, ctx *Context, searchURL string) (*browser.Page, error) {
	if s.FromFile != "" {
		data, err := os.ReadFile(s.FromFile)
		if err != nil {
			return nil, err
		}
		return browser.NewPage(searchURL, bytes.NewReader(data))
	}

	session, err := ctx.newSession(s.Proxies)
	if err != nil {
		return nil, err
	}
	stop := startIndicator(ctx, "Scanning")
	defer stop()
	return session.Navigate(runCtx, searchURL)
}
