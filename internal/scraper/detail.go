package scraper

import (
	"context"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/jimezsa/jobber/internal/browser"
	"github.com/jimezsa/jobber/internal/models"
	"github.com/rs/zerolog"
)

// DetailEnricher fills salary, benefits, description and apply action from
// a job's detail page.
type DetailEnricher struct {
	store     JobStore
	session   browser.Session
	selectors DetailSelectors
	markdown  *md.Converter
	logger    zerolog.Logger
}

func NewDetailEnricher(jobs JobStore, session browser.Session, logger zerolog.Logger) *DetailEnricher {
	return &DetailEnricher{
		store:     jobs,
		session:   session,
		selectors: IndeedDetail,
		markdown:  md.NewConverter("", true, nil),
		logger:    logger,
	}
}

// Enrich loads the job, navigates to its detail page and stores what it
// finds. A navigation error is returned untouched and the job is left as
// it was.
func (e *DetailEnricher) Enrich(ctx context.Context, id string) (models.Job, error) {
	job, err := e.store.Get(ctx, id)
	if err != nil {
		return models.Job{}, err
	}

	e.logger.Info().Str("job_id", job.ID).Str("url", job.URL).Msg("parsing job")
	page, err := e.session.Navigate(ctx, job.URL)
	if err != nil {
		return job, err
	}

	return e.store.Patch(ctx, job.ID, e.Extract(page))
}

// Extract reads the detail fields from page. Missing elements become
// sentinels, never errors.
func (e *DetailEnricher) Extract(page *browser.Page) models.JobPatch {
	enriched := models.StatusEnriched
	patch := models.JobPatch{
		Salary:      models.String(e.salary(page)),
		Benefits:    e.benefits(page),
		Description: models.String(e.description(page)),
		Status:      &enriched,
	}
	if action := e.applyAction(page); action != "" {
		patch.ApplyAction = models.String(action)
	}
	return patch
}

func (e *DetailEnricher) salary(page *browser.Page) string {
	el, err := page.Find(e.selectors.Salary)
	if err != nil {
		e.logger.Debug().Str("url", page.URL).Msg("no salary")
		return models.NotAvailable
	}
	if text := el.Text(); text != "" {
		return text
	}
	return models.NotAvailable
}

func (e *DetailEnricher) benefits(page *browser.Page) []string {
	benefits := []string{}
	section, err := page.Find(e.selectors.Benefits)
	if err != nil {
		return benefits
	}
	for _, item := range section.FindAll(e.selectors.Benefit) {
		if text := item.Text(); text != "" {
			benefits = append(benefits, text)
		}
	}
	return benefits
}

func (e *DetailEnricher) description(page *browser.Page) string {
	el, err := page.Find(e.selectors.Description)
	if err != nil {
		e.logger.Debug().Str("url", page.URL).Msg("no description")
		return models.NotAvailable
	}
	html, err := el.HTML()
	if err != nil || strings.TrimSpace(html) == "" {
		return models.NotAvailable
	}
	markdown, err := e.markdown.ConvertString(html)
	if err != nil {
		e.logger.Debug().Err(err).Str("url", page.URL).Msg("description conversion failed")
		return models.NotAvailable
	}
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return models.NotAvailable
	}
	return markdown
}

// applyAction returns the link of the first button mentioning "apply".
func (e *DetailEnricher) applyAction(page *browser.Page) string {
	for _, button := range page.FindAll(e.selectors.Buttons) {
		if strings.Contains(strings.ToLower(button.Text()), "apply") {
			return button.Href()
		}
	}
	return ""
}
