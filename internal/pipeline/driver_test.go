package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jimezsa/jobber/internal/apply"
	"github.com/jimezsa/jobber/internal/browser"
	"github.com/jimezsa/jobber/internal/models"
	"github.com/jimezsa/jobber/internal/scraper"
	"github.com/jimezsa/jobber/internal/store"
	"github.com/rs/zerolog"
)

const (
	searchURL = "https://www.indeed.com/jobs?q=go&l=berlin"
	job1URL   = "https://www.indeed.com/viewjob?jk=1"
	job2URL   = "https://www.indeed.com/viewjob?jk=2"
)

const resultsHTML = `<html><body>
<div id="mosaic-jobResults"><ul>
<li><h2 class="jobTitle"><a class="jcs-JobTitle" href="/viewjob?jk=1"><span title="Go Engineer">Go Engineer</span></a></h2></li>
<li><h2 class="jobTitle"><a class="jcs-JobTitle" href="/viewjob?jk=2"><span title="Platform Engineer">Platform Engineer</span></a></h2></li>
</ul></div>
<div class="company_location">Acme</div><div class="company_location">Berlin</div>
<div class="company_location">Globex</div><div class="company_location">Remote</div>
</body></html>`

const job1HTML = `<html><body>
<div id="jobDescriptionText"><p>Build services in Go.</p></div>
<p>Questions? <a href="/contact">a@b.com</a></p>
<a href="https://acme.example/about">About Acme</a>
</body></html>`

const job2HTML = `<html><body>
<div id="salaryInfoAndJobType"><span>€70,000 a year</span></div>
<div id="jobDescriptionText"><p>Run the platform.</p></div>
<a href="https://globex.example/careers">Careers at Globex</a>
</body></html>`

const globexHTML = `<html><body>
<a href="/1">c@d.com</a>
<a href="/2">e@f.com</a>
</body></html>`

type recordingSender struct {
	to []string
}

func (s *recordingSender) Send(_ context.Context, to string, _ string, _ string, _ string) error {
	s.to = append(s.to, to)
	return nil
}

type fixedLetters struct {
	calls        []string
	descriptions []*string
	fail         map[string]error
}

func (f *fixedLetters) CoverLetter(_ context.Context, job models.Job) (string, error) {
	f.calls = append(f.calls, job.Title)
	f.descriptions = append(f.descriptions, job.Description)
	if err := f.fail[job.Title]; err != nil {
		return "", err
	}
	return "/tmp/cover_letter_" + job.ID + ".pdf", nil
}

func newDriver(t *testing.T, pages map[string]string) (*Driver, *store.Store, *recordingSender, *browser.Static) {
	t.Helper()
	jobs, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "jobber.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = jobs.Close() })

	session := browser.NewStatic(pages)
	sender := &recordingSender{}
	logger := zerolog.Nop()
	d := &Driver{
		Jobs:        jobs,
		Session:     session,
		Scanner:     scraper.NewListingScanner(jobs, scraper.PositionPairing{}, logger),
		Enricher:    scraper.NewDetailEnricher(jobs, session, logger),
		Applier:     apply.NewAgent(jobs, session, sender, apply.Options{MaxOutlinks: 50}, logger),
		Letters:     &fixedLetters{},
		ResumePath:  "/tmp/resume.pdf",
		Concurrency: 2,
		Logger:      logger,
	}
	return d, jobs, sender, session
}

func TestRunEndToEnd(t *testing.T) {
	d, jobs, sender, session := newDriver(t, map[string]string{
		searchURL:                        resultsHTML,
		job1URL:                          job1HTML,
		job2URL:                          job2HTML,
		"https://globex.example/careers": globexHTML,
	})

	report, err := d.Run(context.Background(), searchURL)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Scanned != 2 || report.Enriched != 2 || report.Applied != 2 || report.NotApplied != 0 {
		t.Fatalf("report = %+v, want 2 scanned, enriched and applied", report)
	}
	if len(report.Failures) != 0 {
		t.Fatalf("Failures = %v, want none", report.Failures)
	}
	if want := []string{"a@b.com", "c@d.com", "e@f.com"}; !reflect.DeepEqual(sender.to, want) {
		t.Fatalf("sent to %v, want %v", sender.to, want)
	}

	stored, err := store.Collect(jobs.List(context.Background()))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(stored) != 2 || stored[0].ID == stored[1].ID {
		t.Fatalf("stored = %+v, want 2 jobs with distinct ids", stored)
	}
	for _, job := range stored {
		if job.Status != models.StatusEnriched {
			t.Fatalf("job %s status = %q, want enriched", job.ID, job.Status)
		}
	}
	if got := models.Deref(stored[1].Salary, ""); got != "€70,000 a year" {
		t.Fatalf("job 2 salary = %q", got)
	}

	for _, visit := range session.Visits() {
		if visit == "https://acme.example/about" {
			t.Fatalf("visited an outlink of job 1 despite a direct email")
		}
	}
	if report.Outcomes[0].State != models.StateEmailFoundDirect || report.Outcomes[1].State != models.StateEmailFoundIndirect {
		t.Fatalf("outcome states = %q, %q", report.Outcomes[0].State, report.Outcomes[1].State)
	}
}

func TestRunExcludesFailedEnrichment(t *testing.T) {
	d, _, sender, _ := newDriver(t, map[string]string{
		searchURL: resultsHTML,
		job1URL:   job1HTML,
	})

	report, err := d.Run(context.Background(), searchURL)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Enriched != 1 || report.FailedAt(StageEnrich) != 1 {
		t.Fatalf("report = %+v, want one enriched and one failed", report)
	}
	if report.Failures[0].URL != job2URL {
		t.Fatalf("failed url = %q, want %q", report.Failures[0].URL, job2URL)
	}
	if len(report.Outcomes) != 1 || !reflect.DeepEqual(sender.to, []string{"a@b.com"}) {
		t.Fatalf("outcomes = %+v, sent = %v", report.Outcomes, sender.to)
	}
}

func TestRunContinuesWithStoredJobsWhenSearchFails(t *testing.T) {
	d, jobs, sender, _ := newDriver(t, map[string]string{
		job1URL: job1HTML,
	})
	if err := jobs.Put(context.Background(), models.Job{ID: "stored", Title: "Go Engineer", URL: job1URL}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	report, err := d.Run(context.Background(), searchURL)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Scanned != 0 || report.Enriched != 1 || report.Applied != 1 {
		t.Fatalf("report = %+v", report)
	}
	if !reflect.DeepEqual(sender.to, []string{"a@b.com"}) {
		t.Fatalf("sent to %v", sender.to)
	}
}

func TestRunSkipsJobWithoutCoverLetter(t *testing.T) {
	d, _, sender, _ := newDriver(t, map[string]string{
		searchURL:                        resultsHTML,
		job1URL:                          job1HTML,
		job2URL:                          job2HTML,
		"https://globex.example/careers": globexHTML,
	})
	letters := &fixedLetters{fail: map[string]error{"Go Engineer": errors.New("not approved")}}
	d.Letters = letters

	report, err := d.Run(context.Background(), searchURL)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.FailedAt(StageCoverLetter) != 1 || report.Applied != 1 {
		t.Fatalf("report = %+v, want one cover letter failure and one application", report)
	}
	if want := []string{"Go Engineer", "Platform Engineer"}; !reflect.DeepEqual(letters.calls, want) {
		t.Fatalf("cover letters requested for %v, want %v", letters.calls, want)
	}
	if want := []string{"c@d.com", "e@f.com"}; !reflect.DeepEqual(sender.to, want) {
		t.Fatalf("sent to %v, want %v", sender.to, want)
	}
}

// staleEnricher hands back the enriched record without its description, as
// a copy read before the store was updated would look.
type staleEnricher struct {
	next Enricher
}

func (e staleEnricher) Enrich(ctx context.Context, id string) (models.Job, error) {
	job, err := e.next.Enrich(ctx, id)
	job.Description = nil
	return job, err
}

func TestRunReadsJobFromStoreBeforeCoverLetter(t *testing.T) {
	d, _, _, _ := newDriver(t, map[string]string{
		searchURL:                        resultsHTML,
		job1URL:                          job1HTML,
		job2URL:                          job2HTML,
		"https://globex.example/careers": globexHTML,
	})
	d.Enricher = staleEnricher{next: d.Enricher}
	letters := &fixedLetters{}
	d.Letters = letters

	if _, err := d.Run(context.Background(), searchURL); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(letters.descriptions) != 2 {
		t.Fatalf("cover letters requested %d times, want 2", len(letters.descriptions))
	}
	for i, description := range letters.descriptions {
		if description == nil || *description == "" {
			t.Fatalf("cover letter %d got no description, want the stored one", i)
		}
	}
}

func TestRunSkipApply(t *testing.T) {
	d, _, sender, _ := newDriver(t, map[string]string{
		searchURL: resultsHTML,
		job1URL:   job1HTML,
		job2URL:   job2HTML,
	})
	d.SkipApply = true

	report, err := d.Run(context.Background(), searchURL)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Enriched != 2 || len(report.Outcomes) != 0 || len(sender.to) != 0 {
		t.Fatalf("report = %+v, sent = %v", report, sender.to)
	}
}
