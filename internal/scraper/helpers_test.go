package scraper

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jimezsa/jobber/internal/browser"
	"github.com/jimezsa/jobber/internal/store"
)

const resultsURL = "https://www.indeed.com/jobs?q=go&l=ny"

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "jobber.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustPage(t *testing.T, pageURL string, html string) *browser.Page {
	t.Helper()
	page, err := browser.NewPage(pageURL, strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	return page
}

func resultItem(jk string, title string) string {
	return `<li><div class="job_seen_beacon"><h2 class="jobTitle"><a class="jcs-JobTitle" href="/viewjob?jk=` + jk + `"><span title="` + title + `">` + title + `</span></a></h2></div></li>`
}

func resultsPage(items []string, spans []string) string {
	var b strings.Builder
	b.WriteString(`<html><body><main><div id="mosaic-jobResults"><ul>`)
	for _, item := range items {
		b.WriteString(item)
	}
	b.WriteString(`</ul></div>`)
	for _, span := range spans {
		b.WriteString(`<div class="company_location">` + span + `</div>`)
	}
	b.WriteString(`</main></body></html>`)
	return b.String()
}
